package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/internal/handlers"
	"github.com/taskboard-dev/taskboard/internal/testutil"
)

func createSubtask(t *testing.T, r *gin.Engine, token string, taskID uint, title string) handlers.SubtaskResponse {
	t.Helper()

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/subtasks", token, map[string]interface{}{
		"task_id": taskID,
		"title":   title,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create subtask status = %d, body %s", w.Code, w.Body.String())
	}

	var subtask handlers.SubtaskResponse
	testutil.Decode(t, w, &subtask)

	return subtask
}

func TestCreateSubtask(t *testing.T) {
	r := testutil.SetupRouter(t, "subtask_create")

	_, token := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")

	task := createTask(t, r, token, map[string]interface{}{
		"title": "Parent", "due_date": dateFromNow(1), "priority": "low",
	})

	subtask := createSubtask(t, r, token, task.ID, "Child")

	if subtask.TaskID != task.ID {
		t.Errorf("task_id = %d, want %d", subtask.TaskID, task.ID)
	}

	if subtask.Completed {
		t.Error("fresh subtask should not be completed")
	}
}

func TestCreateSubtaskUnderForeignTask(t *testing.T) {
	r := testutil.SetupRouter(t, "subtask_create_foreign")

	_, adaToken := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")
	_, graceToken := testutil.CreateUser(t, "Grace", "grace@example.com", "password123")

	task := createTask(t, r, adaToken, map[string]interface{}{
		"title": "Private", "due_date": dateFromNow(1), "priority": "low",
	})

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/subtasks", graceToken, map[string]interface{}{
		"task_id": task.ID,
		"title":   "Sneaky",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d for foreign parent", w.Code, http.StatusNotFound)
	}

	var resp errorResponse
	testutil.Decode(t, w, &resp)

	if resp.Error != "Task not found" {
		t.Errorf("error = %q, want %q", resp.Error, "Task not found")
	}
}

func TestCreateSubtaskValidation(t *testing.T) {
	r := testutil.SetupRouter(t, "subtask_create_validation")

	_, token := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")

	task := createTask(t, r, token, map[string]interface{}{
		"title": "Parent", "due_date": dateFromNow(1), "priority": "low",
	})

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"task_id": task.ID}},
		{"missing task id", map[string]interface{}{"title": "Child"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.DoJSON(t, r, http.MethodPost, "/api/subtasks", token, tc.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d, body %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestListSubtasks(t *testing.T) {
	r := testutil.SetupRouter(t, "subtask_list")

	_, adaToken := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")
	_, graceToken := testutil.CreateUser(t, "Grace", "grace@example.com", "password123")

	first := createTask(t, r, adaToken, map[string]interface{}{
		"title": "First", "due_date": dateFromNow(1), "priority": "low",
	})
	second := createTask(t, r, adaToken, map[string]interface{}{
		"title": "Second", "due_date": dateFromNow(2), "priority": "low",
	})
	foreign := createTask(t, r, graceToken, map[string]interface{}{
		"title": "Foreign", "due_date": dateFromNow(3), "priority": "low",
	})

	createSubtask(t, r, adaToken, first.ID, "A1")
	createSubtask(t, r, adaToken, first.ID, "A2")
	createSubtask(t, r, adaToken, second.ID, "B1")
	createSubtask(t, r, graceToken, foreign.ID, "C1")

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/subtasks", adaToken, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var subtasks []handlers.SubtaskResponse
	testutil.Decode(t, w, &subtasks)

	if len(subtasks) != 3 {
		t.Fatalf("len(subtasks) = %d, want 3 (no leakage across users)", len(subtasks))
	}

	w = testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/api/subtasks?task_id=%d", first.ID), adaToken, nil)
	testutil.Decode(t, w, &subtasks)

	if len(subtasks) != 2 {
		t.Fatalf("filtered subtasks = %d, want 2", len(subtasks))
	}

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/subtasks?task_id=abc", adaToken, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d for malformed filter", w.Code, http.StatusBadRequest)
	}
}

func TestGetSubtaskScoping(t *testing.T) {
	r := testutil.SetupRouter(t, "subtask_get_scoping")

	_, adaToken := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")
	_, graceToken := testutil.CreateUser(t, "Grace", "grace@example.com", "password123")

	task := createTask(t, r, adaToken, map[string]interface{}{
		"title": "Parent", "due_date": dateFromNow(1), "priority": "low",
	})
	subtask := createSubtask(t, r, adaToken, task.ID, "Child")

	w := testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/api/subtasks/%d", subtask.ID), graceToken, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d for foreign subtask", w.Code, http.StatusNotFound)
	}

	w = testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/api/subtasks/%d", subtask.ID), adaToken, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d for own subtask", w.Code, http.StatusOK)
	}
}

func TestUpdateSubtask(t *testing.T) {
	r := testutil.SetupRouter(t, "subtask_update")

	_, token := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")

	task := createTask(t, r, token, map[string]interface{}{
		"title": "Parent", "due_date": dateFromNow(1), "priority": "low",
	})
	subtask := createSubtask(t, r, token, task.ID, "Child")

	w := testutil.DoJSON(t, r, http.MethodPut, fmt.Sprintf("/api/subtasks/%d", subtask.ID), token, map[string]interface{}{
		"title":     "Renamed",
		"completed": true,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var updated handlers.SubtaskResponse
	testutil.Decode(t, w, &updated)

	if updated.Title != "Renamed" || !updated.Completed {
		t.Errorf("update not applied: %+v", updated)
	}

	// PUT is a full replacement, both fields must be present.
	w = testutil.DoJSON(t, r, http.MethodPut, fmt.Sprintf("/api/subtasks/%d", subtask.ID), token, map[string]interface{}{
		"title": "No completed flag",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d without completed", w.Code, http.StatusBadRequest)
	}
}

func TestPatchSubtask(t *testing.T) {
	r := testutil.SetupRouter(t, "subtask_patch")

	_, token := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")

	task := createTask(t, r, token, map[string]interface{}{
		"title": "Parent", "due_date": dateFromNow(1), "priority": "low",
	})
	subtask := createSubtask(t, r, token, task.ID, "Child")

	w := testutil.DoJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/subtasks/%d", subtask.ID), token, map[string]interface{}{
		"completed": true,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var patched handlers.SubtaskResponse
	testutil.Decode(t, w, &patched)

	if !patched.Completed {
		t.Error("completed should be true after patch")
	}

	if patched.Title != "Child" {
		t.Errorf("title = %q, patch must not touch it", patched.Title)
	}

	// Flipping back to false still counts as a field.
	w = testutil.DoJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/subtasks/%d", subtask.ID), token, map[string]interface{}{
		"completed": false,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	testutil.Decode(t, w, &patched)

	if patched.Completed {
		t.Error("completed should be false again")
	}

	w = testutil.DoJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/subtasks/%d", subtask.ID), token, map[string]interface{}{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d for empty patch", w.Code, http.StatusBadRequest)
	}
}

func TestDeleteSubtask(t *testing.T) {
	r := testutil.SetupRouter(t, "subtask_delete")

	_, token := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")

	task := createTask(t, r, token, map[string]interface{}{
		"title": "Parent", "due_date": dateFromNow(1), "priority": "low",
	})
	subtask := createSubtask(t, r, token, task.ID, "Child")

	w := testutil.DoJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/subtasks/%d", subtask.ID), token, nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}

	w = testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/api/subtasks/%d", subtask.ID), token, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d after deletion", w.Code, http.StatusNotFound)
	}

	// The parent task survives its subtasks.
	w = testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), token, nil)

	if w.Code != http.StatusOK {
		t.Errorf("task status = %d, want %d", w.Code, http.StatusOK)
	}
}
