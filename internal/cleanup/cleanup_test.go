package cleanup

import (
	"net/http"
	"testing"
	"time"

	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/testutil"
)

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64

	if err := db.DB.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	return count
}

func TestPurgeExpiredGuests(t *testing.T) {
	r := testutil.SetupRouter(t, "cleanup_purge")

	expired, expiredToken := testutil.CreateGuest(t, time.Now().Add(-48*time.Hour))
	fresh, _ := testutil.CreateGuest(t, time.Now())
	registered, _ := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")

	// Give the expired guest some data so the cascades have something to do.
	w := testutil.DoJSON(t, r, http.MethodPost, "/api/contacts", expiredToken, map[string]interface{}{
		"name":  "Grace",
		"email": "grace@example.com",
		"phone": "123",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create contact status = %d, body %s", w.Code, w.Body.String())
	}

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", expiredToken, map[string]interface{}{
		"title":    "Guest task",
		"due_date": time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02"),
		"priority": "low",
		"subtasks": []map[string]interface{}{
			{"title": "Guest subtask"},
		},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create task status = %d, body %s", w.Code, w.Body.String())
	}

	var task struct {
		ID uint `json:"id"`
	}
	testutil.Decode(t, w, &task)

	sweeper := NewSweeper(time.Hour, 24*time.Hour)

	purged, err := sweeper.PurgeExpiredGuests()

	if err != nil {
		t.Fatalf("PurgeExpiredGuests: %v", err)
	}

	if purged != 1 {
		t.Fatalf("purged = %d, want 1", purged)
	}

	if countRows(t, &models.User{}, "id = ?", expired.ID) != 0 {
		t.Error("expired guest still present")
	}

	if countRows(t, &models.User{}, "id = ?", fresh.ID) != 1 {
		t.Error("fresh guest was purged")
	}

	if countRows(t, &models.User{}, "id = ?", registered.ID) != 1 {
		t.Error("registered user was purged")
	}

	if countRows(t, &models.Profile{}, "user_id = ?", expired.ID) != 0 {
		t.Error("profile survived the purge")
	}

	if countRows(t, &models.Contact{}, "owner_id = ?", expired.ID) != 0 {
		t.Error("contacts survived the purge")
	}

	if countRows(t, &models.Task{}, "owner_id = ?", expired.ID) != 0 {
		t.Error("tasks survived the purge")
	}

	if countRows(t, &models.Subtask{}, "task_id = ?", task.ID) != 0 {
		t.Error("subtasks survived the purge")
	}
}

func TestPurgeKeepsRegisteredUsersForever(t *testing.T) {
	testutil.SetupRouter(t, "cleanup_keeps_registered")

	user, _ := testutil.CreateUser(t, "Ada", "ada@example.com", "password123")

	// Backdate the account far beyond any TTL.
	if err := db.DB.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("created_at", time.Now().Add(-365*24*time.Hour)).Error; err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	sweeper := NewSweeper(time.Hour, 24*time.Hour)

	purged, err := sweeper.PurgeExpiredGuests()

	if err != nil {
		t.Fatalf("PurgeExpiredGuests: %v", err)
	}

	if purged != 0 {
		t.Errorf("purged = %d, want 0", purged)
	}

	if countRows(t, &models.User{}, "id = ?", user.ID) != 1 {
		t.Error("registered user was purged")
	}
}

func TestPurgedGuestTokenRejected(t *testing.T) {
	r := testutil.SetupRouter(t, "cleanup_token_rejected")

	_, token := testutil.CreateGuest(t, time.Now().Add(-48*time.Hour))

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d before the purge", w.Code, http.StatusOK)
	}

	sweeper := NewSweeper(time.Hour, 24*time.Hour)

	if _, err := sweeper.PurgeExpiredGuests(); err != nil {
		t.Fatalf("PurgeExpiredGuests: %v", err)
	}

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d after the purge", w.Code, http.StatusUnauthorized)
	}
}

func TestSweeperRunsOnStart(t *testing.T) {
	testutil.SetupRouter(t, "cleanup_start")

	expired, _ := testutil.CreateGuest(t, time.Now().Add(-48*time.Hour))

	sweeper := NewSweeper(time.Hour, 24*time.Hour)
	sweeper.Start()
	defer sweeper.Stop()

	deadline := time.Now().Add(2 * time.Second)

	for time.Now().Before(deadline) {
		if countRows(t, &models.User{}, "id = ?", expired.ID) == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("expired guest not purged by the initial sweep")
}
