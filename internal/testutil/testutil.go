package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/auth"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/router"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret"

// OpenInMemoryDB opens a named in-memory SQLite database, migrates the
// schema and points db.DB at it for the duration of the test. The name keeps
// databases of different tests apart.
func OpenInMemoryDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	previous := db.DB
	db.DB = gdb

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
		db.DB = previous
	})

	return gdb
}

// SetupRouter boots the full API against an in-memory database.
func SetupRouter(t *testing.T, name string) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	OpenInMemoryDB(t, name)

	if err := auth.Init(TestSecret, time.Hour, time.Hour); err != nil {
		t.Fatalf("failed to initialize auth: %v", err)
	}

	return router.NewRouter()
}

// CreateUser inserts a user directly and returns it along with a valid token.
func CreateUser(t *testing.T, username string, email string, password string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return user, token
}

// CreateGuest inserts a guest user with the given creation time and returns
// it along with a valid token.
func CreateGuest(t *testing.T, createdAt time.Time) (models.User, string) {
	t.Helper()

	guest := models.User{
		Username:     "Guest",
		Email:        fmt.Sprintf("guest-%d@guest.invalid", time.Now().UnixNano()),
		PasswordHash: "x",
		IsGuest:      true,
	}

	if err := db.DB.Create(&guest).Error; err != nil {
		t.Fatalf("failed to create guest: %v", err)
	}

	if err := db.DB.Model(&guest).UpdateColumn("created_at", createdAt).Error; err != nil {
		t.Fatalf("failed to backdate guest: %v", err)
	}

	token, err := auth.GenerateGuestJWT(guest.ID, guest.Email)
	if err != nil {
		t.Fatalf("failed to generate guest token: %v", err)
	}

	return guest, token
}

// DoJSON performs a JSON request against the router. An empty token leaves
// the Authorization header unset.
func DoJSON(t *testing.T, r *gin.Engine, method string, path string, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// Decode unmarshals a response body into out.
func Decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
