package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skyreserve/backend/internal/models/entities"
)

func TestHealthCheckReportsUpSince(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to unwrap sql.DB: %v", err)
	}
	db := sqlx.NewDb(sqlDB, "sqlite3")

	upSince := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	handler := HealthCheckHandler(db, upSince)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp entities.HealthCheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Expected status ok, got %q", resp.Status)
	}
	if !resp.UpSince.Equal(upSince) {
		t.Errorf("Expected up_since %v, got %v", upSince, resp.UpSince)
	}
	if resp.Uptime == "" {
		t.Error("Expected a non-empty uptime")
	}
}
