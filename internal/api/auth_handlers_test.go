package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/db/repositories"
	gormModels "skyreserve/backend/internal/models/gorm"
	"skyreserve/backend/internal/services"
)

func setupRegistrationService(t *testing.T) *services.RegistrationService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&gormModels.Airline{},
		&gormModels.Customer{},
		&gormModels.BookingAgent{},
		&gormModels.BookingAgentAirline{},
		&gormModels.AirlineStaff{},
		&gormModels.Permission{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	issuer := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	return services.NewRegistrationService(
		repositories.NewAccountRepository(db),
		repositories.NewReferenceRepository(db),
		issuer,
	)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterCustomerHandler(t *testing.T) {
	regSvc := setupRegistrationService(t)
	handler := RegisterCustomerHandler(regSvc)

	rec := postJSON(t, handler, map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "s3cret",
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate email must conflict.
	rec = postJSON(t, handler, map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "s3cret",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate, got %d", rec.Code)
	}
}

func TestRegisterCustomerHandlerBadBody(t *testing.T) {
	regSvc := setupRegistrationService(t)
	handler := RegisterCustomerHandler(regSvc)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	regSvc := setupRegistrationService(t)

	rec := postJSON(t, RegisterCustomerHandler(regSvc), map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "s3cret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", rec.Code)
	}

	login := LoginHandler(regSvc)

	rec = postJSON(t, login, map[string]string{
		"role":     "customer",
		"identity": "alice@example.com",
		"password": "s3cret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var parsed struct {
		Data struct {
			Token string `json:"token"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if parsed.Data.Token == "" {
		t.Error("Expected a token in the response")
	}
	if parsed.Data.Role != "customer" {
		t.Errorf("Expected customer role, got %q", parsed.Data.Role)
	}

	rec = postJSON(t, login, map[string]string{
		"role":     "customer",
		"identity": "alice@example.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad password, got %d", rec.Code)
	}

	rec = postJSON(t, login, map[string]string{
		"role":     "pilot",
		"identity": "alice@example.com",
		"password": "s3cret",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown role, got %d", rec.Code)
	}
}
