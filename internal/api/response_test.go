package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/models/dtos/responses"
)

func TestResponseEnvelopeStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}
	respondWithSuccess(rec, http.StatusOK, &payload)

	var ok responses.APIResponse[map[string]string]
	if err := json.NewDecoder(rec.Body).Decode(&ok); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if ok.Status != string(constants.APIStatusSuccess) {
		t.Errorf("Expected status %q, got %q", constants.APIStatusSuccess, ok.Status)
	}

	rec = httptest.NewRecorder()
	respondWithError(rec, http.StatusTeapot, "nope")

	var bad responses.APIResponse[any]
	if err := json.NewDecoder(rec.Body).Decode(&bad); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if bad.Status != string(constants.APIStatusError) {
		t.Errorf("Expected status %q, got %q", constants.APIStatusError, bad.Status)
	}
	if bad.Error != "nope" {
		t.Errorf("Expected error message to round-trip, got %q", bad.Error)
	}
}
