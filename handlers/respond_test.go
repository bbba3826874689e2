package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotFoundEchoesPathAndMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/nope", nil)

	NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["path"] != "/api/nope" {
		t.Errorf("path = %q", body["path"])
	}
	if body["method"] != http.MethodDelete {
		t.Errorf("method = %q", body["method"])
	}
	if body["message"] != "Route not found" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "OK" {
		t.Errorf("status field = %q", body["status"])
	}
	if body["timestamp"] == "" {
		t.Error("timestamp should be present")
	}
}
