package httpx

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestWriteData(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteData(rr, 201, map[string]string{"type": "urls", "id": "abc"})

	if rr.Code != 201 {
		t.Errorf("status = %d, want 201", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var doc struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if doc.Data["type"] != "urls" || doc.Data["id"] != "abc" {
		t.Errorf("data = %v", doc.Data)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, 409, "Conflict", "Slug is already in use")

	if rr.Code != 409 {
		t.Errorf("status = %d, want 409", rr.Code)
	}

	var doc struct {
		Errors []ErrorObject `json:"errors"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(doc.Errors) != 1 {
		t.Fatalf("errors length = %d, want 1", len(doc.Errors))
	}
	e := doc.Errors[0]
	if e.Status != "409" {
		t.Errorf("status member = %q, want %q", e.Status, "409")
	}
	if e.Title != "Conflict" {
		t.Errorf("title = %q", e.Title)
	}
	if e.Detail != "Slug is already in use" {
		t.Errorf("detail = %q", e.Detail)
	}
}

func TestWriteErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrors(rr, 400,
		ErrorObject{Status: "400", Title: "Validation Error", Detail: "originalUrl is required"},
		ErrorObject{Status: "400", Title: "Validation Error", Detail: "slug too long"},
	)

	if rr.Code != 400 {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	var doc struct {
		Errors []ErrorObject `json:"errors"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(doc.Errors) != 2 {
		t.Errorf("errors length = %d, want 2", len(doc.Errors))
	}
}
