package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/welltechai/thinksync-service/internal/services"
)

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", services.Validationf("missing required field: email"), http.StatusBadRequest},
		{"duplicate email", services.ErrDuplicateEmail, http.StatusBadRequest},
		{"invalid status", services.ErrInvalidStatus, http.StatusBadRequest},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"account locked", services.ErrAccountLocked, http.StatusUnauthorized},
		{"account not active", fmt.Errorf("%w: pending", services.ErrAccountNotActive), http.StatusUnauthorized},
		{"unauthorized", services.ErrUnauthorized, http.StatusForbidden},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tc.err)

			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d", rec.Code, tc.status)
			}
			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body.Success {
				t.Error("success = true, want false")
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("error = %q, want the generic message", body.Error)
	}
}
