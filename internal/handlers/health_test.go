package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{"no checks", nil, http.StatusOK, "ok", map[string]string{}},
		{"all healthy", map[string]Check{"database": ok, "cache": ok}, http.StatusOK, "ok",
			map[string]string{"database": "ok", "cache": "ok"}},
		{"one down", map[string]Check{"database": ok, "cache": down}, http.StatusServiceUnavailable, "degraded",
			map[string]string{"database": "ok", "cache": "unavailable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Health(tt.checks).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
				Time   string            `json:"time"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
			assert.Equal(t, tt.wantChecks, body.Checks)
			assert.NotEmpty(t, body.Time)
		})
	}
}
