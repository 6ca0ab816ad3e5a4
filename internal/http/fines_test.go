package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinesController_CalculateFine(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	tests := []struct {
		name     string
		query    string
		status   int
		expected FineResponse
	}{
		{"configured rate", "?days=10", http.StatusOK, FineResponse{DaysOverdue: 10, DailyRate: "0.5", Fine: "5.00"}},
		{"explicit rate", "?days=3&rate=2.0", http.StatusOK, FineResponse{DaysOverdue: 3, DailyRate: "2", Fine: "6.00"}},
		{"zero days", "?days=0", http.StatusOK, FineResponse{DaysOverdue: 0, DailyRate: "0.5", Fine: "0.00"}},
		{"negative days", "?days=-1", http.StatusBadRequest, FineResponse{}},
		{"missing days", "", http.StatusBadRequest, FineResponse{}},
		{"bad rate", "?days=1&rate=abc", http.StatusBadRequest, FineResponse{}},
		{"negative rate", "?days=1&rate=-2", http.StatusBadRequest, FineResponse{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, "GET", "/api/fines"+tt.query, nil)

			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}
			var resp FineResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expected, resp)
		})
	}
}

func TestNewFinesController_DefaultsCalculator(t *testing.T) {
	controller := NewFinesController(nil)

	assert.Equal(t, "0.5", controller.calc.DailyRate.String())
}
