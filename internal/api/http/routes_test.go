package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climatesense/climatesense/internal/directive"
	"github.com/climatesense/climatesense/internal/risk"
	"github.com/climatesense/climatesense/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *store.FileStore, *directive.File) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st := store.NewFileStore(filepath.Join(dir, "memory_log.json"), logger)
	directives := directive.NewFile(filepath.Join(dir, "control_file.json"), directive.Directive{Location: "Kerala,IN"}, logger)

	app := fiber.New()
	RegisterRoutes(app, st, directives)
	return app, st, directives
}

func seedRecords(t *testing.T, st *store.FileStore, city string, n int) {
	t.Helper()
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, st.Append(store.Record{
			ID:        strings.Repeat("a", 8),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			City:      city,
			Report:    risk.Report{FinalLevel: risk.LevelLow},
		}))
	}
}

func TestLatestReportRequiresCity(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/latest", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLatestReportNotFound(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/latest?city=Kochi", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLatestReport(t *testing.T) {
	app, st, _ := newTestApp(t)
	seedRecords(t, st, "Kochi", 2)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/latest?city=Kochi", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec store.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, "Kochi", rec.City)
	assert.Equal(t, time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC), rec.Timestamp)
}

func TestHistoryLimitValidation(t *testing.T) {
	app, st, _ := newTestApp(t)
	seedRecords(t, st, "Kochi", 3)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/history?city=Kochi&limit=0", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/history?city=Kochi&limit=101", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistoryWindow(t *testing.T) {
	app, st, _ := newTestApp(t)
	seedRecords(t, st, "Kochi", 5)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/history?city=Kochi&limit=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		City    string         `json:"city"`
		Count   int            `json:"count"`
		Reports []store.Record `json:"reports"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Kochi", body.City)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Reports, 2)
	// Most recent two, oldest first.
	assert.True(t, body.Reports[0].Timestamp.Before(body.Reports[1].Timestamp))
	assert.Equal(t, time.Date(2026, 8, 29, 4, 0, 0, 0, time.UTC), body.Reports[1].Timestamp)
}

func TestControlRoundTrip(t *testing.T) {
	app, _, directives := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/control", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var d directive.Directive
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, "Kerala,IN", d.Location)

	put := httptest.NewRequest(http.MethodPut, "/api/v1/control", strings.NewReader(`{"location":"Mumbai,IN"}`))
	put.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(put)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Mumbai,IN", directives.Read().Location)
}

func TestControlRejectsBareCity(t *testing.T) {
	app, _, directives := newTestApp(t)

	put := httptest.NewRequest(http.MethodPut, "/api/v1/control", strings.NewReader(`{"location":"Mumbai"}`))
	put.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(put)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Kerala,IN", directives.Read().Location)
}
