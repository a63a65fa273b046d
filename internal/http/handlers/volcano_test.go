package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpx "github.com/yungbote/volcano-status-backend/internal/http"
	httpH "github.com/yungbote/volcano-status-backend/internal/http/handlers"
	"github.com/yungbote/volcano-status-backend/internal/repos"
	"github.com/yungbote/volcano-status-backend/internal/repos/testutil"
	"github.com/yungbote/volcano-status-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)

	svc := services.NewVolcanoService(
		db,
		log,
		clockwork.NewRealClock(),
		repos.NewVolcanoRepo(db, log),
		repos.NewCurrentStatusRepo(db, log),
		repos.NewHistoryRepo(db, log),
		repos.NewViewRepo(db, log),
		nil,
	)

	return httpx.NewRouter(httpx.RouterConfig{
		Log:            log,
		HealthHandler:  httpH.NewHealthHandler(),
		VolcanoHandler: httpH.NewVolcanoHandler(log, svc),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func submitBody(name, level string) map[string]any {
	return map[string]any{
		"name":        name,
		"province":    "DI Yogyakarta",
		"latitude":    -7.54,
		"longitude":   110.446,
		"level":       level,
		"observed_at": "2024-01-01T00:00:00Z",
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Volcano Service API is running")

	w = doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}

func TestSubmitReturnsNormalizedView(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/volcano", submitBody("Merapi", "siaga"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Level string `json:"level"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Merapi", view.Name)
	assert.Equal(t, "Siaga", view.Level)
}

func TestSubmitInvalidLevelListsAllowedSet(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/volcano", submitBody("Merapi", "bahaya"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "invalid_level", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Message, "Awas, Normal, Siaga, Waspada")
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	body := submitBody("M", "siaga") // name below minimum length
	w := doJSON(t, router, http.MethodPost, "/v1/volcano", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = submitBody("Merapi", "siaga")
	delete(body, "observed_at")
	w = doJSON(t, router, http.MethodPost, "/v1/volcano", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = submitBody("Merapi", "siaga")
	delete(body, "latitude")
	w = doJSON(t, router, http.MethodPost, "/v1/volcano", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitThenUpdateLevel(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/volcano", submitBody("Merapi", "siaga"))
	require.Equal(t, http.StatusOK, w.Code)

	body := submitBody("Merapi", "AWAS")
	body["observed_at"] = "2024-01-02T00:00:00Z"
	w = doJSON(t, router, http.MethodPost, "/v1/volcano", body)
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		ID    string `json:"id"`
		Level string `json:"level"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Awas", view.Level)

	// Still exactly one volcano listed.
	w = doJSON(t, router, http.MethodGet, "/v1/volcano", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	assert.Len(t, views, 1)
}

func TestListFilterQuery(t *testing.T) {
	router := newTestRouter(t)

	for i, seed := range []struct{ name, level string }{
		{"Merapi", "siaga"},
		{"Semeru", "siaga"},
		{"Agung", "normal"},
	} {
		body := submitBody(seed.name, seed.level)
		body["observed_at"] = fmt.Sprintf("2024-01-0%dT00:00:00Z", i+1)
		w := doJSON(t, router, http.MethodPost, "/v1/volcano", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/v1/volcano?level=Siaga&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []struct {
		Name  string `json:"name"`
		Level string `json:"level"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)
	for _, v := range views {
		assert.Equal(t, "Siaga", v.Level)
	}
}

func TestGetByIDAndDelete(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/volcano", submitBody("Merapi", "siaga"))
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	w = doJSON(t, router, http.MethodGet, "/v1/volcano/"+view.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/v1/volcano/"+view.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		Deleted bool   `json:"deleted"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.True(t, deleted.Deleted)
	assert.Equal(t, view.ID, deleted.ID)

	w = doJSON(t, router, http.MethodGet, "/v1/volcano/"+view.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/v1/volcano/"+view.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/volcano", submitBody("Merapi", "siaga"))
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	body := submitBody("Merapi", "awas")
	body["observed_at"] = "2024-01-02T00:00:00Z"
	w = doJSON(t, router, http.MethodPost, "/v1/volcano", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/volcano/"+view.ID+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []struct {
		Level      string `json:"level"`
		ObservedAt string `json:"observed_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)

	w = doJSON(t, router, http.MethodGet, "/v1/volcano/6a2f9ffb-31b8-4e0a-9a0e-000000000000/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitExpiredContextMapsToResourceExhausted(t *testing.T) {
	router := newTestRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(submitBody("Merapi", "siaga")))
	req := httptest.NewRequest(http.MethodPost, "/v1/volcano", &buf).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "resource_exhausted", envelope.Error.Code)
}

func TestGetByIDMalformedUUID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/volcano/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByIDUnknown(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/volcano/6a2f9ffb-31b8-4e0a-9a0e-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
