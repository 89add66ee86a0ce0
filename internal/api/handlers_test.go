package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/speakerpack/internal/blob"
	"github.com/youruser/speakerpack/internal/event"
	"github.com/youruser/speakerpack/internal/pack"
	"github.com/youruser/speakerpack/internal/store"
)

const testAdminToken = "integration-test-admin-token"

func newTestRouter(t *testing.T, st *store.MemoryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := &blob.LocalPublisher{
		Bucket:     "test-bucket",
		Dir:        t.TempDir(),
		PublicBase: "http://localhost:8080",
	}
	pipeline, err := pack.New(st, publisher, pack.Options{
		BaseURL:     "https://example.test",
		Brand:       "Example Conf",
		Concurrency: 2,
	}, logger)
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, &Handler{Pipeline: pipeline, Store: st, Logger: logger}, testAdminToken)
	return r
}

func seededStore() *store.MemoryStore {
	st := store.NewMemoryStore()
	st.AddEvent(event.Event{
		ID:        "evt1",
		Title:     "DevCon",
		StartDate: time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC),
		Venue:     "Main Hall",
	})
	st.AddSpeaker(event.Speaker{ID: "s1", Name: "Grace Hopper", Title: "Rear Admiral"})
	st.AddTalk(event.Talk{ID: "t1", EventID: "evt1", Title: "Reliable Pipelines", SpeakerID: "s1", Status: event.StatusAccepted})
	return st
}

func postSpeakerPack(r *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/speaker-pack", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSpeakerPackRequiresIdentity(t *testing.T) {
	r := newTestRouter(t, seededStore())

	w := postSpeakerPack(r, "", `{"event_id":"evt1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postSpeakerPack(r, "wrong-token", `{"event_id":"evt1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSpeakerPackRejectsBareTokenHeader(t *testing.T) {
	r := newTestRouter(t, seededStore())

	// A correct token without the Bearer scheme is not an identity.
	req := httptest.NewRequest(http.MethodPost, "/api/speaker-pack", strings.NewReader(`{"event_id":"evt1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", testAdminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSpeakerPackHappyPath(t *testing.T) {
	r := newTestRouter(t, seededStore())

	w := postSpeakerPack(r, testAdminToken, `{"event_id":"evt1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		DownloadURL string `json:"download_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.DownloadURL, "/v0/b/test-bucket/o/")
	assert.Contains(t, resp.DownloadURL, "token=")
}

func TestSpeakerPackUnknownEvent(t *testing.T) {
	r := newTestRouter(t, seededStore())

	w := postSpeakerPack(r, testAdminToken, `{"event_id":"evt-missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpeakerPackNoAcceptedTalks(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddEvent(event.Event{ID: "evt2", Title: "QuietCon", StartDate: time.Now(), Venue: "Hall B"})
	r := newTestRouter(t, st)

	w := postSpeakerPack(r, testAdminToken, `{"event_id":"evt2"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSpeakerPackEmptyEventID(t *testing.T) {
	r := newTestRouter(t, seededStore())

	w := postSpeakerPack(r, testAdminToken, `{"event_id":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsightsEndpoint(t *testing.T) {
	st := seededStore()
	st.AddFeedback(event.Feedback{ID: "f1", TalkID: "t1", Rating: 5})
	r := newTestRouter(t, st)

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		TotalSpeakers  int     `json:"totalSpeakers"`
		TotalTalks     int     `json:"totalTalks"`
		AcceptanceRate float64 `json:"acceptanceRate"`
		AverageRating  float64 `json:"averageRating"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.TotalSpeakers)
	assert.Equal(t, 1, report.TotalTalks)
	assert.InDelta(t, 100.0, report.AcceptanceRate, 0.001)
	assert.InDelta(t, 5.0, report.AverageRating, 0.001)
}

func TestQRPreview(t *testing.T) {
	r := newTestRouter(t, seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/qr?text=hello&size=100", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	req = httptest.NewRequest(http.MethodGet, "/api/qr", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
