package freightorder

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"freight-relay/core/apperr"
	"freight-relay/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSyncer struct {
	result   *reconcile.PassResult
	err      error
	updated  bool
	enriched []string
}

func (s *stubSyncer) RunSyncPass(context.Context) (*reconcile.PassResult, error) {
	return s.result, s.err
}

func (s *stubSyncer) EnrichOrder(_ context.Context, foID string) (bool, error) {
	s.enriched = append(s.enriched, foID)
	return s.updated, s.err
}

func setupTestApp(t *testing.T, syncer *stubSyncer) (*fiber.App, *Gateway) {
	gw := NewGateway(setupTestDB(t))
	feature := NewFeature(gw, syncer, zap.NewNop())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, gw
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestHandleGet(t *testing.T) {
	app, gw := setupTestApp(t, &stubSyncer{})
	require.NoError(t, gw.Upsert(context.Background(), masterRecord("88", "STOP_9", "Derby"), time.Now()))

	resp, err := app.Test(httptest.NewRequest("GET", "/freight-orders/0000000088", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "88", body["fo_id"])
	assert.Equal(t, "STOP_9", body["stop_id"])

	resp, err = app.Test(httptest.NewRequest("GET", "/freight-orders/77", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleSync(t *testing.T) {
	started := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	syncer := &stubSyncer{result: &reconcile.PassResult{
		ID:         "pass-1",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Fetched:    5,
		Processed:  3,
		Failures: []reconcile.RecordFailure{
			{FoID: "1", Stage: reconcile.StageMaster, Error: "boom"},
			{FoID: "2", Stage: reconcile.StageMaster, Error: "boom"},
		},
	}}
	app, _ := setupTestApp(t, syncer)

	resp, err := app.Test(httptest.NewRequest("POST", "/freight-orders/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "pass-1", body["id"])
	assert.EqualValues(t, 3, body["count"])
	assert.EqualValues(t, 1500, body["duration_ms"])
	assert.Len(t, body["failures"], 2)
}

func TestHandleSync_Upstream(t *testing.T) {
	syncer := &stubSyncer{err: &apperr.UpstreamError{Op: "TM SearchFOSet", StatusCode: 503, Body: "down"}}
	app, _ := setupTestApp(t, syncer)

	resp, err := app.Test(httptest.NewRequest("POST", "/freight-orders/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)
}

func TestHandleEnrich(t *testing.T) {
	syncer := &stubSyncer{updated: true}
	app, _ := setupTestApp(t, syncer)

	resp, err := app.Test(httptest.NewRequest("POST", "/freight-orders/0042/enrich", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp.Body)["updated"])
	assert.Equal(t, []string{"0042"}, syncer.enriched)
}

func TestFeature(t *testing.T) {
	feature := NewFeature(nil, &stubSyncer{}, zap.NewNop())
	assert.Equal(t, "freightorder", feature.Name())
	assert.True(t, feature.IsEnabled())
}
