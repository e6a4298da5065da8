package events

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQueue struct {
	enabled bool
	queued  []string
}

func (q *fakeQueue) Enabled() bool { return q.enabled }

func (q *fakeQueue) EnqueueSyncOrderEvents(_ context.Context, foID string) (string, error) {
	q.queued = append(q.queued, foID)
	return "task-1", nil
}

func setupTestApp(t *testing.T, q Enqueuer, opts ...Option) (*fiber.App, *mockUpstream) {
	intake, upstream, _ := setupIntake(t, opts...)
	feature := NewFeature(intake, q, zap.NewNop())
	assert.Equal(t, "events", feature.Name())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, upstream
}

func TestHandleEvent(t *testing.T) {
	app, _ := setupTestApp(t, nil, WithForwarding(false))

	req := httptest.NewRequest("POST", "/event", strings.NewReader(`{"FoId":"007","Action":"ARRIVAL","StopId":"S1","ETA":"20240101120000"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "7", body["event"]["fo_id"])
	assert.Equal(t, "2024-01-01T12:00:00Z", body["event"]["eta"])
}

func TestHandleEvent_MissingStop(t *testing.T) {
	app, upstream := setupTestApp(t, nil)

	req := httptest.NewRequest("POST", "/event", strings.NewReader(`{"FoId":"7","Action":"ARRIVAL"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "FoId & Action & StopId required", body["error"])
	upstream.AssertNotCalled(t, "PostEvent", mock.Anything, mock.Anything)
}

func TestHandleStored_RequiresOrder(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/events/stored", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleSyncAndList(t *testing.T) {
	app, upstream := setupTestApp(t, nil)
	upstream.On("FetchOrderEvents", mock.Anything, mock.Anything).Return(feed(), nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/events?foId=4711", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var events []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	assert.Len(t, events, 2)
}

func TestHandleScheduleSync(t *testing.T) {
	t.Run("queued", func(t *testing.T) {
		q := &fakeQueue{enabled: true}
		app, upstream := setupTestApp(t, q)

		resp, err := app.Test(httptest.NewRequest("POST", "/events/sync/4711", nil))
		require.NoError(t, err)
		assert.Equal(t, 202, resp.StatusCode)
		assert.Equal(t, []string{"4711"}, q.queued)
		upstream.AssertNotCalled(t, "FetchOrderEvents", mock.Anything, mock.Anything)
	})

	t.Run("inline without queue", func(t *testing.T) {
		app, upstream := setupTestApp(t, &fakeQueue{})
		upstream.On("FetchOrderEvents", mock.Anything, mock.Anything).Return(feed(), nil)

		resp, err := app.Test(httptest.NewRequest("POST", "/events/sync/4711", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var res SyncResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, 2, res.Inserted)
		assert.Equal(t, 1, res.Rejected)
	})
}
