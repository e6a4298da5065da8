package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"freight-relay/core/apperr"
	"freight-relay/core/database"
	"freight-relay/core/normalize"
	"freight-relay/core/tm"
	"freight-relay/feature/events/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockUpstream struct {
	mock.Mock
}

func (m *mockUpstream) FetchOrderEvents(ctx context.Context, foID normalize.PaddedID) ([]tm.ReportedEvent, error) {
	args := m.Called(ctx, foID)
	rows, _ := args.Get(0).([]tm.ReportedEvent)
	return rows, args.Error(1)
}

func (m *mockUpstream) PostEvent(ctx context.Context, s tm.EventSubmission) (json.RawMessage, error) {
	args := m.Called(ctx, s)
	return raw(args.Get(0)), args.Error(1)
}

func (m *mockUpstream) PostDelay(ctx context.Context, s tm.DelaySubmission) (json.RawMessage, error) {
	args := m.Called(ctx, s)
	return raw(args.Get(0)), args.Error(1)
}

func (m *mockUpstream) PostProofOfDelivery(ctx context.Context, s tm.ProofOfDeliverySubmission) (json.RawMessage, error) {
	args := m.Called(ctx, s)
	return raw(args.Get(0)), args.Error(1)
}

func (m *mockUpstream) PostUnloading(ctx context.Context, s tm.UnloadingSubmission) (json.RawMessage, error) {
	args := m.Called(ctx, s)
	return raw(args.Get(0)), args.Error(1)
}

func raw(v any) json.RawMessage {
	if s, ok := v.(string); ok {
		return json.RawMessage(s)
	}
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TrackingEvent{}))
	return db
}

func setupIntake(t *testing.T, opts ...Option) (*Intake, *mockUpstream, *gorm.DB) {
	db := setupTestDB(t)
	upstream := new(mockUpstream)
	return NewIntake(NewGateway(db), upstream, opts...), upstream, db
}

func countEvents(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.TrackingEvent{}).Count(&n).Error)
	return n
}

func TestRecordEvent(t *testing.T) {
	intake, _, db := setupIntake(t)

	ev, err := intake.RecordEvent(context.Background(), EventPayload{
		FoID:   "007",
		Action: "ARRIVAL",
		StopID: "S1",
		ETA:    "20240101120000",
	})
	require.NoError(t, err)

	stored, err := intake.StoredEvents(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, ev.ID, stored[0].ID)
	assert.Equal(t, "7", stored[0].FoID)
	assert.Equal(t, "ARRIVAL", stored[0].Event)
	require.NotNil(t, stored[0].ETA)
	assert.True(t, stored[0].ETA.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
	assert.Nil(t, stored[0].ActualReportedTime)
	assert.Equal(t, int64(1), countEvents(t, db))
}

func TestRecordEvent_Validation(t *testing.T) {
	intake, _, db := setupIntake(t)

	tests := []struct {
		name    string
		payload EventPayload
	}{
		{"missing stop", EventPayload{FoID: "1", Action: "ARRIVAL"}},
		{"missing action", EventPayload{FoID: "1", StopID: "S1"}},
		{"missing order", EventPayload{Action: "ARRIVAL", StopID: "S1"}},
		{"malformed eta", EventPayload{FoID: "1", Action: "ARRIVAL", StopID: "S1", ETA: "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := intake.RecordEvent(context.Background(), tt.payload)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
	assert.Zero(t, countEvents(t, db))
}

func TestRecordEvent_PushesAreNotDeduplicated(t *testing.T) {
	intake, _, db := setupIntake(t)
	p := EventPayload{FoID: "5", Action: "DEPARTURE", StopID: "S1"}

	_, err := intake.RecordEvent(context.Background(), p)
	require.NoError(t, err)
	_, err = intake.RecordEvent(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), countEvents(t, db))
}

func feed() []tm.ReportedEvent {
	return []tm.ReportedEvent{
		{FoID: "0000000000000000004711", StopID: "S2", Event: "DEPARTURE", Timestamp: "20240102080000", Latitude: "51.5", Longitude: 7.25},
		{FoID: "0000000000000000004711", StopID: "S1", Event: "ARRIVAL", Timestamp: "20240101120000", ETA: "not-a-date", Items: json.RawMessage(`[{"sku":"A"}]`)},
		{FoID: "0000000000000000004711", StopID: "S1", Event: "ARRIVAL", Timestamp: "20240101120000"},
		{FoID: "0000000000000000004711", StopID: "S3", Event: "ARRIVAL", Timestamp: "0"},
	}
}

func TestSyncEventsForOrder(t *testing.T) {
	intake, upstream, db := setupIntake(t)
	upstream.On("FetchOrderEvents", mock.Anything, normalize.PadOrderIdentifier("4711")).Return(feed(), nil)

	res, err := intake.SyncEventsForOrder(context.Background(), "4711")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Fetched)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 1, res.Rejected)
	assert.Zero(t, res.Failed)

	require.Len(t, res.Events, 2)
	assert.Equal(t, "S1", res.Events[0].StopID)
	assert.Equal(t, "S2", res.Events[1].StopID)
	assert.Nil(t, res.Events[0].ETA)
	require.NotNil(t, res.Events[0].Items)
	assert.Equal(t, `[{"sku":"A"}]`, *res.Events[0].Items)
	assert.True(t, res.Events[1].Latitude.Valid)

	again, err := intake.SyncEventsForOrder(context.Background(), "0000000000000000004711")
	require.NoError(t, err)
	assert.Zero(t, again.Inserted)
	assert.Equal(t, 3, again.Duplicates)
	assert.Equal(t, int64(2), countEvents(t, db))
}

func TestSyncEventsForOrder_PushedEventsSortLast(t *testing.T) {
	intake, upstream, _ := setupIntake(t)
	upstream.On("FetchOrderEvents", mock.Anything, mock.Anything).Return(feed()[:1], nil)

	_, err := intake.RecordEvent(context.Background(), EventPayload{FoID: "4711", Action: "POSITION", StopID: "S9"})
	require.NoError(t, err)

	res, err := intake.SyncEventsForOrder(context.Background(), "4711")
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, "S2", res.Events[0].StopID)
	assert.Equal(t, "S9", res.Events[1].StopID)
}

func TestSyncEventsForOrder_UpstreamFailure(t *testing.T) {
	intake, upstream, _ := setupIntake(t)
	upstream.On("FetchOrderEvents", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := intake.SyncEventsForOrder(context.Background(), "12")
	assert.True(t, apperr.IsUpstream(err))

	_, err = intake.SyncEventsForOrder(context.Background(), "")
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmitEvent_ForwardsPaddedIdentifier(t *testing.T) {
	intake, upstream, _ := setupIntake(t)
	upstream.On("PostEvent", mock.Anything, mock.MatchedBy(func(s tm.EventSubmission) bool {
		return s.FoID == "0000000000000000000042" && s.Action == "ARRIVAL" && s.StopID == "S1"
	})).Return(`{"ok":true}`, nil)

	res, err := intake.SubmitEvent(context.Background(), EventPayload{FoID: "42", Action: "ARRIVAL", StopID: "S1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(res.TM))
	upstream.AssertExpectations(t)
}

func TestSubmitEvent_ForwardFailureKeepsEvent(t *testing.T) {
	intake, upstream, db := setupIntake(t)
	upstream.On("PostEvent", mock.Anything, mock.Anything).
		Return(nil, &apperr.UpstreamError{Op: "TM EVENT", StatusCode: 400, Body: `{"error":"bad stop"}`})

	res, err := intake.SubmitEvent(context.Background(), EventPayload{FoID: "42", Action: "ARRIVAL", StopID: "S1"})
	assert.True(t, apperr.IsUpstream(err))
	require.NotNil(t, res)
	assert.NotZero(t, res.Event.ID)
	assert.Equal(t, int64(1), countEvents(t, db))
}

func TestSubmitDelay(t *testing.T) {
	t.Run("records after TM accepted", func(t *testing.T) {
		intake, upstream, _ := setupIntake(t)
		upstream.On("PostDelay", mock.Anything, mock.MatchedBy(func(s tm.DelaySubmission) bool {
			return s.ETA == "20240301153000" && s.StopID == "S2"
		})).Return(`{}`, nil)

		res, err := intake.SubmitDelay(context.Background(), DelayPayload{FoID: "9", StopID: "S2", ETA: "20240301153000"})
		require.NoError(t, err)
		assert.Equal(t, EventDelay, res.Event.Event)
		require.NotNil(t, res.Event.ETA)
		assert.True(t, res.Event.ETA.Equal(time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)))
	})

	t.Run("uses the referenced event", func(t *testing.T) {
		intake, upstream, _ := setupIntake(t)
		upstream.On("PostDelay", mock.Anything, mock.Anything).Return(`{}`, nil)

		res, err := intake.SubmitDelay(context.Background(), DelayPayload{FoID: "9", StopID: "S2", ETA: "20240301153000", RefEvent: "ARRIVAL"})
		require.NoError(t, err)
		assert.Equal(t, "ARRIVAL", res.Event.Event)
	})

	t.Run("rejected by TM is not stored", func(t *testing.T) {
		intake, upstream, db := setupIntake(t)
		upstream.On("PostDelay", mock.Anything, mock.Anything).Return(nil, &apperr.UpstreamError{Op: "TM Delay", StatusCode: 500})

		_, err := intake.SubmitDelay(context.Background(), DelayPayload{FoID: "9", StopID: "S2", ETA: "20240301153000"})
		assert.True(t, apperr.IsUpstream(err))
		assert.Zero(t, countEvents(t, db))
	})

	t.Run("eta is mandatory", func(t *testing.T) {
		intake, upstream, _ := setupIntake(t)

		_, err := intake.SubmitDelay(context.Background(), DelayPayload{FoID: "9", StopID: "S2"})
		assert.True(t, apperr.IsValidation(err))
		upstream.AssertNotCalled(t, "PostDelay", mock.Anything, mock.Anything)
	})
}

func TestSubmitProofOfDelivery(t *testing.T) {
	intake, upstream, _ := setupIntake(t)
	upstream.On("PostProofOfDelivery", mock.Anything, mock.MatchedBy(func(s tm.ProofOfDeliverySubmission) bool {
		return s.Items == `[{"sku":"A","qty":2}]` && s.Discrepency == "dented"
	})).Return(`{}`, nil)

	res, err := intake.SubmitProofOfDelivery(context.Background(), ProofOfDeliveryPayload{
		FoID:        "31",
		StopID:      "S4",
		Discrepency: "dented",
		Items:       json.RawMessage(`[{"sku":"A","qty":2}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, EventPOD, res.Event.Event)
	require.NotNil(t, res.Event.Items)
	assert.Equal(t, `[{"sku":"A","qty":2}]`, *res.Event.Items)
	upstream.AssertExpectations(t)

	_, err = intake.SubmitProofOfDelivery(context.Background(), ProofOfDeliveryPayload{FoID: "31"})
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmitUnloading_WithoutForwarding(t *testing.T) {
	intake, upstream, db := setupIntake(t, WithForwarding(false))

	res, err := intake.SubmitUnloading(context.Background(), UnloadingPayload{FoID: "31", StopID: "S4", Latitude: 48.1, Longitude: "11.5"})
	require.NoError(t, err)
	assert.Equal(t, EventUnloading, res.Event.Event)
	assert.Nil(t, res.TM)
	assert.True(t, res.Event.Longitude.Valid)
	assert.Equal(t, int64(1), countEvents(t, db))
	upstream.AssertNotCalled(t, "PostUnloading", mock.Anything, mock.Anything)
}

func TestItemsText(t *testing.T) {
	assert.Equal(t, "", itemsText(nil))
	assert.Equal(t, "", itemsText(json.RawMessage("null")))
	assert.Equal(t, "3 pallets", itemsText(json.RawMessage(`"3 pallets"`)))
	assert.Equal(t, `[1,2]`, itemsText(json.RawMessage(`[1,2]`)))
}

func TestSyncEventsForOrder_RejectsOtherOrders(t *testing.T) {
	intake, upstream, db := setupIntake(t)
	rows := append(feed()[:1], tm.ReportedEvent{
		FoID: "0000000000000000004712", StopID: "S1", Event: "ARRIVAL", Timestamp: "20240101120000",
	})
	upstream.On("FetchOrderEvents", mock.Anything, mock.Anything).Return(rows, nil)

	res, err := intake.SyncEventsForOrder(context.Background(), "4711")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Rejected)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "4711", res.Events[0].FoID)
	assert.Equal(t, int64(1), countEvents(t, db))
}
