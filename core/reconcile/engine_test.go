package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"freight-relay/core/apperr"
	"freight-relay/core/normalize"
	"freight-relay/core/storage/mocks"
	"freight-relay/core/tm"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchFreightOrders(ctx context.Context) ([]tm.FreightOrder, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]tm.FreightOrder)
	return orders, args.Error(1)
}

func (m *mockSource) FetchEnrichments(ctx context.Context) ([]tm.Enrichment, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]tm.Enrichment)
	return rows, args.Error(1)
}

func (m *mockSource) FetchEnrichment(ctx context.Context, foID normalize.PaddedID) (*tm.Enrichment, error) {
	args := m.Called(ctx, foID)
	row, _ := args.Get(0).(*tm.Enrichment)
	return row, args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Upsert(ctx context.Context, rec MasterRecord, syncedAt time.Time) error {
	args := m.Called(ctx, rec, syncedAt)
	return args.Error(0)
}

func (m *mockGateway) ApplyEnrichment(ctx context.Context, e Enrichment, syncedAt time.Time) (bool, error) {
	args := m.Called(ctx, e, syncedAt)
	return args.Bool(0), args.Error(1)
}

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestEngine(src Source, gw Gateway, opts ...Option) *Engine {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	e := NewEngine(src, gw, opts...)
	e.newID = func() string { return "pass-1" }
	return e
}

func hasFoID(id string) any {
	return mock.MatchedBy(func(rec MasterRecord) bool { return rec.FoID == id })
}

func TestRunSyncPass_RecordFailureIsIsolated(t *testing.T) {
	src := new(mockSource)
	gw := new(mockGateway)

	src.On("FetchFreightOrders", mock.Anything).Return([]tm.FreightOrder{
		{FoID: "0000000000000000000001", FinalInfo: "[]"},
		{FoID: "0000000000000000000002", FinalInfo: "[]"},
		{FoID: "0000000000000000000003", FinalInfo: "[]"},
		{FoID: "0000000000000000000004", FinalInfo: "[]"},
		{FoID: "0000000000000000000005", FinalInfo: "[]"},
	}, nil)
	src.On("FetchEnrichments", mock.Anything).Return([]tm.Enrichment{}, nil)

	for _, id := range []string{"1", "3", "4", "5"} {
		gw.On("Upsert", mock.Anything, hasFoID(id), fixedNow).Return(nil).Once()
	}
	gw.On("Upsert", mock.Anything, hasFoID("2"), fixedNow).
		Return(apperr.Persistence("upsert freight order", "2", errors.New("deadlock"))).Once()

	result, err := newTestEngine(src, gw).RunSyncPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Fetched)
	assert.Equal(t, 4, result.Processed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "2", result.Failures[0].FoID)
	assert.Equal(t, StageMaster, result.Failures[0].Stage)
	assert.Contains(t, result.Failures[0].Error, "deadlock")
	gw.AssertExpectations(t)
}

func TestRunSyncPass_BuildsMasterRecord(t *testing.T) {
	src := new(mockSource)
	gw := new(mockGateway)

	src.On("FetchFreightOrders", mock.Anything).Return([]tm.FreightOrder{
		{
			FoID:          "0000000000000000006100",
			LicenseNumber: "TRK-9",
			FinalInfo: `[{"stopid":"S1","stopseqpos":"F","event":"DEPARTURE","city1":"Lyon"},
				{"stopid":"S9","stopseqpos":"L","event":"ARRIVAL","city1":"Paris","latitude":"48.85661400001","longitude":2.3522219}]`,
		},
		{FoID: "0000000000000000006101", FinalInfo: "not json"},
	}, nil)
	src.On("FetchEnrichments", mock.Anything).Return([]tm.Enrichment{}, nil)

	var recs []MasterRecord
	gw.On("Upsert", mock.Anything, mock.Anything, fixedNow).Run(func(args mock.Arguments) {
		recs = append(recs, args.Get(1).(MasterRecord))
	}).Return(nil)

	result, err := newTestEngine(src, gw).RunSyncPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	require.Len(t, recs, 2)

	assert.Equal(t, "6100", recs[0].FoID)
	assert.Equal(t, normalize.StatusDelivered, recs[0].Status)
	assert.Equal(t, "S9", recs[0].Current.StopID)
	assert.Equal(t, "Paris", recs[0].Current.City)
	assert.Equal(t, "TRK-9", recs[0].LicenseNumber)
	assert.Equal(t, "48.856614", recs[0].Current.Latitude.Decimal.String())

	// Malformed history degrades to no known stop.
	assert.Equal(t, "6101", recs[1].FoID)
	assert.Equal(t, normalize.StatusPlanned, recs[1].Status)
	assert.Equal(t, UnknownStop, recs[1].Current.StopID)
}

func TestRunSyncPass_MasterFetchFailureFailsPass(t *testing.T) {
	src := new(mockSource)
	gw := new(mockGateway)

	src.On("FetchFreightOrders", mock.Anything).Return(nil, &apperr.UpstreamError{Op: "TM fetch freight orders", StatusCode: 500, Body: "boom"})

	result, err := newTestEngine(src, gw).RunSyncPass(context.Background())
	assert.Nil(t, result)
	assert.True(t, apperr.IsUpstream(err))
	src.AssertNotCalled(t, "FetchEnrichments", mock.Anything)
	gw.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunSyncPass_EnrichmentFetchFailureKeepsMaster(t *testing.T) {
	src := new(mockSource)
	gw := new(mockGateway)

	src.On("FetchFreightOrders", mock.Anything).Return([]tm.FreightOrder{{FoID: "0000000000000000000001"}}, nil)
	src.On("FetchEnrichments", mock.Anything).Return(nil, errors.New("connection reset"))
	gw.On("Upsert", mock.Anything, hasFoID("1"), fixedNow).Return(nil)

	result, err := newTestEngine(src, gw).RunSyncPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, "connection reset", result.EnrichmentError)
	gw.AssertNotCalled(t, "ApplyEnrichment", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunSyncPass_EnrichmentIsUpdateOnly(t *testing.T) {
	src := new(mockSource)
	gw := new(mockGateway)

	src.On("FetchFreightOrders", mock.Anything).Return([]tm.FreightOrder{}, nil)
	src.On("FetchEnrichments", mock.Anything).Return([]tm.Enrichment{
		{FoID: "0000000000000000000001", CargoWeight: "10.12345", PlannedArrivalAt: "20240105080000"},
		{FoID: "0000000000000000000002"},
		{FoID: "0000000000000000000003"},
		{FoID: ""},
	}, nil)

	gw.On("ApplyEnrichment", mock.Anything, mock.MatchedBy(func(e Enrichment) bool {
		return e.FoID == "1" &&
			e.CargoWeight.Decimal.String() == "10.123" &&
			e.PlannedArrivalAt != nil && e.PlannedArrivalAt.Equal(time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	}), fixedNow).Return(true, nil)
	gw.On("ApplyEnrichment", mock.Anything, mock.MatchedBy(func(e Enrichment) bool { return e.FoID == "2" }), fixedNow).Return(false, nil)
	gw.On("ApplyEnrichment", mock.Anything, mock.MatchedBy(func(e Enrichment) bool { return e.FoID == "3" }), fixedNow).
		Return(false, apperr.Persistence("apply enrichment", "3", errors.New("lock wait timeout")))

	result, err := newTestEngine(src, gw).RunSyncPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.EnrichmentFetched)
	assert.Equal(t, 1, result.Enriched)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "3", result.Failures[0].FoID)
	assert.Equal(t, StageEnrichment, result.Failures[1].Stage)
	gw.AssertExpectations(t)
}

// blockingSource holds the master fetch open until release is closed.
type blockingSource struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (b *blockingSource) FetchFreightOrders(ctx context.Context) ([]tm.FreightOrder, error) {
	if b.calls.Add(1) == 1 {
		close(b.started)
	}
	<-b.release
	return []tm.FreightOrder{}, nil
}

func (b *blockingSource) FetchEnrichments(ctx context.Context) ([]tm.Enrichment, error) {
	return []tm.Enrichment{}, nil
}

func (b *blockingSource) FetchEnrichment(ctx context.Context, foID normalize.PaddedID) (*tm.Enrichment, error) {
	return nil, nil
}

func TestRunSyncPass_OverlappingCallersShareOnePass(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	engine := newTestEngine(src, new(mockGateway))

	results := make([]*PassResult, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = engine.RunSyncPass(context.Background())
	}()
	<-src.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = engine.RunSyncPass(context.Background())
	}()
	time.Sleep(50 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.True(t, results[0].Shared)
	assert.True(t, results[1].Shared)
	assert.Equal(t, results[0].ID, results[1].ID)
}

func TestRunSyncPass_ArchivesReport(t *testing.T) {
	src := new(mockSource)
	src.On("FetchFreightOrders", mock.Anything).Return([]tm.FreightOrder{}, nil)
	src.On("FetchEnrichments", mock.Anything).Return([]tm.Enrichment{}, nil)

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "reports", "sync-reports/2024/01/02/pass-1.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	_, err := newTestEngine(src, new(mockGateway), WithArchiver(NewStorageArchiver(client, "reports"))).RunSyncPass(context.Background())
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestRunSyncPass_ArchiveFailureDoesNotFailPass(t *testing.T) {
	src := new(mockSource)
	src.On("FetchFreightOrders", mock.Anything).Return([]tm.FreightOrder{}, nil)
	src.On("FetchEnrichments", mock.Anything).Return([]tm.Enrichment{}, nil)

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket missing"))

	result, err := newTestEngine(src, new(mockGateway), WithArchiver(NewStorageArchiver(client, "reports"))).RunSyncPass(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestEnrichOrder(t *testing.T) {
	t.Run("UsesPaddedIdentifierUpstream", func(t *testing.T) {
		src := new(mockSource)
		gw := new(mockGateway)
		src.On("FetchEnrichment", mock.Anything, normalize.PaddedID("0000000000000000000042")).
			Return(&tm.Enrichment{FoID: "0000000000000000000042", ExecutionStatus: "DONE"}, nil)
		gw.On("ApplyEnrichment", mock.Anything, mock.MatchedBy(func(e Enrichment) bool {
			return e.FoID == "42" && e.ExecutionStatus == "DONE"
		}), fixedNow).Return(true, nil)

		updated, err := newTestEngine(src, gw).EnrichOrder(context.Background(), "00042")
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("NoRowInTM", func(t *testing.T) {
		src := new(mockSource)
		gw := new(mockGateway)
		src.On("FetchEnrichment", mock.Anything, mock.Anything).Return(nil, nil)

		updated, err := newTestEngine(src, gw).EnrichOrder(context.Background(), "42")
		require.NoError(t, err)
		assert.False(t, updated)
		gw.AssertNotCalled(t, "ApplyEnrichment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyIdentifier", func(t *testing.T) {
		_, err := newTestEngine(new(mockSource), new(mockGateway)).EnrichOrder(context.Background(), "  ")
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		src := new(mockSource)
		src.On("FetchEnrichment", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: refused"))

		_, err := newTestEngine(src, new(mockGateway)).EnrichOrder(context.Background(), "42")
		assert.True(t, apperr.IsUpstream(err))
	})
}

func TestRunSyncPass_IgnoresCallerCancellation(t *testing.T) {
	src := new(mockSource)
	gw := new(mockGateway)

	notCancelled := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	src.On("FetchFreightOrders", notCancelled).Return([]tm.FreightOrder{
		{FoID: "0000000000000000000001", FinalInfo: "[]"},
	}, nil)
	src.On("FetchEnrichments", notCancelled).Return([]tm.Enrichment{}, nil)
	gw.On("Upsert", notCancelled, hasFoID("1"), fixedNow).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestEngine(src, gw).RunSyncPass(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	src.AssertExpectations(t)
	gw.AssertExpectations(t)
}
