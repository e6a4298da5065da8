package integrity

import (
	"context"
	"testing"

	"freight-relay/core/database"
	"freight-relay/core/storage"
	"freight-relay/core/storage/mocks"
	eventmodels "freight-relay/feature/events/models"
	ordermodels "freight-relay/feature/freightorder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var relayModels = []any{ordermodels.FreightOrder{}, eventmodels.TrackingEvent{}}

func setupTestDB(t *testing.T, migrate bool) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	if migrate {
		require.NoError(t, db.AutoMigrate(relayModels...))
	}
	return db
}

func TestService_CheckSchema(t *testing.T) {
	t.Run("migrated", func(t *testing.T) {
		svc := NewService(setupTestDB(t, true), relayModels, nil, storage.Config{}, zap.NewNop())

		report, err := svc.CheckSchema()
		require.NoError(t, err)
		assert.True(t, report.Matched, "report: %+v", report)
		assert.Contains(t, report.Tables, "freight_orders")
		assert.Contains(t, report.Tables, "tracking_events")
	})

	t.Run("empty database", func(t *testing.T) {
		svc := NewService(setupTestDB(t, false), relayModels, nil, storage.Config{}, zap.NewNop())

		report, err := svc.CheckSchema()
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Len(t, report.Errors, 2)
	})
}

func TestService_CheckStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "freight-relay").Return(true, nil)

	svc := NewService(nil, nil, client, storage.Config{Bucket: "freight-relay"}, zap.NewNop())
	report, err := svc.CheckStorage(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, report.Enabled)
	assert.True(t, report.Exists)
}
