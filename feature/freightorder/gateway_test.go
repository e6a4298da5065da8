package freightorder

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"freight-relay/core/apperr"
	"freight-relay/core/database"
	"freight-relay/core/normalize"
	"freight-relay/core/reconcile"
	"freight-relay/feature/freightorder/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.FreightOrder{}))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return db, mock
}

func masterRecord(foID, stopID, city string) reconcile.MasterRecord {
	return reconcile.MasterRecord{
		FoID: foID,
		Current: normalize.StopEvent{
			StopID:    stopID,
			Event:     "DEPARTURE",
			City:      city,
			Latitude:  decimal.NewNullDecimal(decimal.RequireFromString("51.5")),
			Longitude: decimal.NewNullDecimal(decimal.RequireFromString("-0.25")),
		},
		Status:        normalize.StatusInTransit,
		LicenseNumber: "AB-123",
	}
}

func TestGateway_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	gw := NewGateway(db)
	ctx := context.Background()
	syncedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, gw.Upsert(ctx, masterRecord("4200", "STOP_1", "Leeds"), syncedAt))

	order, err := gw.Get(ctx, "0000000000000000004200")
	require.NoError(t, err)
	assert.Equal(t, "4200", order.FoID)
	assert.Equal(t, "STOP_1", order.StopID)
	assert.Equal(t, "In Transit", order.Status)
	require.NotNil(t, order.LastEventCity)
	assert.Equal(t, "Leeds", *order.LastEventCity)
	require.NotNil(t, order.LicenseNumber)
	assert.Equal(t, "AB-123", *order.LicenseNumber)
	assert.True(t, order.Latitude.Valid)
	assert.True(t, order.Latitude.Decimal.Equal(decimal.RequireFromString("51.5")))
	assert.NotNil(t, order.EventTime)
	assert.Nil(t, order.Region)
}

func TestGateway_UpsertKeepsEnrichment(t *testing.T) {
	db := setupTestDB(t)
	gw := NewGateway(db)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, gw.Upsert(ctx, masterRecord("7", "STOP_1", "Leeds"), now))

	updated, err := gw.ApplyEnrichment(ctx, reconcile.Enrichment{
		FoID:            "7",
		CargoWeight:     decimal.NewNullDecimal(decimal.RequireFromString("1200.5")),
		CargoWeightUom:  "KG",
		ExecutionStatus: "IN_EXECUTION",
	}, now)
	require.NoError(t, err)
	assert.True(t, updated)

	require.NoError(t, gw.Upsert(ctx, masterRecord("7", "STOP_2", "York"), now.Add(time.Minute)))

	order, err := gw.Get(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "STOP_2", order.StopID)
	require.NotNil(t, order.City)
	assert.Equal(t, "York", *order.City)
	assert.True(t, order.CargoWeight.Valid)
	assert.True(t, order.CargoWeight.Decimal.Equal(decimal.RequireFromString("1200.5")))
	require.NotNil(t, order.CargoWeightUom)
	assert.Equal(t, "KG", *order.CargoWeightUom)
	require.NotNil(t, order.ExecutionStatus)
	assert.Equal(t, "IN_EXECUTION", *order.ExecutionStatus)

	var count int64
	db.Model(&models.FreightOrder{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGateway_ApplyEnrichmentUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	gw := NewGateway(db)

	updated, err := gw.ApplyEnrichment(context.Background(), reconcile.Enrichment{FoID: "999", CargoWeightUom: "KG"}, time.Now())
	require.NoError(t, err)
	assert.False(t, updated)

	var count int64
	db.Model(&models.FreightOrder{}).Count(&count)
	assert.Zero(t, count)
}

func TestGateway_Get(t *testing.T) {
	db := setupTestDB(t)
	gw := NewGateway(db)

	t.Run("not found", func(t *testing.T) {
		_, err := gw.Get(context.Background(), "12345")
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})

	t.Run("blank identifier", func(t *testing.T) {
		_, err := gw.Get(context.Background(), "  ")
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestGateway_UpsertStatementShape(t *testing.T) {
	db, mock := setupMockDB(t)
	gw := NewGateway(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `freight_orders`") + ".*ON DUPLICATE KEY UPDATE .*`stop_id`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gw.Upsert(context.Background(), masterRecord("10", "STOP_1", "Hull"), time.Now())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_PersistenceError(t *testing.T) {
	db, mock := setupMockDB(t)
	gw := NewGateway(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `freight_orders` SET").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	updated, err := gw.ApplyEnrichment(context.Background(), reconcile.Enrichment{FoID: "10"}, time.Now())
	assert.False(t, updated)
	assert.True(t, apperr.IsPersistence(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterColumnsExcludeEnrichment(t *testing.T) {
	for _, col := range masterColumns {
		assert.NotContains(t, []string{
			"cargo_quantity", "cargo_quantity_uom", "cargo_volume", "cargo_volume_uom",
			"cargo_weight", "cargo_weight_uom", "execution_status",
			"planned_arrival_at", "planned_departure_at",
		}, col)
	}
}
