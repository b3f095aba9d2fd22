package Models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Verdant/Models"
)

func seedClient(t *testing.T, db *gorm.DB) Models.Client {
	t.Helper()
	client := Models.Client{Name: "Harvest Kitchen", TippingFeeRate: 55, Active: true}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func receivedIntake(clientID uint, ticket, wasteType string, tons float64, receivedAt time.Time) Models.WasteIntake {
	intake := Models.WasteIntake{
		TicketNumber:   ticket,
		ClientID:       clientID,
		WasteType:      wasteType,
		ActualWeight:   tons,
		TippingFeeRate: 55,
		Status:         Models.IntakeReceived,
		ReceivedAt:     &receivedAt,
	}
	intake.RecalculateCharge()
	return intake
}

func TestIntakeWindowSummary(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := []Models.WasteIntake{
		receivedIntake(client.ID, "T-1", Models.WasteFood, 20, from.AddDate(0, 0, 3)),
		receivedIntake(client.ID, "T-2", Models.WasteGreen, 25, from.AddDate(0, 0, 10)),
		receivedIntake(client.ID, "T-3", Models.WasteFood, 15, from.AddDate(0, 0, 20)),
		// Outside the window.
		receivedIntake(client.ID, "T-4", Models.WasteFood, 99, from.AddDate(0, -1, 0)),
		receivedIntake(client.ID, "T-5", Models.WasteFood, 99, to),
	}
	// Wrong status falls out regardless of date.
	pending := Models.WasteIntake{TicketNumber: "T-6", ClientID: client.ID, WasteType: Models.WasteFood, Status: Models.IntakePending}
	require.NoError(t, db.Create(&pending).Error)
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	summary := Models.IntakeWindowSummary(db, Models.IntakeReceived, from, to)
	assert.EqualValues(t, 3, summary.Count)
	assert.InDelta(t, 60.0, summary.TotalTons, 0.0001)
	assert.InDelta(t, 60.0*55, summary.TotalCharge, 0.0001)
}

func TestIntakeWindowSummaryEmpty(t *testing.T) {
	db := newTestDB(t)

	summary := Models.IntakeWindowSummary(db, Models.IntakeReceived,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.TotalTons)
	assert.Zero(t, summary.TotalCharge)
}

func TestMonthToDateSummary(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)

	recent := time.Now().Add(-time.Minute)
	intake := receivedIntake(client.ID, "T-MTD", Models.WasteFood, 12, recent)
	require.NoError(t, db.Create(&intake).Error)

	mtd := Models.MonthToDateSummary(db)
	assert.EqualValues(t, 1, mtd.Count)
	assert.InDelta(t, 12.0, mtd.TotalTons, 0.0001)

	ytd := Models.YearToDateSummary(db)
	assert.EqualValues(t, 1, ytd.Count)
}

func TestMonthlyIntakeSeries(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)

	recent := time.Now().Add(-time.Minute)
	intake := receivedIntake(client.ID, "T-S1", Models.WasteFood, 30, recent)
	require.NoError(t, db.Create(&intake).Error)

	series := Models.MonthlyIntakeSeries(db, 6)
	require.Len(t, series, 6)

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	assert.Equal(t, first.AddDate(0, -5, 0).Format("Jan 2006"), series[0].Month)
	assert.Equal(t, first.Format("Jan 2006"), series[5].Month)

	// Empty months chart as zeros, the current month carries the intake.
	for _, point := range series[:5] {
		assert.Zero(t, point.Tons)
	}
	assert.InDelta(t, 30.0, series[5].Tons, 0.0001)
	assert.InDelta(t, 30.0*55, series[5].Revenue, 0.0001)
}

func TestMonthlyIntakeSeriesForeignZoneTimestamps(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)

	// Scale-house clients stamp received_at in their own zone and the
	// driver hands it back in UTC; bucketing must follow the server month.
	recent := time.Now().Add(-time.Minute).In(time.FixedZone("scalehouse", 13*3600))
	intake := receivedIntake(client.ID, "T-TZ", Models.WasteFood, 7, recent)
	require.NoError(t, db.Create(&intake).Error)

	series := Models.MonthlyIntakeSeries(db, 6)
	require.Len(t, series, 6)
	assert.InDelta(t, 7.0, series[5].Tons, 0.0001)
}

func TestMonthlyIntakeSeriesDefaultsToSix(t *testing.T) {
	db := newTestDB(t)
	assert.Len(t, Models.MonthlyIntakeSeries(db, 0), 6)
	assert.Len(t, Models.MonthlyIntakeSeries(db, -3), 6)
}

func TestWasteTypeBreakdown(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := []Models.WasteIntake{
		receivedIntake(client.ID, "T-10", Models.WasteFood, 15, from.AddDate(0, 0, 1)),
		receivedIntake(client.ID, "T-11", Models.WasteFood, 25, from.AddDate(0, 0, 2)),
		receivedIntake(client.ID, "T-12", Models.WasteGreen, 10, from.AddDate(0, 0, 3)),
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	breakdown := Models.WasteTypeBreakdown(db, from, to)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "Food Waste", breakdown[0].Label)
	assert.InDelta(t, 40.0, breakdown[0].Tons, 0.0001)
	assert.Equal(t, "Green Waste", breakdown[1].Label)
	assert.InDelta(t, 10.0, breakdown[1].Tons, 0.0001)
}

func TestReportsDegradeToZeroOnStoreError(t *testing.T) {
	db := newTestDB(t)
	// Dropping the table makes every reporting query fail; the dashboard
	// must still get renderable zeroed payloads, never an error.
	require.NoError(t, db.Migrator().DropTable(&Models.WasteIntake{}))

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	summary := Models.IntakeWindowSummary(db, Models.IntakeReceived, from, to)
	assert.Equal(t, Models.WindowSummary{}, summary)

	assert.Equal(t, Models.WindowSummary{}, Models.YearToDateSummary(db))
	assert.Equal(t, Models.WindowSummary{}, Models.MonthToDateSummary(db))

	series := Models.MonthlyIntakeSeries(db, 6)
	require.Len(t, series, 6)
	for _, point := range series {
		assert.NotEmpty(t, point.Month)
		assert.Zero(t, point.Tons)
		assert.Zero(t, point.Revenue)
	}

	assert.Empty(t, Models.WasteTypeBreakdown(db, from, to))
}

func TestImpactCoefficients(t *testing.T) {
	assert.InDelta(t, 90.0, Models.CalculateCO2Avoided(100), 0.0001)
	assert.InDelta(t, 150.0, Models.CalculateLandfillSpaceSaved(100), 0.0001)
	assert.InDelta(t, 50.0, Models.CalculateCompostProduced(100), 0.0001)
	assert.InDelta(t, 6.0, Models.CalculateMethaneAvoided(100), 0.0001)

	impact := Models.ImpactForTonnage(100)
	assert.Equal(t, 100.0, impact.TotalTons)
	assert.InDelta(t, 90.0, impact.CO2AvoidedTons, 0.0001)
	assert.InDelta(t, 150.0, impact.LandfillSpaceSavedYd, 0.0001)
	assert.InDelta(t, 50.0, impact.CompostProducedTons, 0.0001)
	assert.InDelta(t, 6.0, impact.MethaneAvoidedTons, 0.0001)
}
