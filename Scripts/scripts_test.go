package Scripts_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Verdant/Models"
	"Verdant/Scripts"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	return db
}

func writeSeedWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Clients")
	require.NoError(t, err)
	clientRows := [][]interface{}{
		{"Name", "Contact", "Phone", "Email", "Address", "Rate"},
		{"Harvest Kitchen", "Dana Ruiz", "555-0101", "dana@harvest.test", "12 Mill Rd", 52.5},
		{"Greenfield Grocers", "Sam Oduya", "555-0102", "sam@greenfield.test", "4 Commerce Way", 48},
	}
	for i, row := range clientRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Clients", cell, &row))
	}

	_, err = f.NewSheet("Intakes")
	require.NoError(t, err)
	intakeRows := [][]interface{}{
		{"Ticket", "Client", "Waste Type", "Est Tons", "Rate", "Status", "Requested"},
		{"TK-001", "Harvest Kitchen", "food_waste", 8.5, 52.5, "approved", "2026-07-01"},
		{"TK-002", "Greenfield Grocers", "cardboard", 3, 48, "", "2026-07-03"},
	}
	for i, row := range intakeRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Intakes", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "seed.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSeedFromWorkbook(t *testing.T) {
	db := newTestDB(t)
	path := writeSeedWorkbook(t)

	require.NoError(t, Scripts.SeedFromWorkbook(db, path))

	var clients []Models.Client
	require.NoError(t, db.Order("name").Find(&clients).Error)
	require.Len(t, clients, 2)
	assert.Equal(t, "Greenfield Grocers", clients[0].Name)
	assert.InDelta(t, 48.0, clients[0].TippingFeeRate, 0.0001)
	assert.True(t, clients[0].Active)

	var intakes []Models.WasteIntake
	require.NoError(t, db.Order("ticket_number").Find(&intakes).Error)
	require.Len(t, intakes, 2)
	assert.Equal(t, "TK-001", intakes[0].TicketNumber)
	assert.Equal(t, Models.IntakeApproved, intakes[0].Status)
	assert.InDelta(t, 8.5, intakes[0].EstimatedWeight, 0.0001)
	// Blank status defaults to pending.
	assert.Equal(t, Models.IntakePending, intakes[1].Status)

	// Rerunning creates no duplicates.
	require.NoError(t, Scripts.SeedFromWorkbook(db, path))
	var clientCount, intakeCount int64
	require.NoError(t, db.Model(&Models.Client{}).Count(&clientCount).Error)
	require.NoError(t, db.Model(&Models.WasteIntake{}).Count(&intakeCount).Error)
	assert.EqualValues(t, 2, clientCount)
	assert.EqualValues(t, 2, intakeCount)
}

func TestSeedFromWorkbookMissingFile(t *testing.T) {
	db := newTestDB(t)
	assert.Error(t, Scripts.SeedFromWorkbook(db, filepath.Join(t.TempDir(), "nope.xlsx")))
}

func TestNormalizeLegacyStatuses(t *testing.T) {
	db := newTestDB(t)

	legacy := Models.DeliveryRecord{VRNumber: "VR-OLD", Status: "pending"}
	current := Models.DeliveryRecord{VRNumber: "VR-NEW", Status: Models.StatusDelivered}
	require.NoError(t, db.Create(&legacy).Error)
	require.NoError(t, db.Create(&current).Error)

	require.NoError(t, Scripts.NormalizeLegacyStatuses(db))

	fixed, err := Models.GetDeliveryByVRNumber(db, "VR-OLD")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusScheduled, fixed.Status)

	untouched, err := Models.GetDeliveryByVRNumber(db, "VR-NEW")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusDelivered, untouched.Status)
}

func TestCleanupDeliveryRecord(t *testing.T) {
	db := newTestDB(t)

	_, err := Models.GetDeliveryByVRNumber(db, "VR-TYPO")
	require.NoError(t, err)

	require.NoError(t, Scripts.CleanupDeliveryRecord(db, "VR-TYPO"))

	var count int64
	require.NoError(t, db.Unscoped().Model(&Models.DeliveryRecord{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, Scripts.CleanupDeliveryRecord(db, "VR-TYPO"), Models.ErrRecordNotFound)
}
