package Models_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Verdant/Models"
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

func TestGetDeliveryByVRNumberAutoCreates(t *testing.T) {
	db := newTestDB(t)

	record, err := Models.GetDeliveryByVRNumber(db, "VR-1001")
	require.NoError(t, err)
	assert.Equal(t, "VR-1001", record.VRNumber)
	assert.Equal(t, Models.StatusScheduled, record.Status)
	assert.Equal(t, Models.DefaultTonnage, record.Tonnage)
	assert.Empty(t, record.Photos)
	assert.Empty(t, record.WeightTickets)
	assert.Nil(t, record.DeliveredAt)

	again, err := Models.GetDeliveryByVRNumber(db, "VR-1001")
	require.NoError(t, err)
	assert.Equal(t, record.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&Models.DeliveryRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetDeliveryByVRNumberRequiresVR(t *testing.T) {
	db := newTestDB(t)

	_, err := Models.GetDeliveryByVRNumber(db, "")
	assert.ErrorIs(t, err, Models.ErrValidationFailed)
}

func TestUpsertDeliveryByVRNumber(t *testing.T) {
	db := newTestDB(t)

	record := &Models.DeliveryRecord{
		VRNumber:      "VR-2000",
		LoadNumber:    3,
		Tonnage:       18.5,
		ScheduledDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, Models.UpsertDeliveryByVRNumber(db, record))

	stored, err := Models.GetDeliveryByVRNumber(db, "VR-2000")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusScheduled, stored.Status)
	assert.Equal(t, 18.5, stored.Tonnage)

	update := &Models.DeliveryRecord{
		VRNumber:      "VR-2000",
		LoadNumber:    4,
		Tonnage:       21.0,
		ScheduledDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, Models.UpsertDeliveryByVRNumber(db, update))

	stored, err = Models.GetDeliveryByVRNumber(db, "VR-2000")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.LoadNumber)
	assert.Equal(t, 21.0, stored.Tonnage)

	var count int64
	require.NoError(t, db.Model(&Models.DeliveryRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertDeliveryRequiresVR(t *testing.T) {
	db := newTestDB(t)

	err := Models.UpsertDeliveryByVRNumber(db, &Models.DeliveryRecord{})
	assert.ErrorIs(t, err, Models.ErrValidationFailed)
}

func TestListDeliveriesFiltersAndOrders(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	seed := []Models.DeliveryRecord{
		{VRNumber: "VR-A", LoadNumber: 2, Status: Models.StatusScheduled, ScheduledDate: base.AddDate(0, 0, 2)},
		{VRNumber: "VR-B", LoadNumber: 1, Status: Models.StatusScheduled, ScheduledDate: base.AddDate(0, 0, 2)},
		{VRNumber: "VR-C", LoadNumber: 1, Status: Models.StatusScheduled, ScheduledDate: base},
		{VRNumber: "VR-D", LoadNumber: 1, Status: Models.StatusDelivered, ScheduledDate: base.AddDate(0, 0, 1)},
	}
	for i := range seed {
		require.NoError(t, Models.UpsertDeliveryByVRNumber(db, &seed[i]))
	}

	all, err := Models.ListDeliveries(db, Models.DeliveryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "VR-C", all[0].VRNumber)
	assert.Equal(t, "VR-B", all[2].VRNumber)
	assert.Equal(t, "VR-A", all[3].VRNumber)

	scheduled, err := Models.ListDeliveries(db, Models.DeliveryFilter{Status: Models.StatusScheduled})
	require.NoError(t, err)
	assert.Len(t, scheduled, 3)

	windowed, err := Models.ListDeliveries(db, Models.DeliveryFilter{
		From: base.AddDate(0, 0, 1),
		To:   base.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, "VR-D", windowed[0].VRNumber)
}

func TestMarkDeliveredAndUndo(t *testing.T) {
	db := newTestDB(t)

	_, err := Models.GetDeliveryByVRNumber(db, "VR-3000")
	require.NoError(t, err)

	record, err := Models.MarkDelivered(db, "VR-3000", "jordan")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusDelivered, record.Status)
	assert.Equal(t, "jordan", record.DeliveredBy)
	require.NotNil(t, record.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *record.DeliveredAt, time.Minute)

	record, err = Models.UndoDelivery(db, "VR-3000")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusScheduled, record.Status)
	assert.Nil(t, record.DeliveredAt)
	assert.Empty(t, record.DeliveredBy)

	// Undoing an already-scheduled record succeeds without changes.
	record, err = Models.UndoDelivery(db, "VR-3000")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusScheduled, record.Status)
}

func TestMarkDeliveredMissingRecord(t *testing.T) {
	db := newTestDB(t)

	_, err := Models.MarkDelivered(db, "VR-NOPE", "jordan")
	assert.ErrorIs(t, err, Models.ErrRecordNotFound)

	_, err = Models.UndoDelivery(db, "VR-NOPE")
	assert.ErrorIs(t, err, Models.ErrRecordNotFound)
}

func TestUpdateDeliveryWeight(t *testing.T) {
	db := newTestDB(t)

	_, err := Models.GetDeliveryByVRNumber(db, "VR-4000")
	require.NoError(t, err)

	record, err := Models.UpdateDeliveryWeight(db, "VR-4000", 38540)
	require.NoError(t, err)
	assert.InDelta(t, 19.27, record.Tonnage, 0.0001)

	_, err = Models.UpdateDeliveryWeight(db, "VR-4000", 0)
	assert.ErrorIs(t, err, Models.ErrValidationFailed)

	_, err = Models.UpdateDeliveryWeight(db, "VR-4000", -12)
	assert.ErrorIs(t, err, Models.ErrValidationFailed)

	_, err = Models.UpdateDeliveryWeight(db, "VR-NOPE", 2000)
	assert.ErrorIs(t, err, Models.ErrRecordNotFound)
}

func TestAppendAndRemoveDeliveryDocument(t *testing.T) {
	db := newTestDB(t)

	_, err := Models.GetDeliveryByVRNumber(db, "VR-5000")
	require.NoError(t, err)

	record, err := Models.AppendDeliveryDocument(db, "VR-5000", "/files/DeliveryPhotos/a.jpg", Models.DocumentFieldPhotos)
	require.NoError(t, err)
	assert.Equal(t, []string{"/files/DeliveryPhotos/a.jpg"}, record.Photos)

	record, err = Models.AppendDeliveryDocument(db, "VR-5000", "/files/DeliveryPhotos/b.jpg", Models.DocumentFieldPhotos)
	require.NoError(t, err)
	assert.Equal(t, []string{"/files/DeliveryPhotos/a.jpg", "/files/DeliveryPhotos/b.jpg"}, record.Photos)

	record, err = Models.AppendDeliveryDocument(db, "VR-5000", "/files/WeightTickets/t.pdf", Models.DocumentFieldWeightTickets)
	require.NoError(t, err)
	assert.Equal(t, []string{"/files/WeightTickets/t.pdf"}, record.WeightTickets)
	assert.Len(t, record.Photos, 2)

	// Persisted across a fresh read.
	stored, err := Models.GetDeliveryByVRNumber(db, "VR-5000")
	require.NoError(t, err)
	assert.Len(t, stored.Photos, 2)
	assert.Len(t, stored.WeightTickets, 1)

	record, err = Models.RemoveDeliveryDocument(db, "VR-5000", "/files/DeliveryPhotos/a.jpg", Models.DocumentFieldPhotos)
	require.NoError(t, err)
	assert.Equal(t, []string{"/files/DeliveryPhotos/b.jpg"}, record.Photos)

	// Removing an absent URL leaves the list unchanged.
	record, err = Models.RemoveDeliveryDocument(db, "VR-5000", "/files/DeliveryPhotos/ghost.jpg", Models.DocumentFieldPhotos)
	require.NoError(t, err)
	assert.Equal(t, []string{"/files/DeliveryPhotos/b.jpg"}, record.Photos)
}

func TestDeliveryDocumentValidation(t *testing.T) {
	db := newTestDB(t)

	_, err := Models.AppendDeliveryDocument(db, "VR-6000", "/x", "signatures")
	assert.ErrorIs(t, err, Models.ErrValidationFailed)

	_, err = Models.AppendDeliveryDocument(db, "VR-6000", "", Models.DocumentFieldPhotos)
	assert.ErrorIs(t, err, Models.ErrValidationFailed)

	_, err = Models.AppendDeliveryDocument(db, "VR-6000", "/x", Models.DocumentFieldPhotos)
	assert.ErrorIs(t, err, Models.ErrRecordNotFound)

	_, err = Models.RemoveDeliveryDocument(db, "VR-6000", "/x", Models.DocumentFieldPhotos)
	assert.ErrorIs(t, err, Models.ErrRecordNotFound)
}
