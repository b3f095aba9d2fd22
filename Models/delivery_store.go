package Models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store operations for delivery records. The db handle is passed in by the
// caller; lifecycle belongs to the process, not this package.

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// GetDeliveryByVRNumber returns the record for a VR number, creating a
// default scheduled record when none exists yet. Detail pages rely on this:
// an unseen VR number is a blank record, never a 404.
func GetDeliveryByVRNumber(db *gorm.DB, vrNumber string) (*DeliveryRecord, error) {
	if vrNumber == "" {
		return nil, fmt.Errorf("%w: vr number is required", ErrValidationFailed)
	}

	var record DeliveryRecord
	err := db.Where("vr_number = ?", vrNumber).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err)
	}

	record = DeliveryRecord{
		VRNumber:         vrNumber,
		Status:           StatusScheduled,
		Tonnage:          DefaultTonnage,
		ScheduledDate:    time.Now(),
		PhotoURLs:        EmptyURLList,
		WeightTicketURLs: EmptyURLList,
	}
	if createErr := db.Create(&record).Error; createErr != nil {
		// A concurrent caller may have won the unique-index race; re-read.
		if err := db.Where("vr_number = ?", vrNumber).First(&record).Error; err != nil {
			return nil, storeErr(createErr)
		}
	}
	return &record, nil
}

// UpsertDeliveryByVRNumber inserts or replaces the record keyed on the VR
// number, always touching updated_at.
func UpsertDeliveryByVRNumber(db *gorm.DB, record *DeliveryRecord) error {
	if record.VRNumber == "" {
		return fmt.Errorf("%w: vr number is required", ErrValidationFailed)
	}
	if record.Status == "" {
		record.Status = StatusScheduled
	}
	if record.PhotoURLs == "" {
		record.PhotoURLs = EmptyURLList
	}
	if record.WeightTicketURLs == "" {
		record.WeightTicketURLs = EmptyURLList
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vr_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"load_number", "status", "tonnage", "scheduled_date",
			"delivered_at", "delivered_by", "photo_urls",
			"weight_ticket_urls", "notes", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// DeliveryFilter narrows ListDeliveries. Zero values mean "no filter".
type DeliveryFilter struct {
	Status string
	From   time.Time
	To     time.Time
}

// ListDeliveries returns records matching the filter, soonest first.
func ListDeliveries(db *gorm.DB, filter DeliveryFilter) ([]DeliveryRecord, error) {
	query := db.Model(&DeliveryRecord{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("scheduled_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("scheduled_date < ?", filter.To)
	}

	var records []DeliveryRecord
	if err := query.Order("scheduled_date asc, load_number asc").Find(&records).Error; err != nil {
		return nil, storeErr(err)
	}
	return records, nil
}

// MarkDelivered moves a record to delivered, stamping the time and actor.
// Unlike the lookup path this does not auto-create.
func MarkDelivered(db *gorm.DB, vrNumber, deliveredBy string) (*DeliveryRecord, error) {
	now := time.Now()
	result := db.Model(&DeliveryRecord{}).Where("vr_number = ?", vrNumber).Updates(map[string]interface{}{
		"status":       StatusDelivered,
		"delivered_at": now,
		"delivered_by": deliveredBy,
	})
	if result.Error != nil {
		return nil, storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return fetchByVR(db, vrNumber)
}

// UndoDelivery resets a record to scheduled and clears the delivery stamp.
// Undoing an already-scheduled record is a no-op success.
func UndoDelivery(db *gorm.DB, vrNumber string) (*DeliveryRecord, error) {
	result := db.Model(&DeliveryRecord{}).Where("vr_number = ?", vrNumber).Updates(map[string]interface{}{
		"status":       StatusScheduled,
		"delivered_at": nil,
		"delivered_by": "",
	})
	if result.Error != nil {
		return nil, storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return fetchByVR(db, vrNumber)
}

// UpdateDeliveryWeight persists a scale reading taken in pounds as tons.
func UpdateDeliveryWeight(db *gorm.DB, vrNumber string, weightPounds float64) (*DeliveryRecord, error) {
	if weightPounds <= 0 {
		return nil, fmt.Errorf("%w: weight must be a positive number of pounds", ErrValidationFailed)
	}
	tonnage := weightPounds / 2000.0

	result := db.Model(&DeliveryRecord{}).Where("vr_number = ?", vrNumber).Update("tonnage", tonnage)
	if result.Error != nil {
		return nil, storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return fetchByVR(db, vrNumber)
}

// AppendDeliveryDocument adds a document URL to one of the list columns.
// Concurrent appends to the same record race at read-modify-write
// granularity; last writer wins, matching field usage so far.
func AppendDeliveryDocument(db *gorm.DB, vrNumber, url, field string) (*DeliveryRecord, error) {
	if err := checkDocumentField(field); err != nil {
		return nil, err
	}
	if url == "" {
		return nil, fmt.Errorf("%w: document url is required", ErrValidationFailed)
	}

	record, err := requireByVR(db, vrNumber)
	if err != nil {
		return nil, err
	}

	urls := DecodeURLList(record.documentColumn(field))
	urls = append(urls, url)
	return record.saveDocumentColumn(db, field, urls)
}

// RemoveDeliveryDocument filters a URL out of a list column. Removing a URL
// that is not present succeeds without changing the list.
func RemoveDeliveryDocument(db *gorm.DB, vrNumber, url, field string) (*DeliveryRecord, error) {
	if err := checkDocumentField(field); err != nil {
		return nil, err
	}

	record, err := requireByVR(db, vrNumber)
	if err != nil {
		return nil, err
	}

	existing := DecodeURLList(record.documentColumn(field))
	kept := make([]string, 0, len(existing))
	for _, u := range existing {
		if u != url {
			kept = append(kept, u)
		}
	}
	return record.saveDocumentColumn(db, field, kept)
}

func checkDocumentField(field string) error {
	if field != DocumentFieldPhotos && field != DocumentFieldWeightTickets {
		return fmt.Errorf("%w: unknown document field %q", ErrValidationFailed, field)
	}
	return nil
}

func (d *DeliveryRecord) documentColumn(field string) string {
	if field == DocumentFieldWeightTickets {
		return d.WeightTicketURLs
	}
	return d.PhotoURLs
}

func (d *DeliveryRecord) saveDocumentColumn(db *gorm.DB, field string, urls []string) (*DeliveryRecord, error) {
	encoded := EncodeURLList(urls)
	if err := db.Model(d).Update(field, encoded).Error; err != nil {
		return nil, storeErr(err)
	}
	if field == DocumentFieldWeightTickets {
		d.WeightTicketURLs = encoded
	} else {
		d.PhotoURLs = encoded
	}
	d.hydrate()
	return d, nil
}

func fetchByVR(db *gorm.DB, vrNumber string) (*DeliveryRecord, error) {
	var record DeliveryRecord
	if err := db.Where("vr_number = ?", vrNumber).First(&record).Error; err != nil {
		return nil, storeErr(err)
	}
	return &record, nil
}

func requireByVR(db *gorm.DB, vrNumber string) (*DeliveryRecord, error) {
	var record DeliveryRecord
	err := db.Where("vr_number = ?", vrNumber).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &record, nil
}
