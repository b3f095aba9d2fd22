package Models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Delivery statuses. Legacy rows sometimes carry "pending" from hand-entered
// data; Scripts.NormalizeLegacyStatuses folds those into "scheduled".
const (
	StatusScheduled = "scheduled"
	StatusDelivered = "delivered"
)

// Default tonnage stamped on auto-created records.
const DefaultTonnage = 20.0

// EmptyURLList is the stored form of an empty document list.
const EmptyURLList = "[]"

// Document list columns addressable by the append/remove operations.
const (
	DocumentFieldPhotos        = "photo_urls"
	DocumentFieldWeightTickets = "weight_ticket_urls"
)

// DeliveryRecord is one scheduled or completed load. The VR number is the
// identity every external caller uses; the numeric id only exists for the
// storage layer.
type DeliveryRecord struct {
	gorm.Model
	VRNumber      string     `json:"vr_number" gorm:"uniqueIndex;not null"`
	LoadNumber    int        `json:"load_number"`
	Status        string     `json:"status" gorm:"default:scheduled"`
	Tonnage       float64    `json:"tonnage"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	DeliveredAt   *time.Time `json:"delivered_at"`
	DeliveredBy   string     `json:"delivered_by"`

	// JSON-array-as-text columns. Older rows may have NULL in
	// weight_ticket_urls; the codec treats that as an empty list.
	PhotoURLs        string `json:"-" gorm:"column:photo_urls;type:text;default:'[]'"`
	WeightTicketURLs string `json:"-" gorm:"column:weight_ticket_urls;type:text;default:'[]'"`

	// Decoded views of the columns above, filled by hooks.
	Photos        []string `json:"photo_urls" gorm:"-"`
	WeightTickets []string `json:"weight_ticket_urls" gorm:"-"`

	// Notes is sometimes a plain sentence, sometimes a JSON blob of ticket
	// metadata. ParseTicketMeta attempts the structured read.
	Notes string `json:"notes" gorm:"type:text"`
}

func (DeliveryRecord) TableName() string {
	return "delivery_records"
}

func (d *DeliveryRecord) AfterFind(*gorm.DB) error {
	d.hydrate()
	return nil
}

func (d *DeliveryRecord) AfterSave(*gorm.DB) error {
	d.hydrate()
	return nil
}

func (d *DeliveryRecord) hydrate() {
	d.Photos = DecodeURLList(d.PhotoURLs)
	d.WeightTickets = DecodeURLList(d.WeightTicketURLs)
}

// EncodeURLList serializes an ordered list of document URLs for storage.
// A nil or empty list encodes as "[]".
func EncodeURLList(urls []string) string {
	if len(urls) == 0 {
		return EmptyURLList
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return EmptyURLList
	}
	return string(data)
}

// DecodeURLList is the inverse of EncodeURLList. NULL columns and empty
// strings decode to an empty list.
func DecodeURLList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return []string{}
	}
	if urls == nil {
		return []string{}
	}
	return urls
}

// TicketMeta is the structured shape some rows stuff into the notes column.
type TicketMeta struct {
	TicketNumber string  `json:"ticket_number"`
	GrossWeight  float64 `json:"gross_weight"`
	TareWeight   float64 `json:"tare_weight"`
	NetWeight    float64 `json:"net_weight"`
	Material     string  `json:"material"`
	Source       string  `json:"source"`
}

// ParseTicketMeta attempts a structured read of the notes blob. The second
// return is false when the notes are plain prose, in which case the caller
// should treat the field as opaque text.
func ParseTicketMeta(notes string) (*TicketMeta, bool) {
	trimmed := notes
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\n' || trimmed[0] == '\t') {
		trimmed = trimmed[1:]
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var meta TicketMeta
	if err := json.Unmarshal([]byte(trimmed), &meta); err != nil {
		return nil, false
	}
	return &meta, true
}
