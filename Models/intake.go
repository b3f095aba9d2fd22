package Models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Intake statuses. The enum is validated on writes but no transition order
// is enforced; dispatch corrects mis-keyed tickets by setting any status.
const (
	IntakePending   = "pending"
	IntakeApproved  = "approved"
	IntakeScheduled = "scheduled"
	IntakeInTransit = "in_transit"
	IntakeReceived  = "received"
	IntakeProcessed = "processed"
	IntakeCancelled = "cancelled"
	IntakeRejected  = "rejected"
)

var intakeStatuses = map[string]bool{
	IntakePending:   true,
	IntakeApproved:  true,
	IntakeScheduled: true,
	IntakeInTransit: true,
	IntakeReceived:  true,
	IntakeProcessed: true,
	IntakeCancelled: true,
	IntakeRejected:  true,
}

// ValidIntakeStatus reports whether s is a member of the status enum.
func ValidIntakeStatus(s string) bool {
	return intakeStatuses[s]
}

// Waste type enum keys. Labels shown to users come from HumanizeWasteType.
const (
	WasteFood          = "food_waste"
	WasteGreen         = "green_waste"
	WasteWood          = "wood_waste"
	WasteCardboard     = "cardboard"
	WasteMixedOrganics = "mixed_organics"
)

var wasteTypes = map[string]bool{
	WasteFood:          true,
	WasteGreen:         true,
	WasteWood:          true,
	WasteCardboard:     true,
	WasteMixedOrganics: true,
}

// ValidWasteType reports whether t is a known waste type key.
func ValidWasteType(t string) bool {
	return wasteTypes[t]
}

// HumanizeWasteType turns an enum key into a display label:
// "food_waste" -> "Food Waste".
func HumanizeWasteType(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// WasteIntake is a ticketed delivery request from a client. Weights are in
// tons; TotalCharge is derived, never entered by hand.
type WasteIntake struct {
	gorm.Model
	TicketNumber    string     `json:"ticket_number" gorm:"uniqueIndex;not null"`
	ClientID        uint       `json:"client_id" gorm:"index;not null"`
	Client          Client     `json:"client" gorm:"foreignKey:ClientID"`
	WasteType       string     `json:"waste_type"`
	WasteTypeLabel  string     `json:"waste_type_label" gorm:"-"`
	EstimatedWeight float64    `json:"estimated_weight"`
	ActualWeight    float64    `json:"actual_weight"`
	TippingFeeRate  float64    `json:"tipping_fee_rate"`
	TotalCharge     float64    `json:"total_charge"`
	Status          string     `json:"status" gorm:"index;default:pending"`
	RequestedDate   time.Time  `json:"requested_date"`
	ReceivedAt      *time.Time `json:"received_at"`
	Notes           string     `json:"notes" gorm:"type:text"`
}

func (WasteIntake) TableName() string {
	return "waste_intakes"
}

func (i *WasteIntake) AfterFind(*gorm.DB) error {
	i.WasteTypeLabel = HumanizeWasteType(i.WasteType)
	return nil
}

// RecalculateCharge refreshes the billing figure after a weight or rate
// change.
func (i *WasteIntake) RecalculateCharge() {
	i.TotalCharge = i.ActualWeight * i.TippingFeeRate
}
