package Models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Client is a waste-generating customer (restaurant group, grocer,
// municipality). TippingFeeRate is the default per-ton price applied to new
// intakes; contracts can override it.
type Client struct {
	gorm.Model
	Name           string  `json:"name" gorm:"uniqueIndex;not null"`
	ContactName    string  `json:"contact_name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Address        string  `json:"address"`
	TippingFeeRate float64 `json:"tipping_fee_rate"`
	Active         bool    `json:"active" gorm:"default:true"`
	Notes          string  `json:"notes" gorm:"type:text"`

	Contracts []Contract `json:"contracts,omitempty" gorm:"foreignKey:ClientID"`
}

// Contract statuses.
const (
	ContractActive  = "active"
	ContractExpired = "expired"
	ContractDraft   = "draft"
)

// Contract is a negotiated service agreement with a client. RateSchedule
// holds per-waste-type overrides as a JSON object keyed by waste type.
type Contract struct {
	gorm.Model
	ClientID              uint           `json:"client_id" gorm:"index;not null"`
	StartDate             time.Time      `json:"start_date"`
	EndDate               time.Time      `json:"end_date"`
	TippingFeeRate        float64        `json:"tipping_fee_rate"`
	MonthlyCommitmentTons float64        `json:"monthly_commitment_tons"`
	RateSchedule          datatypes.JSON `json:"rate_schedule"`
	Status                string         `json:"status" gorm:"default:draft"`
	Notes                 string         `json:"notes" gorm:"type:text"`
}

// RateFor returns the contract rate for a waste type, falling back to the
// contract-wide rate when the schedule has no entry.
func (c *Contract) RateFor(wasteType string) float64 {
	if len(c.RateSchedule) > 0 {
		var schedule map[string]float64
		if err := json.Unmarshal(c.RateSchedule, &schedule); err == nil {
			if rate, ok := schedule[wasteType]; ok {
				return rate
			}
		}
	}
	return c.TippingFeeRate
}
