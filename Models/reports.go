package Models

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// Reporting reads degrade to zeroed payloads on store errors so the
// dashboard renders instead of crashing. Errors are logged, never returned.

// WindowSummary is the count/weight/charge rollup for a date window.
type WindowSummary struct {
	Count       int64   `json:"count"`
	TotalTons   float64 `json:"total_tons"`
	TotalCharge float64 `json:"total_charge"`
}

// IntakeWindowSummary sums intakes with the given status whose received_at
// falls in [from, to).
func IntakeWindowSummary(db *gorm.DB, status string, from, to time.Time) WindowSummary {
	var summary WindowSummary

	query := db.Model(&WasteIntake{}).
		Where("status = ?", status).
		Where("received_at >= ? AND received_at < ?", from, to)

	if err := query.Count(&summary.Count).Error; err != nil {
		log.Printf("intake window count failed: %v", err)
		return WindowSummary{}
	}

	row := query.Select("COALESCE(SUM(actual_weight), 0), COALESCE(SUM(total_charge), 0)").Row()
	if err := row.Scan(&summary.TotalTons, &summary.TotalCharge); err != nil {
		log.Printf("intake window sums failed: %v", err)
		return WindowSummary{}
	}
	return summary
}

// YearToDateSummary covers [Jan 1 of the current year, now).
func YearToDateSummary(db *gorm.DB) WindowSummary {
	now := time.Now()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return IntakeWindowSummary(db, IntakeReceived, start, now)
}

// MonthToDateSummary covers [first of the current month, now).
func MonthToDateSummary(db *gorm.DB) WindowSummary {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return IntakeWindowSummary(db, IntakeReceived, start, now)
}

// MonthlyPoint is one calendar month of the trailing series.
type MonthlyPoint struct {
	Month   string  `json:"month"`
	Tons    float64 `json:"tons"`
	Revenue float64 `json:"revenue"`
}

// MonthlyIntakeSeries returns a fixed-length series for the last `months`
// calendar months, oldest first, including zero months. Rows are fetched in
// one query and bucketed in Go rather than fighting SQL date formatting
// across drivers.
func MonthlyIntakeSeries(db *gorm.DB, months int) []MonthlyPoint {
	if months <= 0 {
		months = 6
	}

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	windowStart := first.AddDate(0, -(months - 1), 0)

	// Pre-fill a bucket per month so empty months still chart.
	buckets := make(map[string]*MonthlyPoint, months)
	order := make([]string, 0, months)
	for i := 0; i < months; i++ {
		month := windowStart.AddDate(0, i, 0)
		key := month.Format("2006-01")
		buckets[key] = &MonthlyPoint{Month: month.Format("Jan 2006")}
		order = append(order, key)
	}

	var intakes []WasteIntake
	err := db.Where("status = ?", IntakeReceived).
		Where("received_at >= ? AND received_at < ?", windowStart, now).
		Find(&intakes).Error
	if err != nil {
		log.Printf("monthly intake series failed: %v", err)
	} else {
		for _, intake := range intakes {
			if intake.ReceivedAt == nil {
				continue
			}
			// Timestamps come back from the driver in UTC; bucket keys are
			// server-local months.
			if point, ok := buckets[intake.ReceivedAt.In(now.Location()).Format("2006-01")]; ok {
				point.Tons += intake.ActualWeight
				point.Revenue += intake.TotalCharge
			}
		}
	}

	series := make([]MonthlyPoint, 0, months)
	for _, key := range order {
		series = append(series, *buckets[key])
	}
	return series
}

// WasteTypeBucket is one slice of the diversion breakdown.
type WasteTypeBucket struct {
	WasteType string  `json:"waste_type"`
	Label     string  `json:"label"`
	Tons      float64 `json:"tons"`
}

// WasteTypeBreakdown groups received intakes by waste type over [from, to),
// heaviest first.
func WasteTypeBreakdown(db *gorm.DB, from, to time.Time) []WasteTypeBucket {
	var rows []struct {
		WasteType string
		Tons      float64
	}

	err := db.Model(&WasteIntake{}).
		Select("waste_type, COALESCE(SUM(actual_weight), 0) as tons").
		Where("status = ?", IntakeReceived).
		Where("received_at >= ? AND received_at < ?", from, to).
		Group("waste_type").
		Order("tons desc").
		Scan(&rows).Error
	if err != nil {
		log.Printf("waste type breakdown failed: %v", err)
		return []WasteTypeBucket{}
	}

	buckets := make([]WasteTypeBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, WasteTypeBucket{
			WasteType: row.WasteType,
			Label:     HumanizeWasteType(row.WasteType),
			Tons:      row.Tons,
		})
	}
	return buckets
}

// Environmental impact coefficients, per diverted ton. These are the
// published figures used in client reporting and must not drift.
func CalculateCO2Avoided(tons float64) float64 {
	return tons * 0.9
}

func CalculateLandfillSpaceSaved(tons float64) float64 {
	return tons * 1.5
}

func CalculateCompostProduced(tons float64) float64 {
	return tons * 0.5
}

func CalculateMethaneAvoided(tons float64) float64 {
	return tons * 0.06
}

// ImpactSummary bundles the derived metrics for a tonnage total.
type ImpactSummary struct {
	TotalTons            float64 `json:"total_tons"`
	CO2AvoidedTons       float64 `json:"co2_avoided_tons"`
	LandfillSpaceSavedYd float64 `json:"landfill_space_saved_cubic_yards"`
	CompostProducedTons  float64 `json:"compost_produced_tons"`
	MethaneAvoidedTons   float64 `json:"methane_avoided_tons"`
}

// ImpactForTonnage computes every impact metric for a diverted tonnage.
func ImpactForTonnage(tons float64) ImpactSummary {
	return ImpactSummary{
		TotalTons:            tons,
		CO2AvoidedTons:       CalculateCO2Avoided(tons),
		LandfillSpaceSavedYd: CalculateLandfillSpaceSaved(tons),
		CompostProducedTons:  CalculateCompostProduced(tons),
		MethaneAvoidedTons:   CalculateMethaneAvoided(tons),
	}
}
