package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Verdant/Models"
)

// ScheduleController serves the public delivery schedule. These routes are
// deliberately unauthenticated; haulers check them from the road.
type ScheduleController struct {
	DB *gorm.DB
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(db *gorm.DB) *ScheduleController {
	return &ScheduleController{DB: db}
}

// scheduleWindow returns the next two weeks of scheduled loads. Reporting
// semantics apply: store trouble yields an empty schedule, not an error
// page.
func (c *ScheduleController) scheduleWindow() []Models.DeliveryRecord {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	records, err := Models.ListDeliveries(c.DB, Models.DeliveryFilter{
		Status: Models.StatusScheduled,
		From:   today,
		To:     today.AddDate(0, 0, 14),
	})
	if err != nil {
		return []Models.DeliveryRecord{}
	}
	return records
}

// GetSchedule returns the upcoming schedule as JSON
func (c *ScheduleController) GetSchedule(ctx *fiber.Ctx) error {
	return ctx.JSON(c.scheduleWindow())
}

// SchedulePage renders the public schedule board
func (c *ScheduleController) SchedulePage(ctx *fiber.Ctx) error {
	records := c.scheduleWindow()

	type scheduleRow struct {
		VRNumber   string
		LoadNumber int
		Date       string
		Tonnage    float64
	}
	rows := make([]scheduleRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, scheduleRow{
			VRNumber:   record.VRNumber,
			LoadNumber: record.LoadNumber,
			Date:       record.ScheduledDate.Format("Mon Jan 2"),
			Tonnage:    record.Tonnage,
		})
	}

	return ctx.Render("schedule", fiber.Map{
		"Rows":      rows,
		"Generated": time.Now().Format("Jan 2, 2006 3:04 PM"),
	})
}
