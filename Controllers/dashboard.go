package Controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Verdant/Models"
)

// DashboardController serves the reporting figures. Every endpoint here
// degrades to zeroed data when the store misbehaves; the dashboard should
// render through an outage.
type DashboardController struct {
	DB *gorm.DB
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// Summary returns the year-to-date and month-to-date rollups plus the
// derived environmental impact figures.
func (c *DashboardController) Summary(ctx *fiber.Ctx) error {
	ytd := Models.YearToDateSummary(c.DB)
	mtd := Models.MonthToDateSummary(c.DB)

	return ctx.JSON(fiber.Map{
		"year_to_date":  ytd,
		"month_to_date": mtd,
		"impact":        Models.ImpactForTonnage(ytd.TotalTons),
	})
}

// MonthlySeries returns the trailing six calendar months for charting,
// oldest first.
func (c *DashboardController) MonthlySeries(ctx *fiber.Ctx) error {
	return ctx.JSON(Models.MonthlyIntakeSeries(c.DB, 6))
}

// WasteBreakdown returns year-to-date tonnage per waste type for the pie
// chart.
func (c *DashboardController) WasteBreakdown(ctx *fiber.Ctx) error {
	now := time.Now()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return ctx.JSON(Models.WasteTypeBreakdown(c.DB, start, now))
}

// ExportMonthlyReport streams the trailing six months as a spreadsheet for
// the monthly board packet.
func (c *DashboardController) ExportMonthlyReport(ctx *fiber.Ctx) error {
	series := Models.MonthlyIntakeSeries(c.DB, 6)
	breakdown := Models.WasteTypeBreakdown(c.DB,
		time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.Now().Location()),
		time.Now())

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Diversion"
	f.SetSheetName("Sheet1", sheet)
	f.SetCellValue(sheet, "A1", "Month")
	f.SetCellValue(sheet, "B1", "Tons Diverted")
	f.SetCellValue(sheet, "C1", "Revenue")
	for i, point := range series {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), point.Month)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), point.Tons)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), point.Revenue)
	}

	typeSheet := "By Waste Type"
	if _, err := f.NewSheet(typeSheet); err == nil {
		f.SetCellValue(typeSheet, "A1", "Waste Type")
		f.SetCellValue(typeSheet, "B1", "Tons (YTD)")
		for i, bucket := range breakdown {
			row := i + 2
			f.SetCellValue(typeSheet, fmt.Sprintf("A%d", row), bucket.Label)
			f.SetCellValue(typeSheet, fmt.Sprintf("B%d", row), bucket.Tons)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="diversion_report_%s.xlsx"`, time.Now().Format("2006_01")))
	return ctx.Send(buf.Bytes())
}
