package Controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Verdant/Models"
	"Verdant/Tickets"
)

// WeighTicketController renders printable weigh tickets for deliveries
type WeighTicketController struct {
	DB *gorm.DB
}

// NewWeighTicketController creates a new WeighTicketController
func NewWeighTicketController(db *gorm.DB) *WeighTicketController {
	return &WeighTicketController{DB: db}
}

// GenerateTicket renders the weigh ticket PDF for a delivery record.
// Ticket metadata lives in the structured notes blob when the scale house
// recorded one; otherwise the stored tonnage stands in for the net weight.
func (c *WeighTicketController) GenerateTicket(ctx *fiber.Ctx) error {
	vrNumber := ctx.Params("vr")

	record, err := Models.GetDeliveryByVRNumber(c.DB, vrNumber)
	if err != nil {
		return deliveryError(ctx, err)
	}

	data := Tickets.TicketData{
		VRNumber:     record.VRNumber,
		TicketNumber: fmt.Sprintf("WT-%s", record.VRNumber),
		Date:         record.ScheduledDate,
		NetWeightLbs: record.Tonnage * 2000,
		WeighedBy:    record.DeliveredBy,
	}
	if record.DeliveredAt != nil {
		data.Date = *record.DeliveredAt
	}

	if meta, ok := Models.ParseTicketMeta(record.Notes); ok {
		if meta.TicketNumber != "" {
			data.TicketNumber = meta.TicketNumber
		}
		data.Material = meta.Material
		data.Source = meta.Source
		data.GrossWeightLbs = meta.GrossWeight
		data.TareWeightLbs = meta.TareWeight
		// Prefer scale figures over the keyed tonnage when present.
		data.NetWeightLbs = meta.NetWeight
	}

	pdf, err := Tickets.Render(data)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render weigh ticket"})
	}

	ctx.Set("Content-Type", "application/pdf")
	ctx.Set("Content-Disposition", fmt.Sprintf(`inline; filename="weigh_ticket_%s.pdf"`, record.VRNumber))
	return ctx.Send(pdf)
}
