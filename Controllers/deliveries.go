package Controllers

import (
	"Verdant/Models"
	"Verdant/Notifications"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeliveryController handles delivery-record API endpoints. Records are
// addressed by VR number everywhere; row ids never leave the API.
type DeliveryController struct {
	DB *gorm.DB
}

// NewDeliveryController creates a new DeliveryController
func NewDeliveryController(db *gorm.DB) *DeliveryController {
	return &DeliveryController{DB: db}
}

// GetDelivery returns the record for a VR number. An unseen VR number comes
// back as a fresh scheduled record rather than a 404; the driver detail
// pages depend on that.
func (c *DeliveryController) GetDelivery(ctx *fiber.Ctx) error {
	record, err := Models.GetDeliveryByVRNumber(c.DB, ctx.Params("vr"))
	if err != nil {
		return deliveryError(ctx, err)
	}
	return ctx.JSON(record)
}

// ListDeliveries returns records, optionally filtered by status and
// scheduled-date range (YYYY-MM-DD).
func (c *DeliveryController) ListDeliveries(ctx *fiber.Ctx) error {
	filter := Models.DeliveryFilter{Status: ctx.Query("status")}

	if raw := ctx.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from date"})
		}
		filter.From = from
	}
	if raw := ctx.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to date"})
		}
		filter.To = to
	}

	records, err := Models.ListDeliveries(c.DB, filter)
	if err != nil {
		return deliveryError(ctx, err)
	}
	return ctx.JSON(records)
}

type upsertDeliveryRequest struct {
	VRNumber      string  `json:"vr_number" validate:"required"`
	LoadNumber    int     `json:"load_number"`
	Status        string  `json:"status"`
	Tonnage       float64 `json:"tonnage"`
	ScheduledDate string  `json:"scheduled_date"`
	Notes         string  `json:"notes"`
}

// UpsertDelivery creates or replaces the record for a VR number. Used by
// the office when keying a shipment group ahead of time.
func (c *DeliveryController) UpsertDelivery(ctx *fiber.Ctx) error {
	var input upsertDeliveryRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Status != "" && input.Status != Models.StatusScheduled && input.Status != Models.StatusDelivered {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
	}

	record := Models.DeliveryRecord{
		VRNumber:   input.VRNumber,
		LoadNumber: input.LoadNumber,
		Status:     input.Status,
		Tonnage:    input.Tonnage,
		Notes:      input.Notes,
	}
	if input.ScheduledDate != "" {
		scheduled, err := time.Parse("2006-01-02", input.ScheduledDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid scheduled date"})
		}
		record.ScheduledDate = scheduled
	} else {
		record.ScheduledDate = time.Now()
	}

	if err := Models.UpsertDeliveryByVRNumber(c.DB, &record); err != nil {
		return deliveryError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(record)
}

// MarkDelivered completes a load. The acting user from the session is
// stamped as the deliverer.
func (c *DeliveryController) MarkDelivered(ctx *fiber.Ctx) error {
	deliveredBy := "office"
	if user, ok := ctx.Locals("user").(Models.User); ok {
		deliveredBy = user.Name
	}

	record, err := Models.MarkDelivered(c.DB, ctx.Params("vr"), deliveredBy)
	if err != nil {
		return deliveryError(ctx, err)
	}

	go Notifications.PushDeliveryStatus(c.DB, record, "delivered")
	return ctx.JSON(record)
}

// UndoDelivery reverses an accidental completion.
func (c *DeliveryController) UndoDelivery(ctx *fiber.Ctx) error {
	record, err := Models.UndoDelivery(c.DB, ctx.Params("vr"))
	if err != nil {
		return deliveryError(ctx, err)
	}

	go Notifications.PushDeliveryStatus(c.DB, record, "reset to scheduled")
	return ctx.JSON(record)
}

type updateWeightRequest struct {
	WeightPounds float64 `json:"weight_pounds" validate:"required,gt=0"`
}

// UpdateWeight records the scale reading for a load. The API takes pounds
// as read off the scale; storage is in tons.
func (c *DeliveryController) UpdateWeight(ctx *fiber.Ctx) error {
	var input updateWeightRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Weight must be a positive number of pounds"})
	}

	record, err := Models.UpdateDeliveryWeight(c.DB, ctx.Params("vr"), input.WeightPounds)
	if err != nil {
		return deliveryError(ctx, err)
	}
	return ctx.JSON(record)
}

// deliveryError translates store failures into responses. Controllers
// surface the kind, never the driver detail.
func deliveryError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, Models.ErrRecordNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Delivery record not found"})
	case errors.Is(err, Models.ErrValidationFailed):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to access delivery records"})
	}
}
