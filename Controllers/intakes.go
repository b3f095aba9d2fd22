package Controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Verdant/Models"
	"Verdant/email"
)

// IntakeController handles waste-intake ticket endpoints
type IntakeController struct {
	DB *gorm.DB
}

// NewIntakeController creates a new IntakeController
func NewIntakeController(db *gorm.DB) *IntakeController {
	return &IntakeController{DB: db}
}

// GetIntakes lists intake tickets, optionally filtered by status or client
func (c *IntakeController) GetIntakes(ctx *fiber.Ctx) error {
	query := c.DB.Preload("Client")
	if status := ctx.Query("status"); status != "" {
		if !Models.ValidIntakeStatus(status) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status filter"})
		}
		query = query.Where("status = ?", status)
	}
	if clientID := ctx.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var intakes []Models.WasteIntake
	if result := query.Order("requested_date desc").Find(&intakes); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve intakes"})
	}
	return ctx.JSON(intakes)
}

// GetIntake retrieves one intake ticket
func (c *IntakeController) GetIntake(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid intake ID"})
	}

	var intake Models.WasteIntake
	if result := c.DB.Preload("Client").First(&intake, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Intake not found"})
	}
	return ctx.JSON(intake)
}

type intakeRequest struct {
	TicketNumber    string  `json:"ticket_number" validate:"required"`
	ClientID        uint    `json:"client_id" validate:"required"`
	WasteType       string  `json:"waste_type" validate:"required"`
	EstimatedWeight float64 `json:"estimated_weight" validate:"gte=0"`
	TippingFeeRate  float64 `json:"tipping_fee_rate" validate:"gte=0"`
	RequestedDate   string  `json:"requested_date"`
	Notes           string  `json:"notes"`
}

// CreateIntake opens a new ticket. The tipping fee defaults to the client
// rate when the request leaves it blank.
func (c *IntakeController) CreateIntake(ctx *fiber.Ctx) error {
	var input intakeRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !Models.ValidWasteType(input.WasteType) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown waste type"})
	}

	var client Models.Client
	if result := c.DB.First(&client, input.ClientID); result.Error != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Client not found"})
	}

	rate := input.TippingFeeRate
	if rate == 0 {
		rate = client.TippingFeeRate
	}

	requestedDate := time.Now()
	if input.RequestedDate != "" {
		parsed, err := parseDate(input.RequestedDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid requested date"})
		}
		requestedDate = parsed
	}

	intake := Models.WasteIntake{
		TicketNumber:    input.TicketNumber,
		ClientID:        input.ClientID,
		WasteType:       input.WasteType,
		EstimatedWeight: input.EstimatedWeight,
		TippingFeeRate:  rate,
		Status:          Models.IntakePending,
		RequestedDate:   requestedDate,
		Notes:           input.Notes,
	}

	if result := c.DB.Create(&intake); result.Error != nil {
		if strings.Contains(result.Error.Error(), "unique constraint") ||
			strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "An intake with this ticket number already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create intake"})
	}

	intake.Client = client
	return ctx.Status(fiber.StatusCreated).JSON(intake)
}

type intakeStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	ActualWeight float64 `json:"actual_weight" validate:"gte=0"`
}

// UpdateIntakeStatus sets a ticket's status. Any enum value may be set from
// any other; dispatch uses this to fix data-entry mistakes. Receiving a
// ticket stamps received_at and recomputes the charge from actual weight.
func (c *IntakeController) UpdateIntakeStatus(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid intake ID"})
	}

	var input intakeStatusRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !Models.ValidIntakeStatus(input.Status) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
	}

	var intake Models.WasteIntake
	if result := c.DB.Preload("Client").First(&intake, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Intake not found"})
	}

	intake.Status = input.Status
	if input.ActualWeight > 0 {
		intake.ActualWeight = input.ActualWeight
	}
	if input.Status == Models.IntakeReceived && intake.ReceivedAt == nil {
		now := time.Now()
		intake.ReceivedAt = &now
	}
	intake.RecalculateCharge()

	if err := c.DB.Save(&intake).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update intake"})
	}

	go email.SendIntakeStatusEmail(&intake)
	return ctx.JSON(intake)
}

// UpdateIntake edits ticket fields other than status
func (c *IntakeController) UpdateIntake(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid intake ID"})
	}

	var intake Models.WasteIntake
	if result := c.DB.First(&intake, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Intake not found"})
	}

	var input struct {
		WasteType       string  `json:"waste_type"`
		EstimatedWeight float64 `json:"estimated_weight"`
		ActualWeight    float64 `json:"actual_weight"`
		TippingFeeRate  float64 `json:"tipping_fee_rate"`
		Notes           string  `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.WasteType != "" {
		if !Models.ValidWasteType(input.WasteType) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown waste type"})
		}
		intake.WasteType = input.WasteType
	}
	if input.EstimatedWeight > 0 {
		intake.EstimatedWeight = input.EstimatedWeight
	}
	if input.ActualWeight > 0 {
		intake.ActualWeight = input.ActualWeight
	}
	if input.TippingFeeRate > 0 {
		intake.TippingFeeRate = input.TippingFeeRate
	}
	if input.Notes != "" {
		intake.Notes = input.Notes
	}
	intake.RecalculateCharge()

	if err := c.DB.Save(&intake).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update intake"})
	}
	return ctx.JSON(intake)
}

// DeleteIntake soft deletes a mistyped ticket
func (c *IntakeController) DeleteIntake(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid intake ID"})
	}

	var intake Models.WasteIntake
	if result := c.DB.First(&intake, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Intake not found"})
	}

	if err := c.DB.Delete(&intake).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete intake"})
	}
	return ctx.JSON(fiber.Map{"message": "Intake deleted"})
}
