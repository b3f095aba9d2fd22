package Controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Verdant/Models"
)

// ClientController handles client and contract API endpoints
type ClientController struct {
	DB *gorm.DB
}

// NewClientController creates a new ClientController
func NewClientController(db *gorm.DB) *ClientController {
	return &ClientController{DB: db}
}

// GetClients retrieves all clients
func (c *ClientController) GetClients(ctx *fiber.Ctx) error {
	var clients []Models.Client
	query := c.DB
	if ctx.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}
	if result := query.Find(&clients); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve clients"})
	}
	return ctx.JSON(clients)
}

// GetClient retrieves a single client with its contracts
func (c *ClientController) GetClient(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	var client Models.Client
	if result := c.DB.Preload("Contracts").First(&client, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
	}
	return ctx.JSON(client)
}

type clientRequest struct {
	Name           string  `json:"name" validate:"required"`
	ContactName    string  `json:"contact_name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Address        string  `json:"address"`
	TippingFeeRate float64 `json:"tipping_fee_rate" validate:"gte=0"`
	Notes          string  `json:"notes"`
}

// CreateClient creates a new client
func (c *ClientController) CreateClient(ctx *fiber.Ctx) error {
	var input clientRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	client := Models.Client{
		Name:           input.Name,
		ContactName:    input.ContactName,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
		TippingFeeRate: input.TippingFeeRate,
		Active:         true,
		Notes:          input.Notes,
	}

	if result := c.DB.Create(&client); result.Error != nil {
		if strings.Contains(result.Error.Error(), "unique constraint") ||
			strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A client with this name already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create client",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(client)
}

// UpdateClient updates an existing client
func (c *ClientController) UpdateClient(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	var client Models.Client
	if result := c.DB.First(&client, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
	}

	var input clientRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.DB.Model(&client).Updates(Models.Client{
		Name:           input.Name,
		ContactName:    input.ContactName,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
		TippingFeeRate: input.TippingFeeRate,
		Notes:          input.Notes,
	})

	return ctx.JSON(client)
}

// DeactivateClient soft-disables a client without touching history
func (c *ClientController) DeactivateClient(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	var client Models.Client
	if result := c.DB.First(&client, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
	}

	if err := c.DB.Model(&client).Update("active", false).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate client"})
	}
	return ctx.JSON(fiber.Map{"message": "Client deactivated"})
}

type contractRequest struct {
	StartDate             string  `json:"start_date" validate:"required"`
	EndDate               string  `json:"end_date" validate:"required"`
	TippingFeeRate        float64 `json:"tipping_fee_rate" validate:"gte=0"`
	MonthlyCommitmentTons float64 `json:"monthly_commitment_tons"`
	RateSchedule          string  `json:"rate_schedule"`
	Status                string  `json:"status"`
	Notes                 string  `json:"notes"`
}

// GetClientContracts lists contracts for a client
func (c *ClientController) GetClientContracts(ctx *fiber.Ctx) error {
	clientID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	var contracts []Models.Contract
	if result := c.DB.Where("client_id = ?", clientID).Order("start_date desc").Find(&contracts); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve contracts"})
	}
	return ctx.JSON(contracts)
}

// CreateContract adds a contract under a client
func (c *ClientController) CreateContract(ctx *fiber.Ctx) error {
	clientID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	var client Models.Client
	if result := c.DB.First(&client, clientID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
	}

	var input contractRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startDate, err := parseDate(input.StartDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start date"})
	}
	endDate, err := parseDate(input.EndDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end date"})
	}

	status := input.Status
	if status == "" {
		status = Models.ContractDraft
	}

	contract := Models.Contract{
		ClientID:              uint(clientID),
		StartDate:             startDate,
		EndDate:               endDate,
		TippingFeeRate:        input.TippingFeeRate,
		MonthlyCommitmentTons: input.MonthlyCommitmentTons,
		RateSchedule:          []byte(input.RateSchedule),
		Status:                status,
		Notes:                 input.Notes,
	}

	if result := c.DB.Create(&contract); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create contract"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(contract)
}
