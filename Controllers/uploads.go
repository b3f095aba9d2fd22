package Controllers

import (
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Verdant/Models"
	"Verdant/Storage"
)

// Uploads are capped well above anything a phone camera produces.
const maxUploadBytes = 15 << 20

// UploadController handles delivery document uploads and removal
type UploadController struct {
	DB    *gorm.DB
	Store *Storage.LocalStore
}

// NewUploadController creates a new UploadController
func NewUploadController(db *gorm.DB, store *Storage.LocalStore) *UploadController {
	return &UploadController{DB: db, Store: store}
}

// UploadPhoto attaches a delivery documentation photo to a record
func (c *UploadController) UploadPhoto(ctx *fiber.Ctx) error {
	return c.upload(ctx, Storage.KindDeliveryPhotos, Models.DocumentFieldPhotos, true)
}

// UploadWeightTicket attaches a scanned weight ticket to a record
func (c *UploadController) UploadWeightTicket(ctx *fiber.Ctx) error {
	return c.upload(ctx, Storage.KindWeightTickets, Models.DocumentFieldWeightTickets, false)
}

func (c *UploadController) upload(ctx *fiber.Ctx, kind, field string, isPhoto bool) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file"})
	}
	if fileHeader.Size > maxUploadBytes {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}

	var url string
	if isPhoto {
		url, err = c.Store.SavePhoto(data, kind, fileHeader.Filename)
	} else {
		url, err = c.Store.Save(data, kind, fileHeader.Filename)
	}
	if err != nil {
		log.Printf("document save failed: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store document"})
	}

	record, err := Models.AppendDeliveryDocument(c.DB, ctx.Params("vr"), url, field)
	if err != nil {
		// Orphaned file beats a record pointing at nothing.
		if delErr := c.Store.Delete(url); delErr != nil {
			log.Printf("cleanup of %s failed: %v", url, delErr)
		}
		return deliveryError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(record)
}

type removeDocumentRequest struct {
	URL   string `json:"url" validate:"required"`
	Field string `json:"field" validate:"required"`
}

// RemoveDocument detaches a document URL from a record. Removing a URL the
// record never had still succeeds; the file unlink is best effort.
func (c *UploadController) RemoveDocument(ctx *fiber.Ctx) error {
	var input removeDocumentRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := Models.RemoveDeliveryDocument(c.DB, ctx.Params("vr"), input.URL, input.Field)
	if err != nil {
		return deliveryError(ctx, err)
	}

	if err := c.Store.Delete(input.URL); err != nil {
		log.Printf("file delete for %s failed: %v", input.URL, err)
	}

	return ctx.JSON(record)
}
