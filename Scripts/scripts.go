package Scripts

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Verdant/Models"
)

// SeedFromWorkbook loads clients and intake tickets from a spreadsheet.
// The workbook needs a "Clients" sheet (name, contact, phone, email,
// address, tipping fee rate) and an "Intakes" sheet (ticket number,
// client name, waste type, estimated tons, rate, status, requested date).
// The first row of each sheet is a header and is skipped.
func SeedFromWorkbook(db *gorm.DB, path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	clientsByName, err := seedClients(db, f)
	if err != nil {
		return err
	}
	return seedIntakes(db, f, clientsByName)
}

func seedClients(db *gorm.DB, f *excelize.File) (map[string]uint, error) {
	rows, err := f.GetRows("Clients")
	if err != nil {
		return nil, fmt.Errorf("read Clients sheet: %w", err)
	}

	clientsByName := make(map[string]uint)
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		var client Models.Client
		client.Active = true
		for columnIndex, data := range row {
			data = strings.TrimSpace(data)
			switch columnIndex {
			case 0:
				client.Name = data
			case 1:
				client.ContactName = data
			case 2:
				client.Phone = data
			case 3:
				client.Email = data
			case 4:
				client.Address = data
			case 5:
				rate, err := strconv.ParseFloat(data, 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: bad tipping fee rate %q", i+1, data)
				}
				client.TippingFeeRate = rate
			}
		}

		// Rerunnable: an existing client is reused, not duplicated.
		var existing Models.Client
		if err := db.Where("name = ?", client.Name).First(&existing).Error; err == nil {
			clientsByName[client.Name] = existing.ID
			continue
		}
		if err := db.Create(&client).Error; err != nil {
			return nil, fmt.Errorf("create client %q: %w", client.Name, err)
		}
		clientsByName[client.Name] = client.ID
	}

	log.Printf("Seeded %d clients", len(clientsByName))
	return clientsByName, nil
}

func seedIntakes(db *gorm.DB, f *excelize.File, clientsByName map[string]uint) error {
	rows, err := f.GetRows("Intakes")
	if err != nil {
		return fmt.Errorf("read Intakes sheet: %w", err)
	}

	created := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		var intake Models.WasteIntake
		var clientName string
		for columnIndex, data := range row {
			data = strings.TrimSpace(data)
			switch columnIndex {
			case 0:
				intake.TicketNumber = data
			case 1:
				clientName = data
			case 2:
				intake.WasteType = data
			case 3:
				weight, err := strconv.ParseFloat(data, 64)
				if err != nil {
					return fmt.Errorf("row %d: bad estimated weight %q", i+1, data)
				}
				intake.EstimatedWeight = weight
			case 4:
				rate, err := strconv.ParseFloat(data, 64)
				if err != nil {
					return fmt.Errorf("row %d: bad rate %q", i+1, data)
				}
				intake.TippingFeeRate = rate
			case 5:
				intake.Status = data
			case 6:
				requested, err := time.Parse("2006-01-02", data)
				if err != nil {
					return fmt.Errorf("row %d: bad requested date %q", i+1, data)
				}
				intake.RequestedDate = requested
			}
		}

		clientID, ok := clientsByName[clientName]
		if !ok {
			return fmt.Errorf("row %d: unknown client %q", i+1, clientName)
		}
		intake.ClientID = clientID

		if intake.Status == "" {
			intake.Status = Models.IntakePending
		}
		if !Models.ValidIntakeStatus(intake.Status) {
			return fmt.Errorf("row %d: unknown status %q", i+1, intake.Status)
		}
		if !Models.ValidWasteType(intake.WasteType) {
			return fmt.Errorf("row %d: unknown waste type %q", i+1, intake.WasteType)
		}

		var existing Models.WasteIntake
		if err := db.Where("ticket_number = ?", intake.TicketNumber).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&intake).Error; err != nil {
			return fmt.Errorf("create intake %q: %w", intake.TicketNumber, err)
		}
		created++
	}

	log.Printf("Seeded %d intake tickets", created)
	return nil
}

// NormalizeLegacyStatuses rewrites delivery statuses left behind by the
// old tracker, where unstarted records were stored as "pending".
func NormalizeLegacyStatuses(db *gorm.DB) error {
	result := db.Model(&Models.DeliveryRecord{}).
		Where("status = ?", "pending").
		Update("status", Models.StatusScheduled)
	if result.Error != nil {
		return fmt.Errorf("normalize statuses: %w", result.Error)
	}
	log.Printf("Normalized %d legacy delivery statuses", result.RowsAffected)
	return nil
}

// CleanupDeliveryRecord hard-deletes one record so its VR number can be
// recreated fresh. Meant for records created by typo.
func CleanupDeliveryRecord(db *gorm.DB, vrNumber string) error {
	result := db.Unscoped().Where("vr_number = ?", vrNumber).Delete(&Models.DeliveryRecord{})
	if result.Error != nil {
		return fmt.Errorf("cleanup %s: %w", vrNumber, result.Error)
	}
	if result.RowsAffected == 0 {
		return Models.ErrRecordNotFound
	}
	log.Printf("Deleted delivery record %s", vrNumber)
	return nil
}
