package CronJobs

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"Verdant/Models"
	"Verdant/sms"
)

// ScheduleReminder sends a daily summary of the next day's scheduled
// deliveries to the operations phone.
type ScheduleReminder struct {
	cronScheduler  *cron.Cron
	db             *gorm.DB
	smsClient      *sms.Client
	opsPhone       string
	runImmediately bool
	jobID          cron.EntryID
}

// NewScheduleReminder creates a reminder with the given configuration.
// The operations phone comes from the OPS_PHONE environment variable.
func NewScheduleReminder(db *gorm.DB, smsClient *sms.Client, runImmediately bool) *ScheduleReminder {
	return &ScheduleReminder{
		cronScheduler:  cron.New(cron.WithSeconds()),
		db:             db,
		smsClient:      smsClient,
		opsPhone:       os.Getenv("OPS_PHONE"),
		runImmediately: runImmediately,
	}
}

// Start initiates the reminder cron job, daily at 5:00 PM.
func (s *ScheduleReminder) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 0 17 * * *", func() {
		log.Println("Running scheduled delivery reminder")
		s.runReminder()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	fmt.Println("Delivery reminder scheduler started - will run daily at 5:00 PM")

	if s.runImmediately {
		fmt.Println("Running initial delivery reminder")
		s.runReminder()
	}

	return nil
}

// Stop terminates the reminder scheduler.
func (s *ScheduleReminder) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Delivery reminder scheduler stopped")
	}
}

// UpdateSchedule changes the reminder schedule.
// Format: "0 0 17 * * *" = At 05:00:00 PM every day
func (s *ScheduleReminder) UpdateSchedule(schedule string) error {
	s.cronScheduler.Remove(s.jobID)

	var err error
	s.jobID, err = s.cronScheduler.AddFunc(schedule, func() {
		log.Println("Running scheduled delivery reminder")
		s.runReminder()
	})
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}

	log.Printf("Delivery reminder schedule updated to: %s\n", schedule)
	return nil
}

// RunManualCheck sends the reminder immediately.
func (s *ScheduleReminder) RunManualCheck() {
	log.Println("Running manual delivery reminder")
	s.runReminder()
}

func (s *ScheduleReminder) runReminder() {
	if s.opsPhone == "" {
		log.Println("OPS_PHONE not set, skipping delivery reminder")
		return
	}

	now := time.Now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	dayAfter := tomorrow.Add(24 * time.Hour)

	records, err := Models.ListDeliveries(s.db, Models.DeliveryFilter{
		Status: Models.StatusScheduled,
		From:   tomorrow,
		To:     dayAfter,
	})
	if err != nil {
		log.Printf("Error fetching tomorrow's deliveries: %v\n", err)
		return
	}
	if len(records) == 0 {
		log.Println("No deliveries scheduled for tomorrow")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d deliveries scheduled for %s:", len(records), tomorrow.Format("Jan 2"))
	for _, record := range records {
		fmt.Fprintf(&b, "\n%s load %d, %.1f tons", record.VRNumber, record.LoadNumber, record.Tonnage)
	}

	s.smsClient.SendBestEffort(s.opsPhone, b.String())
	log.Printf("Delivery reminder sent for %d records\n", len(records))
}
