package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"Verdant/CronJobs"
	"Verdant/FiberConfig"
	"Verdant/Models"
	"Verdant/Notifications"
	"Verdant/Scripts"
	"Verdant/sms"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	setupLogging()

	seedFile := flag.String("seed", "", "seed clients and intakes from an xlsx workbook, then exit")
	normalize := flag.Bool("normalize-statuses", false, "rewrite legacy delivery statuses, then exit")
	cleanupVR := flag.String("cleanup-vr", "", "hard-delete one delivery record by VR number, then exit")
	flag.Parse()

	db := Models.Connect()

	if *seedFile != "" {
		if err := Scripts.SeedFromWorkbook(db, *seedFile); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		return
	}
	if *normalize {
		if err := Scripts.NormalizeLegacyStatuses(db); err != nil {
			log.Fatalf("normalize failed: %v", err)
		}
		return
	}
	if *cleanupVR != "" {
		if err := Scripts.CleanupDeliveryRecord(db, *cleanupVR); err != nil {
			log.Fatalf("cleanup failed: %v", err)
		}
		return
	}

	if err := Notifications.InitFirebase(); err != nil {
		log.Printf("Firebase not available: %v", err)
	}

	reminder := CronJobs.NewScheduleReminder(db, sms.NewClientFromEnv(), false)
	if err := reminder.Start(); err != nil {
		log.Printf("Failed to start delivery reminder: %v", err)
	}
	defer reminder.Stop()

	FiberConfig.FiberConfig()
}

func setupLogging() {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime)
}
