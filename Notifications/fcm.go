package Notifications

import (
	"Verdant/Models"
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

var firebaseClient *messaging.Client
var ctx = context.Background()

// InitFirebase wires the FCM client once at startup. Without a credentials
// file push notifications stay disabled and sends become logged no-ops.
func InitFirebase() error {
	credFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
	if credFile == "" {
		log.Println("FIREBASE_CREDENTIALS_FILE not set, push notifications disabled")
		return nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credFile))
	if err != nil {
		return fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting Messaging client: %v", err)
	}

	firebaseClient = client
	log.Println("Firebase initialized successfully")
	return nil
}

// PushDeliveryStatus notifies the dispatch tablet about a delivery status
// change. Best effort: failures are logged and never block the transition.
func PushDeliveryStatus(db *gorm.DB, record *Models.DeliveryRecord, event string) {
	if firebaseClient == nil {
		return
	}

	var token Models.FCMToken
	if err := db.First(&token).Error; err != nil || token.Value == "" {
		log.Printf("no FCM token registered, skipping push for %s", record.VRNumber)
		return
	}

	message := &messaging.Message{
		Token: token.Value,
		Notification: &messaging.Notification{
			Title: fmt.Sprintf("Delivery %s %s", record.VRNumber, event),
			Body:  fmt.Sprintf("%.2f tons, scheduled %s", record.Tonnage, record.ScheduledDate.Format("Jan 2")),
		},
		Data: map[string]string{
			"vr_number": record.VRNumber,
			"status":    record.Status,
		},
	}

	if _, err := firebaseClient.Send(ctx, message); err != nil {
		log.Printf("push for %s failed: %v", record.VRNumber, err)
		return
	}
	log.Printf("push sent for delivery %s (%s)", record.VRNumber, event)
}
