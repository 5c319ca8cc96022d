package services

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// sender is the part of *messaging.Client the push service uses.
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushService handles sending push notifications via Firebase Cloud Messaging
type PushService struct {
	client sender
	db     *gorm.DB
}

// Global push service instance
var Push *PushService

// InitPush initializes the Firebase push notification service.
// Push stays disabled if no service account is configured (dev mode).
func InitPush(serviceAccountPath string, db *gorm.DB) error {
	Push = &PushService{db: db}
	if serviceAccountPath == "" {
		log.Println("FCM: No service account configured, push notifications disabled")
		return nil
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Printf("FCM: Failed to initialize Firebase app: %v", err)
		return nil
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("FCM: Failed to get messaging client: %v", err)
		return nil
	}

	Push.client = client
	log.Println("FCM: Push notifications enabled")
	return nil
}

func (p *PushService) Enabled() bool {
	return p != nil && p.client != nil
}

// SendToUser sends a push notification to a user by their ID.
// No-op if push is not configured or user has no FCM token.
func (p *PushService) SendToUser(userID uuid.UUID, title, body string, data map[string]string) {
	if !p.Enabled() {
		return
	}

	var user models.User
	if err := p.db.Select("id", "fcm_token").Where("id = ?", userID).First(&user).Error; err != nil {
		return
	}
	if user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := p.client.Send(context.Background(), msg); err != nil {
		log.Printf("FCM: Failed to send to user %s: %v", userID, err)
	}
}
