package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/nexora-app/nexora_backend/config"
	"github.com/nexora-app/nexora_backend/models"
)

// SaveNotification records an in-app notification for a user. Self-directed
// events (liking your own post, etc.) are skipped by the callers.
func SaveNotification(db *mongo.Client, userID, actorID primitive.ObjectID, notifType, sourceID, message string) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ActorID:   actorID,
		Type:      notifType,
		SourceID:  sourceID,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.InsertOne(ctx, notification)
	return err
}

// GetNotificationPreferences loads a user's notification preferences, lazily
// creating the defaults document on first read.
func GetNotificationPreferences(db *mongo.Client, userID primitive.ObjectID) (*models.NotificationPreferences, error) {
	collection := config.GetCollection(db, "notification_preferences")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var prefs models.NotificationPreferences
	err := collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&prefs)
	if err == nil {
		return &prefs, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	prefs = models.NotificationPreferences{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		PushEnabled:  true,
		EmailEnabled: false,
		InAppEnabled: true,
		Frequency:    "instant",
		UpdatedAt:    time.Now(),
	}
	if _, err := collection.InsertOne(ctx, prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// NotifyUser saves an in-app notification and, when the recipient opted into
// email delivery, sends a best-effort email. Email failures are logged, never
// surfaced to the triggering request.
func NotifyUser(db *mongo.Client, userID, actorID primitive.ObjectID, notifType, sourceID, message string) error {
	prefs, err := GetNotificationPreferences(db, userID)
	if err != nil {
		log.Printf("Failed to load notification preferences for %s: %v", userID.Hex(), err)
		prefs = &models.NotificationPreferences{InAppEnabled: true}
	}

	if prefs.InAppEnabled {
		if err := SaveNotification(db, userID, actorID, notifType, sourceID, message); err != nil {
			return err
		}
	}

	if prefs.EmailEnabled {
		go sendNotificationEmail(db, userID, message)
	}

	return nil
}

// sendNotificationEmail looks up the recipient's address and delivers the
// notification text over SMTP.
func sendNotificationEmail(db *mongo.Client, userID primitive.ObjectID, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := config.GetCollection(db, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		log.Printf("Failed to find user %s for notification email: %v", userID.Hex(), err)
		return
	}

	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	if smtpHost == "" {
		return
	}
	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "New activity on Nexora")
	m.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\n%s\n\nOpen the app to see more.", user.Username, message))

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send notification email to %s: %v", user.Email, err)
	}
}
