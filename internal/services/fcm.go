package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials.
// Useful for cloud deployments (Railway, Fly.io, Render) where you can't upload files easily.
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	ctx := context.Background()

	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(credentialsJSON)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendBatchCreatedNotification notifies a merchant device that a dispatch
// batch was created from their selected orders
func (s *FCMService) SendBatchCreatedNotification(token, batchID string, orderCount int) error {
	ctx := context.Background()

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Dispatch Batch Created",
			Body:  fmt.Sprintf("%d orders are grouped and ready for rider pickup.", orderCount),
		},
		Data: map[string]string{
			"type":        "batch_created",
			"batch_id":    batchID,
			"order_count": strconv.Itoa(orderCount),
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending batch notification: %w", err)
	}

	log.Printf("✅ Batch notification sent: %s", response)
	return nil
}

// SendOrderAssignedNotification notifies a merchant device that an order
// was handed to a rider
func (s *FCMService) SendOrderAssignedNotification(token, orderCode string) error {
	ctx := context.Background()

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Order Assigned",
			Body:  fmt.Sprintf("Order %s has been assigned to a rider.", orderCode),
		},
		Data: map[string]string{
			"type":       "order_assigned",
			"order_code": orderCode,
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending order notification: %w", err)
	}

	log.Printf("✅ Order notification sent: %s", response)
	return nil
}
