// Package notify delivers push notifications for reconciled announcements.
package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Notifier is the push transport. Retry policy belongs to implementations,
// not to callers.
type Notifier interface {
	Send(ctx context.Context, title, body string, data map[string]string) (string, error)
}

// FCM broadcasts through Firebase Cloud Messaging topic delivery. Every
// subscribed client receives the push; there is no per-user targeting.
type FCM struct {
	client *messaging.Client
	topic  string
}

func NewFCM(ctx context.Context, credentialsFile, topic string) (*FCM, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	return &FCM{client: client, topic: topic}, nil
}

func (f *FCM) Send(ctx context.Context, title, body string, data map[string]string) (string, error) {
	return f.client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Topic:        f.topic,
	})
}
