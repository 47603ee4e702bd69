// README: FCM-backed Notifier implementation.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"
)

type FCMNotifier struct {
	client *messaging.Client
}

func NewFCMNotifier(client *messaging.Client) *FCMNotifier {
	return &FCMNotifier{client: client}
}

func (n *FCMNotifier) Send(ctx context.Context, token string, msg Message) error {
	if token == "" {
		return fmt.Errorf("empty device token for %s message", msg.Type)
	}

	data := map[string]string{
		"type":      string(msg.Type),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range msg.Data {
		data[k] = v
	}

	out := &messaging.Message{
		Token:   token,
		Data:    data,
		Android: androidConfig(msg),
		APNS:    apnsConfig(msg),
	}
	if msg.Title != "" {
		out.Notification = &messaging.Notification{Title: msg.Title, Body: msg.Body}
	}

	messageID, err := n.client.Send(ctx, out)
	if err != nil {
		return fmt.Errorf("sending FCM %s: %w", msg.Type, err)
	}
	log.Printf("FCM %s sent, message_id=%s", msg.Type, messageID)
	return nil
}

func androidConfig(msg Message) *messaging.AndroidConfig {
	cfg := &messaging.AndroidConfig{Priority: string(msg.Priority)}
	if msg.Title != "" {
		channel := "ride-requests"
		priority := messaging.PriorityHigh
		if msg.Priority == PriorityHigh {
			channel = "emergency-notifications"
			priority = messaging.PriorityMax
		}
		cfg.Notification = &messaging.AndroidNotification{
			ChannelID: channel,
			Priority:  priority,
		}
	}
	return cfg
}

func apnsConfig(msg Message) *messaging.APNSConfig {
	apnsPriority := "5"
	if msg.Priority == PriorityHigh {
		apnsPriority = "10"
	}
	cfg := &messaging.APNSConfig{
		Headers: map[string]string{"apns-priority": apnsPriority},
		Payload: &messaging.APNSPayload{Aps: &messaging.Aps{}},
	}
	if msg.Title == "" {
		// Data-only message: wake the app silently.
		cfg.Payload.Aps.ContentAvailable = true
	} else if msg.Priority == PriorityHigh {
		cfg.Payload.Aps.Sound = "critical.wav"
	}
	return cfg
}
