// Package worker ships wallet events to a webhook subscriber in the
// background so mutating operations never wait on the network.
package worker

import (
	"log/slog"
	"time"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/notifications"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/service"
)

const maxAttempts = 3

// StartWebhookDispatcher consumes events until the channel is closed, then
// closes the returned channel. Callers shutting down close the event channel
// and wait on done so queued deliveries finish. With an empty webhook URL the
// events are drained and dropped, so the service side never needs to know
// whether anyone is subscribed.
func StartWebhookDispatcher(webhookURL string, events <-chan service.Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		slog.Info("Webhook dispatcher started", "url", webhookURL)
		for ev := range events {
			if webhookURL == "" {
				continue
			}
			dispatch(webhookURL, ev)
		}
		slog.Info("Webhook dispatcher stopped")
	}()
	return done
}

func dispatch(url string, ev service.Event) {
	msg := notifications.Envelope{Event: notifications.EventTransaction, Data: ev}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := notifications.SendWebhook(url, msg)
		if err == nil {
			slog.Info("Webhook delivered", "type", ev.Type, "account_id", ev.AccountID)
			return
		}
		slog.Error("Webhook failed", "error", err, "attempt", attempt)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	slog.Error("Webhook dropped after retries", "type", ev.Type, "account_id", ev.AccountID)
}
