// Package notifications delivers wallet events to a webhook subscriber.
package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/service"
)

// Envelope is the wire format a subscriber receives: a stable event name
// plus the wallet event that triggered it.
type Envelope struct {
	Event string        `json:"event"`
	Data  service.Event `json:"data"`
}

// EventTransaction names the one event kind the wallet emits today.
const EventTransaction = "wallet.transaction"

// Timeout so a slow subscriber can't block the dispatcher.
var client = &http.Client{Timeout: 5 * time.Second}

// SendWebhook posts the envelope as JSON to the subscriber's URL. Any
// non-2xx response counts as a failed delivery.
func SendWebhook(url string, msg Envelope) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "AlkeWallet-Webhook/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("subscriber returned %d", resp.StatusCode)
	}
	return nil
}
