package notifications

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/service"
)

func TestSendWebhook(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	msg := Envelope{
		Event: EventTransaction,
		Data: service.Event{
			Type:         domain.TypeDeposit,
			AccountID:    uuid.New(),
			BalanceAfter: domain.NewMoney(decimal.NewFromInt(10), domain.USD),
		},
	}
	if err := SendWebhook(srv.URL, msg); err != nil {
		t.Fatal(err)
	}

	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	var decoded Envelope
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if decoded.Event != EventTransaction {
		t.Errorf("event = %q", decoded.Event)
	}
	if decoded.Data.AccountID != msg.Data.AccountID || decoded.Data.Type != domain.TypeDeposit {
		t.Errorf("data = %+v", decoded.Data)
	}
}

func TestSendWebhookSubscriberError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := SendWebhook(srv.URL, Envelope{Event: EventTransaction}); err == nil {
		t.Fatal("want error on 500 response")
	}
}

func TestSendWebhookUnreachable(t *testing.T) {
	if err := SendWebhook("http://127.0.0.1:1/none", Envelope{Event: EventTransaction}); err == nil {
		t.Fatal("want error on unreachable subscriber")
	}
}
