package notify

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"StoreWatch/pkg/config"
)

func TestTelegramDisabledIsNoOp(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	testCases := []struct {
		name string
		conf config.TelegramConfig
	}{
		{"Disabled Flag", config.TelegramConfig{Enabled: false, BotToken: "t", ChatID: "c"}},
		{"Missing Token", config.TelegramConfig{Enabled: true, ChatID: "c"}},
		{"Missing Chat", config.TelegramConfig{Enabled: true, BotToken: "t"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := NewTelegram(tc.conf)
			n.apiBase = srv.URL
			if err := n.Notify(NewProductEvent{Title: "X"}); err != nil {
				t.Errorf("Notify() = %v; want nil no-op", err)
			}
		})
	}
	if calls != 0 {
		t.Errorf("sink was called %d times while disabled", calls)
	}
}

func TestTelegramSendPhoto(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegram(config.TelegramConfig{Enabled: true, BotToken: "123:abc", ChatID: "42"})
	n.apiBase = srv.URL

	event := NewProductEvent{
		Title:    "Desk Mat XL",
		Price:    "$24.99",
		Link:     "https://shop.example/products/desk-mat-xl",
		ImageURL: "https://cdn.example/desk-mat-xl.jpg",
	}
	if err := n.Notify(event); err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}

	if gotPath != "/bot123:abc/sendPhoto" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotPayload["photo"] != event.ImageURL {
		t.Errorf("photo = %q", gotPayload["photo"])
	}
	if !strings.Contains(gotPayload["caption"], "Desk Mat XL") || !strings.Contains(gotPayload["caption"], "$24.99") {
		t.Errorf("caption = %q", gotPayload["caption"])
	}
}

func TestTelegramSendMessageWithoutImage(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegram(config.TelegramConfig{Enabled: true, BotToken: "t", ChatID: "c"})
	n.apiBase = srv.URL

	if err := n.Notify(NewProductEvent{Title: "No Image"}); err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}
	if gotPath != "/bott/sendMessage" {
		t.Errorf("request path = %q", gotPath)
	}
}

func TestTelegramDeliveryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegram(config.TelegramConfig{Enabled: true, BotToken: "t", ChatID: "bad"})
	n.apiBase = srv.URL

	err := n.Notify(NewProductEvent{Title: "X"})
	var delErr *DeliveryError
	if !errors.As(err, &delErr) {
		t.Fatalf("Notify() error = %v; want *DeliveryError", err)
	}
}
