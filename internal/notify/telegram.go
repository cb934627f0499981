package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"StoreWatch/pkg/config"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier posts each new product to a Telegram chat via the bot
// API, as a photo with a caption when an image URL is available.
type TelegramNotifier struct {
	conf    config.TelegramConfig
	client  *http.Client
	apiBase string
}

// NewTelegram builds a notifier from config. When disabled or missing
// credentials, every Notify call is a silent no-op.
func NewTelegram(conf config.TelegramConfig) *TelegramNotifier {
	return &TelegramNotifier{
		conf:    conf,
		client:  &http.Client{Timeout: 30 * time.Second},
		apiBase: telegramAPIBase,
	}
}

func (n *TelegramNotifier) enabled() bool {
	return n.conf.Enabled && n.conf.BotToken != "" && n.conf.ChatID != ""
}

// Notify implements Notifier.
func (n *TelegramNotifier) Notify(event NewProductEvent) error {
	if !n.enabled() {
		return nil
	}

	caption := fmt.Sprintf("New product: %s\nPrice: %s\n%s", event.Title, event.Price, event.Link)

	var method string
	payload := map[string]string{"chat_id": n.conf.ChatID}
	if event.ImageURL != "" {
		method = "sendPhoto"
		payload["photo"] = event.ImageURL
		payload["caption"] = caption
	} else {
		method = "sendMessage"
		payload["text"] = caption
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &DeliveryError{Sink: "telegram", Err: err}
	}

	url := fmt.Sprintf("%s/bot%s/%s", n.apiBase, n.conf.BotToken, method)
	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Sink: "telegram", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &DeliveryError{Sink: "telegram", Err: fmt.Errorf("status %d: %s", resp.StatusCode, apiErr)}
	}
	return nil
}
