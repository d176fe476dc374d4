package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"
	"time"
)

// WebhookNotifier posts notifications to a chat webhook.
type WebhookNotifier struct {
	URL    string            // webhook endpoint
	Format string            // "slack", "feishu", "dingtalk", "telegram", "custom"
	Extra  map[string]string // format-specific parameters (chat_id, template)
	client *http.Client
}

// NewWebhookNotifier creates a webhook notifier for the given URL, format, and extra parameters.
func NewWebhookNotifier(url, format string, extra map[string]string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    url,
		Format: format,
		Extra:  extra,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the notification to the configured webhook.
func (w *WebhookNotifier) Send(n Notification) error {
	payload, err := w.payload(n)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ffupdater")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// payload renders n in the body shape the target service expects.
func (w *WebhookNotifier) payload(n Notification) (any, error) {
	text := fmt.Sprintf("%s: %s", n.Title, n.Message)

	switch w.Format {
	case "feishu":
		return map[string]any{
			"msg_type": "text",
			"content":  map[string]string{"text": text},
		}, nil
	case "dingtalk":
		return map[string]any{
			"msgtype": "text",
			"text":    map[string]string{"content": text},
		}, nil
	case "telegram":
		return map[string]any{
			"chat_id":    w.Extra["chat_id"],
			"text":       text,
			"parse_mode": "HTML",
		}, nil
	case "custom":
		return renderCustom(w.Extra["template"], n, text)
	default: // slack and compatible
		return map[string]string{"text": text}, nil
	}
}

// renderCustom executes a user template and checks that it produced JSON.
func renderCustom(tmplStr string, n Notification, text string) (any, error) {
	if tmplStr == "" {
		return nil, fmt.Errorf("webhook custom format: missing 'template' in extra")
	}
	tmpl, err := template.New("webhook").Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("webhook custom template parse: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]string{
		"Title":   n.Title,
		"Message": n.Message,
		"Text":    text,
	})
	if err != nil {
		return nil, fmt.Errorf("webhook custom template execute: %w", err)
	}

	var payload any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		return nil, fmt.Errorf("webhook custom template produced invalid JSON: %w", err)
	}
	return payload, nil
}

// Name returns the name of this notifier.
func (w *WebhookNotifier) Name() string { return "webhook" }
