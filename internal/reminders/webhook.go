package reminders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobtrack/jobtrack/internal/logger"
)

// EventInterviewReminder is the event name carried in webhook payloads.
const EventInterviewReminder = "interview.reminder"

// Webhook headers.
const (
	HeaderSignature = "X-Jobtrack-Signature"
	HeaderEvent     = "X-Jobtrack-Event"
	HeaderDelivery  = "X-Jobtrack-Delivery"
)

const maxAttempts = 3

// Payload is the body POSTed to the webhook endpoint.
type Payload struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// WebhookNotifier delivers reminders as signed HTTP POSTs.
type WebhookNotifier struct {
	url        string
	secret     string
	httpClient *http.Client
	backoff    time.Duration
	log        *zap.SugaredLogger
}

// NewWebhookNotifier creates a notifier that posts to url, signing bodies
// with secret.
func NewWebhookNotifier(url, secret string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		secret: secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		backoff: time.Second,
		log:     logger.Named("webhook"),
	}
}

// Notify posts r, retrying up to three times with exponential backoff
// (1s, 2s). Any 2xx response counts as delivered.
func (n *WebhookNotifier) Notify(ctx context.Context, r Reminder) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshaling reminder")
	}
	payload := Payload{
		ID:        "whd_" + uuid.NewString(),
		Event:     EventInterviewReminder,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshaling payload")
	}
	signature := Sign(n.secret, body)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := n.post(ctx, payload, body, signature)
		if err == nil && status >= 200 && status < 300 {
			return nil
		}
		if err == nil {
			err = errors.Newf("unexpected status %d", status)
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		wait := n.backoff << (attempt - 1)
		n.log.Warnw("webhook attempt failed, retrying",
			"delivery", payload.ID,
			"attempt", attempt,
			logger.FieldStatus, status,
			logger.FieldError, err,
			"backoff", wait,
		)
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "delivering webhook")
		case <-time.After(wait):
		}
	}
	return errors.Wrapf(lastErr, "delivering webhook after %d attempts", maxAttempts)
}

func (n *WebhookNotifier) post(ctx context.Context, p Payload, body []byte, signature string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return 0, errors.Wrap(err, "creating request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Jobtrack-Webhook/1.0")
	req.Header.Set(HeaderSignature, signature)
	req.Header.Set(HeaderEvent, p.Event)
	req.Header.Set(HeaderDelivery, p.ID)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// Sign computes the "sha256=<hex>" HMAC signature of body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature produced by Sign.
func Verify(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}

// LogNotifier only logs reminders. It is used when no webhook is configured.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, r Reminder) error {
	logger.Named("reminders").Infow("interview reminder",
		"interview_id", r.InterviewID,
		"to", r.To,
		"subject", r.Subject,
	)
	return nil
}
