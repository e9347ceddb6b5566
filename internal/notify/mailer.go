package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"habitly/config"
	"habitly/pkg/circuitbreaker"
)

// Mailer delivers reminder mail through a Mailtrap-style HTTP send API.
// Calls go through a circuit breaker so a dead mail API fails fast instead
// of stalling every fired timer on a timeout.
type Mailer struct {
	cfg     config.ReminderConfig
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewMailer(cfg config.ReminderConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From     address   `json:"from"`
	To       []address `json:"to"`
	Subject  string    `json:"subject"`
	Text     string    `json:"text"`
	Category string    `json:"category"`
}

// Send posts one reminder mail for habitName to recipient.
func (m *Mailer) Send(ctx context.Context, recipient, habitName string) error {
	payload := sendRequest{
		From: address{
			Email: m.cfg.FromEmail,
			Name:  m.cfg.FromName,
		},
		To:       []address{{Email: recipient}},
		Subject:  fmt.Sprintf("Reminder: Complete your habit - %s", habitName),
		Text:     fmt.Sprintf("Hi, please complete your habit '%s' now.", habitName),
		Category: "Habit Reminder",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return m.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+m.cfg.APIToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := m.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("mail API returned status %d", resp.StatusCode)
		}

		m.logger.Debug("Reminder email accepted by mail API",
			zap.String("habit", habitName),
			zap.String("recipient", recipient),
		)
		return nil
	})
}
