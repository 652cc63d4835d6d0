// workers/email_worker.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"winterproef-backend/models"

	"gorm.io/gorm"
)

const maxSendAttempts = 5

// MailRelayClient posts queued emails to the external mail relay.
type MailRelayClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewMailRelayClient(db *gorm.DB) *MailRelayClient {
	baseURL := os.Getenv("MAIL_RELAY_URL")
	if baseURL == "" {
		log.Fatal("MAIL_RELAY_URL environment variable is required")
	}
	token := os.Getenv("EVENT_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("EVENT_SERVICE_TOKEN environment variable is required for the mail relay")
	}

	return &MailRelayClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *MailRelayClient) send(ctx context.Context, mail models.OutboundEmail) error {
	payload, err := json.Marshal(map[string]string{
		"to":      mail.ToEmail,
		"subject": mail.Subject,
		"body":    mail.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		fmt.Sprintf("%s/api/v1/send", c.BaseURL), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail relay returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// PollOutbox drains pending emails on a fixed interval. A relay failure leaves
// the row pending (attempts incremented) so the next tick retries it; rows at
// the attempt cap are marked failed.
func PollOutbox(ctx context.Context, client *MailRelayClient, pollInterval time.Duration) {
	log.Println("Starting email outbox polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Email outbox polling stopped.")
			return
		case <-ticker.C:
			var pending []models.OutboundEmail
			if err := client.DB.Where("status = ? AND attempts < ?", models.EmailPending, maxSendAttempts).
				Order("created_at ASC").
				Limit(20).
				Find(&pending).Error; err != nil {
				log.Printf("❌ Error loading email outbox: %v", err)
				continue
			}
			if len(pending) == 0 {
				continue
			}

			log.Printf("📧 Sending %d queued email(s)...", len(pending))
			for _, mail := range pending {
				mail.Attempts++
				if err := client.send(ctx, mail); err != nil {
					log.Printf("❌ Failed to send email %s: %v", mail.ID, err)
					if mail.Attempts >= maxSendAttempts {
						mail.Status = models.EmailFailed
					}
					if err := client.DB.Save(&mail).Error; err != nil {
						log.Printf("❌ Failed to update outbox row %s: %v", mail.ID, err)
					}
					continue
				}

				now := time.Now().UTC()
				mail.Status = models.EmailSent
				mail.SentAt = &now
				if err := client.DB.Save(&mail).Error; err != nil {
					log.Printf("❌ Failed to mark email %s as sent: %v", mail.ID, err)
				}
			}
		}
	}
}
