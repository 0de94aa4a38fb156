package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	config "github.com/penielchurch/site-backend/config"
)

// email request payload for ZeptoMail API
type emailRequest struct {
	From     emailAddress  `json:"from"`
	To       []toRecipient `json:"to"`
	Subject  string        `json:"subject"`
	HtmlBody string        `json:"htmlbody"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type toRecipient struct {
	Email emailWithName `json:"email_address"`
}

type emailWithName struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// SendEmail sends an HTML email using the ZeptoMail HTTP API.
func SendEmail(cfg *config.Config, to, subject, body string) error {
	if cfg.ZeptoAPIURL == "" || cfg.ZeptoAPIKey == "" || cfg.EmailFrom == "" {
		log.Println("Missing ZEPTO_API_URL, ZEPTO_API_KEY, or EMAIL_FROM")
		return fmt.Errorf("missing required email config")
	}

	payload := emailRequest{
		From: emailAddress{Address: cfg.EmailFrom},
		To: []toRecipient{
			{
				Email: emailWithName{
					Address: to,
					Name:    "Admin",
				},
			},
		},
		Subject:  subject,
		HtmlBody: body,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal email payload: %v", err)
		return err
	}

	req, err := http.NewRequest("POST", cfg.ZeptoAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		log.Printf("Failed to create request: %v", err)
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", cfg.ZeptoAPIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		log.Printf("ZeptoMail returned status %s", resp.Status)
		return fmt.Errorf("zeptomail API error: %s", resp.Status)
	}

	log.Printf("Email successfully sent to %s", to)
	return nil
}

// NotifyNewSubmission tells the configured operator address that a donation
// submission arrived. Best effort only.
func NotifyNewSubmission(cfg *config.Config, name, purpose string) {
	if cfg.NotifyEmail == "" {
		return
	}
	body := fmt.Sprintf("<p>New giving submission from <b>%s</b> (%s) is awaiting review.</p>", name, purpose)
	if err := SendEmail(cfg, cfg.NotifyEmail, "New giving submission", body); err != nil {
		log.Printf("submission notification failed: %v", err)
	}
}
