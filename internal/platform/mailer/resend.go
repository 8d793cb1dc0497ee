// Package mailer sends transactional email through the Resend REST API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResendMailer implements the password-reset Mailer over Resend's REST API.
type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

// NewResendMailer creates a Resend-backed mailer.
func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, errors.New("RESEND_API_KEY not set")
	}

	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendPasswordResetEmail sends the reset link to the user.
func (m *ResendMailer) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetLink string) error {
	body := sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Reset your password",
		HTML: fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>We received a request to reset your password. Click the link below to choose a new one:</p>
			<p><a href="%s">Reset Password</a></p>
			<p>This link expires in 1 hour. If you didn't request a reset, you can ignore this email.</p>
		`, toName, resetLink),
	}

	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return errors.New("failed to send password reset email: " + string(msg))
	}

	return nil
}
