// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/drinkmate/drinkmate-go/internal/infrastructure/email/templates"
	"github.com/drinkmate/drinkmate-go/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendOrderConfirmation(toEmail, firstName, orderID string, lines []templates.OrderLine, total float64) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
	}, nil
}

// SendOrderConfirmation composes and sends the order confirmation email.
// Callers treat failure as non-fatal: the checkout response never waits
// on or fails with the email.
func (c *ResendClient) SendOrderConfirmation(toEmail, firstName, orderID string, lines []templates.OrderLine, total float64) error {
	subject := fmt.Sprintf("Your DrinkMate order %s is confirmed", orderID)

	content := templates.GetOrderConfirmationContent(templates.OrderConfirmationProps{
		FirstName:     firstName,
		OrderID:       orderID,
		Lines:         lines,
		Total:         total,
		StorefrontURL: config.StorefrontURL,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send order confirmation via Resend: %w", err)
	}

	return nil
}
