// Package email sends assignment notices to resolving officers. Delivery is
// best-effort; failures are logged and never fail the triggering operation.
package email

import (
	"fmt"

	"complaint-service/config"
	"complaint-service/models"

	"github.com/apex/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender handles email sending functionality
type Sender struct {
	config *config.Config
	client *sendgrid.Client
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config) *Sender {
	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	return &Sender{
		config: cfg,
		client: client,
	}
}

// SendAssignmentNotice emails an officer that a complaint has been assigned
// to them
func (s *Sender) SendAssignmentNotice(recipient string, complaint *models.Complaint) error {
	if recipient == "" {
		return nil
	}

	from := mail.NewEmail(s.config.SendGridFromName, s.config.SendGridFromEmail)
	to := mail.NewEmail(recipient, recipient)
	subject := fmt.Sprintf("Complaint #%d assigned to you", complaint.Seq)

	plainText := fmt.Sprintf(
		"Complaint #%d (%s) at %s has been assigned to you.\n\nDescription: %s\nCurrent status: %s\n",
		complaint.Seq, complaint.Category, complaint.Location, complaint.Description, complaint.Status)
	htmlContent := fmt.Sprintf(
		"<p>Complaint <b>#%d</b> (%s) at %s has been assigned to you.</p><p>Description: %s</p><p>Current status: %s</p>",
		complaint.Seq, complaint.Category, complaint.Location, complaint.Description, complaint.Status)

	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send assignment notice: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	log.Infof("Assignment notice for complaint %d sent to %s", complaint.Seq, recipient)
	return nil
}
