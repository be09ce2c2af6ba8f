package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/lib/smtp"
	"github.com/mhoralek/pointmarket/internal/models"
)

// UserSource resolves the author of a submission event to an account.
type UserSource interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// NotifierService consumes submission events and mails the author about
// the review outcome.
type NotifierService struct {
	users     UserSource
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewNotifierService creates a NotifierService.
func NewNotifierService(users UserSource, transport smtp.TransportInterface, log *slog.Logger) *NotifierService {
	return &NotifierService{
		users:     users,
		transport: transport,
		log:       log,
	}
}

// SendSubmissionApproved handles a submission.approved event body.
func (s *NotifierService) SendSubmissionApproved(body []byte) error {
	event, user, err := s.resolve(body)
	if err != nil {
		return err
	}

	subject := "Vaše podání bylo schváleno"
	bodyText := fmt.Sprintf("Dobrý den, %s,\n\nvaše podání (%s) bylo schváleno a na váš účet bylo připsáno %.0f bodů.\n\nDěkujeme.",
		user.Username, event.Type, event.Points)

	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

// SendSubmissionRejected handles a submission.rejected event body.
func (s *NotifierService) SendSubmissionRejected(body []byte) error {
	event, user, err := s.resolve(body)
	if err != nil {
		return err
	}

	subject := "Vaše podání bylo zamítnuto"
	bodyText := fmt.Sprintf("Dobrý den, %s,\n\nvaše podání (%s) bylo bohužel zamítnuto.\nDůvod: %s\n\nPodání můžete po úpravě odeslat znovu.",
		user.Username, event.Type, event.Reason)

	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

func (s *NotifierService) resolve(body []byte) (*SubmissionEvent, *models.User, error) {
	var event SubmissionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal submission event", sl.Err(err))
		return nil, nil, fmt.Errorf("error unmarshalling message: %w", err)
	}

	user, err := s.users.GetUserByID(context.Background(), event.UserID)
	if err != nil {
		s.log.Error("failed to resolve event author", sl.Err(err),
			slog.Int64("user_id", event.UserID))
		return nil, nil, err
	}
	return &event, user, nil
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.String("subject", subject))
	return nil
}
