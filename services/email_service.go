package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"schoolride-api/config"
	"schoolride-api/models"
)

// EmailService sends ride request decision notifications to parents.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendDecisionEmail notifies the parent that their ride request was decided.
func (es *EmailService) SendDecisionEmail(email, parentName, childName string, status models.RequestStatus, comment string) error {
	var subject, verdict string
	switch status {
	case models.StatusApproved:
		subject = "Your ride request was approved"
		verdict = "approved"
	case models.StatusRejected:
		subject = "Your ride request was rejected"
		verdict = "rejected"
	default:
		subject = fmt.Sprintf("Your ride request status changed to %s", status)
		verdict = string(status)
	}

	body := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif;">
			<h2>Ride Request Update</h2>
			<p>Hi %s,</p>
			<p>The recurring ride request for <strong>%s</strong> has been <strong>%s</strong>.</p>
			%s
			<p>You can review the request in the app at any time.</p>
			<p>— The %s Team</p>
		</body>
		</html>
	`, parentName, childName, verdict, commentBlock(comment), es.config.FromName)

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(es.config.FromEmail, es.config.FromName))
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return es.dialer.DialAndSend(m)
}

func commentBlock(comment string) string {
	if comment == "" {
		return ""
	}
	return fmt.Sprintf("<p>Note from the operator: %s</p>", comment)
}
