package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
	SendTaskAssignedEmail(email, taskTitle, boardName string) error
	SendTaskUpdatedEmail(email, taskTitle, boardName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email %q to %s: %w", subject, to, err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to TeamHub, %s!</h2>
		<p>Your account has been successfully created.</p>
		<p>Best regards,<br>The TeamHub Team</p>
	`, name)
	return s.send(email, "Welcome to TeamHub!", body)
}

func (s *emailService) SendTaskAssignedEmail(email, taskTitle, boardName string) error {
	body := fmt.Sprintf(`
		<h3>You have a new task</h3>
		<p><strong>%s</strong> was assigned to you on board <strong>%s</strong>.</p>
	`, taskTitle, boardName)
	return s.send(email, "New task assigned", body)
}

func (s *emailService) SendTaskUpdatedEmail(email, taskTitle, boardName string) error {
	body := fmt.Sprintf(`
		<h3>A task assigned to you was updated</h3>
		<p><strong>%s</strong> on board <strong>%s</strong> has changed.</p>
	`, taskTitle, boardName)
	return s.send(email, "Task updated", body)
}
