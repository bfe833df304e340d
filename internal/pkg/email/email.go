package email

import (
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendMaterialVerifiedEmail(toEmail, toName, materialTitle, courseSlug string) error
	SendWelcomeEmail(toEmail, toName string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Configured reports whether mails can actually be delivered.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.FromEmail != ""
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   sendFunc
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	return &EmailServiceImpl{
		config: config,
		logger: logger.With().Str("component", "email").Logger(),
		send:   smtp.SendMail,
	}
}

// SendMaterialVerifiedEmail tells an author that their material was verified
func (s *EmailServiceImpl) SendMaterialVerifiedEmail(toEmail, toName, materialTitle, courseSlug string) error {
	subject := "Your material was verified - UniVerse"
	body := fmt.Sprintf(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Material verified</h2>
		<p>Hello %s,</p>
		<p>Your material <strong>%s</strong> for the course <em>%s</em> has been verified and is now marked as trusted.</p>
		<p>Thank you for sharing with your fellow students!</p>
		<p>Best regards,<br>The UniVerse Team</p>
	</div>
</body>
</html>`, html.EscapeString(displayName(toName, toEmail)), html.EscapeString(materialTitle), html.EscapeString(courseSlug))

	return s.deliver(toEmail, subject, body)
}

// SendWelcomeEmail sends a welcome email to a newly registered user
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	subject := "Welcome to UniVerse"
	body := fmt.Sprintf(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Welcome to UniVerse!</h2>
		<p>Hello %s,</p>
		<p>Your account is ready. You can now rate materials and comment on courses and profiles.</p>
		<p>Best regards,<br>The UniVerse Team</p>
	</div>
</body>
</html>`, html.EscapeString(displayName(toName, toEmail)))

	return s.deliver(toEmail, subject, body)
}

func (s *EmailServiceImpl) deliver(toEmail, subject, htmlBody string) error {
	if !s.config.Configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP not configured - email not sent")
		return nil
	}

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	msg := buildMessage(s.from(), toEmail, subject, htmlBody)
	if err := s.send(addr, auth, s.config.FromEmail, []string{toEmail}, msg); err != nil {
		s.logger.Error().Err(err).Str("server", addr).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}

func (s *EmailServiceImpl) from() string {
	if s.config.FromName == "" {
		return s.config.FromEmail
	}
	return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func displayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return email
}
