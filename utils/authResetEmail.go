package utils

import (
	"CareClinic/config"
	"errors"

	"gopkg.in/gomail.v2"
)

var ErrMailerNotConfigured = errors.New("SMTP is not configured")

// SMTPMailer sends password reset codes.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendResetCode(email, code string) error {
	if m.cfg.Host == "" {
		return ErrMailerNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.User)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "CareClinic password reset code")
	msg.SetBody("text/plain", "Your password reset code is: "+code+"\n\nThe code expires in 15 minutes.")
	msg.AddAlternative("text/html", `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4;">
	<div style="background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px;">
		<h1 style="color: #333333;">Password Reset Code</h1>
		<p style="color: #666666;">Your password reset code is:</p>
		<p style="font-weight: bold; color: #007bff;">`+code+`</p>
		<p style="color: #666666;">The code expires in 15 minutes. If you did not request a password reset, please ignore this email.</p>
	</div>
</body>
</html>`)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	return d.DialAndSend(msg)
}
