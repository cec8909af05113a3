package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

const otpBody = `
	<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
		<h2>Welcome to LearnPulse!</h2>
		<p>Your verification code is:</p>
		<h1 style="color: #4CAF50; letter-spacing: 5px;">%s</h1>
		<p>This code will expire in 15 minutes.</p>
		<p>If you didn't request this, please ignore this email.</p>
	</div>
`

const resetBody = `
	<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
		<h2>Password Reset Request</h2>
		<p>You requested to reset your password. Click the button below to proceed:</p>
		<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
		<p>Or copy this link:</p>
		<p>%s</p>
		<p>This link will expire in 1 hour.</p>
		<p>If you didn't request this, please ignore this email.</p>
	</div>
`

type IEmailService interface {
	SendOTP(toEmail, otp string) error
	SendResetToken(toEmail, token string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string // base for links in outgoing mail
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		frontendURL: os.Getenv("FRONTEND_URL"),
	}
}

func (s *emailService) send(toEmail, subject, htmlBody, kind string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %s to %s: %v\n", kind, toEmail, err)
		return err
	}
	fmt.Printf("[MAILER] %s sent to %s\n", kind, toEmail)
	return nil
}

func (s *emailService) SendOTP(toEmail, otp string) error {
	return s.send(toEmail, "Your Verification Code", fmt.Sprintf(otpBody, otp), "OTP")
}

func (s *emailService) SendResetToken(toEmail, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	return s.send(toEmail, "Reset Your Password", fmt.Sprintf(resetBody, resetLink, resetLink), "Reset Token")
}
