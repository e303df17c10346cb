package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"studyhub-backend/internal/models"
)

type EmailService struct {
	host        string
	port        string
	user        string
	pass        string
	from        string
	frontendURL string
	devMode     bool
}

func NewEmailService(host, port, user, pass, from, frontendURL string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:        host,
		port:        port,
		user:        user,
		pass:        pass,
		from:        from,
		frontendURL: frontendURL,
		devMode:     devMode,
	}
}

// SendTaskReminder mails a digest of tasks due within the next day.
func (s *EmailService) SendTaskReminder(to, fullName string, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	var rows strings.Builder
	for _, task := range tasks {
		due := "no due date"
		if task.DueAt != nil {
			due = task.DueAt.Format("Mon Jan 2, 15:04")
		}
		fmt.Fprintf(&rows, `<tr>
        <td style="padding: 8px 12px; border-bottom: 1px solid #e2e8f0; font-size: 14px; color: #1e293b;">%s</td>
        <td style="padding: 8px 12px; border-bottom: 1px solid #e2e8f0; font-size: 13px; color: #64748b;">%s</td>
      </tr>`, task.Title, due)
	}

	subject := fmt.Sprintf("You have %d task(s) due soon", len(tasks))
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; box-shadow: 0 4px 24px rgba(0,0,0,0.08); overflow: hidden;">
    <div style="background: linear-gradient(135deg, #6366f1 0%%, #8b5cf6 100%%); padding: 32px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px; font-weight: 700;">StudyHub</h1>
      <p style="color: rgba(255,255,255,0.85); margin: 8px 0 0; font-size: 14px;">Your study companion</p>
    </div>
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Hi %s, deadlines ahead</h2>
      <table style="width: 100%%; border-collapse: collapse;">%s</table>
      <a href="%s/tasks" style="display: inline-block; margin-top: 24px; background: #6366f1; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
        Open Tasks
      </a>
    </div>
  </div>
</body>
</html>`, fullName, rows.String(), s.frontendURL)

	return s.sendHTML(to, subject, body)
}

func (s *EmailService) sendHTML(to, subject, body string) error {
	if s.devMode {
		log.Printf("─── EMAIL (dev mode) ───")
		log.Printf("To: %s", to)
		log.Printf("Subject: %s", subject)
		log.Printf("Sent at: %s", time.Now().Format(time.RFC3339))
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}
