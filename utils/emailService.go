package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"pathstream/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// Email delivery is optional; without credentials it is a no-op
	if from == "" || password == "" {
		return nil
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: PathStream <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email to %v: %v", to, err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B6D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B6D; line-height: 1.6; }
			.footer { padding: 20px; text-align: center; color: #999999; font-size: 12px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>PathStream</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You are receiving this email because you have a PathStream account.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendEnrollmentConfirmation mails a student after a successful enrollment
func SendEnrollmentConfirmation(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Head over to your dashboard to start learning right away.</p>`, name, courseTitle)

	if err := SendEmail([]string{email}, "Enrollment confirmed: "+courseTitle, getEmailTemplate("Welcome aboard!", body)); err != nil {
		log.Printf("Error sending enrollment confirmation to %s: %v", email, err)
	}
}

// SendInstructorDigest mails an instructor a summary of recent enrollments
// across their courses
func SendInstructorDigest(email, name string, courseCounts map[string]int, total int) {
	var lines strings.Builder
	for title, count := range courseCounts {
		fmt.Fprintf(&lines, "<li><strong>%s</strong>: %d new enrollment(s)</li>", title, count)
	}

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your courses received %d new enrollment(s) yesterday:</p>
		<ul>%s</ul>`, name, total, lines.String())

	if err := SendEmail([]string{email}, "Your daily enrollment summary", getEmailTemplate("Enrollment digest", body)); err != nil {
		log.Printf("Error sending instructor digest to %s: %v", email, err)
	}
}
