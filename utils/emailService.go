package utils

import (
	"fmt"
	"log"
	"time"

	"proconnect/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func sendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridKey == "" {
		log.Printf("SendGrid disabled, skipping email to %s (%s)", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("ProConnect", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}

// SendWelcomeEmail greets a newly registered user. Failures are logged only;
// signup never depends on email delivery.
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif;">
				<h2>Welcome to ProConnect, %s!</h2>
				<p>Your account is ready. Build your profile, join communities and explore courses.</p>
			</body>
		</html>`, name)

	if err := sendEmail(email, name, "Welcome to ProConnect", body); err != nil {
		log.Printf("Error sending welcome email to %s: %v", email, err)
	}
}

// SendSubscriptionExpiryReminder warns a user their subscription ends soon
func SendSubscriptionExpiryReminder(email, name string, endDate time.Time) {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif;">
				<h2>Your subscription is expiring</h2>
				<p>Hi %s, your ProConnect subscription ends on %s. Renew to keep access to paid course content.</p>
			</body>
		</html>`, name, endDate.Format("02 Jan 2006"))

	if err := sendEmail(email, name, "Your ProConnect subscription is expiring soon", body); err != nil {
		log.Printf("Error sending expiry reminder to %s: %v", email, err)
	}
}
