package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// Notifier sends operator and customer notifications for provisioning
// events. Delivery problems are logged and swallowed; email is a
// courtesy channel and must never fail a workflow.
type Notifier struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
	logger logger.Interface
}

// NewNotifier creates an SMTP-backed notifier.
func NewNotifier(cfg *config.EmailConfig, log logger.Interface) *Notifier {
	return &Notifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		logger: log.With("component", "email"),
	}
}

// NotifyRequestReceived tells the operator team a new customer request
// is waiting for review.
func (n *Notifier) NotifyRequestReceived(customerName, packageName string, requestID uint) {
	if !n.cfg.Enabled || len(n.cfg.OperatorEmails) == 0 {
		return
	}

	subject := fmt.Sprintf("New site request from %s", customerName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>New Customer Request</h2>
			<p><strong>%s</strong> has requested the <strong>%s</strong> package.</p>
			<p>Request ID: %d</p>
			<p>Review and approve it from the admin console.</p>
		</body>
		</html>
	`, customerName, packageName, requestID)

	plainBody := fmt.Sprintf(`New Customer Request

%s has requested the %s package.
Request ID: %d

Review and approve it from the admin console.
`, customerName, packageName, requestID)

	n.send(n.cfg.OperatorEmails, subject, htmlBody, plainBody)
}

// NotifySiteReady tells the customer their site is provisioned.
func (n *Notifier) NotifySiteReady(to, customerName, siteURL string) {
	if !n.cfg.Enabled || to == "" {
		return
	}

	subject := "Your site is ready"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome, %s!</h2>
			<p>Your site has been provisioned and is ready to use:</p>
			<p><a href="%s">%s</a></p>
		</body>
		</html>
	`, customerName, siteURL, siteURL)

	plainBody := fmt.Sprintf(`Welcome, %s!

Your site has been provisioned and is ready to use:
%s
`, customerName, siteURL)

	n.send([]string{to}, subject, htmlBody, plainBody)
}

// NotifyProvisioningFailed tells the operator team a provisioning run
// ended in failure.
func (n *Notifier) NotifyProvisioningFailed(siteName string, requestID uint) {
	if !n.cfg.Enabled || len(n.cfg.OperatorEmails) == 0 {
		return
	}

	subject := fmt.Sprintf("Provisioning failed for %s", siteName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Provisioning Failed</h2>
			<p>Site <strong>%s</strong> (request %d) failed to provision.</p>
			<p>The captured output is attached to the site record.</p>
		</body>
		</html>
	`, siteName, requestID)

	plainBody := fmt.Sprintf(`Provisioning Failed

Site %s (request %d) failed to provision.
The captured output is attached to the site record.
`, siteName, requestID)

	n.send(n.cfg.OperatorEmails, subject, htmlBody, plainBody)
}

func (n *Notifier) send(to []string, subject, htmlBody, plainBody string) {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.cfg.FromAddress, n.cfg.FromName))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.Warnw("failed to send notification email",
			"subject", subject,
			"error", err)
	}
}
