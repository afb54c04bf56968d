package leads

import (
	"context"
	"fmt"
	"strings"

	"github.com/crescentview/leadgate/internal/notify"
	"github.com/crescentview/leadgate/pkg/logging"
)

// EmailNotifier emails the sales team about each accepted lead.
type EmailNotifier struct {
	sender notify.EmailSender
	to     string
	toName string
	logger *logging.Logger
}

// NewEmailNotifier returns nil when no recipient is configured, which
// disables the notification step.
func NewEmailNotifier(sender notify.EmailSender, to, toName string, logger *logging.Logger) *EmailNotifier {
	if sender == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailNotifier{sender: sender, to: to, toName: toName, logger: logger}
}

// NotifyNewLead sends a plain-text summary of the submission.
func (n *EmailNotifier) NotifyNewLead(ctx context.Context, sub *Submission, fullPhone string) error {
	subject := fmt.Sprintf("New website lead: %s %s", sub.FirstName, sub.LastName)
	body := strings.Join([]string{
		"A new lead was submitted on the website.",
		"",
		"Name: " + sub.FirstName + " " + sub.LastName,
		"Phone: " + fullPhone,
		"Email: " + sub.Email,
		"Preferred Language: " + sub.Language,
		"Golden Visa interest: " + yesNo(sub.GoldenVisa),
		"Page: " + sub.Path,
		"Submitted At: " + sub.Timestamp,
	}, "\n")

	return n.sender.Send(ctx, notify.EmailMessage{
		To:      n.to,
		ToName:  n.toName,
		Subject: subject,
		Body:    body,
	})
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
