package email

import (
	"context"
	"fmt"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/ports"
)

// AdminNotifier implements ports.SubmissionNotifier by mailing the site
// administrator.
type AdminNotifier struct {
	sender    ports.EmailSender
	templates *TemplateManager
	adminTo   string
}

// NewAdminNotifier creates a new AdminNotifier.
func NewAdminNotifier(sender ports.EmailSender, templates *TemplateManager, adminTo string) *AdminNotifier {
	return &AdminNotifier{sender: sender, templates: templates, adminTo: adminTo}
}

// NotifySubmission renders and sends the notification for s.
func (n *AdminNotifier) NotifySubmission(ctx context.Context, s *domain.Submission) error {
	var (
		msg *Rendered
		err error
	)
	switch {
	case s.Kind == domain.SubmissionContact && s.Contact != nil:
		msg, err = n.templates.Contact(s)
	case s.Kind == domain.SubmissionReview && s.Review != nil:
		msg, err = n.templates.Review(s)
	default:
		return fmt.Errorf("submission %s: unsupported kind %q", s.ID, s.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s email: %w", s.Kind, err)
	}

	return n.sender.SendEmail(ctx, n.adminTo, msg.Subject, msg.Text, msg.HTML)
}
