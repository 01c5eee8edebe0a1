package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/usecases"
)

// --- Mock SubmissionNotifier ---

type mockNotifier struct {
	sent []*domain.Submission
	err  error
}

func (n *mockNotifier) NotifySubmission(ctx context.Context, s *domain.Submission) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, s)
	return nil
}

func validContact() domain.ContactMessage {
	return domain.ContactMessage{
		Name:    "  Kari Nordmann ",
		Email:   " Kari@Example.NO ",
		Subject: "Feil i baneinfo",
		Message: "Par for Losby er feil.",
	}
}

func TestSubmissionService_Contact_Queued(t *testing.T) {
	pub := &mockPublisher{}
	notifier := &mockNotifier{}
	svc := usecases.NewSubmissionService(pub, notifier)

	sub, err := svc.SubmitContact(context.Background(), validContact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.ID == "" || sub.Kind != domain.SubmissionContact {
		t.Errorf("unexpected envelope %+v", sub)
	}
	if sub.Contact.Name != "Kari Nordmann" || sub.Contact.Email != "kari@example.no" {
		t.Errorf("expected trimmed and lowercased fields, got %+v", sub.Contact)
	}
	if len(pub.submissions) != 1 {
		t.Errorf("expected submission queued, got %d", len(pub.submissions))
	}
	if len(notifier.sent) != 0 {
		t.Errorf("queued submissions must not be mailed directly")
	}
}

func TestSubmissionService_Contact_FallsBackToEmail(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats: no responders")}
	notifier := &mockNotifier{}
	svc := usecases.NewSubmissionService(pub, notifier)

	if _, err := svc.SubmitContact(context.Background(), validContact()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("expected direct delivery, got %d", len(notifier.sent))
	}
}

func TestSubmissionService_Contact_NoPublisher(t *testing.T) {
	notifier := &mockNotifier{}
	svc := usecases.NewSubmissionService(nil, notifier)

	if _, err := svc.SubmitContact(context.Background(), validContact()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("expected direct delivery, got %d", len(notifier.sent))
	}
}

func TestSubmissionService_Contact_DeliveryFails(t *testing.T) {
	svc := usecases.NewSubmissionService(nil, &mockNotifier{err: errors.New("ses throttled")})

	_, err := svc.SubmitContact(context.Background(), validContact())
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if errors.Is(err, domain.ErrInvalidSubmission) {
		t.Error("delivery failure must not be reported as invalid input")
	}
}

func TestSubmissionService_Contact_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ContactMessage)
		field  string
	}{
		{"missing name", func(m *domain.ContactMessage) { m.Name = "   " }, "name"},
		{"bad email", func(m *domain.ContactMessage) { m.Email = "kari@" }, "email"},
		{"long name", func(m *domain.ContactMessage) { m.Name = strings.Repeat("a", 101) }, "name"},
		{"long subject", func(m *domain.ContactMessage) { m.Subject = strings.Repeat("a", 201) }, "subject"},
		{"long message", func(m *domain.ContactMessage) { m.Message = strings.Repeat("a", 5001) }, "message"},
	}

	svc := usecases.NewSubmissionService(&mockPublisher{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validContact()
			tt.mutate(&msg)
			_, err := svc.SubmitContact(context.Background(), msg)
			if !errors.Is(err, domain.ErrInvalidSubmission) {
				t.Fatalf("expected ErrInvalidSubmission, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to name %s, got %v", tt.field, err)
			}
		})
	}
}

func TestSubmissionService_Contact_NorwegianLettersCountAsOne(t *testing.T) {
	svc := usecases.NewSubmissionService(&mockPublisher{}, nil)
	msg := validContact()
	msg.Name = strings.Repeat("ø", 100)

	if _, err := svc.SubmitContact(context.Background(), msg); err != nil {
		t.Errorf("expected 100 characters to be accepted, got %v", err)
	}
}

func TestSubmissionService_Review(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewSubmissionService(pub, nil)

	sub, err := svc.SubmitReview(context.Background(), domain.Review{
		CourseSlug: " losby-golfpark ",
		Author:     "Ola",
		Rating:     5,
		Text:       "Flott bane!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Review.CourseName != "losby-golfpark" {
		t.Errorf("expected course name to fall back to slug, got %q", sub.Review.CourseName)
	}
	if len(pub.submissions) != 1 || pub.submissions[0].Kind != domain.SubmissionReview {
		t.Errorf("expected review queued")
	}
}

func TestSubmissionService_Review_Validation(t *testing.T) {
	base := domain.Review{CourseSlug: "losby-golfpark", Author: "Ola", Rating: 4, Text: "Bra"}
	tests := []struct {
		name   string
		mutate func(*domain.Review)
	}{
		{"rating zero", func(r *domain.Review) { r.Rating = 0 }},
		{"rating six", func(r *domain.Review) { r.Rating = 6 }},
		{"blank author", func(r *domain.Review) { r.Author = "  " }},
		{"long author", func(r *domain.Review) { r.Author = strings.Repeat("a", 51) }},
		{"long text", func(r *domain.Review) { r.Text = strings.Repeat("a", 1001) }},
		{"missing slug", func(r *domain.Review) { r.CourseSlug = "" }},
	}

	svc := usecases.NewSubmissionService(&mockPublisher{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)
			if _, err := svc.SubmitReview(context.Background(), r); !errors.Is(err, domain.ErrInvalidSubmission) {
				t.Errorf("expected ErrInvalidSubmission, got %v", err)
			}
		})
	}
}
