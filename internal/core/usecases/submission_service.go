package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/ports"
	"github.com/golfkart/golfkart/internal/pkg/metrics"
)

// SubmissionService accepts contact messages and reviews. Accepted
// submissions are queued on the broker; without one they are mailed directly.
type SubmissionService struct {
	validate  *validator.Validate
	publisher ports.EventPublisher
	notifier  ports.SubmissionNotifier
	now       func() time.Time
}

// NewSubmissionService creates a new SubmissionService. At least one of
// publisher and notifier should be non-nil.
func NewSubmissionService(publisher ports.EventPublisher, notifier ports.SubmissionNotifier) *SubmissionService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &SubmissionService{
		validate:  validate,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
	}
}

// SubmitContact validates and dispatches a contact form message.
func (s *SubmissionService) SubmitContact(ctx context.Context, msg domain.ContactMessage) (*domain.Submission, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.ToLower(strings.TrimSpace(msg.Email))
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if err := s.check(msg); err != nil {
		return nil, err
	}

	sub := s.envelope(domain.SubmissionContact)
	sub.Contact = &msg
	return sub, s.dispatch(ctx, sub)
}

// SubmitReview validates and dispatches a course review. A missing course
// name falls back to the slug.
func (s *SubmissionService) SubmitReview(ctx context.Context, r domain.Review) (*domain.Submission, error) {
	r.CourseSlug = strings.TrimSpace(r.CourseSlug)
	r.CourseName = strings.TrimSpace(r.CourseName)
	r.Author = strings.TrimSpace(r.Author)
	r.Text = strings.TrimSpace(r.Text)

	if err := s.check(r); err != nil {
		return nil, err
	}
	if r.CourseName == "" {
		r.CourseName = r.CourseSlug
	}

	sub := s.envelope(domain.SubmissionReview)
	sub.Review = &r
	return sub, s.dispatch(ctx, sub)
}

// Deliver mails a previously queued submission.
func (s *SubmissionService) Deliver(ctx context.Context, sub *domain.Submission) error {
	if s.notifier == nil {
		return errors.New("no submission notifier configured")
	}
	if err := s.notifier.NotifySubmission(ctx, sub); err != nil {
		return fmt.Errorf("notify submission %s: %w", sub.ID, err)
	}
	return nil
}

func (s *SubmissionService) envelope(kind domain.SubmissionKind) *domain.Submission {
	return &domain.Submission{
		ID:         uuid.NewString(),
		Kind:       kind,
		ReceivedAt: s.now().UTC(),
	}
}

func (s *SubmissionService) dispatch(ctx context.Context, sub *domain.Submission) error {
	if s.publisher != nil {
		err := s.publisher.PublishSubmission(ctx, sub)
		if err == nil {
			metrics.SubmissionsTotal.WithLabelValues(string(sub.Kind), "queued").Inc()
			return nil
		}
		slog.WarnContext(ctx, "queue submission failed, mailing directly", "id", sub.ID, "error", err)
	}

	if err := s.Deliver(ctx, sub); err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(sub.Kind), "failed").Inc()
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues(string(sub.Kind), "direct").Inc()
	return nil
}

func (s *SubmissionService) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSubmission, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidSubmission, strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}
