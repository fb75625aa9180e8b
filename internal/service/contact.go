package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	domainerrors "github.com/bibliotecaonline/biblioteca-server/internal/errors"
	"github.com/bibliotecaonline/biblioteca-server/internal/id"
	"github.com/bibliotecaonline/biblioteca-server/internal/metrics"
	"github.com/bibliotecaonline/biblioteca-server/internal/sse"
	"github.com/bibliotecaonline/biblioteca-server/internal/store"
	"github.com/bibliotecaonline/biblioteca-server/internal/validation"
)

// ContactInput is the contact form.
type ContactInput struct {
	Name       string `json:"name" validate:"trimmed_min=3" doc:"At least 3 characters"`
	Email      string `json:"email" validate:"required,loose_email" doc:"Reply address"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,br_phone" doc:"Digits or masked (11) 98765-4321"`
	Subject    string `json:"subject" validate:"required" doc:"Selected subject"`
	Message    string `json:"message" validate:"trimmed_min=10" doc:"At least 10 characters"`
	Newsletter bool   `json:"newsletter,omitempty"`
}

// ContactResult is a stored submission plus the notice to show.
type ContactResult struct {
	Message domain.ContactMessage `json:"message"`
	Notice  Notice                `json:"notice"`
}

// ContactService validates contact form submissions and appends them to the contact log.
type ContactService struct {
	store     *store.Store
	validator *validation.Validator
	events    EventEmitter
	metrics   *metrics.Metrics
	logger    *slog.Logger
	delay     time.Duration
	now       func() time.Time
}

// NewContactService creates a contact service. delay simulates processing before the
// submission is stored.
func NewContactService(st *store.Store, v *validation.Validator, events EventEmitter, m *metrics.Metrics, logger *slog.Logger, delay time.Duration) *ContactService {
	if events == nil {
		events = NoopEmitter{}
	}
	return &ContactService{
		store:     st,
		validator: v,
		events:    events,
		metrics:   m,
		logger:    logger,
		delay:     delay,
		now:       time.Now,
	}
}

// MaskPhone formats the digits of s as a Brazilian phone number, keeping at most 11
// digits: up to 2 digits give "(dd", up to 7 give "(dd) rest", longer input gives
// "(dd) ddddd-dddd". Input without digits masks to "".
func MaskPhone(s string) string {
	digits := make([]rune, 0, 11)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
			if len(digits) == 11 {
				break
			}
		}
	}

	d := string(digits)
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

func (in ContactInput) normalize() ContactInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = MaskPhone(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

// Submit masks the phone, validates the form and appends it to the log.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (ContactResult, error) {
	in = in.normalize()
	if err := s.validator.Validate(in); err != nil {
		return ContactResult{}, err
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ContactResult{}, domainerrors.Wrap(ctx.Err(), domainerrors.CodeUnavailable, "Erro ao enviar mensagem. Tente novamente mais tarde.")
		case <-timer.C:
		}
	}

	msgID, err := id.Generate(id.PrefixMessage)
	if err != nil {
		return ContactResult{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate message id")
	}

	msg := domain.ContactMessage{
		ID:         msgID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Subject:    in.Subject,
		Message:    in.Message,
		Newsletter: in.Newsletter,
		Timestamp:  s.now().UTC(),
	}

	if err := s.store.Contacts.Create(ctx, msg.ID, &msg); err != nil {
		s.logger.Error("failed to store contact message", "error", err)
		return ContactResult{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "Erro ao enviar mensagem. Tente novamente mais tarde.")
	}

	s.metrics.ObserveContact()
	s.events.Emit(sse.NewContactReceivedEvent(msg.ID, msg.Subject))
	s.logger.Info("contact message received", "message_id", msg.ID, "subject", msg.Subject, "newsletter", msg.Newsletter)

	return ContactResult{
		Message: msg,
		Notice:  successNotice("Mensagem enviada com sucesso! Entraremos em contato em breve."),
	}, nil
}

// List returns every submission, newest first.
func (s *ContactService) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.collect(ctx, "")
}

// ListByEmail returns the submissions sent from email (case-insensitive), newest first.
func (s *ContactService) ListByEmail(ctx context.Context, email string) ([]domain.ContactMessage, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return s.List(ctx)
	}
	return s.collect(ctx, email)
}

func (s *ContactService) collect(ctx context.Context, email string) ([]domain.ContactMessage, error) {
	seq := s.store.Contacts.List(ctx)
	if email != "" {
		seq = s.store.Contacts.ListByIndex(ctx, "email", email)
	}

	out := []domain.ContactMessage{}
	for msg, err := range seq {
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read contact log")
		}
		if email != "" && strings.ToLower(msg.Email) != email {
			continue
		}
		out = append(out, *msg)
	}

	slices.SortStableFunc(out, func(a, b domain.ContactMessage) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out, nil
}
