package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"portfolio_api/internal/common"
	"portfolio_api/internal/domain/model"
	"portfolio_api/internal/domain/repository"
	"portfolio_api/internal/platform/logger"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Notifier dispatches the best-effort notification for a new message.
type Notifier interface {
	Dispatch(ctx context.Context, msg model.ContactMessage) error
}

type ContactService struct {
	contactRepo repository.ContactRepository
	notifier    Notifier
	log         *logger.Logger
}

func NewContactService(contactRepo repository.ContactRepository, notifier Notifier, log *logger.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, notifier: notifier, log: log}
}

type SubmitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (s *ContactService) Submit(ctx context.Context, req SubmitContactRequest) (*model.ContactMessage, error) {
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return nil, fmt.Errorf("name, email and message are required: %w", common.ErrValidation)
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, common.ErrInvalidEmail
	}

	msg := &model.ContactMessage{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	// Notification is fire-and-forget: the submission already succeeded and a
	// broken notification channel must not change that.
	if err := s.notifier.Dispatch(ctx, *msg); err != nil {
		s.log.Error("failed to dispatch contact notification", "message_id", msg.ID, "error", err)
	}

	return msg, nil
}

func (s *ContactService) List(ctx context.Context) ([]model.ContactMessage, error) {
	return s.contactRepo.List(ctx)
}

// MarkRead is idempotent; re-marking a read message succeeds.
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	return s.contactRepo.MarkRead(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.contactRepo.Delete(ctx, id)
}

func (s *ContactService) UnreadCount(ctx context.Context) (int, error) {
	return s.contactRepo.UnreadCount(ctx)
}
