package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"storefront-service/internal/entity"
)

const (
	maxFeedbackName    = 100
	maxFeedbackComment = 500
)

type FeedbackStore interface {
	ListFeedback(ctx context.Context) ([]entity.Feedback, error)
	InsertFeedback(ctx context.Context, f *entity.Feedback) (*entity.Feedback, error)
}

type FeedbackService struct {
	store     FeedbackStore
	avatarURL string
	newID     func() string
}

func NewFeedbackService(store FeedbackStore, avatarURL string) *FeedbackService {
	return &FeedbackService{store: store, avatarURL: avatarURL, newID: uuid.NewString}
}

// List returns all feedback, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]entity.Feedback, error) {
	feedbacks, err := s.store.ListFeedback(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading feedbacks")
		return nil, err
	}
	return feedbacks, nil
}

// Submit validates and stores a testimonial. Nothing is written when the
// input is rejected.
func (s *FeedbackService) Submit(ctx context.Context, name, comment string, rating int) (*entity.Feedback, error) {
	name = strings.TrimSpace(name)
	comment = strings.TrimSpace(comment)

	if name == "" || comment == "" || rating == 0 {
		return nil, entity.NewValidationError("name, feedback, and rating are required")
	}
	if rating < 1 || rating > 5 {
		return nil, entity.NewValidationError("rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(name) > maxFeedbackName {
		return nil, entity.NewValidationError("name is too long")
	}
	if utf8.RuneCountInString(comment) > maxFeedbackComment {
		return nil, entity.NewValidationError("feedback must be at most 500 characters")
	}

	f, err := s.store.InsertFeedback(ctx, &entity.Feedback{
		ID:        s.newID(),
		Name:      name,
		Comment:   comment,
		Rating:    rating,
		AvatarURL: s.avatarURL,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error submitting feedback")
		return nil, err
	}
	return f, nil
}
