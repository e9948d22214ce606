package repository

import (
	"context"
	"time"

	"storefront-service/internal/entity"
)

const (
	listFeedbackQuery   = `SELECT id, name, feedback, rating, avatar_url, created_at FROM feedbacks ORDER BY created_at DESC, seq DESC`
	insertFeedbackQuery = `INSERT INTO feedbacks (id, name, feedback, rating, avatar_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`
)

// ListFeedback returns every feedback row, newest first.
func (r *StorefrontRepository) ListFeedback(ctx context.Context) ([]entity.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, listFeedbackQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedbacks := []entity.Feedback{}
	for rows.Next() {
		var f entity.Feedback
		if err := rows.Scan(&f.ID, &f.Name, &f.Comment, &f.Rating, &f.AvatarURL, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, f)
	}
	return feedbacks, rows.Err()
}

func (r *StorefrontRepository) InsertFeedback(ctx context.Context, f *entity.Feedback) (*entity.Feedback, error) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	_, err := r.db.ExecContext(ctx, insertFeedbackQuery, f.ID, f.Name, f.Comment, f.Rating, f.AvatarURL, f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}
