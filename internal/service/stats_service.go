package service

import (
	"context"

	"storefront-service/internal/entity"
)

type StatsStore interface {
	GetLatestStats(ctx context.Context) (*entity.Stats, error)
	EnsureStats(ctx context.Context) (*entity.Stats, error)
	UpdateStats(ctx context.Context, id string, totalOrders int64, totalProfit float64) (*entity.Stats, error)
	IncrementStats(ctx context.Context, orders int64, profit float64) (*entity.Stats, error)
}

type StatsService struct {
	store StatsStore
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

// Current returns the latest stats record, creating the initial one when
// the table is empty.
func (s *StatsService) Current(ctx context.Context) (*entity.Stats, error) {
	stats, err := s.store.GetLatestStats(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting latest stats")
		return nil, err
	}
	if stats != nil {
		return stats, nil
	}

	stats, err = s.store.EnsureStats(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating initial stats")
		return nil, err
	}
	return stats, nil
}

// Reset overwrites the totals of the latest record.
func (s *StatsService) Reset(ctx context.Context, totalOrders int64, totalProfit float64) (*entity.Stats, error) {
	if totalOrders < 0 || totalProfit < 0 {
		return nil, entity.NewValidationError("totals cannot be negative")
	}
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.UpdateStats(ctx, current.ID, totalOrders, totalProfit)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating stats %s", current.ID)
		return nil, err
	}
	return stats, nil
}

// Grow adds to the latest record in one atomic update.
func (s *StatsService) Grow(ctx context.Context, orders int64, profit float64) (*entity.Stats, error) {
	stats, err := s.store.IncrementStats(ctx, orders, profit)
	if err != nil {
		logger.Error().Err(err).Msg("Error incrementing stats")
		return nil, err
	}
	return stats, nil
}
