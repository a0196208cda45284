package repository

import (
	"context"

	"github.com/shopline/storefront/internal/domain/model"
)

// StatsRepository computes aggregated dashboard counters.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}
