package usecase

import (
	"context"

	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/domain/repository"
)

// AdminUseCase serves administrative user management and dashboard views.
type AdminUseCase struct {
	users repository.UserRepository
	stats repository.StatsRepository
}

// NewAdminUseCase constructs AdminUseCase.
func NewAdminUseCase(users repository.UserRepository, stats repository.StatsRepository) *AdminUseCase {
	return &AdminUseCase{users: users, stats: stats}
}

// ListUsers returns a page of accounts plus the total match count.
func (u *AdminUseCase) ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultOrderLimit
	}
	if filter.Limit > maxOrderLimit {
		filter.Limit = maxOrderLimit
	}
	return u.users.List(ctx, filter)
}

// GetUser fetches one account by id.
func (u *AdminUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// Dashboard returns aggregated storefront statistics.
func (u *AdminUseCase) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	return u.stats.Dashboard(ctx)
}
