package admin

import (
	"context"
	"fmt"
	"time"

	"coursehub/models"
)

func (a *DefaultAdminService) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Stats gathers the dashboard counters. Any failing count aborts the whole read.
func (a *DefaultAdminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		s   models.DashboardStats
		err error
	)

	if s.Users, err = a.Users.CountByRole(ctx, ""); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if s.Admins, err = a.Users.CountByRole(ctx, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	if s.Courses, err = a.Courses.CountCourses(ctx); err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	if s.CompletedPurchases, err = a.Purchases.CountByStatus(ctx, models.PurchaseStatusCompleted); err != nil {
		return nil, fmt.Errorf("count completed purchases: %w", err)
	}
	if s.PendingPurchases, err = a.Purchases.CountByStatus(ctx, models.PurchaseStatusPending); err != nil {
		return nil, fmt.Errorf("count pending purchases: %w", err)
	}
	if s.RevenueCents, err = a.Purchases.Revenue(ctx); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if s.Posts, err = a.Community.CountPosts(ctx); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if s.UpcomingEvents, err = a.Events.CountUpcoming(ctx, a.now()); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	if _, s.Files, err = a.Files.List(ctx, 0, 1); err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	return &s, nil
}
