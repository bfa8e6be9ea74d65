package admin

import (
	"context"
	"time"

	communityRepo "coursehub/database/repository/community"
	courseRepo "coursehub/database/repository/course"
	eventRepo "coursehub/database/repository/event"
	fileRepo "coursehub/database/repository/file"
	purchaseRepo "coursehub/database/repository/purchase"
	userRepo "coursehub/database/repository/user"
	"coursehub/models"
)

type AdminService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	GetLegalSections() []models.LegalSection
}

// DefaultAdminService aggregates counters from every store for the dashboard.
type DefaultAdminService struct {
	Users     userRepo.UserRepository
	Courses   courseRepo.CourseRepository
	Purchases purchaseRepo.PurchaseRepository
	Community communityRepo.CommunityRepository
	Events    eventRepo.EventRepository
	Files     fileRepo.FileRepository

	// Now is overridable in tests.
	Now func() time.Time
}
