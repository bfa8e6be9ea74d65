package checkout

import (
	"context"
	"errors"

	courseRepo "coursehub/database/repository/course"
	purchaseRepo "coursehub/database/repository/purchase"
	userRepo "coursehub/database/repository/user"
	"coursehub/models"
	"coursehub/services/notification"
)

var (
	ErrCourseUnavailable = errors.New("course is not available for purchase")
	ErrAlreadyPurchased  = errors.New("course already purchased")
	ErrPaymentFailed     = errors.New("payment provider error")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrPurchaseNotFound  = errors.New("purchase not found")
)

type CheckoutService interface {
	CreateCheckout(ctx context.Context, userID, courseID string) (*models.CheckoutResponse, error)
	// HandleWebhook verifies and applies a payment provider event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	// VerifyPurchase returns the purchase and reconciles it with the provider while it is pending.
	VerifyPurchase(ctx context.Context, userID string, isAdmin bool, purchaseID string) (*models.Purchase, error)
	ListPurchases(ctx context.Context, userID string) ([]models.Purchase, error)
	HasAccess(ctx context.Context, userID, courseID string) (bool, error)
	ListAllPurchases(ctx context.Context, page, pageSize int) (*PurchasePage, error)
}

type PurchasePage struct {
	Purchases []models.Purchase `json:"purchases"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"pageSize"`
}

type DefaultCheckoutService struct {
	Purchases   purchaseRepo.PurchaseRepository
	Courses     courseRepo.CourseRepository
	Users       userRepo.UserRepository
	Gateway     PaymentGateway
	Notifier    notification.NotificationService
	FrontendURL string
}
