package checkout

import (
	"context"
	"fmt"
	"time"

	"coursehub/models"
	"coursehub/services/notification"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Allowed source states per target. completed is terminal; a failed purchase can
// still complete when a late payment arrives.
var (
	completableFrom = []string{models.PurchaseStatusPending, models.PurchaseStatusFailed}
	failableFrom    = []string{models.PurchaseStatusPending}
)

// complete grants access and sends the receipt. Repeated deliveries are no-ops.
func (s *DefaultCheckoutService) complete(ctx context.Context, purchaseID, paymentRef, sessionID string) error {
	logger := utils.GetLogger()
	fields := bson.M{"completed_at": time.Now(), "failure_reason": ""}
	if paymentRef != "" {
		fields["payment_ref"] = paymentRef
	}
	if sessionID != "" {
		fields["session_id"] = sessionID
	}

	applied, err := s.Purchases.Transition(ctx, purchaseID, completableFrom, models.PurchaseStatusCompleted, fields)
	if err != nil {
		logger.Error("failed to complete purchase", zap.String("purchaseID", purchaseID), zap.Error(err))
		return fmt.Errorf("failed to complete purchase: %w", err)
	}
	if !applied {
		logger.Debug("purchase already completed", zap.String("purchaseID", purchaseID))
		return nil
	}
	logger.Info("purchase completed", zap.String("purchaseID", purchaseID))
	s.sendReceipt(ctx, purchaseID)
	return nil
}

func (s *DefaultCheckoutService) fail(ctx context.Context, purchaseID, reason string) error {
	logger := utils.GetLogger()
	applied, err := s.Purchases.Transition(ctx, purchaseID, failableFrom, models.PurchaseStatusFailed, bson.M{"failure_reason": reason})
	if err != nil {
		logger.Error("failed to mark purchase failed", zap.String("purchaseID", purchaseID), zap.Error(err))
		return fmt.Errorf("failed to mark purchase failed: %w", err)
	}
	if applied {
		logger.Info("purchase failed", zap.String("purchaseID", purchaseID), zap.String("reason", reason))
	}
	return nil
}

func (s *DefaultCheckoutService) sendReceipt(ctx context.Context, purchaseID string) {
	if s.Notifier == nil {
		return
	}
	logger := utils.GetLogger().With(zap.String("purchaseID", purchaseID))

	p, err := s.Purchases.GetByID(ctx, purchaseID)
	if err != nil {
		logger.Warn("receipt skipped: purchase lookup failed", zap.Error(err))
		return
	}
	course, err := s.Courses.GetCourseByID(ctx, p.CourseID)
	if err != nil {
		logger.Warn("receipt skipped: course lookup failed", zap.Error(err))
		return
	}
	user, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		logger.Warn("receipt skipped: user lookup failed", zap.Error(err))
		return
	}

	if err := s.Notifier.SendEmail(ctx, notification.ReceiptEmail(user, course, p)); err != nil {
		logger.Warn("receipt email failed", zap.Error(err))
	}
	data := map[string]string{"type": "purchase", "purchaseId": p.ID, "courseId": course.ID}
	if err := s.Notifier.SendPush(ctx, user.ID, "Purchase complete", "You now have access to "+course.Title, data); err != nil {
		logger.Warn("receipt push failed", zap.Error(err))
	}
}
