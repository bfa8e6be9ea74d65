package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultCheckoutService) CreateCheckout(ctx context.Context, userID, courseID string) (*models.CheckoutResponse, error) {
	logger := utils.GetLogger()

	course, err := s.Courses.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCourseUnavailable
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if !course.Published {
		return nil, ErrCourseUnavailable
	}

	owned, err := s.Purchases.HasCompleted(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check purchases: %w", err)
	}
	if owned {
		return nil, ErrAlreadyPurchased
	}

	purchase := &models.Purchase{
		ID:          uuid.New().String(),
		UserID:      userID,
		CourseID:    courseID,
		AmountCents: course.PriceCents,
		Currency:    course.Currency,
		Status:      models.PurchaseStatusPending,
		Provider:    models.PaymentProviderStripe,
	}
	if err := s.Purchases.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	successURL := s.frontendURL("/checkout/success", url.Values{"purchase": {purchase.ID}})
	// Free courses never reach the payment provider.
	if course.PriceCents == 0 {
		if err := s.complete(ctx, purchase.ID, "free", ""); err != nil {
			return nil, err
		}
		return &models.CheckoutResponse{PurchaseID: purchase.ID, CheckoutURL: successURL}, nil
	}

	req := SessionRequest{
		PurchaseID:  purchase.ID,
		UserID:      userID,
		CourseID:    courseID,
		ProductName: course.Title,
		AmountCents: course.PriceCents,
		Currency:    course.Currency,
		// Stripe substitutes the placeholder with the real session id on redirect.
		SuccessURL: successURL + "&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL("/courses/"+course.Slug, url.Values{"checkout": {"cancelled"}}),
	}
	if u, err := s.Users.GetByID(ctx, userID); err == nil {
		req.CustomerEmail = u.Email
	}

	sess, err := s.Gateway.CreateSession(ctx, req)
	if err != nil {
		logger.Error("checkout session creation failed", zap.String("purchaseID", purchase.ID), zap.Error(err))
		// The purchase stays pending when the failure cannot be recorded either.
		_ = s.fail(ctx, purchase.ID, "checkout session could not be created")
		return nil, ErrPaymentFailed
	}
	if err := s.Purchases.SetSessionID(ctx, purchase.ID, sess.ID); err != nil {
		logger.Error("failed to store session id", zap.String("purchaseID", purchase.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to store checkout session: %w", err)
	}

	logger.Info("checkout started",
		zap.String("purchaseID", purchase.ID),
		zap.String("courseID", courseID),
		zap.String("userID", userID))
	return &models.CheckoutResponse{PurchaseID: purchase.ID, CheckoutURL: sess.URL}, nil
}

func (s *DefaultCheckoutService) frontendURL(path string, query url.Values) string {
	base := strings.TrimRight(s.FrontendURL, "/")
	return base + path + "?" + query.Encode()
}

func (s *DefaultCheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	logger := utils.GetLogger()

	event, err := s.Gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			return ErrInvalidSignature
		}
		return err
	}
	if event.Outcome == OutcomeIgnored {
		logger.Debug("webhook event ignored", zap.String("eventID", event.ID), zap.String("type", event.Type))
		return nil
	}

	purchase, err := s.locate(ctx, event)
	if err != nil {
		if errors.Is(err, ErrPurchaseNotFound) {
			// Unknown purchases are acknowledged and dropped.
			logger.Warn("webhook for unknown purchase",
				zap.String("eventID", event.ID),
				zap.String("sessionID", event.SessionID))
			return nil
		}
		return err
	}

	switch event.Outcome {
	case OutcomeCompleted:
		return s.complete(ctx, purchase.ID, event.PaymentRef, event.SessionID)
	case OutcomeFailed:
		return s.fail(ctx, purchase.ID, event.Reason)
	}
	return nil
}

// locate finds the purchase an event refers to: client reference first, then metadata, then session id.
func (s *DefaultCheckoutService) locate(ctx context.Context, event *WebhookEvent) (*models.Purchase, error) {
	for _, id := range []string{event.ClientReferenceID, event.MetaPurchaseID} {
		if id == "" {
			continue
		}
		p, err := s.Purchases.GetByID(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
	}
	if event.SessionID != "" {
		p, err := s.Purchases.GetBySessionID(ctx, event.SessionID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrPurchaseNotFound
}

func (s *DefaultCheckoutService) VerifyPurchase(ctx context.Context, userID string, isAdmin bool, purchaseID string) (*models.Purchase, error) {
	purchase, err := s.Purchases.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	// Other users' purchases are reported as missing.
	if purchase.UserID != userID && !isAdmin {
		return nil, ErrPurchaseNotFound
	}
	if purchase.Status != models.PurchaseStatusPending || purchase.SessionID == "" || s.Gateway == nil {
		return purchase, nil
	}

	sess, err := s.Gateway.GetSession(ctx, purchase.SessionID)
	if err != nil {
		utils.GetLogger().Warn("could not reconcile purchase",
			zap.String("purchaseID", purchase.ID), zap.Error(err))
		return purchase, nil
	}
	switch {
	case sess.Paid:
		err = s.complete(ctx, purchase.ID, sess.PaymentRef, sess.ID)
	case sess.Expired:
		err = s.fail(ctx, purchase.ID, "checkout session expired")
	default:
		return purchase, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Purchases.GetByID(ctx, purchase.ID)
}

func (s *DefaultCheckoutService) ListPurchases(ctx context.Context, userID string) ([]models.Purchase, error) {
	return s.Purchases.ListByUser(ctx, userID)
}

func (s *DefaultCheckoutService) HasAccess(ctx context.Context, userID, courseID string) (bool, error) {
	return s.Purchases.HasCompleted(ctx, userID, courseID)
}

func (s *DefaultCheckoutService) ListAllPurchases(ctx context.Context, page, pageSize int) (*PurchasePage, error) {
	skip, limit := database.Paging(page, pageSize, 100)
	purchases, total, err := s.Purchases.ListAll(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return &PurchasePage{
		Purchases: purchases,
		Total:     total,
		Page:      int(skip/limit) + 1,
		PageSize:  int(limit),
	}, nil
}
