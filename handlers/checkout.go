package handlers

import (
	"errors"
	"io"
	"net/http"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services/checkout"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBytes caps the webhook body read into memory.
const maxWebhookBytes = 65536

// CheckoutHandler serves purchases and the payment provider webhook.
type CheckoutHandler struct {
	Checkout checkout.CheckoutService
}

// CreateCheckoutHandler handles POST /api/checkout.
func (h *CheckoutHandler) CreateCheckoutHandler(c *gin.Context) {
	var req models.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Checkout.CreateCheckout(c.Request.Context(), middleware.CurrentUserID(c), req.CourseID)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, res)
	case errors.Is(err, checkout.ErrCourseUnavailable):
		fail(c, http.StatusNotFound, i18n.MsgCourseUnavailable)
	case errors.Is(err, checkout.ErrAlreadyPurchased):
		fail(c, http.StatusConflict, i18n.MsgAlreadyPurchased)
	case errors.Is(err, checkout.ErrPaymentFailed):
		fail(c, http.StatusBadGateway, i18n.MsgPaymentFailed)
	default:
		internalError(c, "checkout failed", err)
	}
}

// ListPurchasesHandler handles GET /api/purchases.
func (h *CheckoutHandler) ListPurchasesHandler(c *gin.Context) {
	purchases, err := h.Checkout.ListPurchases(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		internalError(c, "failed to list purchases", err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// GetPurchaseHandler handles GET /api/purchases/:id and reconciles pending payments.
func (h *CheckoutHandler) GetPurchaseHandler(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	p, err := h.Checkout.VerifyPurchase(c.Request.Context(), actor.UserID, actor.IsAdmin(), c.Param("id"))
	if err != nil {
		if errors.Is(err, checkout.ErrPurchaseNotFound) {
			fail(c, http.StatusNotFound, i18n.MsgNotFound)
			return
		}
		internalError(c, "failed to verify purchase", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// StripeWebhookHandler handles POST /api/webhooks/stripe. The raw body is required for signature checks.
func (h *CheckoutHandler) StripeWebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		fail(c, http.StatusBadRequest, i18n.MsgInvalidRequest)
		return
	}
	err = h.Checkout.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, checkout.ErrInvalidSignature) {
			getLogger(c).Warn("rejected webhook", zap.Error(err))
			fail(c, http.StatusBadRequest, i18n.MsgInvalidSignature)
			return
		}
		// A 5xx makes the provider redeliver.
		internalError(c, "webhook processing failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// ListAllPurchasesHandler handles GET /api/admin/purchases.
func (h *CheckoutHandler) ListAllPurchasesHandler(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.Checkout.ListAllPurchases(c.Request.Context(), page, size)
	if err != nil {
		internalError(c, "failed to list purchases", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
