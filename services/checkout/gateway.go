package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// SessionRequest describes a one-off payment for a single course.
type SessionRequest struct {
	PurchaseID    string
	UserID        string
	CourseID      string
	CustomerEmail string
	ProductName   string
	AmountCents   int64
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// GatewaySession is the provider's view of a checkout session.
type GatewaySession struct {
	ID         string
	URL        string
	Paid       bool
	Expired    bool
	PaymentRef string
}

type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeCompleted
	OutcomeFailed
)

// WebhookEvent is a verified provider event reduced to what a purchase needs.
type WebhookEvent struct {
	ID                string
	Type              string
	Outcome           Outcome
	ClientReferenceID string
	MetaPurchaseID    string
	SessionID         string
	PaymentRef        string
	Reason            string
}

type PaymentGateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*GatewaySession, error)
	GetSession(ctx context.Context, sessionID string) (*GatewaySession, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

const webhookTolerance = 5 * time.Minute

// StripeGateway talks to Stripe Checkout. The API key is the package-level stripe.Key.
type StripeGateway struct {
	WebhookSecret string
}

func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*GatewaySession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.PurchaseID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(req.Currency)),
				UnitAmount: stripe.Int64(req.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.ProductName),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Metadata: map[string]string{
			"purchase_id": req.PurchaseID,
			"user_id":     req.UserID,
			"course_id":   req.CourseID,
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return toGatewaySession(sess), nil
}

func (g *StripeGateway) GetSession(ctx context.Context, sessionID string) (*GatewaySession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session %s: %w", sessionID, err)
	}
	return toGatewaySession(sess), nil
}

func toGatewaySession(sess *stripe.CheckoutSession) *GatewaySession {
	out := &GatewaySession{
		ID:      sess.ID,
		URL:     sess.URL,
		Paid:    sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Expired: sess.Status == stripe.CheckoutSessionStatusExpired,
	}
	if sess.PaymentIntent != nil {
		out.PaymentRef = sess.PaymentIntent.ID
	}
	return out
}

// ParseWebhook verifies the Stripe-Signature header and maps checkout session events.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.WebhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhookTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded,
		stripe.EventTypeCheckoutSessionExpired,
		stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
	default:
		return out, nil
	}
	if event.Data == nil {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.ClientReferenceID = sess.ClientReferenceID
	out.MetaPurchaseID = sess.Metadata["purchase_id"]
	out.SessionID = sess.ID
	if sess.PaymentIntent != nil {
		out.PaymentRef = sess.PaymentIntent.ID
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		// Delayed payment methods complete the session before the money arrives.
		if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
			out.Outcome = OutcomeCompleted
		}
	case stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		out.Outcome = OutcomeCompleted
	case stripe.EventTypeCheckoutSessionExpired:
		out.Outcome = OutcomeFailed
		out.Reason = "checkout session expired"
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		out.Outcome = OutcomeFailed
		out.Reason = "payment failed"
	}
	return out, nil
}
