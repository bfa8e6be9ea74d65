package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	memoryRepo "coursehub/database/repository/memory"
	purchaseRepo "coursehub/database/repository/purchase"
	"coursehub/models"
	"coursehub/services/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson"
)

const testSecret = "whsec_test_secret"

// fakeGateway verifies webhooks like Stripe but keeps sessions in memory.
type fakeGateway struct {
	StripeGateway
	mu       sync.Mutex
	sessions map[string]*GatewaySession
	requests []SessionRequest
	failNext bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{StripeGateway: StripeGateway{WebhookSecret: testSecret}, sessions: map[string]*GatewaySession{}}
}

func (g *fakeGateway) CreateSession(_ context.Context, req SessionRequest) (*GatewaySession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failNext {
		g.failNext = false
		return nil, errors.New("stripe unavailable")
	}
	g.requests = append(g.requests, req)
	sess := &GatewaySession{ID: "cs_" + req.PurchaseID, URL: "https://checkout.stripe.test/" + req.PurchaseID}
	g.sessions[sess.ID] = sess
	return sess, nil
}

func (g *fakeGateway) GetSession(_ context.Context, id string) (*GatewaySession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("no such session")
	}
	cp := *sess
	return &cp, nil
}

type fixture struct {
	svc       *DefaultCheckoutService
	gateway   *fakeGateway
	purchases *memoryRepo.PurchaseRepo
	recorder  *notification.Recorder
	course    *models.Course
	user      *models.User
}

func newFixture(t *testing.T, priceCents int64) *fixture {
	t.Helper()
	ctx := context.Background()
	courses := memoryRepo.NewCourseRepo()
	users := memoryRepo.NewUserRepo()
	purchases := memoryRepo.NewPurchaseRepo()

	course := &models.Course{ID: "c1", Slug: "go-basics", Title: "Go Basics", PriceCents: priceCents, Currency: "usd", Published: true}
	require.NoError(t, courses.CreateCourse(ctx, course))
	user := &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: models.RoleStudent}
	require.NoError(t, users.Create(ctx, user))

	gw := newFakeGateway()
	rec := &notification.Recorder{}
	return &fixture{
		svc: &DefaultCheckoutService{
			Purchases:   purchases,
			Courses:     courses,
			Users:       users,
			Gateway:     gw,
			Notifier:    rec,
			FrontendURL: "https://app.example.com/",
		},
		gateway:   gw,
		purchases: purchases,
		recorder:  rec,
		course:    course,
		user:      user,
	}
}

func signedEvent(t *testing.T, eventType string, session map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_" + eventType,
		"object":      "event",
		"type":        eventType,
		"api_version": "2020-08-27",
		"data":        map[string]any{"object": session},
	})
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: testSecret})
	return payload, signed.Header
}

func (f *fixture) status(t *testing.T, purchaseID string) string {
	t.Helper()
	p, err := f.purchases.GetByID(context.Background(), purchaseID)
	require.NoError(t, err)
	return p.Status
}

func TestCreateCheckout(t *testing.T) {
	f := newFixture(t, 4900)
	res, err := f.svc.CreateCheckout(context.Background(), "u1", "c1")
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.stripe.test/"+res.PurchaseID, res.CheckoutURL)
	p, err := f.purchases.GetByID(context.Background(), res.PurchaseID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPending, p.Status)
	assert.Equal(t, "cs_"+res.PurchaseID, p.SessionID)
	assert.Equal(t, int64(4900), p.AmountCents)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.Equal(t, "ada@example.com", req.CustomerEmail)
	assert.True(t, strings.HasPrefix(req.SuccessURL, "https://app.example.com/checkout/success?purchase="+res.PurchaseID))
	assert.Contains(t, req.SuccessURL, "{CHECKOUT_SESSION_ID}")
	assert.Equal(t, "https://app.example.com/courses/go-basics?checkout=cancelled", req.CancelURL)
}

func TestCreateCheckoutRejections(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()

	_, err := f.svc.CreateCheckout(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrCourseUnavailable)

	f.course.Published = false
	require.NoError(t, f.svc.Courses.UpdateCourse(ctx, f.course))
	_, err = f.svc.CreateCheckout(ctx, "u1", "c1")
	assert.ErrorIs(t, err, ErrCourseUnavailable)
}

func TestCreateCheckoutGatewayFailureMarksFailed(t *testing.T) {
	f := newFixture(t, 4900)
	f.gateway.failNext = true

	_, err := f.svc.CreateCheckout(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, ErrPaymentFailed)

	all, err := f.purchases.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.PurchaseStatusFailed, all[0].Status)
}

func TestFreeCourseCompletesImmediately(t *testing.T) {
	f := newFixture(t, 0)
	res, err := f.svc.CreateCheckout(context.Background(), "u1", "c1")
	require.NoError(t, err)

	assert.Contains(t, res.CheckoutURL, "/checkout/success")
	assert.Equal(t, models.PurchaseStatusCompleted, f.status(t, res.PurchaseID))
	assert.Empty(t, f.gateway.requests)

	_, err = f.svc.CreateCheckout(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, ErrAlreadyPurchased)
}

func TestWebhookCompletesPurchase(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	res, err := f.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)

	payload, sig := signedEvent(t, "checkout.session.completed", map[string]any{
		"id":                  "cs_" + res.PurchaseID,
		"object":              "checkout.session",
		"client_reference_id": res.PurchaseID,
		"payment_status":      "paid",
		"status":              "complete",
		"payment_intent":      "pi_123",
	})
	require.NoError(t, f.svc.HandleWebhook(ctx, payload, sig))

	p, err := f.purchases.GetByID(ctx, res.PurchaseID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusCompleted, p.Status)
	assert.Equal(t, "pi_123", p.PaymentRef)
	assert.NotNil(t, p.CompletedAt)

	ok, err := f.svc.HasAccess(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.True(t, ok)

	// A redelivery changes nothing and sends no second receipt.
	require.NoError(t, f.svc.HandleWebhook(ctx, payload, sig))
	assert.Len(t, f.recorder.Emails(), 1)
	assert.Len(t, f.recorder.Pushes(), 1)
	assert.Equal(t, "receipt", f.recorder.Emails()[0].Category)
}

func TestWebhookUnpaidCompletionIsIgnored(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	res, err := f.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)

	payload, sig := signedEvent(t, "checkout.session.completed", map[string]any{
		"id":                  "cs_" + res.PurchaseID,
		"client_reference_id": res.PurchaseID,
		"payment_status":      "unpaid",
	})
	require.NoError(t, f.svc.HandleWebhook(ctx, payload, sig))
	assert.Equal(t, models.PurchaseStatusPending, f.status(t, res.PurchaseID))
}

func TestWebhookLookupFallbacks(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	res, err := f.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)

	// No client reference and no metadata: resolved through the session id.
	payload, sig := signedEvent(t, "checkout.session.async_payment_succeeded", map[string]any{
		"id": "cs_" + res.PurchaseID,
	})
	require.NoError(t, f.svc.HandleWebhook(ctx, payload, sig))
	assert.Equal(t, models.PurchaseStatusCompleted, f.status(t, res.PurchaseID))

	other := newFixture(t, 4900)
	res2, err := other.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)
	payload, sig = signedEvent(t, "checkout.session.expired", map[string]any{
		"id":       "cs_unknown",
		"metadata": map[string]string{"purchase_id": res2.PurchaseID},
	})
	require.NoError(t, other.svc.HandleWebhook(ctx, payload, sig))
	assert.Equal(t, models.PurchaseStatusFailed, other.status(t, res2.PurchaseID))
}

func TestWebhookStateMachine(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	res, err := f.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)
	session := map[string]any{"id": "cs_" + res.PurchaseID, "client_reference_id": res.PurchaseID, "payment_status": "paid"}

	expired, expiredSig := signedEvent(t, "checkout.session.expired", session)
	require.NoError(t, f.svc.HandleWebhook(ctx, expired, expiredSig))
	assert.Equal(t, models.PurchaseStatusFailed, f.status(t, res.PurchaseID))

	// A late success still grants access.
	paid, paidSig := signedEvent(t, "checkout.session.async_payment_succeeded", session)
	require.NoError(t, f.svc.HandleWebhook(ctx, paid, paidSig))
	assert.Equal(t, models.PurchaseStatusCompleted, f.status(t, res.PurchaseID))

	// completed is terminal.
	failed, failedSig := signedEvent(t, "checkout.session.async_payment_failed", session)
	require.NoError(t, f.svc.HandleWebhook(ctx, failed, failedSig))
	assert.Equal(t, models.PurchaseStatusCompleted, f.status(t, res.PurchaseID))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t, 4900)
	payload, _ := signedEvent(t, "checkout.session.completed", map[string]any{"id": "cs_1"})

	err := f.svc.HandleWebhook(context.Background(), payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestWebhookIgnoresOtherEventsAndUnknownPurchases(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()

	payload, sig := signedEvent(t, "customer.created", map[string]any{"id": "cus_1"})
	assert.NoError(t, f.svc.HandleWebhook(ctx, payload, sig))

	payload, sig = signedEvent(t, "checkout.session.completed", map[string]any{
		"id": "cs_nobody", "client_reference_id": "nope", "payment_status": "paid",
	})
	assert.NoError(t, f.svc.HandleWebhook(ctx, payload, sig))
}

func TestVerifyPurchaseReconciles(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	res, err := f.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)

	p, err := f.svc.VerifyPurchase(ctx, "u1", false, res.PurchaseID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPending, p.Status)

	_, err = f.svc.VerifyPurchase(ctx, "someone-else", false, res.PurchaseID)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)

	f.gateway.mu.Lock()
	f.gateway.sessions["cs_"+res.PurchaseID].Paid = true
	f.gateway.sessions["cs_"+res.PurchaseID].PaymentRef = "pi_verify"
	f.gateway.mu.Unlock()

	p, err = f.svc.VerifyPurchase(ctx, "admin", true, res.PurchaseID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusCompleted, p.Status)
	assert.Equal(t, "pi_verify", p.PaymentRef)

	_, err = f.svc.VerifyPurchase(ctx, "u1", false, "missing")
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestVerifyPurchaseExpired(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	res, err := f.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)

	f.gateway.mu.Lock()
	f.gateway.sessions["cs_"+res.PurchaseID].Expired = true
	f.gateway.mu.Unlock()

	p, err := f.svc.VerifyPurchase(ctx, "u1", false, res.PurchaseID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusFailed, p.Status)
}

func TestListAllPurchases(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.CreateCheckout(ctx, "u1", "c1")
		require.NoError(t, err)
	}
	page, err := f.svc.ListAllPurchases(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Purchases, 1)
	assert.Equal(t, 2, page.Page)
}

// flakyPurchases fails every status transition while down is set.
type flakyPurchases struct {
	purchaseRepo.PurchaseRepository
	down bool
}

func (r *flakyPurchases) Transition(ctx context.Context, id string, from []string, to string, fields bson.M) (bool, error) {
	if r.down {
		return false, errors.New("mongo write timeout")
	}
	return r.PurchaseRepository.Transition(ctx, id, from, to, fields)
}

func TestWebhookStorageFailureIsRedelivered(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	res, err := f.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)

	flaky := &flakyPurchases{PurchaseRepository: f.purchases, down: true}
	f.svc.Purchases = flaky

	payload, sig := signedEvent(t, "checkout.session.completed", map[string]any{
		"id":                  "cs_" + res.PurchaseID,
		"object":              "checkout.session",
		"client_reference_id": res.PurchaseID,
		"payment_status":      "paid",
		"status":              "complete",
	})
	err = f.svc.HandleWebhook(ctx, payload, sig)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, models.PurchaseStatusPending, f.status(t, res.PurchaseID))
	assert.Empty(t, f.recorder.Emails())

	// Stripe retries after the 5xx and the purchase completes.
	flaky.down = false
	require.NoError(t, f.svc.HandleWebhook(ctx, payload, sig))
	assert.Equal(t, models.PurchaseStatusCompleted, f.status(t, res.PurchaseID))

	expired, expiredSig := signedEvent(t, "checkout.session.expired", map[string]any{
		"id":                  "cs_other",
		"object":              "checkout.session",
		"client_reference_id": res.PurchaseID,
		"status":              "expired",
	})
	flaky.down = true
	assert.Error(t, f.svc.HandleWebhook(ctx, expired, expiredSig))
}

func TestFreeCourseStorageFailure(t *testing.T) {
	f := newFixture(t, 0)
	f.svc.Purchases = &flakyPurchases{PurchaseRepository: f.purchases, down: true}

	res, err := f.svc.CreateCheckout(context.Background(), "u1", "c1")
	require.Error(t, err)
	assert.Nil(t, res)

	ok, err := f.svc.HasAccess(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPurchaseStorageFailure(t *testing.T) {
	f := newFixture(t, 4900)
	ctx := context.Background()
	res, err := f.svc.CreateCheckout(ctx, "u1", "c1")
	require.NoError(t, err)
	f.gateway.mu.Lock()
	f.gateway.sessions["cs_"+res.PurchaseID].Paid = true
	f.gateway.mu.Unlock()
	f.svc.Purchases = &flakyPurchases{PurchaseRepository: f.purchases, down: true}

	_, err = f.svc.VerifyPurchase(ctx, "u1", false, res.PurchaseID)
	assert.Error(t, err)
}
