package models

import "time"

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"

	PaymentProviderStripe = "stripe"
)

// Purchase records one attempt to buy a course.
type Purchase struct {
	ID            string     `bson:"id" json:"id"`
	UserID        string     `bson:"user_id" json:"userId"`
	CourseID      string     `bson:"course_id" json:"courseId"`
	AmountCents   int64      `bson:"amount_cents" json:"amountCents"`
	Currency      string     `bson:"currency" json:"currency"`
	Status        string     `bson:"status" json:"status"`
	Provider      string     `bson:"provider" json:"provider"`
	SessionID     string     `bson:"session_id,omitempty" json:"sessionId,omitempty"`
	PaymentRef    string     `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"`
	FailureReason string     `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updatedAt"`
	CompletedAt   *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

type CheckoutRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type CheckoutResponse struct {
	PurchaseID  string `json:"purchaseId"`
	CheckoutURL string `json:"checkoutUrl"`
}
