package purchaseRepo

import (
	"context"

	"coursehub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// PurchaseRepository persists purchases and applies status transitions.
type PurchaseRepository interface {
	Create(ctx context.Context, p *models.Purchase) error
	GetByID(ctx context.Context, id string) (*models.Purchase, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Purchase, error)
	SetSessionID(ctx context.Context, id, sessionID string) error
	// Transition moves a purchase to status `to` only if its current status is one of `from`.
	// It reports whether the write applied; extra fields are $set alongside the status.
	Transition(ctx context.Context, id string, from []string, to string, fields bson.M) (bool, error)
	HasCompleted(ctx context.Context, userID, courseID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Purchase, error)
	ListAll(ctx context.Context, skip, limit int64) ([]models.Purchase, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	// Revenue sums AmountCents over completed purchases.
	Revenue(ctx context.Context) (int64, error)
}
