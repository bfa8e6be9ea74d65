package memoryRepo

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"coursehub/database"
	"coursehub/models"

	"go.mongodb.org/mongo-driver/bson"
)

type PurchaseRepo struct {
	mu        sync.Mutex
	purchases map[string]models.Purchase
}

func NewPurchaseRepo() *PurchaseRepo {
	return &PurchaseRepo{purchases: map[string]models.Purchase{}}
}

func (r *PurchaseRepo) Create(_ context.Context, p *models.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.purchases[p.ID]; ok {
		return database.ErrDuplicate
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.purchases[p.ID] = *p
	return nil
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (r *PurchaseRepo) GetBySessionID(_ context.Context, sessionID string) (*models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.purchases {
		if sessionID != "" && p.SessionID == sessionID {
			return &p, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *PurchaseRepo) SetSessionID(_ context.Context, id, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return database.ErrNotFound
	}
	p.SessionID = sessionID
	p.UpdatedAt = time.Now()
	r.purchases[id] = p
	return nil
}

func (r *PurchaseRepo) Transition(_ context.Context, id string, from []string, to string, fields bson.M) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok || !slices.Contains(from, p.Status) {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	for k, v := range fields {
		switch k {
		case "payment_ref":
			p.PaymentRef = v.(string)
		case "failure_reason":
			p.FailureReason = v.(string)
		case "session_id":
			p.SessionID = v.(string)
		case "completed_at":
			at := v.(time.Time)
			p.CompletedAt = &at
		}
	}
	r.purchases[id] = p
	return true, nil
}

func (r *PurchaseRepo) HasCompleted(_ context.Context, userID, courseID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.purchases {
		if p.UserID == userID && p.CourseID == courseID && p.Status == models.PurchaseStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *PurchaseRepo) sorted(keep func(models.Purchase) bool) []models.Purchase {
	out := []models.Purchase{}
	for _, p := range r.purchases {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *PurchaseRepo) ListByUser(_ context.Context, userID string) ([]models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p models.Purchase) bool { return p.UserID == userID }), nil
}

func (r *PurchaseRepo) ListAll(_ context.Context, skip, limit int64) ([]models.Purchase, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(func(models.Purchase) bool { return true })
	return window(all, skip, limit), int64(len(all)), nil
}

func (r *PurchaseRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.purchases {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *PurchaseRepo) Revenue(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, p := range r.purchases {
		if p.Status == models.PurchaseStatusCompleted {
			sum += p.AmountCents
		}
	}
	return sum, nil
}

func window[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	end := int64(len(items))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}
