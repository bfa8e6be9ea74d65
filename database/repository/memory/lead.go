package memoryRepo

import (
	"context"
	"sync"

	"coursehub/models"
)

type LeadRepo struct {
	mu    sync.Mutex
	Leads map[string]models.Lead
}

func NewLeadRepo() *LeadRepo {
	return &LeadRepo{Leads: map[string]models.Lead{}}
}

func (r *LeadRepo) Upsert(_ context.Context, lead *models.Lead) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Leads[lead.Email]; ok {
		return false, nil
	}
	r.Leads[lead.Email] = *lead
	return true, nil
}
