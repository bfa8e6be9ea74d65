package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coursehub/models"
	"coursehub/services/notification"
	"coursehub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CaptureLead is idempotent on email. Only a new lead receives the welcome email.
func (s *DefaultCatalogService) CaptureLead(ctx context.Context, req models.LeadRequest) (bool, error) {
	lead := &models.Lead{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Name:      strings.TrimSpace(req.Name),
		Source:    strings.TrimSpace(req.Source),
		CreatedAt: time.Now(),
	}
	created, err := s.Leads.Upsert(ctx, lead)
	if err != nil {
		return false, fmt.Errorf("failed to capture lead: %w", err)
	}
	if created && s.Notifier != nil {
		if err := s.Notifier.SendEmail(ctx, notification.WelcomeEmail(lead)); err != nil {
			utils.GetLogger().Warn("welcome email not sent", zap.String("leadID", lead.ID), zap.Error(err))
		}
	}
	return created, nil
}
