package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	memoryRepo "coursehub/database/repository/memory"
	"coursehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stores struct {
	users     *memoryRepo.UserRepo
	courses   *memoryRepo.CourseRepo
	purchases *memoryRepo.PurchaseRepo
	community *memoryRepo.CommunityRepo
	events    *memoryRepo.EventRepo
	files     *memoryRepo.FileRepo
}

func newAdmin(now time.Time) (*DefaultAdminService, stores) {
	s := stores{
		users:     memoryRepo.NewUserRepo(),
		courses:   memoryRepo.NewCourseRepo(),
		purchases: memoryRepo.NewPurchaseRepo(),
		community: memoryRepo.NewCommunityRepo(),
		events:    memoryRepo.NewEventRepo(),
		files:     memoryRepo.NewFileRepo(),
	}
	return &DefaultAdminService{
		Users:     s.users,
		Courses:   s.courses,
		Purchases: s.purchases,
		Community: s.community,
		Events:    s.events,
		Files:     s.files,
		Now:       func() time.Time { return now },
	}, s
}

func TestStatsAggregatesEveryStore(t *testing.T) {
	now := time.Now()
	svc, s := newAdmin(now)
	ctx := context.Background()

	require.NoError(t, s.users.Create(ctx, &models.User{ID: "u1", Email: "a@x.io", Role: models.RoleStudent}))
	require.NoError(t, s.users.Create(ctx, &models.User{ID: "u2", Email: "b@x.io", Role: models.RoleStudent}))
	require.NoError(t, s.users.Create(ctx, &models.User{ID: "u3", Email: "c@x.io", Role: models.RoleAdmin}))

	require.NoError(t, s.courses.CreateCourse(ctx, &models.Course{ID: "c1", Slug: "go-basics"}))

	for _, p := range []models.Purchase{
		{ID: "p1", Status: models.PurchaseStatusCompleted, AmountCents: 4900},
		{ID: "p2", Status: models.PurchaseStatusCompleted, AmountCents: 1500},
		{ID: "p3", Status: models.PurchaseStatusPending, AmountCents: 9900},
		{ID: "p4", Status: models.PurchaseStatusFailed, AmountCents: 9900},
	} {
		require.NoError(t, s.purchases.Create(ctx, &p))
	}

	require.NoError(t, s.community.CreatePost(ctx, &models.Post{ID: "post1", Body: "hello"}))

	require.NoError(t, s.events.Create(ctx, &models.Event{ID: "e1", StartsAt: now.Add(time.Hour), EndsAt: now.Add(2 * time.Hour)}))
	require.NoError(t, s.events.Create(ctx, &models.Event{ID: "e2", StartsAt: now.Add(-2 * time.Hour), EndsAt: now.Add(-time.Hour)}))

	require.NoError(t, s.files.Create(ctx, &models.File{ID: "f1"}))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{
		Users:              3,
		Admins:             1,
		Courses:            1,
		CompletedPurchases: 2,
		PendingPurchases:   1,
		RevenueCents:       6400,
		Posts:              1,
		UpcomingEvents:     1,
		Files:              1,
	}, *stats)
}

type brokenFiles struct{ *memoryRepo.FileRepo }

func (brokenFiles) List(context.Context, int64, int64) ([]models.File, int64, error) {
	return nil, 0, errors.New("connection reset")
}

func TestStatsPropagatesErrors(t *testing.T) {
	svc, s := newAdmin(time.Now())
	svc.Files = brokenFiles{s.files}

	_, err := svc.Stats(context.Background())
	assert.ErrorContains(t, err, "count files")
}

func TestLegalSections(t *testing.T) {
	svc, _ := newAdmin(time.Now())
	sections := svc.GetLegalSections()

	require.Len(t, sections, 4)
	ids := make([]string, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
		assert.NotEmpty(t, s.Content)
	}
	assert.Equal(t, []string{"tos", "privacy", "conduct", "payments"}, ids)
}
