package user

import (
	"testing"

	memoryRepo "coursehub/database/repository/memory"
	"coursehub/services/notification"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

type fixture struct {
	svc      *DefaultUserService
	repo     *memoryRepo.UserRepo
	notifier *notification.Recorder
	redis    *miniredis.Miniredis
	client   *redis.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := memoryRepo.NewUserRepo()
	notifier := &notification.Recorder{}
	return &fixture{
		svc: &DefaultUserService{
			Repo:      repo,
			AuthCache: client,
			CodeCache: client,
			Notifier:  notifier,
		},
		repo:     repo,
		notifier: notifier,
		redis:    mr,
		client:   client,
	}
}
