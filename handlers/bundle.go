package handlers

import (
	userRepoPkg "coursehub/database/repository/user"

	"github.com/go-redis/redis/v8"
)

// HandlerBundle groups all endpoint handlers plus what the auth middleware needs.
type HandlerBundle struct {
	UserRepo  userRepoPkg.UserRepository
	AuthCache *redis.Client

	MaxRequestsPerMin int
	FrontendURL       string

	User      *UserHandler
	Catalog   *CatalogHandler
	Checkout  *CheckoutHandler
	Progress  *ProgressHandler
	Community *CommunityHandler
	Events    *EventHandler
	Storage   *StorageHandler
	Admin     *AdminHandler
}
