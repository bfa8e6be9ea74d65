package middleware

import (
	"errors"
	"net/http"
	"strings"

	userRepo "coursehub/database/repository/user"
	"coursehub/i18n"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func unauthorized(c *gin.Context) {
	utils.JSONError(c, http.StatusUnauthorized, i18n.T(c.GetString(CtxLocale), i18n.MsgUnauthorized), "")
}

type sessionResolver struct {
	users     userRepo.UserRepository
	authCache *redis.Client
}

// resolve returns the caller's id and role when the bearer token is the user's live session.
// The session hash is read from the auth cache and falls back to MongoDB on a miss.
func (r sessionResolver) resolve(c *gin.Context) (string, string, bool) {
	ctx := c.Request.Context()

	tokenString := bearerToken(c)
	if tokenString == "" {
		return "", "", false
	}
	claims, err := utils.ExtractClaims(tokenString)
	if err != nil {
		return "", "", false
	}
	computedHash := utils.HashToken(tokenString)

	if r.authCache != nil {
		entry, err := utils.GetAuthCacheEntry(ctx, r.authCache, claims.Subject)
		switch {
		case err == nil:
			if entry.TokenHash != computedHash {
				return "", "", false
			}
			return claims.Subject, entry.Role, true
		case !errors.Is(err, redis.Nil):
			utils.GetLogger().Warn("auth cache read failed, falling back to database", zap.Error(err))
		}
	}

	usr, err := r.users.GetByIDWithProjection(ctx, claims.Subject, bson.M{"id": 1, "role": 1, "token_hash": 1})
	if err != nil || usr == nil || usr.TokenHash == "" || usr.TokenHash != computedHash {
		return "", "", false
	}

	if r.authCache != nil {
		entry := utils.AuthCacheEntry{TokenHash: computedHash, Role: usr.Role}
		if err := utils.SetAuthCacheEntry(ctx, r.authCache, usr.ID, entry); err != nil {
			utils.GetLogger().Warn("auth cache write failed", zap.Error(err))
		}
	}
	return usr.ID, usr.Role, true
}

// JWTAuthUserMiddleware rejects requests without a live session.
func JWTAuthUserMiddleware(users userRepo.UserRepository, authCache *redis.Client) gin.HandlerFunc {
	r := sessionResolver{users: users, authCache: authCache}
	return func(c *gin.Context) {
		userID, role, ok := r.resolve(c)
		if !ok {
			unauthorized(c)
			return
		}
		c.Set(CtxUserID, userID)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware identifies the caller when it can and otherwise continues anonymously.
func OptionalJWTAuthMiddleware(users userRepo.UserRepository, authCache *redis.Client) gin.HandlerFunc {
	r := sessionResolver{users: users, authCache: authCache}
	return func(c *gin.Context) {
		if userID, role, ok := r.resolve(c); ok {
			c.Set(CtxUserID, userID)
			c.Set(CtxRole, role)
		}
		c.Next()
	}
}
