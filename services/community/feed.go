package community

import (
	"context"
	"encoding/json"
	"fmt"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func feedKey(pageSize int) string {
	return fmt.Sprintf("%s1:%d", utils.FeedCachePrefix, pageSize)
}

// ListFeed returns posts newest first. The first page is served from Redis when warm.
func (s *DefaultCommunityService) ListFeed(ctx context.Context, page, pageSize int) (*models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)

	if page == 1 {
		if cached, ok := s.cachedFeed(ctx, pageSize); ok {
			return cached, nil
		}
	}

	skip, limit := database.Paging(page, pageSize, MaxPageSize)
	// One extra row tells us whether another page exists.
	posts, err := s.Repo.ListPosts(ctx, skip, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	out := &models.FeedPage{Posts: posts, Page: page, PageSize: pageSize}
	if int64(len(posts)) > limit {
		out.Posts = posts[:limit]
		out.HasMore = true
	}

	if page == 1 {
		s.storeFeed(ctx, pageSize, out)
	}
	return out, nil
}

func (s *DefaultCommunityService) cachedFeed(ctx context.Context, pageSize int) (*models.FeedPage, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, feedKey(pageSize)).Bytes()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("feed cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var page models.FeedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false
	}
	return &page, true
}

func (s *DefaultCommunityService) storeFeed(ctx context.Context, pageSize int, page *models.FeedPage) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, feedKey(pageSize), raw, utils.FeedCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("feed cache write failed", zap.Error(err))
	}
}

// invalidateFeed drops every cached first page, whatever its size.
func (s *DefaultCommunityService) invalidateFeed(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	iter := s.Cache.Scan(ctx, 0, utils.FeedCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Warn("feed cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.Cache.Del(ctx, keys...).Err(); err != nil {
		utils.GetLogger().Warn("feed cache invalidation failed", zap.Error(err))
	}
}
