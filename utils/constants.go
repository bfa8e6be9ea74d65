// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// ResetCodePrefix keys password reset codes by email.
const ResetCodePrefix = "pwreset:"

// ResetCodeTTL bounds how long a reset code stays usable.
const ResetCodeTTL = 15 * time.Minute

// MaxCodeAttempts is how many wrong guesses a stored code survives.
const MaxCodeAttempts = 5

// FeedCachePrefix keys cached community feed pages.
const FeedCachePrefix = "feed:"

// FeedCacheTTL is how long page one of the feed is served from cache.
const FeedCacheTTL = 60 * time.Second
