package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	ErrCodeNotFound = errors.New("code not found or expired")
	ErrCodeMismatch = errors.New("code does not match")

	// ErrCodeAttemptsExceeded means too many wrong guesses; the code is gone.
	ErrCodeAttemptsExceeded = errors.New("too many attempts, request a new code")
)

// GenerateSecureCode returns a random base32 code of the given length.
func GenerateSecureCode(length int) (string, error) {
	numBytes := (length*5 + 7) / 8
	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	if len(code) > length {
		code = code[:length]
	}
	return code, nil
}

func attemptsKey(key string) string { return key + ":attempts" }

// StoreCode saves code under key with the given TTL, replacing any previous one
// and resetting its failed attempt counter.
func StoreCode(ctx context.Context, client *redis.Client, key, code string, ttl time.Duration) error {
	if client == nil {
		return fmt.Errorf("code cache client not initialized")
	}
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, code, ttl)
		pipe.Set(ctx, attemptsKey(key), 0, ttl)
		return nil
	})
	return err
}

// ConsumeCode compares provided with the stored code and deletes it on match.
// After MaxCodeAttempts misses the code is deleted and ErrCodeAttemptsExceeded returned.
func ConsumeCode(ctx context.Context, client *redis.Client, key, provided string) error {
	if client == nil {
		return fmt.Errorf("code cache client not initialized")
	}
	stored, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeNotFound
		}
		return fmt.Errorf("failed to retrieve code: %w", err)
	}
	if stored != provided {
		// INCR keeps the TTL set by StoreCode.
		misses, err := client.Incr(ctx, attemptsKey(key)).Result()
		if err != nil {
			return fmt.Errorf("failed to count attempt: %w", err)
		}
		if misses >= MaxCodeAttempts {
			if err := client.Del(ctx, key, attemptsKey(key)).Err(); err != nil {
				return fmt.Errorf("failed to delete code: %w", err)
			}
			return ErrCodeAttemptsExceeded
		}
		return ErrCodeMismatch
	}
	// A concurrent consumer may win the delete; only one caller sees n == 1.
	n, err := client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete code: %w", err)
	}
	if n == 0 {
		return ErrCodeNotFound
	}
	client.Del(ctx, attemptsKey(key))
	return nil
}
