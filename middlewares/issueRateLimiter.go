package middlewares

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"civicsync-be/apperrors"
	"civicsync-be/utils"
)

// IssueRateLimiter caps how many issues one user may create per window.
// Each user gets a counter key that expires one window after its first
// increment.
type IssueRateLimiter struct {
	client redis.Cmdable
	prefix string
	limit  int
	window time.Duration
	log    *slog.Logger
}

func NewIssueRateLimiter(client redis.Cmdable, prefix string, limit int, log *slog.Logger) *IssueRateLimiter {
	if log == nil {
		log = slog.Default()
	}
	return &IssueRateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: 24 * time.Hour,
		log:    log,
	}
}

func (l *IssueRateLimiter) key(userID string) string {
	return fmt.Sprintf("%s:%s", l.prefix, userID)
}

// Limit must run after RequireAuth.
func (l *IssueRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			utils.ErrorResponse(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}

		ctx := c.Request.Context()
		key := l.key(userID)

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			utils.ErrorResponse(c, fmt.Errorf("redis error incrementing issue count: %w", err))
			return
		}

		if count == 1 {
			if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
				utils.ErrorResponse(c, fmt.Errorf("redis error setting issue count ttl: %w", err))
				return
			}
		}

		if count > int64(l.limit) {
			retryAfter, _ := l.client.TTL(ctx, key).Result()
			if retryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			}
			l.log.WarnContext(ctx, "issue rate limit exceeded", "user_id", userID, "count", count)
			utils.ErrorResponse(c, apperrors.NewTooManyRequestsError(
				fmt.Sprintf("You can report at most %d issues per day", l.limit)))
			return
		}

		c.Next()
	}
}
