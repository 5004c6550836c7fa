package middleware

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

type RateLimitConfig struct {
	RequestsPerPeriod int
	Period            time.Duration
	Store             limiter.Store
}

// NewMemoryStore returns an in-process rate limit store.
func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// NewRedisStore returns a redis-backed rate limit store shared across
// instances.
func NewRedisStore(redisURL string) (limiter.Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "tm_case_booking:ratelimit",
	})
}

// RateLimit applies a global request rate limit.
func RateLimit(config RateLimitConfig) mux.MiddlewareFunc {
	period := config.Period
	if period == 0 {
		period = time.Second
	}
	rate := limiter.Rate{
		Period: period,
		Limit:  int64(config.RequestsPerPeriod),
	}
	store := config.Store
	if store == nil {
		store = NewMemoryStore()
	}
	instance := limiter.New(store, rate)
	middleware := mhttp.NewMiddleware(instance)
	return middleware.Handler
}
