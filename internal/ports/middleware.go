package ports

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Amund211/gamelens/internal/app"
	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/logging"
	"github.com/Amund211/gamelens/internal/ratelimiting"
	"github.com/Amund211/gamelens/internal/reporting"
	"github.com/Amund211/gamelens/internal/strutils"
)

func NewRateLimitMiddleware(rateLimiter ratelimiting.RequestRateLimiter, onLimitExceeded http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !rateLimiter.Consume(r) {
				onLimitExceeded(w, r)
				return
			}

			next(w, r)
		}
	}
}

func makeOnLimitExceeded(rateLimiter ratelimiting.RequestRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).InfoContext(
			r.Context(),
			"Rate limit exceeded",
			"statusCode", http.StatusTooManyRequests,
			"key", rateLimiter.KeyFor(r),
		)

		w.Header().Set("Retry-After", "1")
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
	}
}

// ComposeMiddlewares chains middlewares so the first one given is the outermost
func ComposeMiddlewares(middlewares ...func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(handler http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// RouteLimits configures the per-ip and per-user token buckets of one route
type RouteLimits struct {
	IPRefillPerSecond     ratelimiting.RefillPerSecond
	IPBurstSize           ratelimiting.BurstSize
	UserIDRefillPerSecond ratelimiting.RefillPerSecond
	UserIDBurstSize       ratelimiting.BurstSize
}

// buildRouteMiddleware returns the shared middleware chain for a route and a function
// stopping its rate limiters
func buildRouteMiddleware(
	routeName string,
	limits RouteLimits,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) (func(http.HandlerFunc) http.HandlerFunc, func()) {
	ipLimiter, stopIPLimiter := ratelimiting.NewTokenBucketRateLimiter(
		limits.IPRefillPerSecond,
		limits.IPBurstSize,
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)
	userIDLimiter, stopUserIDLimiter := ratelimiting.NewTokenBucketRateLimiter(
		limits.UserIDRefillPerSecond,
		limits.UserIDBurstSize,
	)
	userIDRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		// NOTE: Rate limiting based on user controlled value
		userIDLimiter,
		ratelimiting.UserIDKeyFunc,
	)

	middleware := ComposeMiddlewares(
		buildMetricsMiddleware(routeName),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware(routeName),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, makeOnLimitExceeded(ipRateLimiter)),
		NewRateLimitMiddleware(userIDRateLimiter, makeOnLimitExceeded(userIDRateLimiter)),
	)

	return middleware, func() {
		stopIPLimiter()
		stopUserIDLimiter()
	}
}

// BuildRegisterUserVisitMiddleware records a visit of the given kind for requests carrying a valid user id.
// The visit is registered in the background and never delays or fails the request.
func BuildRegisterUserVisitMiddleware(registerUserVisit app.RegisterUserVisit, kind domain.VisitKind) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, err := strutils.NormalizeUUID(r.Header.Get("X-User-Id"))
			if err == nil {
				ctx := r.Context()
				go func() {
					registerCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 1*time.Second)
					defer cancel()

					_, err := registerUserVisit(registerCtx, userID, kind)
					if err != nil {
						// NOTE: UserRepository implementations handle their own error reporting
						logging.FromContext(ctx).WarnContext(ctx, "failed to register user visit", "kind", string(kind), "error", err.Error())
					}
				}()
			}

			next(w, r)
		}
	}
}
