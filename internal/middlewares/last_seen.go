package middlewares

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-microblog/internal/logger"
)

//go:generate mockgen -source=last_seen.go -destination=mock_last_seen_test.go -package=middlewares

// LastSeenToucher records user activity.
type LastSeenToucher interface {
	TouchLastSeen(ctx context.Context, userID int64) error
}

// LastSeenMiddleware records the authenticated user as active before
// handling the request. Failures are logged and do not fail the request.
func LastSeenMiddleware(toucher LastSeenToucher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if userID, ok := UserIDFromContext(ctx); ok {
				if err := toucher.TouchLastSeen(ctx, userID); err != nil {
					logger.FromContext(ctx).Warnw("failed to record last seen", "user_id", userID, "error", err)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
