package httpapi

import (
	"context"
	"net/http"
)

type contextKey string

const profileKey contextKey = "profile_id"

// ProfileMiddleware resolves the browser/user-agent profile scoping the
// durable cart and wishlist mirrors. The profile comes from the
// X-Profile-ID header; requests without one are rejected.
func ProfileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := r.Header.Get("X-Profile-ID")
		if profile == "" {
			respondError(w, http.StatusUnauthorized, "missing_profile", "X-Profile-ID header is required")
			return
		}
		ctx := context.WithValue(r.Context(), profileKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func profileFromContext(ctx context.Context) string {
	if profile, ok := ctx.Value(profileKey).(string); ok {
		return profile
	}
	return ""
}
