package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type contextKey string

const FamilyCodeKey contextKey = "familyCode"

// FamilyCodeMiddleware requires the X-Family-Code header on family-scoped
// routes and stores the code in the request context. The code is the owner
// key every study-log query filters on; it travels explicitly with each
// request instead of living in ambient client storage.
func FamilyCodeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(r.Header.Get("X-Family-Code"))
		if code == "" {
			respondWithError(w, http.StatusBadRequest, "X-Family-Code header required")
			return
		}

		ctx := context.WithValue(r.Context(), FamilyCodeKey, code)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetFamilyCode extracts the family code from context.
func GetFamilyCode(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(FamilyCodeKey).(string)
	return code, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
