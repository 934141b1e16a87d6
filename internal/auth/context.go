package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const operatorKey contextKey = "operator"

// DefaultOperatorHeader is the header the fronting proxy sets to the
// authenticated operator's display name.
const DefaultOperatorHeader = "X-Operator"

// ContextWithOperator returns a new context that carries the operator's display name.
func ContextWithOperator(ctx context.Context, operator string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, operatorKey, strings.TrimSpace(operator))
}

// OperatorFromContext retrieves the operator's display name, if any.
func OperatorFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	operator, ok := ctx.Value(operatorKey).(string)
	if !ok || operator == "" {
		return "", false
	}
	return operator, true
}

// OperatorHeader copies the operator identity set by the authenticating
// proxy into the request context. Requests without the header pass through
// unauthenticated; handlers decide whether that is acceptable.
func OperatorHeader(header string) func(http.Handler) http.Handler {
	if strings.TrimSpace(header) == "" {
		header = DefaultOperatorHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if operator := strings.TrimSpace(r.Header.Get(header)); operator != "" {
				r = r.WithContext(ContextWithOperator(r.Context(), operator))
			}
			next.ServeHTTP(w, r)
		})
	}
}
