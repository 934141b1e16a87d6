package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorRoundTrip(t *testing.T) {
	ctx := ContextWithOperator(context.Background(), "  Aïcha Dossou ")
	operator, ok := OperatorFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "Aïcha Dossou", operator)
}

func TestOperatorFromContext_Missing(t *testing.T) {
	_, ok := OperatorFromContext(context.Background())
	assert.False(t, ok)

	_, ok = OperatorFromContext(ContextWithOperator(context.Background(), "   "))
	assert.False(t, ok)
}

func TestOperatorHeader(t *testing.T) {
	var seen string
	var found bool
	handler := OperatorHeader("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, found = OperatorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DefaultOperatorHeader, "agent.parakou")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, found)
	assert.Equal(t, "agent.parakou", seen)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, found)
}
