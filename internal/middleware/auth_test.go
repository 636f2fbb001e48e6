package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agilemate/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	verifyFn func(ctx context.Context, token string) (*model.Identity, error)
	calls    int
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	f.calls++
	return f.verifyFn(ctx, token)
}

func newAuthRouter(v IdentityVerifier, reached *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/protected", Auth(v), func(c *gin.Context) {
		*reached = true
		id, ok := CurrentIdentity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, id)
	})
	return r
}

func TestAuthMissingTokenIs401(t *testing.T) {
	v := &fakeVerifier{verifyFn: func(context.Context, string) (*model.Identity, error) {
		return &model.Identity{ID: "u-1"}, nil
	}}
	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer    "} {
		reached := false
		r := newAuthRouter(v, &reached)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
		assert.Contains(t, rr.Body.String(), "No token provided")
		assert.False(t, reached, "downstream must not run for %q", header)
	}
	assert.Equal(t, 0, v.calls)
}

func TestAuthInvalidTokenIs403(t *testing.T) {
	v := &fakeVerifier{verifyFn: func(context.Context, string) (*model.Identity, error) {
		return nil, errors.New("token expired")
	}}
	reached := false
	r := newAuthRouter(v, &reached)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token")
	assert.False(t, reached)
	assert.Equal(t, 1, v.calls)
}

func TestAuthAttachesIdentity(t *testing.T) {
	var seen string
	v := &fakeVerifier{verifyFn: func(_ context.Context, token string) (*model.Identity, error) {
		seen = token
		return &model.Identity{ID: "u-1", DisplayName: "Avery", Email: "avery@example.com"}, nil
	}}
	reached := false
	r := newAuthRouter(v, &reached)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, reached)
	assert.Equal(t, "good-token", seen)
	assert.JSONEq(t, `{"id":"u-1","displayName":"Avery","email":"avery@example.com"}`, rr.Body.String())
}

func TestAuthVerifiesEveryRequest(t *testing.T) {
	v := &fakeVerifier{verifyFn: func(context.Context, string) (*model.Identity, error) {
		return &model.Identity{ID: "u-1"}, nil
	}}
	reached := false
	r := newAuthRouter(v, &reached)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer same-token")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 3, v.calls)
}

func TestMetricsRecordsRoute(t *testing.T) {
	reached := false
	r := newAuthRouter(&fakeVerifier{}, &reached)
	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/protected", "401"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/protected", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/protected", "401"))
	assert.Equal(t, before+1, after)

	rr := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "agilemate_http_requests_total"))
}
