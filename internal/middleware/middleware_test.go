package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/hoaxify/internal/ctxkeys"
	"github.com/templui/hoaxify/internal/model"
	"golang.org/x/text/language"
)

type fakeResolver struct {
	users map[string]*model.User
	err   error
}

func (f *fakeResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[token], nil
}

func status(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

func TestChain_RunsInOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(status(http.StatusOK), mark("a"), mark("b"), mark("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestAuth_ResolvesBearerToken(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*model.User{
		"abc": {ID: 7, Username: "user1", PasswordHash: "secret"},
	}}

	var seen *model.User
	var token string
	h := Auth(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.User(r.Context())
		token = ctxkeys.Token(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.ID)
	assert.Empty(t, seen.PasswordHash)
	assert.Equal(t, "abc", token)
	assert.Equal(t, "secret", resolver.users["abc"].PasswordHash)
}

func TestAuth_AnonymousOnBadToken(t *testing.T) {
	cases := map[string]struct {
		header   string
		resolver *fakeResolver
	}{
		"no header":      {"", &fakeResolver{}},
		"wrong scheme":   {"Basic abc", &fakeResolver{users: map[string]*model.User{"abc": {ID: 1}}}},
		"unknown token":  {"Bearer nope", &fakeResolver{}},
		"resolver error": {"Bearer abc", &fakeResolver{err: errors.New("db down")}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			h := Auth(tc.resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Nil(t, ctxkeys.User(r.Context()))
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.True(t, called)
		})
	}
}

func TestLocale(t *testing.T) {
	var seen language.Tag
	h := Locale(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.Locale(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, language.Turkish, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, language.English, seen)
}

func TestRecover(t *testing.T) {
	h := Recover(status(http.StatusInternalServerError))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestLogging_PassesStatusThrough(t *testing.T) {
	h := RequestLogging(status(http.StatusTeapot))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	h := RateLimit(limiter, status(http.StatusTooManyRequests))(status(http.StatusOK))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(1, time.Millisecond)
	limiter.Allow("10.0.0.1")
	time.Sleep(5 * time.Millisecond)

	limiter.Cleanup()
	assert.Empty(t, limiter.visitors)
}

func TestClientIP_IgnoresForwardingHeadersFromUntrustedPeers(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	req.Header.Set("X-Real-IP", "10.1.1.1")
	assert.Equal(t, "192.168.1.1", limiter.clientIP(req))
}

func TestClientIP_TrustedProxy(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)
	limiter.TrustProxies("10.0.0.0/8", "127.0.0.1", "not-a-network")
	require.Len(t, limiter.trusted, 2)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", limiter.clientIP(req))

	req.Header.Set("X-Real-IP", " 198.51.100.7 ")
	assert.Equal(t, "198.51.100.7", limiter.clientIP(req))

	// A spoofed leftmost entry does not override the hop the proxy appended.
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 203.0.113.5, 10.0.0.2")
	assert.Equal(t, "203.0.113.5", limiter.clientIP(req))

	req.RemoteAddr = "127.0.0.1:8080"
	req.Header.Set("X-Forwarded-For", "10.0.0.3")
	assert.Equal(t, "10.0.0.3", limiter.clientIP(req))
}

func TestRateLimit_SpoofedHeaderDoesNotResetBucket(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)
	h := RateLimit(limiter, status(http.StatusTooManyRequests))(status(http.StatusOK))

	codes := make([]int, 0, 2)
	for _, forwarded := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
