package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/medbook/medbook-go/internal/crypto"
	"github.com/medbook/medbook-go/internal/middleware"
	"github.com/medbook/medbook-go/internal/repository"
	"github.com/medbook/medbook-go/internal/service"
	"github.com/stretchr/testify/assert"
)

func withRemoteAddr(addr string) requestOption {
	return func(r *http.Request) { r.RemoteAddr = addr }
}

func withForwardedFor(ip string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", ip)
		r.Header.Set("X-Real-IP", ip)
		r.Header.Set("True-Client-IP", ip)
	}
}

func TestLoginRateLimitIgnoresForwardedHeaders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens := crypto.NewTokens("test-secret", time.Hour)
	authSvc := service.NewAuthService(repository.NewMemoryUserRepository())
	s := &testServer{router: NewRouter(Dependencies{
		Tokens:         tokens,
		Session:        NewSession(tokens, time.Hour, false),
		Auth:           authSvc,
		Appointments:   service.NewAppointmentService(repository.NewMemoryAppointmentRepository()),
		AuthRateLimit:  middleware.RateLimit(ctx, 0.001, 2),
		AllowedOrigins: []string{"*"},
	})}

	creds := map[string]string{"email": "a@x.com", "password": "secret123"}

	var limited int
	for i := 0; i < 10; i++ {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", creds,
			withRemoteAddr("203.0.113.7:40000"),
			withForwardedFor(fmt.Sprintf("198.51.100.%d", i+1)),
		)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 8, limited)

	other := s.do(t, http.MethodPost, "/api/v1/auth/login", creds, withRemoteAddr("203.0.113.8:40000"))
	assert.NotEqual(t, http.StatusTooManyRequests, other.Code)
}
