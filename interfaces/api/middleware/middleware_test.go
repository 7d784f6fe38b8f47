package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/pkg/apperror"
	"todo-api/pkg/utils"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
}

func decodeError(t *testing.T, resp *http.Response) utils.ErrorBody {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestStatusForEveryKind(t *testing.T) {
	want := map[apperror.Kind]int{
		apperror.KindService:            500,
		apperror.KindNotFound:           404,
		apperror.KindAlreadyExists:      409,
		apperror.KindInvalidCredentials: 401,
		apperror.KindIllegalAction:      400,
		apperror.KindValidation:         400,
		apperror.KindTokenExpired:       403,
		apperror.KindTokenInvalid:       403,
		apperror.KindRateLimited:        429,
	}
	for _, kind := range apperror.Kinds() {
		status, ok := want[kind]
		require.True(t, ok, "kind %s has no expected status", kind)
		assert.Equal(t, status, StatusFor(kind), kind.String())
	}
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/service", func(c *fiber.Ctx) error {
		return apperror.Service("db exploded", errors.New("pq: connection refused"))
	})
	app.Get("/foreign", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperror.Validation("Validation failed", []string{"title: title is required"})
	})
	app.Get("/notfound", func(c *fiber.Ctx) error {
		return apperror.NotFound("Todo not found with ID: 9")
	})

	tests := []struct {
		path    string
		status  int
		message string
		errors  []string
	}{
		{"/service", 500, genericErrorMessage, nil},
		{"/foreign", 500, genericErrorMessage, nil},
		{"/validation", 400, "Validation failed", []string{"title: title is required"}},
		{"/notfound", 404, "Todo not found with ID: 9", nil},
		{"/missing-route", 404, "Cannot GET /missing-route", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decodeError(t, resp)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.errors, body.Errors)
		})
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestProtected(t *testing.T) {
	clk := &clock{t: time.Now()}
	tokens, err := utils.NewTokenManager(testSecret, time.Minute)
	require.NoError(t, err)
	tokens.WithClock(clk.now)

	app := newApp()
	app.Get("/me", Protected(tokens), func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": user.ID})
	})

	token, _, err := tokens.Issue(42, "a@x.com")
	require.NoError(t, err)

	call := func(header string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := call("Bearer " + token)
	assert.Equal(t, 200, resp.StatusCode)

	for _, header := range []string{"", "Token " + token, "Bearer", "Bearer " + token + "x"} {
		resp := call(header)
		assert.Equal(t, 403, resp.StatusCode, "header %q", header)
		decodeError(t, resp)
	}

	clk.t = clk.t.Add(2 * time.Minute)
	resp = call("Bearer " + token)
	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "The JWT token has expired.", decodeError(t, resp).Message)
}

type fakeLimiter struct {
	calls int
	max   int
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return false, 0, f.err
	}
	f.calls++
	return f.calls <= f.max, 30 * time.Second, nil
}

func TestLoginRateLimit(t *testing.T) {
	limiter := &fakeLimiter{max: 2}
	metrics := NewMetrics(prometheus.NewRegistry())

	app := newApp()
	app.Post("/login", LoginRateLimit(limiter, metrics), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	post := func() *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":" A@x.com "}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, 200, post().StatusCode)
	assert.Equal(t, 200, post().StatusCode)

	resp := post()
	assert.Equal(t, 429, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("Retry-After"))
	assert.Equal(t, 429, decodeError(t, resp).Status)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.loginBlocked))
	assert.True(t, strings.HasSuffix(limiter.keys[0], "|a@x.com"))

	limiter.err = errors.New("redis down")
	assert.Equal(t, 200, post().StatusCode, "limiter failure lets the request through")
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	app := newApp()
	app.Use(metrics.Middleware())
	app.Use(LoggerMiddleware())
	app.Get("/api/todos/:todoId", func(c *fiber.Ctx) error {
		return apperror.NotFound("nope")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/todos/7", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/api/todos/:todoId", "404")))
}

func TestRequestIDMiddleware(t *testing.T) {
	app := newApp()
	app.Use(RequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
}
