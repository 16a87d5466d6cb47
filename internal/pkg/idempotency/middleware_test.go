package idempotency

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Put(ctx, "k", &Entry{Status: 201, ContentType: "application/json", Body: []byte(`{}`)}))
	got, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.Status)
	assert.Equal(t, `{}`, string(got.Body))
}

func TestMemoryStoreReserveIsExclusive(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	held, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, held)
	assert.True(t, held.InFlight())

	require.NoError(t, store.Release(ctx, "k"))
	ok, err = store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func newApp(calls *int, fail *bool) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	app.Use(Middleware(NewMemoryStore(time.Minute), logger.NewNopLogger()))
	app.Post("/things", func(c *fiber.Ctx) error {
		*calls++
		if *fail {
			return xerrors.New(xerrors.KindValidation, "CreateThing", "bad thing")
		}
		return c.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("created", *calls))
	})
	return app
}

func post(t *testing.T, app *fiber.App, key string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/things", nil)
	if key != "" {
		req.Header.Set(HeaderKey, key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestMiddlewareReplaysSuccessfulResponse(t *testing.T) {
	calls, fail := 0, false
	app := newApp(&calls, &fail)

	first, firstBody := post(t, app, "abc")
	second, secondBody := post(t, app, "abc")

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, firstBody, secondBody)
	assert.Empty(t, first.Header.Get(HeaderReplayed))
	assert.Equal(t, "true", second.Header.Get(HeaderReplayed))
}

func TestMiddlewareIgnoresRequestsWithoutKey(t *testing.T) {
	calls, fail := 0, false
	app := newApp(&calls, &fail)

	post(t, app, "")
	post(t, app, "")

	assert.Equal(t, 2, calls)
}

func TestMiddlewareDoesNotRecordRejections(t *testing.T) {
	calls, fail := 0, true
	app := newApp(&calls, &fail)

	resp, _ := post(t, app, "retry-me")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	fail = false
	resp, _ = post(t, app, "retry-me")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, calls)
}

func TestMiddlewareRejectsDuplicateInFlight(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	var calls int32

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	app.Use(Middleware(NewMemoryStore(time.Minute), logger.NewNopLogger()))
	app.Post("/things", func(c *fiber.Ctx) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-unblock
		}
		return c.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse[any]("created", nil))
	})

	firstDone := make(chan *http.Response, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set(HeaderKey, "slow")
		resp, _ := app.Test(req, -1)
		firstDone <- resp
	}()
	<-entered

	dup, _ := post(t, app, "slow")
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	close(unblock)
	first := <-firstDone
	require.NotNil(t, first)
	assert.Equal(t, http.StatusCreated, first.StatusCode)

	again, _ := post(t, app, "slow")
	assert.Equal(t, http.StatusCreated, again.StatusCode)
	assert.Equal(t, "true", again.Header.Get(HeaderReplayed))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
