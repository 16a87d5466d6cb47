package idempotency

import (
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"
)

// Middleware replays the first successful response recorded for an
// Idempotency-Key. Keys are scoped to the actor, method and path. The key is
// reserved before the handler runs, so a concurrent duplicate gets 409
// instead of executing twice. Rejected requests release the key and a retry
// runs again. Requests without the header pass through untouched.
func Middleware(store Store, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key := ctx.Get(HeaderKey)
		if key == "" || ctx.Method() == fiber.MethodGet {
			return ctx.Next()
		}
		scoped := serverutils.ActorFrom(ctx).Id + "|" + ctx.Method() + "|" + ctx.Path() + "|" + key

		reserved, err := store.Reserve(ctx.UserContext(), scoped)
		if err != nil {
			log.Warn("IDEMPOTENCY", "Replay store unavailable, executing request", map[string]interface{}{
				"error": err.Error(),
				"path":  ctx.Path(),
			})
			return ctx.Next()
		}
		if !reserved {
			return replay(ctx, store, scoped)
		}

		recorded := false
		defer func() {
			if recorded {
				return
			}
			if err := store.Release(ctx.UserContext(), scoped); err != nil {
				log.Warn("IDEMPOTENCY", "Failed to release key", map[string]interface{}{
					"error": err.Error(),
					"path":  ctx.Path(),
				})
			}
		}()

		if err := ctx.Next(); err != nil {
			return err
		}

		status := ctx.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			return nil
		}
		body := append([]byte(nil), ctx.Response().Body()...)
		entry := &Entry{
			Status:      status,
			ContentType: string(ctx.Response().Header.ContentType()),
			Body:        body,
		}
		if err := store.Put(ctx.UserContext(), scoped, entry); err != nil {
			log.Warn("IDEMPOTENCY", "Failed to record response", map[string]interface{}{
				"error": err.Error(),
				"path":  ctx.Path(),
			})
			return nil
		}
		recorded = true
		return nil
	}
}

// replay answers a request whose key is already held. A key still in flight
// or released in the meantime is a conflict; the client retries later.
func replay(ctx *fiber.Ctx, store Store, scoped string) error {
	cached, err := store.Get(ctx.UserContext(), scoped)
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Idempotency store unavailable")
	}
	if cached == nil || cached.InFlight() {
		return fiber.NewError(fiber.StatusConflict, "A request with this Idempotency-Key is still in progress")
	}
	ctx.Set(HeaderReplayed, "true")
	ctx.Set(fiber.HeaderContentType, cached.ContentType)
	return ctx.Status(cached.Status).Send(cached.Body)
}
