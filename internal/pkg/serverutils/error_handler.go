package serverutils

import (
	"errors"

	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// StatusOf maps a domain error kind to its HTTP status.
func StatusOf(kind xerrors.Kind) int {
	switch kind {
	case xerrors.KindNotFound:
		return fiber.StatusNotFound
	case xerrors.KindConcurrentModification,
		xerrors.KindSettlementAlreadyInProgress,
		xerrors.KindAlreadyActive,
		xerrors.KindAlreadyYearly,
		xerrors.KindAlreadyCompleted,
		xerrors.KindAlreadyVerified,
		xerrors.KindAlreadyRegistered,
		xerrors.KindBookingAlreadyRecorded,
		xerrors.KindDuplicateRefund:
		return fiber.StatusConflict
	case "":
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusUnprocessableEntity
	}
}

// ErrorToResponse converts a handler error into a status and envelope.
// Infrastructure errors are reported without their internals.
func ErrorToResponse(err error) (int, BaseResponse[any]) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, ErrorResponse(fe.Code, fe.Message)
	}

	var de *xerrors.Error
	if errors.As(err, &de) {
		status := StatusOf(de.Kind)
		return status, KindResponse(status, string(de.Kind), de.Message)
	}

	return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "Internal server error")
}

// ErrorHandlerMiddleware renders errors returned further down the chain.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body := ErrorToResponse(err)
		if body.Kind != "" || status >= fiber.StatusInternalServerError {
			metrics.RecordDomainError(body.Kind)
		}
		return ctx.Status(status).JSON(body)
	}
}
