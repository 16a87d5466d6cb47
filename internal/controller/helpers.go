package controller

import (
	"strconv"

	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")

// bindJSON parses the body into req and runs its validate tags.
func bindJSON(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return errInvalidBody
	}
	return serverutils.ValidateRequest(req)
}

// bindQuery parses query parameters into req and runs its validate tags.
func bindQuery(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.QueryParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	return serverutils.ValidateRequest(req)
}

func uuidParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, xerrors.New(xerrors.KindValidation, "", name+" must be a UUID")
	}
	return id, nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
