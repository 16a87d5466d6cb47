package controller

import (
	"evcharge-be/internal/dto"
	"evcharge-be/internal/pkg/serverutils"
	"evcharge-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILicensingController interface {
	RegisterRoutes(r fiber.Router)
	GetVendorSubscription(ctx *fiber.Ctx) error
	GetStationPremium(ctx *fiber.Ctx) error
	ActivateStationPremium(ctx *fiber.Ctx) error
	ExtendStationPremium(ctx *fiber.Ctx) error
	DeactivateStationPremium(ctx *fiber.Ctx) error
	GetDailySettlement(ctx *fiber.Ctx) error
}

type licensingController struct {
	service    service.ILicensingService
	middleware []fiber.Handler
}

func NewLicensingController(service service.ILicensingService, middleware ...fiber.Handler) ILicensingController {
	return &licensingController{
		service:    service,
		middleware: middleware,
	}
}

func (c *licensingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/licensing")
	for _, m := range c.middleware {
		h.Use(m)
	}

	h.Get("/vendors/:vendorId/subscription", c.GetVendorSubscription)
	h.Get("/vendors/:vendorId/settlements/:date", c.GetDailySettlement)

	h.Get("/stations/:stationId/premium", c.GetStationPremium)
	h.Post("/stations/:stationId/premium/activate", c.ActivateStationPremium)
	h.Post("/stations/:stationId/premium/extend", c.ExtendStationPremium)
	h.Post("/stations/:stationId/premium/deactivate", c.DeactivateStationPremium)
}

// scope limits vendor tokens to their own vendor. Admins see everything.
func scope(ctx *fiber.Ctx) uuid.UUID {
	actor := serverutils.ActorFrom(ctx)
	if actor.IsAdmin() {
		return uuid.Nil
	}
	return actor.VendorId
}

func (c *licensingController) GetVendorSubscription(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	sub, err := c.service.GetVendorSubscription(ctx.UserContext(), scope(ctx), vendorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Vendor subscription", sub))
}

func (c *licensingController) GetStationPremium(ctx *fiber.Ctx) error {
	stationId, err := uuidParam(ctx, "stationId")
	if err != nil {
		return err
	}
	premium, err := c.service.GetStationPremium(ctx.UserContext(), scope(ctx), stationId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Station premium", premium))
}

func (c *licensingController) ActivateStationPremium(ctx *fiber.Ctx) error {
	stationId, err := uuidParam(ctx, "stationId")
	if err != nil {
		return err
	}
	var req dto.StationPremiumRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	premium, err := c.service.ActivateStationPremium(ctx.UserContext(), scope(ctx), stationId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Station premium activated", premium))
}

func (c *licensingController) ExtendStationPremium(ctx *fiber.Ctx) error {
	stationId, err := uuidParam(ctx, "stationId")
	if err != nil {
		return err
	}
	var req dto.StationPremiumRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	premium, err := c.service.ExtendStationPremium(ctx.UserContext(), scope(ctx), stationId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Station premium extended", premium))
}

func (c *licensingController) DeactivateStationPremium(ctx *fiber.Ctx) error {
	stationId, err := uuidParam(ctx, "stationId")
	if err != nil {
		return err
	}
	var req dto.DeactivatePremiumRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	premium, err := c.service.DeactivateStationPremium(ctx.UserContext(), scope(ctx), stationId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Station premium deactivated", premium))
}

func (c *licensingController) GetDailySettlement(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	daily, err := c.service.GetDailySettlement(ctx.UserContext(), scope(ctx), vendorId, ctx.Params("date"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Daily settlement", daily))
}
