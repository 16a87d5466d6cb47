package controller

import (
	"evcharge-be/internal/dto"
	"evcharge-be/internal/pkg/serverutils"
	"evcharge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetDashboardStats(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error

	// Vendor Management
	RegisterVendor(ctx *fiber.Ctx) error
	GetVendors(ctx *fiber.Ctx) error
	GetVendor(ctx *fiber.Ctx) error
	VerifyVendor(ctx *fiber.Ctx) error
	UpdateBankDetails(ctx *fiber.Ctx) error
	RegisterStation(ctx *fiber.Ctx) error
	GetStations(ctx *fiber.Ctx) error

	// Subscription Management
	GetVendorSubscription(ctx *fiber.Ctx) error
	ExtendVendorSubscription(ctx *fiber.Ctx) error
	ModifyVendorSubscription(ctx *fiber.Ctx) error
	UpgradeTrialToYearly(ctx *fiber.Ctx) error

	// Settlement Management
	RecordCompletedBooking(ctx *fiber.Ctx) error
	InitiateSettlement(ctx *fiber.Ctx) error
	CompleteSettlement(ctx *fiber.Ctx) error
	GetSettlements(ctx *fiber.Ctx) error
	GetDailySettlement(ctx *fiber.Ctx) error

	// Refund Queue
	SubmitRefund(ctx *fiber.Ctx) error
	GetRefunds(ctx *fiber.Ctx) error
	GetNextRefund(ctx *fiber.Ctx) error
	GetRefund(ctx *fiber.Ctx) error
	ClaimRefund(ctx *fiber.Ctx) error
	ProcessRefund(ctx *fiber.Ctx) error
	ReleaseRefund(ctx *fiber.Ctx) error
	RejectRefund(ctx *fiber.Ctx) error
	FailRefund(ctx *fiber.Ctx) error
}

type adminController struct {
	service    service.IAdminService
	middleware []fiber.Handler
}

// NewAdminController takes the guard chain (auth first) applied to every admin route.
func NewAdminController(service service.IAdminService, middleware ...fiber.Handler) IAdminController {
	return &adminController{
		service:    service,
		middleware: middleware,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	for _, m := range c.middleware {
		h.Use(m)
	}

	// Dashboard & Logs
	h.Get("/dashboard", c.GetDashboardStats)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)

	// Vendors
	h.Post("/vendors", c.RegisterVendor)
	h.Get("/vendors", c.GetVendors)
	h.Get("/vendors/:vendorId", c.GetVendor)
	h.Post("/vendors/:vendorId/verify", c.VerifyVendor)
	h.Put("/vendors/:vendorId/bank-details", c.UpdateBankDetails)
	h.Post("/vendors/:vendorId/stations", c.RegisterStation)
	h.Get("/vendors/:vendorId/stations", c.GetStations)

	// Vendor Subscription
	h.Get("/vendors/:vendorId/subscription", c.GetVendorSubscription)
	h.Patch("/vendors/:vendorId/subscription", c.ModifyVendorSubscription)
	h.Post("/vendors/:vendorId/subscription/extend", c.ExtendVendorSubscription)
	h.Post("/vendors/:vendorId/subscription/upgrade", c.UpgradeTrialToYearly)

	// Settlements
	h.Post("/bookings", c.RecordCompletedBooking)
	h.Get("/settlements", c.GetSettlements)
	h.Post("/settlements", c.InitiateSettlement)
	h.Post("/settlements/:id/complete", c.CompleteSettlement)
	h.Get("/vendors/:vendorId/settlements/:date", c.GetDailySettlement)

	// Refund Queue
	h.Post("/refunds", c.SubmitRefund)
	h.Get("/refunds", c.GetRefunds)
	h.Get("/refunds/next", c.GetNextRefund)
	h.Get("/refunds/:id", c.GetRefund)
	h.Post("/refunds/:id/claim", c.ClaimRefund)
	h.Post("/refunds/:id/process", c.ProcessRefund)
	h.Post("/refunds/:id/release", c.ReleaseRefund)
	h.Post("/refunds/:id/reject", c.RejectRefund)
	h.Post("/refunds/:id/fail", c.FailRefund)
}

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	stats, err := c.service.GetDashboardStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", stats))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	var req dto.AdminLogListRequest
	if err := bindQuery(ctx, &req); err != nil {
		return err
	}
	logs, err := c.service.GetSystemLogs(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	detail, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", detail))
}

// ============================================================================
// Vendor Management
// ============================================================================

func (c *adminController) RegisterVendor(ctx *fiber.Ctx) error {
	var req dto.RegisterVendorRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.RegisterVendor(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Vendor registered", res))
}

func (c *adminController) GetVendors(ctx *fiber.Ctx) error {
	var req dto.VendorListRequest
	if err := bindQuery(ctx, &req); err != nil {
		return err
	}
	vendors, total, err := c.service.GetVendors(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	ctx.Set("X-Total-Count", itoa(total))
	return ctx.JSON(serverutils.SuccessResponse("Vendor list", vendors))
}

func (c *adminController) GetVendor(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	vendor, err := c.service.GetVendor(ctx.UserContext(), vendorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Vendor detail", vendor))
}

func (c *adminController) VerifyVendor(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	vendor, err := c.service.VerifyVendor(ctx.UserContext(), vendorId, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Vendor verified", vendor))
}

func (c *adminController) UpdateBankDetails(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	var req dto.BankDetailsRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	vendor, err := c.service.UpdateBankDetails(ctx.UserContext(), vendorId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bank details updated", vendor))
}

func (c *adminController) RegisterStation(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	var req dto.CreateStationRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	station, err := c.service.RegisterStation(ctx.UserContext(), vendorId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Station registered", station))
}

func (c *adminController) GetStations(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	stations, err := c.service.GetStations(ctx.UserContext(), vendorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Station list", stations))
}

// ============================================================================
// Subscription Management
// ============================================================================

func (c *adminController) GetVendorSubscription(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	sub, err := c.service.GetVendorSubscription(ctx.UserContext(), vendorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Vendor subscription", sub))
}

func (c *adminController) ExtendVendorSubscription(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	var req dto.ExtendVendorSubscriptionRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	sub, err := c.service.ExtendVendorSubscription(ctx.UserContext(), vendorId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription extended", sub))
}

func (c *adminController) ModifyVendorSubscription(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	var req dto.ModifyVendorSubscriptionRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	sub, err := c.service.ModifyVendorSubscription(ctx.UserContext(), vendorId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription modified", sub))
}

func (c *adminController) UpgradeTrialToYearly(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	var req dto.UpgradeSubscriptionRequest
	if len(ctx.Body()) > 0 {
		if err := bindJSON(ctx, &req); err != nil {
			return err
		}
	}
	sub, err := c.service.UpgradeTrialToYearly(ctx.UserContext(), vendorId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription upgraded to yearly", sub))
}

// ============================================================================
// Settlement Management
// ============================================================================

func (c *adminController) RecordCompletedBooking(ctx *fiber.Ctx) error {
	var req dto.RecordBookingRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	ledger, err := c.service.RecordCompletedBooking(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Booking credited", ledger))
}

func (c *adminController) InitiateSettlement(ctx *fiber.Ctx) error {
	var req dto.InitiateSettlementRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.InitiateSettlement(ctx.UserContext(), req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Settlement initiated", res))
}

func (c *adminController) CompleteSettlement(ctx *fiber.Ctx) error {
	settlementId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CompleteSettlementRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.CompleteSettlement(ctx.UserContext(), settlementId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Settlement completed", res))
}

func (c *adminController) GetSettlements(ctx *fiber.Ctx) error {
	var req dto.SettlementListRequest
	if err := bindQuery(ctx, &req); err != nil {
		return err
	}
	reqs, err := c.service.GetSettlements(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Settlement requests", reqs))
}

func (c *adminController) GetDailySettlement(ctx *fiber.Ctx) error {
	vendorId, err := uuidParam(ctx, "vendorId")
	if err != nil {
		return err
	}
	daily, err := c.service.GetDailySettlement(ctx.UserContext(), vendorId, ctx.Params("date"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Daily settlement", daily))
}

// ============================================================================
// Refund Queue
// ============================================================================

func (c *adminController) SubmitRefund(ctx *fiber.Ctx) error {
	var req dto.SubmitRefundRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.SubmitRefund(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Refund queued", res))
}

func (c *adminController) GetRefunds(ctx *fiber.Ctx) error {
	var req dto.RefundListRequest
	if err := bindQuery(ctx, &req); err != nil {
		return err
	}
	refunds, err := c.service.GetRefunds(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund queue", refunds))
}

func (c *adminController) GetNextRefund(ctx *fiber.Ctx) error {
	res, err := c.service.GetNextRefund(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Next refund", res))
}

func (c *adminController) GetRefund(ctx *fiber.Ctx) error {
	refundId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.GetRefund(ctx.UserContext(), refundId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund detail", res))
}

func (c *adminController) ClaimRefund(ctx *fiber.Ctx) error {
	refundId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.ClaimRefund(ctx.UserContext(), refundId, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund claimed", res))
}

func (c *adminController) ProcessRefund(ctx *fiber.Ctx) error {
	refundId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.ProcessRefundRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.ProcessRefund(ctx.UserContext(), refundId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund processed", res))
}

func (c *adminController) ReleaseRefund(ctx *fiber.Ctx) error {
	refundId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.ReleaseRefund(ctx.UserContext(), refundId, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund released to queue", res))
}

func (c *adminController) RejectRefund(ctx *fiber.Ctx) error {
	refundId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.RefundReasonRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.RejectRefund(ctx.UserContext(), refundId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund rejected", res))
}

func (c *adminController) FailRefund(ctx *fiber.Ctx) error {
	refundId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.RefundReasonRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.FailRefund(ctx.UserContext(), refundId, req, serverutils.ActorFrom(ctx).Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund marked failed", res))
}
