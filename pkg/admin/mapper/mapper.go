package mapper

import (
	"strings"
	"time"

	"evcharge-be/internal/dto"
	"evcharge-be/internal/entity"
	"evcharge-be/internal/pkg/logger"

	"github.com/samber/lo"
)

// SubscriptionToResponse adds the derived status fields evaluated at now.
func SubscriptionToResponse(s *entity.VendorSubscription, now time.Time) *dto.VendorSubscriptionResponse {
	if s == nil {
		return nil
	}
	return &dto.VendorSubscriptionResponse{
		Id:                  s.Id,
		VendorId:            s.VendorId,
		Type:                string(s.Type),
		Status:              string(s.Status),
		EffectiveStatus:     string(s.ComputeStatus(now)),
		StartDate:           s.StartDate,
		EndDate:             s.EndDate,
		AutoRenew:           s.AutoRenew,
		MaxStations:         s.MaxStations,
		FeaturesEnabled:     lo.Map(s.Features.List(), func(f entity.Feature, _ int) string { return string(f) }),
		DaysUntilExpiration: s.DaysUntilExpiration(now),
		IsExpired:           s.IsExpired(now),
		IsExpiringSoon:      s.IsExpiringSoon(now, entity.ExpiringSoonDays),
		Version:             s.Version,
		UpdatedBy:           s.UpdatedBy,
		UpdatedAt:           s.UpdatedAt,
	}
}

func PremiumToResponse(st *entity.Station, now time.Time) *dto.StationPremiumResponse {
	if st == nil {
		return nil
	}
	p := st.Premium
	res := &dto.StationPremiumResponse{
		StationId:           st.Id,
		VendorId:            st.VendorId,
		IsActive:            p.IsActive,
		IsPremiumActive:     p.IsPremiumActive(now),
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		DaysUntilExpiration: p.DaysUntilExpiration(now),
		Version:             st.Version,
	}
	if p.Type != nil {
		res.Type = lo.ToPtr(string(*p.Type))
	}
	return res
}

func StationToResponse(st *entity.Station, now time.Time) *dto.StationResponse {
	if st == nil {
		return nil
	}
	return &dto.StationResponse{
		Id:        st.Id,
		VendorId:  st.VendorId,
		Name:      st.Name,
		Premium:   *PremiumToResponse(st, now),
		CreatedAt: st.CreatedAt,
	}
}

func StationsToResponse(stations []*entity.Station, now time.Time) []*dto.StationResponse {
	return lo.Map(stations, func(st *entity.Station, _ int) *dto.StationResponse {
		return StationToResponse(st, now)
	})
}

// MaskAccountNumber keeps the last four characters.
func MaskAccountNumber(n string) string {
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}

func VendorToResponse(v *entity.Vendor) *dto.VendorResponse {
	if v == nil {
		return nil
	}
	res := &dto.VendorResponse{
		Id:           v.Id,
		BusinessName: v.BusinessName,
		Email:        v.Email,
		IsVerified:   v.IsVerified,
		VerifiedAt:   v.VerifiedAt,
		CreatedAt:    v.CreatedAt,
	}
	if b := v.BankDetails; b != nil {
		res.BankDetails = &dto.BankDetailsResponse{
			AccountName:   b.AccountName,
			AccountNumber: MaskAccountNumber(b.AccountNumber),
			BankName:      b.BankName,
			BranchName:    b.BranchName,
		}
	}
	return res
}

func VendorsToResponse(vendors []*entity.Vendor) []*dto.VendorResponse {
	return lo.Map(vendors, func(v *entity.Vendor, _ int) *dto.VendorResponse { return VendorToResponse(v) })
}

func SettlementRequestToResponse(r *entity.SettlementRequest) *dto.SettlementRequestResponse {
	if r == nil {
		return nil
	}
	return &dto.SettlementRequestResponse{
		Id:               r.Id,
		Reference:        r.Reference,
		VendorId:         r.VendorId,
		Date:             r.Date.Format(entity.DateLayout),
		Amount:           r.Amount,
		Status:           string(r.Status),
		RequestType:      string(r.RequestType),
		PaymentReference: r.PaymentReference,
		ProcessingNotes:  r.ProcessingNotes,
		InitiatedBy:      r.InitiatedBy,
		CompletedBy:      r.CompletedBy,
		CreatedAt:        r.CreatedAt,
		CompletedAt:      r.CompletedAt,
	}
}

func SettlementRequestsToResponse(reqs []*entity.SettlementRequest) []*dto.SettlementRequestResponse {
	return lo.Map(reqs, func(r *entity.SettlementRequest, _ int) *dto.SettlementRequestResponse {
		return SettlementRequestToResponse(r)
	})
}

func DailySettlementToResponse(d *entity.DailySettlement, open *entity.SettlementRequest) *dto.DailySettlementResponse {
	if d == nil {
		return nil
	}
	return &dto.DailySettlementResponse{
		VendorId:            d.VendorId,
		Date:                d.Date.Format(entity.DateLayout),
		State:               string(d.State()),
		TotalToBeReceived:   d.TotalToBeReceived,
		PendingSettlement:   d.PendingSettlement,
		InSettlementProcess: d.InSettlementProcess,
		PaymentSettled:      d.PaymentSettled,
		OpenRequest:         SettlementRequestToResponse(open),
	}
}

// SettlementResultToResponse reports the ledger row right after a request moved it.
func SettlementResultToResponse(r *entity.SettlementRequest, d *entity.DailySettlement) *dto.SettlementResultResponse {
	var open *entity.SettlementRequest
	if r.Status == entity.SettlementStatusProcessing {
		open = r
	}
	return &dto.SettlementResultResponse{
		Request: *SettlementRequestToResponse(r),
		Ledger:  *DailySettlementToResponse(d, open),
	}
}

func RefundToResponse(r *entity.RefundRequest) *dto.RefundResponse {
	if r == nil {
		return nil
	}
	return &dto.RefundResponse{
		Id:             r.Id,
		UserId:         r.UserId,
		BookingId:      r.BookingId,
		OriginalAmount: r.OriginalAmount,
		RefundStatus:   string(r.Status),
		RefundCalculation: dto.RefundCalculationResponse{
			PlatformFeeDeducted: r.Calculation.PlatformFeeDeducted,
			SlotOccupancyFee:    r.Calculation.SlotOccupancyFee,
			FinalRefundAmount:   r.Calculation.FinalRefundAmount,
		},
		TransactionId: r.TransactionId,
		Remarks:       r.Remarks,
		Reason:        r.Reason,
		ProcessedBy:   r.ProcessedBy,
		CreatedAt:     r.CreatedAt,
		ProcessedAt:   r.ProcessedAt,
	}
}

func RefundsToResponse(refunds []*entity.RefundRequest) []*dto.RefundResponse {
	return lo.Map(refunds, func(r *entity.RefundRequest, _ int) *dto.RefundResponse { return RefundToResponse(r) })
}

// LogToListResponse converts a log line. Unparseable timestamps become zero.
func LogToListResponse(e logger.LogEntry) dto.LogListResponse {
	ts, _ := time.Parse(time.RFC3339Nano, e.Timestamp)
	return dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		CreatedAt: ts,
	}
}

func LogsToListResponse(entries []logger.LogEntry) []dto.LogListResponse {
	return lo.Map(entries, func(e logger.LogEntry, _ int) dto.LogListResponse { return LogToListResponse(e) })
}

func LogToDetailResponse(e *logger.LogEntry) *dto.LogDetailResponse {
	if e == nil {
		return nil
	}
	return &dto.LogDetailResponse{
		LogListResponse: LogToListResponse(*e),
		Details:         e.Details,
	}
}
