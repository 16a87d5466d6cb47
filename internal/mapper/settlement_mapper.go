package mapper

import (
	"time"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/model"

	"gorm.io/datatypes"
)

type SettlementMapper struct{}

func NewSettlementMapper() *SettlementMapper {
	return &SettlementMapper{}
}

func (m *SettlementMapper) DailyToEntity(d *model.DailySettlement) *entity.DailySettlement {
	if d == nil {
		return nil
	}
	return &entity.DailySettlement{
		Id:                  d.Id,
		VendorId:            d.VendorId,
		Date:                entity.CalendarDate(time.Time(d.SettlementDate)),
		TotalToBeReceived:   d.TotalToBeReceived,
		PendingSettlement:   d.PendingSettlement,
		InSettlementProcess: d.InSettlementProcess,
		PaymentSettled:      d.PaymentSettled,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

func (m *SettlementMapper) DailyToModel(d *entity.DailySettlement) *model.DailySettlement {
	if d == nil {
		return nil
	}
	return &model.DailySettlement{
		Id:                  d.Id,
		VendorId:            d.VendorId,
		SettlementDate:      datatypes.Date(entity.CalendarDate(d.Date)),
		TotalToBeReceived:   d.TotalToBeReceived,
		PendingSettlement:   d.PendingSettlement,
		InSettlementProcess: d.InSettlementProcess,
		PaymentSettled:      d.PaymentSettled,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

func (m *SettlementMapper) RequestToEntity(r *model.SettlementRequest) *entity.SettlementRequest {
	if r == nil {
		return nil
	}
	return &entity.SettlementRequest{
		Id:               r.Id,
		Reference:        r.Reference,
		VendorId:         r.VendorId,
		Date:             entity.CalendarDate(time.Time(r.SettlementDate)),
		Amount:           r.Amount,
		Status:           entity.SettlementStatus(r.Status),
		RequestType:      entity.SettlementRequestType(r.RequestType),
		PaymentReference: r.PaymentReference,
		ProcessingNotes:  r.ProcessingNotes,
		InitiatedBy:      r.InitiatedBy,
		CompletedBy:      r.CompletedBy,
		CreatedAt:        r.CreatedAt,
		CompletedAt:      r.CompletedAt,
	}
}

func (m *SettlementMapper) RequestToModel(r *entity.SettlementRequest) *model.SettlementRequest {
	if r == nil {
		return nil
	}
	return &model.SettlementRequest{
		Id:               r.Id,
		Reference:        r.Reference,
		VendorId:         r.VendorId,
		SettlementDate:   datatypes.Date(entity.CalendarDate(r.Date)),
		Amount:           r.Amount,
		Status:           string(r.Status),
		RequestType:      string(r.RequestType),
		PaymentReference: r.PaymentReference,
		ProcessingNotes:  r.ProcessingNotes,
		InitiatedBy:      r.InitiatedBy,
		CompletedBy:      r.CompletedBy,
		CompletedAt:      r.CompletedAt,
		CreatedAt:        r.CreatedAt,
	}
}

func (m *SettlementMapper) LedgerEntryToModel(e *entity.LedgerEntry) *model.LedgerEntry {
	return &model.LedgerEntry{
		BookingId:      e.BookingId,
		VendorId:       e.VendorId,
		SettlementDate: datatypes.Date(entity.CalendarDate(e.Date)),
		FinalAmount:    e.FinalAmount,
		RecordedAt:     e.RecordedAt,
	}
}
