package mapper

import (
	"evcharge-be/internal/entity"
	"evcharge-be/internal/model"
)

type RefundMapper struct{}

func NewRefundMapper() *RefundMapper {
	return &RefundMapper{}
}

func (m *RefundMapper) ToEntity(r *model.RefundRequest) *entity.RefundRequest {
	if r == nil {
		return nil
	}
	return &entity.RefundRequest{
		Id:             r.Id,
		UserId:         r.UserId,
		BookingId:      r.BookingId,
		OriginalAmount: r.OriginalAmount,
		Status:         entity.RefundStatus(r.Status),
		Calculation: entity.RefundCalculation{
			PlatformFeeDeducted: r.PlatformFeeDeducted,
			SlotOccupancyFee:    r.SlotOccupancyFee,
			FinalRefundAmount:   r.FinalRefundAmount,
		},
		TransactionId: r.TransactionId,
		Remarks:       r.Remarks,
		Reason:        r.Reason,
		ProcessedBy:   r.ProcessedBy,
		CreatedAt:     r.CreatedAt,
		ProcessedAt:   r.ProcessedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (m *RefundMapper) ToModel(r *entity.RefundRequest) *model.RefundRequest {
	if r == nil {
		return nil
	}
	return &model.RefundRequest{
		Id:                  r.Id,
		UserId:              r.UserId,
		BookingId:           r.BookingId,
		OriginalAmount:      r.OriginalAmount,
		Status:              string(r.Status),
		PlatformFeeDeducted: r.Calculation.PlatformFeeDeducted,
		SlotOccupancyFee:    r.Calculation.SlotOccupancyFee,
		FinalRefundAmount:   r.Calculation.FinalRefundAmount,
		TransactionId:       r.TransactionId,
		Remarks:             r.Remarks,
		Reason:              r.Reason,
		ProcessedBy:         r.ProcessedBy,
		ProcessedAt:         r.ProcessedAt,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}
