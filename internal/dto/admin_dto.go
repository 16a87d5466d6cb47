package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AdminDashboardStats struct {
	TotalVendors             int             `json:"total_vendors"`
	ActiveSubscriptions      int             `json:"active_subscriptions"`
	SuspendedSubscriptions   int             `json:"suspended_subscriptions"`
	ExpiringSoon             int             `json:"expiring_soon"`
	PremiumStations          int             `json:"premium_stations"`
	PendingRefunds           int             `json:"pending_refunds"`
	ProcessingRefunds        int             `json:"processing_refunds"`
	OpenSettlementRequests   int             `json:"open_settlement_requests"`
	TotalToBeReceived        decimal.Decimal `json:"total_to_be_received"`
	PendingSettlement        decimal.Decimal `json:"pending_settlement"`
	InSettlementProcess      decimal.Decimal `json:"in_settlement_process"`
	PaymentSettled           decimal.Decimal `json:"payment_settled"`
	OldestPendingRefundSince *time.Time      `json:"oldest_pending_refund_since,omitempty"`
}

type AdminLogListRequest struct {
	Level string `query:"level"`
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
}

// LogListResponse uses a string id because log ids are content hashes, not UUIDs.
type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
