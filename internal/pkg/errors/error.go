package xerrors

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable category of a domain failure. The UI keys its
// messages off these values, so they are part of the API contract.
type Kind string

const (
	KindAlreadyActive               Kind = "ALREADY_ACTIVE"
	KindNotActive                   Kind = "NOT_ACTIVE"
	KindNoDurationSpecified         Kind = "NO_DURATION_SPECIFIED"
	KindInvalidDateRange            Kind = "INVALID_DATE_RANGE"
	KindAlreadyYearly               Kind = "ALREADY_YEARLY"
	KindAmountMismatch              Kind = "AMOUNT_MISMATCH"
	KindNothingToSettle             Kind = "NOTHING_TO_SETTLE"
	KindSettlementAlreadyInProgress Kind = "SETTLEMENT_ALREADY_IN_PROGRESS"
	KindMissingBankDetails          Kind = "MISSING_BANK_DETAILS"
	KindInvalidReference            Kind = "INVALID_REFERENCE"
	KindNotFound                    Kind = "NOT_FOUND"
	KindAlreadyCompleted            Kind = "ALREADY_COMPLETED"
	KindMissingTransactionId        Kind = "MISSING_TRANSACTION_ID"
	KindInvalidState                Kind = "INVALID_STATE"
	KindConcurrentModification      Kind = "CONCURRENT_MODIFICATION"

	KindReasonRequired         Kind = "REASON_REQUIRED"
	KindSubscriptionExpired    Kind = "SUBSCRIPTION_EXPIRED"
	KindStationLimitReached    Kind = "STATION_LIMIT_REACHED"
	KindAlreadyVerified        Kind = "ALREADY_VERIFIED"
	KindAlreadyRegistered      Kind = "ALREADY_REGISTERED"
	KindBookingAlreadyRecorded Kind = "BOOKING_ALREADY_RECORDED"
	KindDuplicateRefund        Kind = "DUPLICATE_REFUND"
	KindInvalidAmount          Kind = "INVALID_AMOUNT"
	KindValidation             Kind = "VALIDATION"
)

// Sentinels for errors.Is checks. Any *Error of the same kind matches.
var (
	ErrAlreadyActive               = &Error{Kind: KindAlreadyActive, Message: "station premium is already active"}
	ErrNotActive                   = &Error{Kind: KindNotActive, Message: "station premium is not active"}
	ErrNoDurationSpecified         = &Error{Kind: KindNoDurationSpecified, Message: "at least one of days, months or years must be positive"}
	ErrInvalidDateRange            = &Error{Kind: KindInvalidDateRange, Message: "end date must be after start date"}
	ErrAlreadyYearly               = &Error{Kind: KindAlreadyYearly, Message: "subscription is already yearly"}
	ErrAmountMismatch              = &Error{Kind: KindAmountMismatch, Message: "amount must equal the pending settlement"}
	ErrNothingToSettle             = &Error{Kind: KindNothingToSettle, Message: "nothing pending for settlement"}
	ErrSettlementAlreadyInProgress = &Error{Kind: KindSettlementAlreadyInProgress, Message: "a settlement is already in progress for this vendor and date"}
	ErrMissingBankDetails          = &Error{Kind: KindMissingBankDetails, Message: "vendor has no bank details on file"}
	ErrInvalidReference            = &Error{Kind: KindInvalidReference, Message: "payment reference must be at least 3 characters"}
	ErrNotFound                    = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrAlreadyCompleted            = &Error{Kind: KindAlreadyCompleted, Message: "settlement already completed"}
	ErrMissingTransactionId        = &Error{Kind: KindMissingTransactionId, Message: "transaction id is required"}
	ErrInvalidState                = &Error{Kind: KindInvalidState, Message: "operation not allowed in the current state"}
	ErrConcurrentModification      = &Error{Kind: KindConcurrentModification, Message: "record was modified concurrently, reload and retry"}

	ErrReasonRequired         = &Error{Kind: KindReasonRequired, Message: "a reason is required"}
	ErrSubscriptionExpired    = &Error{Kind: KindSubscriptionExpired, Message: "vendor subscription is not active"}
	ErrStationLimitReached    = &Error{Kind: KindStationLimitReached, Message: "station limit for the current plan reached"}
	ErrAlreadyVerified        = &Error{Kind: KindAlreadyVerified, Message: "vendor is already verified"}
	ErrAlreadyRegistered      = &Error{Kind: KindAlreadyRegistered, Message: "a vendor with this email is already registered"}
	ErrBookingAlreadyRecorded = &Error{Kind: KindBookingAlreadyRecorded, Message: "booking already credited to the ledger"}
	ErrDuplicateRefund        = &Error{Kind: KindDuplicateRefund, Message: "a refund already exists for this booking"}
	ErrInvalidAmount          = &Error{Kind: KindInvalidAmount, Message: "amount must be positive"}
	ErrValidation             = &Error{Kind: KindValidation, Message: "invalid input"}
)

// Error is a structured domain failure. Op names the operation that
// rejected the request; Err carries an optional underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so callers can match against the sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an error of the given kind for op, reusing the sentinel message
// when msg is empty.
func New(kind Kind, op, msg string) *Error {
	if msg == "" {
		if s, ok := sentinels[kind]; ok {
			msg = s.Message
		}
	}
	return &Error{Kind: kind, Op: op, Message: msg}
}

// E stamps a sentinel with the operation name.
func E(op string, sentinel *Error) *Error {
	return &Error{Kind: sentinel.Kind, Op: op, Message: sentinel.Message}
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// KindOf extracts the domain kind from err, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

var sentinels = map[Kind]*Error{}

func init() {
	for _, s := range []*Error{
		ErrAlreadyActive, ErrNotActive, ErrNoDurationSpecified, ErrInvalidDateRange, ErrAlreadyYearly,
		ErrAmountMismatch, ErrNothingToSettle, ErrSettlementAlreadyInProgress, ErrMissingBankDetails,
		ErrInvalidReference, ErrNotFound, ErrAlreadyCompleted, ErrMissingTransactionId, ErrInvalidState,
		ErrConcurrentModification, ErrReasonRequired, ErrSubscriptionExpired, ErrStationLimitReached,
		ErrAlreadyVerified, ErrAlreadyRegistered, ErrBookingAlreadyRecorded, ErrDuplicateRefund, ErrInvalidAmount, ErrValidation,
	} {
		sentinels[s.Kind] = s
	}
}
