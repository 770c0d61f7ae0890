// Package error defines domain-specific errors for the ledger service.
package error

import "errors"

// Ledger domain errors.
var (
	// ErrEmptyBusinessName is returned when a business name is empty or blank.
	ErrEmptyBusinessName = errors.New("business name is required")

	// ErrInvalidBusinessColor is returned when a color is outside the palette.
	ErrInvalidBusinessColor = errors.New("invalid business color")

	// ErrEmptyDescription is returned when a transaction description is empty.
	ErrEmptyDescription = errors.New("transaction description is required")

	// ErrEmptyCategory is returned when a transaction category is empty.
	ErrEmptyCategory = errors.New("transaction category is required")

	// ErrNegativeAmount is returned when a transaction amount is below zero.
	ErrNegativeAmount = errors.New("transaction amount must not be negative")

	// ErrAmountPrecision is returned when an amount has more than two decimal places.
	ErrAmountPrecision = errors.New("transaction amount must have at most two decimal places")

	// ErrInvalidTransactionType is returned when the type is neither income nor expense.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionDate is returned when the date is malformed or not a real calendar date.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrUnknownBusiness is returned when a transaction references a business that does not exist.
	ErrUnknownBusiness = errors.New("referenced business does not exist")

	// ErrBusinessNotFound is returned when a business id is not present.
	ErrBusinessNotFound = errors.New("business not found")

	// ErrTransactionNotFound is returned when a transaction id is not present.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateID is returned when loaded state contains the same id twice.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrRemotePersistence is returned when the remote store rejects a write.
	ErrRemotePersistence = errors.New("remote persistence failed")
)

// LedgerErrorKind groups ledger errors by how callers should react to them.
type LedgerErrorKind string

const (
	LedgerErrorKindValidation        LedgerErrorKind = "validation"
	LedgerErrorKindReference         LedgerErrorKind = "reference"
	LedgerErrorKindNotFound          LedgerErrorKind = "not_found"
	LedgerErrorKindRemotePersistence LedgerErrorKind = "remote_persistence"
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LEDGER-XXYYYY where XX is the kind and YYYY is the specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeEmptyBusinessName      LedgerErrorCode = "LEDGER-010001"
	ErrCodeInvalidBusinessColor   LedgerErrorCode = "LEDGER-010002"
	ErrCodeEmptyDescription       LedgerErrorCode = "LEDGER-010003"
	ErrCodeEmptyCategory          LedgerErrorCode = "LEDGER-010004"
	ErrCodeNegativeAmount         LedgerErrorCode = "LEDGER-010005"
	ErrCodeInvalidTransactionType LedgerErrorCode = "LEDGER-010006"
	ErrCodeInvalidTransactionDate LedgerErrorCode = "LEDGER-010007"
	ErrCodeInvalidLedgerRequest   LedgerErrorCode = "LEDGER-010008"
	ErrCodeDuplicateID            LedgerErrorCode = "LEDGER-010009"
	ErrCodeAmountPrecision        LedgerErrorCode = "LEDGER-010010"

	// Reference errors (02XXXX)
	ErrCodeUnknownBusiness LedgerErrorCode = "LEDGER-020001"

	// Not found errors (03XXXX)
	ErrCodeBusinessNotFound    LedgerErrorCode = "LEDGER-030001"
	ErrCodeTransactionNotFound LedgerErrorCode = "LEDGER-030002"

	// Remote persistence errors (04XXXX)
	ErrCodeRemotePersistence LedgerErrorCode = "LEDGER-040001"
	ErrCodeRemoteLoad        LedgerErrorCode = "LEDGER-040002"
)

// LedgerError represents a ledger error with code, kind and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Kind    LedgerErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
// The kind is derived from the code.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
		Err:     err,
	}
}

func kindForCode(code LedgerErrorCode) LedgerErrorKind {
	if len(code) < len("LEDGER-01") {
		return LedgerErrorKindValidation
	}
	switch string(code[7:9]) {
	case "02":
		return LedgerErrorKindReference
	case "03":
		return LedgerErrorKindNotFound
	case "04":
		return LedgerErrorKindRemotePersistence
	default:
		return LedgerErrorKindValidation
	}
}

// IsLedgerErrorKind reports whether err wraps a LedgerError of the given kind.
func IsLedgerErrorKind(err error, kind LedgerErrorKind) bool {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Kind == kind
	}
	return false
}

// NewRemotePersistenceError wraps a failed remote write.
func NewRemotePersistenceError(operation string, err error) *LedgerError {
	return NewLedgerError(ErrCodeRemotePersistence, operation+" failed", errors.Join(ErrRemotePersistence, err))
}
