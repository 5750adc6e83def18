package services

import (
	"errors"
	"strconv"
	"strings"
)

// Error kinds a user can trigger. They are returned wrapped in *Error, so
// match them with errors.Is.
var (
	ErrMissingField         = errors.New("missing field")
	ErrPasswordMismatch     = errors.New("password mismatch")
	ErrDuplicateUsername    = errors.New("duplicate username")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidSymbol        = errors.New("invalid symbol")
	ErrInvalidShareCount    = errors.New("invalid share count")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrExceedsHoldings      = errors.New("exceeds holdings")
	ErrQuoteProviderFailure = errors.New("quote provider failure")
)

// Error is a user-facing failure: Kind identifies it, Message is shown.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func missingField(name string) error {
	return newError(ErrMissingField, "must provide "+name)
}

// ParseShares reads a share count from form input. Only positive whole
// numbers are accepted.
func ParseShares(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, missingField("number of shares")
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, newError(ErrInvalidShareCount, "must provide a positive integer for shares")
		}
	}
	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || shares <= 0 {
		return 0, newError(ErrInvalidShareCount, "must provide a positive integer for shares")
	}
	return shares, nil
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
