package types

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error name codes returned by the XChain API.
const (
	ErrNameInsufficientFunds = "ERR_INSUFFICIENT_FUNDS"
)

// ErrUnexpectedResponse is returned when the remote service replies with a
// body that cannot be interpreted as a JSON object or array.
var ErrUnexpectedResponse = errors.New("unexpected response")

// XChainError is an error response from the XChain API. ErrorName carries
// the machine-readable error code when the service provides one.
type XChainError struct {
	Code      int
	Message   string
	ErrorName string
}

func (e *XChainError) Error() string {
	return e.Message
}

// XChainErrorName implements ErrorNamer.
func (e *XChainError) XChainErrorName() string {
	return e.ErrorName
}

// InsufficientFundsError is returned when a debit would take a balance
// below zero.
type InsufficientFundsError struct {
	BalanceType BalanceType
	Account     string
	Requested   decimal.Decimal
	Asset       string
	Available   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: tried to debit account %s %s %s %s - but had only %s",
		e.BalanceType, e.Account, e.Requested, e.Asset, e.Available)
}

// XChainErrorName implements ErrorNamer.
func (e *InsufficientFundsError) XChainErrorName() string {
	return ErrNameInsufficientFunds
}

// ErrorNamer is implemented by errors that carry an XChain error code name.
type ErrorNamer interface {
	XChainErrorName() string
}

// ErrorName extracts the XChain error code name from err, unwrapping as
// needed. It returns the empty string when err carries no code.
func ErrorName(err error) string {
	var namer ErrorNamer
	if errors.As(err, &namer) {
		return namer.XChainErrorName()
	}
	return ""
}
