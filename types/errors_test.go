package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestErrorNameUnwraps(t *testing.T) {
	base := &InsufficientFundsError{
		BalanceType: BalanceConfirmed,
		Account:     "default",
		Requested:   decimal.NewFromInt(10),
		Asset:       "SOUP",
		Available:   decimal.NewFromInt(5),
	}
	wrapped := fmt.Errorf("failed transferring: %w", base)

	assert.Equal(t, ErrNameInsufficientFunds, ErrorName(base))
	assert.Equal(t, ErrNameInsufficientFunds, ErrorName(wrapped))
	assert.Equal(t, "", ErrorName(errors.New("plain")))
	assert.Equal(t, "", ErrorName(nil))
}

func TestXChainErrorName(t *testing.T) {
	err := &XChainError{Code: 400, Message: "bad request", ErrorName: "ERR_SOMETHING"}
	assert.Equal(t, "ERR_SOMETHING", ErrorName(err))
	assert.Equal(t, "bad request", err.Error())
}

func TestInsufficientFundsErrorMessage(t *testing.T) {
	err := &InsufficientFundsError{
		BalanceType: BalanceConfirmed,
		Account:     "default",
		Requested:   decimal.RequireFromString("10"),
		Asset:       "SOUP",
		Available:   decimal.RequireFromString("5"),
	}
	assert.Equal(t, "insufficient funds: tried to debit account confirmed default 10 SOUP - but had only 5", err.Error())
}

func TestBalanceTypeValid(t *testing.T) {
	assert.True(t, BalanceConfirmed.Valid())
	assert.True(t, BalanceUnconfirmed.Valid())
	assert.True(t, BalanceSending.Valid())
	assert.False(t, BalanceType("nope").Valid())
}
