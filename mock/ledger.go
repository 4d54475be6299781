package mock

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tokenly/xchain-go/types"
	"github.com/tokenly/xchain-go/utils"
)

// creditBalance adds quantity to a balance cell, creating it as needed.
// Credits never fail.
func (b *Builder) creditBalance(quantity decimal.Decimal, asset, account string, balanceType types.BalanceType, addressID string) {
	// changeBalance only fails on negative deltas.
	_ = b.changeBalance(quantity, asset, account, balanceType, addressID)
}

// debitBalance subtracts quantity from a balance cell. It fails with an
// InsufficientFundsError when the result would go below zero.
func (b *Builder) debitBalance(quantity decimal.Decimal, asset, account string, balanceType types.BalanceType, addressID string) error {
	return b.changeBalance(quantity.Neg(), asset, account, balanceType, addressID)
}

func (b *Builder) changeBalance(delta decimal.Decimal, asset, account string, balanceType types.BalanceType, rawAddressID string) error {
	if account == "" {
		account = types.DefaultAccount
	}
	if balanceType == "" {
		balanceType = types.BalanceConfirmed
	}

	addressID := b.resolveAddressID(rawAddressID)
	if b.balances == nil {
		b.balances = make(map[string]types.AddressBalances)
	}
	if b.balances[addressID] == nil {
		b.balances[addressID] = make(types.AddressBalances)
	}
	byType := b.balances[addressID]
	if byType[account] == nil {
		byType[account] = make(types.AccountBalances)
	}
	if byType[account][balanceType] == nil {
		byType[account][balanceType] = make(types.AssetBalances)
	}

	current := byType[account][balanceType][asset]
	next := utils.RoundBalance(current.Add(delta))
	if delta.IsNegative() && next.IsNegative() {
		return &types.InsufficientFundsError{
			BalanceType: balanceType,
			Account:     account,
			Requested:   delta.Neg(),
			Asset:       asset,
			Available:   current,
		}
	}
	byType[account][balanceType][asset] = next
	return nil
}

// findBalances returns the per-account balances of a payment address. It
// fails with ErrNoBalancesDefined when the resolved address is absent.
func (b *Builder) findBalances(rawAddressID string) (types.AddressBalances, error) {
	addressID := b.resolveAddressID(rawAddressID)
	if balances, ok := b.balances[addressID]; ok {
		return balances, nil
	}
	return nil, ErrNoBalancesDefined
}

// resolveAddressID returns id verbatim when the ledger knows it, otherwise
// the "default" sentinel. A test fixture convenience, not production
// behavior.
func (b *Builder) resolveAddressID(id string) string {
	if _, ok := b.balances[id]; ok {
		return id
	}
	return "default"
}

// closeAccount removes the account entry. The caller is responsible for
// moving its balances out first.
func (b *Builder) closeAccount(rawAddressID, account string) {
	addressID := b.resolveAddressID(rawAddressID)
	delete(b.balances[addressID], account)
}

// accountNames lists the accounts of a payment address in stable order.
func (b *Builder) accountNames(rawAddressID string) []string {
	addressID := b.resolveAddressID(rawAddressID)
	names := make([]string, 0, len(b.balances[addressID]))
	for name := range b.balances[addressID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
