// Package types defines the wire types shared by the XChain client, the
// webhook receiver, and the API mock.
package types

import (
	"github.com/shopspring/decimal"
)

func init() {
	// the XChain API carries quantities as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// BalanceType represents the settlement stage of funds held in an account.
type BalanceType string

const (
	BalanceConfirmed   BalanceType = "confirmed"
	BalanceUnconfirmed BalanceType = "unconfirmed"
	BalanceSending     BalanceType = "sending"
)

// Valid reports whether t is one of the known balance types.
func (t BalanceType) Valid() bool {
	switch t {
	case BalanceConfirmed, BalanceUnconfirmed, BalanceSending:
		return true
	}
	return false
}

// DefaultAccount is the account used when a request does not name one.
const DefaultAccount = "default"

// AssetBalances maps an asset symbol to a quantity.
type AssetBalances map[string]decimal.Decimal

// AccountBalances maps a balance type to the per-asset quantities held at
// that settlement stage.
type AccountBalances map[BalanceType]AssetBalances

// AddressBalances maps an account name to its balances.
type AddressBalances map[string]AccountBalances

// Copy returns a deep copy of the balance map.
func (b AddressBalances) Copy() AddressBalances {
	out := make(AddressBalances, len(b))
	for account, byType := range b {
		out[account] = make(AccountBalances, len(byType))
		for balanceType, byAsset := range byType {
			out[account][balanceType] = make(AssetBalances, len(byAsset))
			for asset, quantity := range byAsset {
				out[account][balanceType][asset] = quantity
			}
		}
	}
	return out
}

// Address is a payment address managed by the XChain service.
type Address struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// MultisigAddress is a pending multisig payment address.
type MultisigAddress struct {
	ID             string `json:"id"`
	Address        string `json:"address"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	InvitationCode string `json:"invitationCode"`
}

// Monitor watches an address for sends or receives and posts webhook
// notifications to the registered endpoint.
type Monitor struct {
	ID              string `json:"id"`
	Active          bool   `json:"active"`
	Address         string `json:"address"`
	MonitorType     string `json:"monitorType"`
	WebhookEndpoint string `json:"webhookEndpoint"`
}

// Send is the receipt returned when funds are sent from a payment address.
type Send struct {
	ID          string          `json:"id"`
	TxID        string          `json:"txid"`
	Destination string          `json:"destination"`
	Quantity    decimal.Decimal `json:"quantity"`
	QuantitySat int64           `json:"quantitySat"`
	Asset       string          `json:"asset"`
	IsSweep     bool            `json:"is_sweep"`
}

// Destination is one output of a multi-destination BTC send.
type Destination struct {
	Address string          `json:"address" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
}

// BalanceSheet holds address-level balances in both float and satoshi form.
type BalanceSheet struct {
	Balances    map[string]decimal.Decimal `json:"balances"`
	BalancesSat map[string]int64           `json:"balancesSat"`
}

// FeeTiers holds fee estimates for the standard priorities.
type FeeTiers struct {
	Low     decimal.Decimal `json:"low"`
	LowSat  int64           `json:"lowSat"`
	Med     decimal.Decimal `json:"med"`
	MedSat  int64           `json:"medSat"`
	High    decimal.Decimal `json:"high"`
	HighSat int64           `json:"highSat"`
}

// FeeEstimate is the response of a fee estimation request.
type FeeEstimate struct {
	Fees FeeTiers `json:"fees"`
	Size int64    `json:"size"`
}

// Asset describes a token on the underlying settlement chain.
type Asset struct {
	Asset       string `json:"asset"`
	Divisible   bool   `json:"divisible"`
	Description string `json:"description"`
	Locked      bool   `json:"locked"`
	Owner       string `json:"owner"`
	Issuer      string `json:"issuer"`
	Supply      int64  `json:"supply"`
}

// Account is a named sub-ledger within a payment address.
type Account struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Active bool           `json:"active"`
	Meta   map[string]any `json:"meta"`
}

// AccountWithBalances is an account together with its balances, as returned
// by the accounts/balances endpoint.
type AccountWithBalances struct {
	Account
	Balances AccountBalances `json:"balances"`
}

// ValidationResult is the response of an address validation request.
type ValidationResult struct {
	Result bool `json:"result"`
	IsMine bool `json:"is_mine"`
}

// UTXORef identifies one unspent output offered as a custom send input.
type UTXORef struct {
	TxID string `json:"txid"`
	N    int    `json:"n"`
}

// UTXO is one unspent output of a payment address.
type UTXO struct {
	TxID   string          `json:"txid"`
	N      string          `json:"n"`
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
	Green  bool            `json:"green"`
}

// PrimedUTXOs is the response of a primed UTXO check.
type PrimedUTXOs struct {
	PrimedCount int    `json:"primedCount"`
	TotalCount  int    `json:"totalCount"`
	UTXOs       []UTXO `json:"utxos"`
}

// PrimeResult is the response of a UTXO priming request.
type PrimeResult struct {
	PrimedCount int    `json:"primedCount"`
	TotalCount  int    `json:"totalCount"`
	TxID        string `json:"txid"`
	Primed      bool   `json:"primed"`
}

// CleanupResult is the response of a UTXO cleanup request.
type CleanupResult struct {
	BeforeUTXOsCount int    `json:"before_utxos_count"`
	AfterUTXOsCount  int    `json:"after_utxos_count"`
	CleanedUp        bool   `json:"cleaned_up"`
	TxID             string `json:"txid"`
}

// CounterpartyTx carries the counterparty-specific fields of a transaction
// notification. Only the dust size is consumed by this library.
type CounterpartyTx struct {
	DustSize decimal.Decimal `json:"dustSize"`
}

// Notification is a payment notification delivered through a webhook.
type Notification struct {
	TxID           string          `json:"txid" validate:"required"`
	Asset          string          `json:"asset" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantitySat    int64           `json:"quantitySat"`
	Address        string          `json:"address"`
	Confirmations  int64           `json:"confirmations"`
	Confirmed      bool            `json:"confirmed"`
	CounterpartyTx CounterpartyTx  `json:"counterpartyTx"`
}
