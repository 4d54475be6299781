package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tokenly/xchain-go/types"
	"github.com/tokenly/xchain-go/utils"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// handlerKey builds the literal handler lookup key: lowercase method, an
// underscore, and the path with leading/trailing slashes stripped and
// every run of non-alphanumeric characters collapsed to one underscore.
func handlerKey(method, path string) string {
	normalized := nonAlphanumeric.ReplaceAllString(strings.Trim(path, "/"), "_")
	return strings.ToLower(method) + "_" + normalized
}

// Request dispatches one simulated API call. It satisfies the client's
// Requester interface so a Builder can be installed in place of the HTTP
// transport.
func (b *Builder) Request(_ context.Context, method, path string, params map[string]any) (json.RawMessage, error) {
	if err := b.checkFault(path); err != nil {
		b.log.Debug("mock fault injected", map[string]any{"method": method, "path": path})
		return nil, err
	}

	b.recorder.record(Call{Method: method, Path: path, Data: params})
	b.metrics.IncCounter("mock_call", map[string]string{"method": method})

	result, err := b.dispatch(method, path, params)
	if err != nil {
		b.log.Debug("mock call failed", map[string]any{"method": method, "path": path, "error": err.Error()})
		return nil, err
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding mock response: %w", err)
	}
	return raw, nil
}

func (b *Builder) dispatch(method, path string, params map[string]any) (any, error) {
	if handler, ok := b.handlers[handlerKey(method, path)]; ok {
		return handler(params)
	}

	switch {
	case strings.HasPrefix(path, "/sends/"):
		return b.handleSend(strings.TrimPrefix(path, "/sends/"), params)

	case strings.HasPrefix(path, "/balances/"):
		return b.sampleBalanceSheet(strings.TrimPrefix(path, "/balances/")), nil

	case strings.HasPrefix(path, "/accounts/transfer/"):
		return b.handleTransfer(strings.TrimPrefix(path, "/accounts/transfer/"), params)

	case strings.HasPrefix(path, "/accounts/balances/"):
		return b.handleAccountBalances(strings.TrimPrefix(path, "/accounts/balances/"), params)

	case strings.HasPrefix(path, "/accounts/"):
		return b.handleAccountList(strings.TrimPrefix(path, "/accounts/")), nil

	case strings.HasPrefix(path, "/estimatefee/"):
		return sampleFeeEstimate(), nil

	case strings.HasPrefix(path, "/unmanaged/addresses"):
		return b.sampleUnmanagedAddress(params), nil

	case strings.HasPrefix(path, "/message/verify/"):
		return sampleVerifyMessage(params), nil

	case strings.HasPrefix(path, "/validate/"):
		return sampleValidate(strings.TrimPrefix(path, "/validate/")), nil

	case strings.HasPrefix(path, "/message/sign/"):
		return sampleSignMessage(), nil

	case strings.HasPrefix(path, "/assets/"):
		return sampleAsset(strings.TrimPrefix(path, "/assets/"))

	case strings.HasPrefix(path, "/multisig/addresses"):
		return sampleMultisigAddress(), nil
	}

	if method == "DELETE" {
		return map[string]any{}, nil
	}

	return nil, &NoSampleHandlerError{Method: method, Path: path}
}

// handleSend debits the sent quantity plus the BTC network fee (and dust
// for non-BTC assets) and returns a synthetic send receipt.
func (b *Builder) handleSend(addressID string, params map[string]any) (any, error) {
	asset := stringParam(params, "asset", "")
	account := stringParam(params, "account", types.DefaultAccount)
	quantity, err := quantityParam(params, "quantity")
	if err != nil {
		return nil, err
	}

	if err := b.debitBalance(quantity, asset, account, types.BalanceConfirmed, addressID); err != nil {
		return nil, err
	}

	btcDebit := DefaultFeeSize
	if fee, ok := params["fee"]; ok {
		if btcDebit, err = utils.ParseQuantity(fee); err != nil {
			return nil, err
		}
	}
	if asset != "BTC" {
		dust := DefaultRegularDustSize
		if override, ok := params["dust_size"]; ok {
			if dust, err = utils.ParseQuantity(override); err != nil {
				return nil, err
			}
		}
		btcDebit = btcDebit.Add(dust)
	}
	if err := b.debitBalance(btcDebit, "BTC", account, types.BalanceConfirmed, addressID); err != nil {
		return nil, err
	}

	return b.sampleSend(params, quantity, asset), nil
}

// handleTransfer applies one of the three transfer sub-modes: close,
// explicit quantity, or by txid. Ledger failures are re-wrapped with the
// offending payload, preserving the error classification.
func (b *Builder) handleTransfer(addressID string, params map[string]any) (any, error) {
	from := stringParam(params, "from", "")
	to := stringParam(params, "to", "")
	if from == "" || to == "" {
		return nil, ErrMissingTransferParty
	}

	if err := b.applyTransfer(addressID, from, to, params); err != nil {
		payload, _ := json.Marshal(params)
		return nil, fmt.Errorf("failed transferring: %s: %w", payload, err)
	}
	return map[string]any{}, nil
}

func (b *Builder) applyTransfer(addressID, from, to string, params map[string]any) error {
	switch {
	case boolParam(params, "close"):
		balances, err := b.findBalances(addressID)
		if err != nil {
			return err
		}
		confirmed := balances[from][types.BalanceConfirmed]
		if confirmed == nil {
			return fmt.Errorf("no balances for account %s", from)
		}
		for _, asset := range sortedAssets(confirmed) {
			quantity := confirmed[asset]
			if err := b.debitBalance(quantity, asset, from, types.BalanceConfirmed, addressID); err != nil {
				return err
			}
			b.creditBalance(quantity, asset, to, types.BalanceConfirmed, addressID)
		}
		b.closeAccount(addressID, from)
		return nil

	case params["quantity"] != nil:
		quantity, err := quantityParam(params, "quantity")
		if err != nil {
			return err
		}
		asset := stringParam(params, "asset", "")
		if err := b.debitBalance(quantity, asset, from, types.BalanceConfirmed, addressID); err != nil {
			return err
		}
		b.creditBalance(quantity, asset, to, types.BalanceConfirmed, addressID)
		return nil

	case params["txid"] != nil:
		txid := stringParam(params, "txid", "")
		for _, asset := range sortedAssets(b.balancesByTxID[txid]) {
			quantity := b.balancesByTxID[txid][asset]
			if err := b.debitBalance(quantity, asset, from, types.BalanceConfirmed, addressID); err != nil {
				return err
			}
			b.creditBalance(quantity, asset, to, types.BalanceConfirmed, addressID)
		}
		return nil
	}

	return nil
}

// handleAccountBalances returns one account's balances wrapped in a
// one-element list, or the full per-address map when no account is named.
func (b *Builder) handleAccountBalances(addressID string, params map[string]any) (any, error) {
	name := stringParam(params, "name", "")
	if name == "" {
		return b.findBalances(addressID)
	}

	balances, err := b.findBalances(addressID)
	if err != nil {
		return nil, err
	}

	if balanceType := stringParam(params, "type", ""); balanceType != "" {
		byType, ok := balances[name][types.BalanceType(balanceType)]
		if !ok {
			return []any{}, nil
		}
		return []any{map[string]any{"balances": byType}}, nil
	}

	byAccount, ok := balances[name]
	if !ok {
		return []any{}, nil
	}
	return []any{map[string]any{"balances": byAccount}}, nil
}

// handleAccountList lists every account under an address with a derived
// stable id.
func (b *Builder) handleAccountList(addressID string) []types.Account {
	accounts := make([]types.Account, 0)
	for _, name := range b.accountNames(addressID) {
		accounts = append(accounts, types.Account{
			ID:     md5Hex(name),
			Name:   name,
			Active: true,
			Meta:   map[string]any{},
		})
	}
	return accounts
}

func sortedAssets(balances types.AssetBalances) []string {
	assets := make([]string, 0, len(balances))
	for asset := range balances {
		assets = append(assets, asset)
	}
	// stable iteration keeps transfer failures deterministic
	sort.Strings(assets)
	return assets
}

func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func boolParam(params map[string]any, key string) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

func quantityParam(params map[string]any, key string) (decimal.Decimal, error) {
	return utils.ParseQuantity(params[key])
}
