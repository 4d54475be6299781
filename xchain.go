// Package xchain is a client library for the XChain blockchain-asset
// service: payment address creation, balance queries, sends and account
// transfers, address monitoring, and fee estimation, over signed HTTP
// requests.
//
// The companion mock package simulates the API against an in-memory ledger
// for testing consumer applications, and the webhook package validates
// inbound payment notifications.
package xchain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tokenly/xchain-go/logger"
	"github.com/tokenly/xchain-go/metrics"
	"github.com/tokenly/xchain-go/types"
)

const defaultTimeout = 30 * time.Second

// Client calls the XChain API.
type Client struct {
	config     Config
	requester  Requester
	httpClient *http.Client
	timeout    time.Duration
	log        logger.Logger
	metrics    metrics.Recorder
}

// New creates a Client for the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:  cfg,
		timeout: defaultTimeout,
		log:     logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.requester == nil {
		if c.httpClient == nil {
			c.httpClient = &http.Client{Timeout: c.timeout}
		}
		c.requester = newHTTPRequester(cfg, c.httpClient, c.log, c.metrics)
	}
	return c, nil
}

// request issues one API call and decodes the result into out when out is
// non-nil.
func (c *Client) request(ctx context.Context, method, path string, params map[string]any, out any) error {
	raw, err := c.requester.Request(ctx, method, path, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %v", types.ErrUnexpectedResponse, method, path, err)
	}
	return nil
}

// ------------------------------------------------------------------------
// Payment addresses

// NewPaymentAddress creates a new payment address.
func (c *Client) NewPaymentAddress(ctx context.Context) (*types.Address, error) {
	var out types.Address
	if err := c.request(ctx, http.MethodPost, "/addresses", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPaymentAddress fetches the details of a payment address by id.
func (c *Client) GetPaymentAddress(ctx context.Context, addressID string) (*types.Address, error) {
	var out types.Address
	if err := c.request(ctx, http.MethodGet, "/addresses/"+addressID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewUnmanagedAddress registers an externally held address with the
// service.
func (c *Client) NewUnmanagedAddress(ctx context.Context, address string) (*types.Address, error) {
	var out types.Address
	params := map[string]any{"address": address}
	if err := c.request(ctx, http.MethodPost, "/unmanaged/addresses", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewMultisigPaymentAddress creates a pending multisig payment address.
func (c *Client) NewMultisigPaymentAddress(ctx context.Context) (*types.MultisigAddress, error) {
	var out types.MultisigAddress
	if err := c.request(ctx, http.MethodPost, "/multisig/addresses", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ------------------------------------------------------------------------
// Monitors

// NewAddressMonitor registers a webhook monitor for an address.
// monitorType is "send" or "receive".
func (c *Client) NewAddressMonitor(ctx context.Context, address, webhookEndpoint, monitorType string, active bool) (*types.Monitor, error) {
	params := map[string]any{
		"address":         address,
		"webhookEndpoint": webhookEndpoint,
		"monitorType":     monitorType,
		"active":          active,
	}
	var out types.Monitor
	if err := c.request(ctx, http.MethodPost, "/monitors", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAddressMonitorActiveState switches a monitor between active and
// inactive.
func (c *Client) UpdateAddressMonitorActiveState(ctx context.Context, monitorID string, active bool) (*types.Monitor, error) {
	var out types.Monitor
	if err := c.request(ctx, http.MethodPatch, "/monitors/"+monitorID, map[string]any{"active": active}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAddressMonitor fetches a monitor by id.
func (c *Client) GetAddressMonitor(ctx context.Context, monitorID string) (*types.Monitor, error) {
	var out types.Monitor
	if err := c.request(ctx, http.MethodGet, "/monitors/"+monitorID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DestroyAddressMonitor removes a monitor.
func (c *Client) DestroyAddressMonitor(ctx context.Context, monitorID string) error {
	return c.request(ctx, http.MethodDelete, "/monitors/"+monitorID, nil, nil)
}

// ------------------------------------------------------------------------
// Sends

// SendOptions carries the optional parameters of a send.
type SendOptions struct {
	// Fee overrides the BTC network fee.
	Fee *decimal.Decimal

	// DustSize overrides the dust output attached to non-BTC sends.
	DustSize *decimal.Decimal

	// RequestID makes the send idempotent. Generated when empty.
	RequestID string

	// CustomInputs restricts the transaction to the given UTXOs.
	CustomInputs []types.UTXORef
}

// Send sends confirmed and unconfirmed funds from the default account of a
// payment address.
func (c *Client) Send(ctx context.Context, addressID, destination string, quantity decimal.Decimal, asset string, opts *SendOptions) (*types.Send, error) {
	return c.SendFromAccount(ctx, addressID, destination, quantity, asset, types.DefaultAccount, true, opts)
}

// SendConfirmed sends only confirmed funds from the default account.
func (c *Client) SendConfirmed(ctx context.Context, addressID, destination string, quantity decimal.Decimal, asset string, opts *SendOptions) (*types.Send, error) {
	return c.SendFromAccount(ctx, addressID, destination, quantity, asset, types.DefaultAccount, false, opts)
}

// SendFromAccount sends funds from a named account of a payment address.
func (c *Client) SendFromAccount(ctx context.Context, addressID, destination string, quantity decimal.Decimal, asset, account string, unconfirmed bool, opts *SendOptions) (*types.Send, error) {
	if destination == "" {
		return nil, fmt.Errorf("destination is required")
	}
	if asset == "" {
		return nil, fmt.Errorf("asset is required")
	}

	params := map[string]any{
		"destination": destination,
		"quantity":    quantity,
		"asset":       asset,
		"sweep":       false,
		"unconfirmed": unconfirmed,
		"account":     account,
	}
	applySendOptions(params, opts)

	var out types.Send
	if err := c.request(ctx, http.MethodPost, "/sends/"+addressID, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendBTCToMultipleDestinations sends BTC from a payment address to
// several destinations in one transaction.
func (c *Client) SendBTCToMultipleDestinations(ctx context.Context, addressID string, destinations []types.Destination, account string, unconfirmed bool, opts *SendOptions) (*types.Send, error) {
	if len(destinations) == 0 {
		return nil, fmt.Errorf("at least one destination is required")
	}
	for i := range destinations {
		if err := validate.Struct(destinations[i]); err != nil {
			return nil, fmt.Errorf("invalid destination %d: %w", i, err)
		}
	}
	if account == "" {
		account = types.DefaultAccount
	}

	params := map[string]any{
		"destinations": destinations,
		"sweep":        false,
		"unconfirmed":  unconfirmed,
		"account":      account,
	}
	applySendOptions(params, opts)

	var out types.Send
	if err := c.request(ctx, http.MethodPost, "/multisends/"+addressID, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SweepAllAssets sends every asset and all BTC from a payment address to
// the destination.
func (c *Client) SweepAllAssets(ctx context.Context, addressID, destination string, opts *SendOptions) (*types.Send, error) {
	params := map[string]any{
		"destination": destination,
		"quantity":    nil,
		"asset":       "ALLASSETS",
		"sweep":       true,
	}
	applySendOptions(params, opts)

	var out types.Send
	if err := c.request(ctx, http.MethodPost, "/sends/"+addressID, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func applySendOptions(params map[string]any, opts *SendOptions) {
	requestID := ""
	if opts != nil {
		if opts.Fee != nil {
			params["fee"] = *opts.Fee
		}
		if opts.DustSize != nil {
			params["dust_size"] = *opts.DustSize
		}
		if len(opts.CustomInputs) > 0 {
			params["custom_inputs"] = opts.CustomInputs
		}
		requestID = opts.RequestID
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	params["requestId"] = requestID
}

// ------------------------------------------------------------------------
// Balances and assets

// GetBalances fetches the address-level asset balances of a bitcoin
// address, in both float and satoshi form. For balances of payment
// addresses, see GetAccountBalances.
func (c *Client) GetBalances(ctx context.Context, address string) (*types.BalanceSheet, error) {
	var out types.BalanceSheet
	if err := c.request(ctx, http.MethodGet, "/balances/"+address, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAsset fetches the descriptor of an asset.
func (c *Client) GetAsset(ctx context.Context, asset string) (*types.Asset, error) {
	var out types.Asset
	if err := c.request(ctx, http.MethodGet, "/assets/"+asset, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ------------------------------------------------------------------------
// Accounts

// CreateAccount creates a named account under a payment address.
func (c *Client) CreateAccount(ctx context.Context, addressID, name string, meta map[string]any) (*types.Account, error) {
	params := map[string]any{
		"addressId": addressID,
		"name":      name,
	}
	if meta != nil {
		params["meta"] = meta
	}
	var out types.Account
	if err := c.request(ctx, http.MethodPost, "/accounts", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAccount renames an account or replaces its metadata. Empty name
// and nil meta leave the corresponding field unchanged.
func (c *Client) UpdateAccount(ctx context.Context, accountID, name string, meta map[string]any) (*types.Account, error) {
	params := map[string]any{"id": accountID}
	if name != "" {
		params["name"] = name
	}
	if meta != nil {
		params["meta"] = meta
	}
	var out types.Account
	if err := c.request(ctx, http.MethodPatch, "/accounts", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccounts lists the accounts of a payment address.
func (c *Client) GetAccounts(ctx context.Context, addressID string, active bool) ([]types.Account, error) {
	activeFlag := "0"
	if active {
		activeFlag = "1"
	}
	var out []types.Account
	if err := c.request(ctx, http.MethodGet, "/accounts/"+addressID, map[string]any{"active": activeFlag}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccount fetches one account by id.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*types.Account, error) {
	var out types.Account
	if err := c.request(ctx, http.MethodGet, "/account/"+accountID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccountBalances fetches one account's balances grouped by balance
// type. It returns nil when the account does not exist.
func (c *Client) GetAccountBalances(ctx context.Context, addressID, accountName string) (types.AccountBalances, error) {
	var out []struct {
		Balances types.AccountBalances `json:"balances"`
	}
	params := map[string]any{"name": accountName}
	if err := c.request(ctx, http.MethodGet, "/accounts/balances/"+addressID, params, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Balances, nil
}

// GetAccountBalancesByType fetches one account's balances at a single
// settlement stage. It returns nil when the account or stage is absent.
func (c *Client) GetAccountBalancesByType(ctx context.Context, addressID, accountName string, balanceType types.BalanceType) (types.AssetBalances, error) {
	var out []struct {
		Balances types.AssetBalances `json:"balances"`
	}
	params := map[string]any{"name": accountName, "type": string(balanceType)}
	if err := c.request(ctx, http.MethodGet, "/accounts/balances/"+addressID, params, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Balances, nil
}

// GetAllAccountsWithBalances fetches every account's balances for a
// payment address.
func (c *Client) GetAllAccountsWithBalances(ctx context.Context, addressID string) (types.AddressBalances, error) {
	var out types.AddressBalances
	if err := c.request(ctx, http.MethodGet, "/accounts/balances/"+addressID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer moves funds between two accounts of a payment address. It
// returns false without an error when the source account has insufficient
// funds.
func (c *Client) Transfer(ctx context.Context, addressID, from, to string, quantity decimal.Decimal, asset string) (bool, error) {
	if from == "" || to == "" {
		return false, fmt.Errorf("from and to accounts are required")
	}
	params := map[string]any{
		"from":     from,
		"to":       to,
		"quantity": quantity,
		"asset":    asset,
	}
	err := c.request(ctx, http.MethodPost, "/accounts/transfer/"+addressID, params, nil)
	if err != nil {
		if types.ErrorName(err) == types.ErrNameInsufficientFunds {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// TransferAllByTransactionID moves every balance recorded against a txid
// from one account to another.
func (c *Client) TransferAllByTransactionID(ctx context.Context, addressID, from, to, txid string) error {
	if from == "" || to == "" {
		return fmt.Errorf("from and to accounts are required")
	}
	params := map[string]any{
		"from": from,
		"to":   to,
		"txid": txid,
	}
	return c.request(ctx, http.MethodPost, "/accounts/transfer/"+addressID, params, nil)
}

// CloseAccount moves every confirmed balance from one account to another
// and removes the source account.
func (c *Client) CloseAccount(ctx context.Context, addressID, from, to string) error {
	if from == "" || to == "" {
		return fmt.Errorf("from and to accounts are required")
	}
	params := map[string]any{
		"from":  from,
		"to":    to,
		"close": true,
	}
	return c.request(ctx, http.MethodPost, "/accounts/transfer/"+addressID, params, nil)
}

// ------------------------------------------------------------------------
// UTXO management

// CheckPrimedUTXOs reports how many primed UTXOs of the given size a
// payment address holds.
func (c *Client) CheckPrimedUTXOs(ctx context.Context, addressID string, utxoSize decimal.Decimal) (*types.PrimedUTXOs, error) {
	var out types.PrimedUTXOs
	if err := c.request(ctx, http.MethodGet, "/primes/"+addressID, map[string]any{"size": utxoSize}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PrimeUTXOs splits a payment address's funds into primed UTXOs of the
// given size.
func (c *Client) PrimeUTXOs(ctx context.Context, addressID string, utxoSize decimal.Decimal, desiredCount int, fee *decimal.Decimal) (*types.PrimeResult, error) {
	params := map[string]any{
		"size":  utxoSize,
		"count": desiredCount,
	}
	if fee != nil {
		params["fee"] = *fee
	}
	var out types.PrimeResult
	if err := c.request(ctx, http.MethodPost, "/primes/"+addressID, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CleanupUTXOs consolidates a payment address's UTXOs down to at most
// maxUTXOs. priority may be empty for the service default.
func (c *Client) CleanupUTXOs(ctx context.Context, addressID string, maxUTXOs int, priority string) (*types.CleanupResult, error) {
	params := map[string]any{"max_utxos": maxUTXOs}
	if priority != "" {
		params["priority"] = priority
	}
	var out types.CleanupResult
	if err := c.request(ctx, http.MethodPost, "/cleanup/"+addressID, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ------------------------------------------------------------------------
// Messages and validation

// ValidateAddress checks whether address is a valid bitcoin address and
// whether the service manages it.
func (c *Client) ValidateAddress(ctx context.Context, address string) (*types.ValidationResult, error) {
	var out types.ValidationResult
	if err := c.request(ctx, http.MethodGet, "/validate/"+address, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyMessage verifies a message signature made with a bitcoin address.
func (c *Client) VerifyMessage(ctx context.Context, address, sig, message string) (bool, error) {
	var out struct {
		Result bool `json:"result"`
	}
	params := map[string]any{"sig": sig, "message": message}
	if err := c.request(ctx, http.MethodGet, "/message/verify/"+address, params, &out); err != nil {
		return false, err
	}
	return out.Result, nil
}

// SignMessage signs a message with a managed address.
func (c *Client) SignMessage(ctx context.Context, address, message string) (string, error) {
	var out struct {
		Result string `json:"result"`
	}
	params := map[string]any{"message": message}
	if err := c.request(ctx, http.MethodPost, "/message/sign/"+address, params, &out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// ------------------------------------------------------------------------
// Fees

// Fee priorities understood by EstimateFee. A numeric string is treated as
// satoshis per byte instead.
const (
	FeePriorityLow  = "low"
	FeePriorityMed  = "med"
	FeePriorityHigh = "high"
)

// EstimateFee estimates the fee in satoshis for a send from the default
// account.
func (c *Client) EstimateFee(ctx context.Context, priority, addressID, destination string, quantity decimal.Decimal, asset string, dustSize *decimal.Decimal) (int64, error) {
	return c.EstimateFeeFromAccount(ctx, priority, addressID, destination, quantity, asset, types.DefaultAccount, true, dustSize)
}

// EstimateFeeFromAccount estimates the fee in satoshis for a send from a
// named account.
func (c *Client) EstimateFeeFromAccount(ctx context.Context, priority, addressID, destination string, quantity decimal.Decimal, asset, account string, unconfirmed bool, dustSize *decimal.Decimal) (int64, error) {
	params := map[string]any{
		"destination": destination,
		"quantity":    quantity,
		"asset":       asset,
		"sweep":       false,
		"unconfirmed": unconfirmed,
		"account":     account,
	}
	if dustSize != nil {
		params["dust_size"] = *dustSize
	}

	var out types.FeeEstimate
	if err := c.request(ctx, http.MethodPost, "/estimatefee/"+addressID, params, &out); err != nil {
		return 0, err
	}

	switch priority {
	case FeePriorityLow:
		return out.Fees.LowSat, nil
	case FeePriorityMed:
		return out.Fees.MedSat, nil
	case FeePriorityHigh:
		return out.Fees.HighSat, nil
	}

	satoshisPerByte, err := strconv.ParseInt(priority, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fee priority %q", priority)
	}
	return satoshisPerByte * out.Size, nil
}
