// Package mock provides an in-memory stand-in for the XChain API, used to
// test consumer applications without touching the network.
//
// A Builder owns all simulated state: the balance ledger, the transaction
// receipt index, the fault injector, and the call recorder. Construct a
// fresh Builder per test and install it into a client. The Builder is not
// safe for concurrent use; a test that shares one across goroutines must
// serialize access itself.
package mock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tokenly/xchain-go"
	"github.com/tokenly/xchain-go/logger"
	"github.com/tokenly/xchain-go/metrics"
	"github.com/tokenly/xchain-go/types"
)

// Defaults applied to simulated sends when the request does not override
// them.
var (
	DefaultRegularDustSize = decimal.RequireFromString("0.00005430")
	DefaultFeeSize         = decimal.RequireFromString("0.0001")
)

// DefaultOutputTransactionID is the txid stamped on simulated send
// receipts until SetOutputTransactionID overrides it.
const DefaultOutputTransactionID = "0000000000000000000000000000001111"

var (
	// ErrInjectedFault is returned once the fault injector's call budget
	// is exhausted.
	ErrInjectedFault = errors.New("test exception triggered")

	// ErrNoBalancesDefined is returned when balances are requested for an
	// address that was never seeded.
	ErrNoBalancesDefined = errors.New("no balances defined")

	// ErrMissingTransferParty is returned when a transfer request omits
	// the from or to account.
	ErrMissingTransferParty = errors.New("from or to account missing")
)

// NoSampleHandlerError is returned when a call matches neither a literal
// handler nor a path-prefix rule.
type NoSampleHandlerError struct {
	Method string
	Path   string
}

func (e *NoSampleHandlerError) Error() string {
	return fmt.Sprintf("no sample handler for %s %s", e.Method, e.Path)
}

// Handler produces a canned response for one (method, path) pair.
type Handler func(params map[string]any) (any, error)

// Builder simulates the XChain API against an in-memory ledger.
type Builder struct {
	balances          map[string]types.AddressBalances
	balancesByAddress map[string]map[string]decimal.Decimal
	balancesByTxID    map[string]types.AssetBalances
	receivedByTxID    map[string]bool

	remainingBeforeFault *int
	faultIgnorePrefixes  []string

	outputTxID string
	handlers   map[string]Handler
	recorder   *Recorder

	log     logger.Logger
	metrics metrics.Recorder
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for dispatched calls.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		b.log = l
	}
}

// WithMetrics sets the metrics recorder for dispatched calls.
func WithMetrics(r metrics.Recorder) Option {
	return func(b *Builder) {
		b.metrics = r
	}
}

// NewBuilder returns a Builder with an empty ledger and default canned
// responses registered.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		balancesByTxID: make(map[string]types.AssetBalances),
		receivedByTxID: make(map[string]bool),
		outputTxID:     DefaultOutputTransactionID,
		recorder:       &Recorder{},
		log:            logger.NoopLogger{},
		metrics:        metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.handlers = map[string]Handler{
		"post_addresses": b.sampleAddress,
		"post_monitors":  b.sampleMonitor,
	}
	return b
}

// Install builds a client wired to this mock and returns it together with
// the call recorder.
func (b *Builder) Install(opts ...xchain.Option) (*xchain.Client, *Recorder, error) {
	cfg := xchain.Config{
		BaseURL:   "mock://xchain",
		APIToken:  "mock-token",
		APISecret: "mock-secret",
	}
	client, err := xchain.New(cfg, append(opts, xchain.WithRequester(b))...)
	if err != nil {
		return nil, nil, err
	}
	return client, b.recorder, nil
}

// Recorder returns the call recorder owned by this builder.
func (b *Builder) Recorder() *Recorder {
	return b.recorder
}

// RegisterHandler installs a literal handler for method and path, replacing
// any default. The path is normalized the same way dispatch normalizes it.
func (b *Builder) RegisterHandler(method, path string, handler Handler) {
	b.handlers[handlerKey(method, path)] = handler
}

// SetBalances seeds the ledger for one payment address id.
func (b *Builder) SetBalances(balances types.AddressBalances, addressID string) {
	if addressID == "" {
		addressID = "default"
	}
	if b.balances == nil {
		b.balances = make(map[string]types.AddressBalances)
	}
	b.balances[addressID] = balances.Copy()
}

// SetBalancesByAddress seeds the address-level balances returned by the
// balances endpoint. These are independent of the per-account ledger.
func (b *Builder) SetBalancesByAddress(balances map[string]map[string]decimal.Decimal) {
	b.balancesByAddress = balances
}

// ClearBalances drops the ledger, the transaction receipt index, and the
// received-txid set.
func (b *Builder) ClearBalances() {
	b.balances = nil
	b.balancesByTxID = make(map[string]types.AssetBalances)
	b.receivedByTxID = make(map[string]bool)
}

// SetOutputTransactionID overrides the txid stamped on simulated send
// receipts.
func (b *Builder) SetOutputTransactionID(txid string) {
	b.outputTxID = txid
}

// State is a snapshot of the mock's ledger state, for carrying balances
// across builder instances.
type State struct {
	Balances       map[string]types.AddressBalances `json:"balances"`
	BalancesByTxID map[string]types.AssetBalances   `json:"balances_by_txid"`
	ReceivedByTxID map[string]bool                  `json:"received_by_txid_map"`
}

// ExportState snapshots the ledger state.
func (b *Builder) ExportState() State {
	return State{
		Balances:       b.balances,
		BalancesByTxID: b.balancesByTxID,
		ReceivedByTxID: b.receivedByTxID,
	}
}

// ImportState restores a previously exported snapshot. Nil fields leave
// the corresponding state untouched.
func (b *Builder) ImportState(state State) {
	if state.Balances != nil {
		b.balances = state.Balances
	}
	if state.BalancesByTxID != nil {
		b.balancesByTxID = state.BalancesByTxID
	}
	if state.ReceivedByTxID != nil {
		b.receivedByTxID = state.ReceivedByTxID
	}
}

// BeginThrowingExceptionsAfterCount arms the fault injector: the next
// count non-ignored calls succeed, every non-ignored call after that fails
// with ErrInjectedFault. Calls whose path starts with one of
// ignorePrefixes neither consume the budget nor fail.
func (b *Builder) BeginThrowingExceptionsAfterCount(count int, ignorePrefixes ...string) {
	remaining := count
	b.remainingBeforeFault = &remaining
	b.faultIgnorePrefixes = ignorePrefixes
}

// StopThrowingExceptions disarms the fault injector.
func (b *Builder) StopThrowingExceptions() {
	b.remainingBeforeFault = nil
	b.faultIgnorePrefixes = nil
}

// checkFault consumes one unit of the fault budget for a non-ignored path,
// returning ErrInjectedFault once the budget is exhausted.
func (b *Builder) checkFault(path string) error {
	if b.remainingBeforeFault == nil || b.pathIsIgnored(path) {
		return nil
	}
	if *b.remainingBeforeFault <= 0 {
		return ErrInjectedFault
	}
	*b.remainingBeforeFault--
	return nil
}

func (b *Builder) pathIsIgnored(path string) bool {
	for _, prefix := range b.faultIgnorePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
