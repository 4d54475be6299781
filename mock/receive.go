package mock

import (
	"github.com/tokenly/xchain-go/types"
)

// Receive applies an inbound payment notification to the mock's state.
//
// The first notification for a txid records its asset quantities (plus the
// implied BTC dust for non-BTC assets) in the transaction receipt index.
// Independently, a notification with more than one confirmation credits
// the default account's confirmed balances. The credit step is not gated
// by the receipt index, so replaying a confirmed notification credits
// again — matching the service mock's historical behavior, which some
// consumer test suites depend on.
func (b *Builder) Receive(notification *types.Notification) {
	fullyConfirmed := notification.Confirmations > 1
	txid := notification.TxID

	if !b.receivedByTxID[txid] {
		received := types.AssetBalances{
			notification.Asset: notification.Quantity,
		}
		if notification.Asset != "BTC" {
			received["BTC"] = notification.CounterpartyTx.DustSize
		}
		b.balancesByTxID[txid] = received
		b.receivedByTxID[txid] = true
	}

	if fullyConfirmed {
		b.creditBalance(notification.Quantity, notification.Asset, types.DefaultAccount, types.BalanceConfirmed, "default")
		if notification.Asset != "BTC" {
			b.creditBalance(notification.CounterpartyTx.DustSize, "BTC", types.DefaultAccount, types.BalanceConfirmed, "default")
		}
	}
}
