package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenly/xchain-go/types"
)

func TestReceiveConfirmedCreditsDefaultAccount(t *testing.T) {
	b := NewBuilder()
	seedBalances(b, "default", map[string]string{"BTC": "0"})

	b.Receive(&types.Notification{
		TxID:          "tx-btc-1",
		Asset:         "BTC",
		Quantity:      dec("0.25"),
		Confirmations: 2,
	})

	assert.True(t, confirmedBalance(t, b, "default", "default", "BTC").Equal(dec("0.25")))
	assert.True(t, b.balancesByTxID["tx-btc-1"]["BTC"].Equal(dec("0.25")))
}

func TestReceiveUnconfirmedRecordsReceiptOnly(t *testing.T) {
	b := NewBuilder()
	seedBalances(b, "default", map[string]string{"BTC": "0"})

	b.Receive(&types.Notification{
		TxID:          "tx-btc-2",
		Asset:         "BTC",
		Quantity:      dec("0.25"),
		Confirmations: 1,
	})

	assert.True(t, confirmedBalance(t, b, "default", "default", "BTC").IsZero())
	assert.True(t, b.receivedByTxID["tx-btc-2"])
	assert.True(t, b.balancesByTxID["tx-btc-2"]["BTC"].Equal(dec("0.25")))
}

func TestReceiveNonBTCRecordsDust(t *testing.T) {
	b := NewBuilder()
	seedBalances(b, "default", map[string]string{"BTC": "0"})

	b.Receive(&types.Notification{
		TxID:           "tx-soup-1",
		Asset:          "SOUP",
		Quantity:       dec("100"),
		Confirmations:  2,
		CounterpartyTx: types.CounterpartyTx{DustSize: dec("0.00005430")},
	})

	assert.True(t, confirmedBalance(t, b, "default", "default", "SOUP").Equal(dec("100")))
	assert.True(t, confirmedBalance(t, b, "default", "default", "BTC").Equal(dec("0.00005430")))
	assert.True(t, b.balancesByTxID["tx-soup-1"]["BTC"].Equal(dec("0.00005430")))
}

// A repeated notification for an already-seen txid credits again when it
// carries more than one confirmation. The receipt index stays unchanged.
func TestReceiveRepeatedNotificationCreditsAgain(t *testing.T) {
	b := NewBuilder()
	seedBalances(b, "default", map[string]string{"BTC": "0"})

	notification := &types.Notification{
		TxID:          "tx-btc-3",
		Asset:         "BTC",
		Quantity:      dec("0.25"),
		Confirmations: 2,
	}
	b.Receive(notification)
	b.Receive(notification)

	assert.True(t, confirmedBalance(t, b, "default", "default", "BTC").Equal(dec("0.5")))
	require.Len(t, b.balancesByTxID, 1)
	assert.True(t, b.balancesByTxID["tx-btc-3"]["BTC"].Equal(dec("0.25")))
}

func TestReceiveThenTransferByTxID(t *testing.T) {
	b := NewBuilder()
	seedBalances(b, "default", map[string]string{"BTC": "0"})

	b.Receive(&types.Notification{
		TxID:          "tx-btc-4",
		Asset:         "BTC",
		Quantity:      dec("0.3"),
		Confirmations: 2,
	})

	require.NoError(t, b.applyTransfer("default", "default", "received", map[string]any{"txid": "tx-btc-4"}))
	assert.True(t, confirmedBalance(t, b, "default", "received", "BTC").Equal(dec("0.3")))
	assert.True(t, confirmedBalance(t, b, "default", "default", "BTC").IsZero())
}
