package mock

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
	"github.com/tokenly/xchain-go/types"
	"github.com/tokenly/xchain-go/utils"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (b *Builder) sampleAddress(map[string]any) (any, error) {
	return types.Address{
		ID:      "xxxxxxxx-xxxx-4xxx-yxxx-111111111111",
		Address: "1oLaf1CoYcVE3aH5n5XeCJcaKPPGTxnxW",
	}, nil
}

func (b *Builder) sampleMonitor(params map[string]any) (any, error) {
	address := stringParam(params, "address", "")
	monitorType := stringParam(params, "monitorType", "")
	suffix := md5Hex(address + monitorType)[:6]
	return types.Monitor{
		ID:              "xxxxxxxx-xxxx-4xxx-yxxx-222222" + suffix,
		Active:          true,
		Address:         address,
		MonitorType:     monitorType,
		WebhookEndpoint: stringParam(params, "webhookEndpoint", ""),
	}, nil
}

func (b *Builder) sampleSend(params map[string]any, quantity decimal.Decimal, asset string) types.Send {
	return types.Send{
		ID:          "xxxxxxxx-xxxx-4xxx-yxxx-333333333333",
		TxID:        b.outputTxID,
		Destination: stringParam(params, "destination", ""),
		Quantity:    quantity,
		QuantitySat: utils.ValueToSatoshis(quantity),
		Asset:       asset,
		IsSweep:     boolParam(params, "sweep"),
	}
}

// sampleBalanceSheet returns configured or default address-level balances
// in both float and satoshi form.
func (b *Builder) sampleBalanceSheet(address string) types.BalanceSheet {
	floatBalances, ok := b.balancesByAddress[address]
	if !ok {
		floatBalances = map[string]decimal.Decimal{
			"BTC":     decimal.RequireFromString("0.01"),
			"LTBCOIN": decimal.NewFromInt(1000),
			"SOUP":    decimal.NewFromInt(5000),
		}
	}

	satoshiBalances := make(map[string]int64, len(floatBalances))
	for token, balance := range floatBalances {
		satoshiBalances[token] = utils.ValueToSatoshis(balance)
	}
	return types.BalanceSheet{
		Balances:    floatBalances,
		BalancesSat: satoshiBalances,
	}
}

func (b *Builder) sampleUnmanagedAddress(params map[string]any) types.Address {
	address := stringParam(params, "address", "")
	return types.Address{
		ID:      "xxxxxxxx-xxxx-4xxx-yaaa-" + md5Hex(address)[:12],
		Address: address,
	}
}

func sampleFeeEstimate() types.FeeEstimate {
	return types.FeeEstimate{
		Fees: types.FeeTiers{
			Low:     decimal.RequireFromString("0.0000132"),
			LowSat:  1320,
			Med:     decimal.RequireFromString("0.0001"),
			MedSat:  10000,
			High:    decimal.RequireFromString("0.00010824"),
			HighSat: 10824,
		},
		Size: 264,
	}
}

func sampleVerifyMessage(params map[string]any) map[string]any {
	sig := stringParam(params, "sig", "")
	return map[string]any{"result": sig != "" && sig != "bad"}
}

func sampleSignMessage() map[string]any {
	return map[string]any{"result": "9222deadbeef22299222deadbeef2229"}
}

func sampleValidate(address string) types.ValidationResult {
	_, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
	return types.ValidationResult{Result: err == nil, IsMine: false}
}

func sampleAsset(asset string) (any, error) {
	if asset == "NOTFOUND" {
		return nil, &types.XChainError{Code: 404, Message: "Asset Not found"}
	}
	return types.Asset{
		Asset:       "TOKENLY",
		Divisible:   true,
		Description: "Tokenly.co",
		Locked:      false,
		Owner:       "12717MBviQxttaBVhFGRP1LxD8X6CaW452",
		Issuer:      "12717MBviQxttaBVhFGRP1LxD8X6CaW452",
		Supply:      10000000000000,
	}, nil
}

func sampleMultisigAddress() types.MultisigAddress {
	return types.MultisigAddress{
		ID:             "21b4d491-22a9-488a-8d28-b2ff873dbc1a",
		Address:        "",
		Type:           "p2sh",
		Status:         "pending",
		InvitationCode: "Fenq762M2AHEBYUbnZGUweKxRocmqszNNZwzAWnj3ETR9Up3ThUPJqQ5vBq3f7eA2RL7obxoC6L",
	}
}
