package lookup

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vietddude/chainlens/internal/core/domain"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in     string
		digits int32
		want   string
	}{
		{"1.500000", 6, "1.5"},
		{"2", 6, "2"},
		{"0", 6, "0"},
		{"0.1234567", 6, "0.123457"},
		{"100.10", 2, "100.1"},
		{"12345.678", 2, "12345.68"},
		{"0.000000001", 6, "0"},
		{"0.00000001", 8, "0.00000001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in), tt.digits), tt.in)
	}
}

func TestFormatCoin(t *testing.T) {
	v := decimal.RequireFromString("0.123456789")
	assert.Equal(t, "0.12345679 BTC", FormatCoin(v, domain.NetworkBTC))
	assert.Equal(t, "0.123457 ETH", FormatCoin(v, domain.NetworkETH))
	assert.Equal(t, "0.123457 TRX", FormatCoin(v, domain.NetworkTRON))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$12.5", FormatUSD(decimal.RequireFromString("12.499"), true))
	assert.Equal(t, domain.Sentinel, FormatUSD(decimal.RequireFromString("12.499"), false))
}

func TestExplorerURL(t *testing.T) {
	tests := []struct {
		network domain.Network
		kind    domain.Kind
		value   string
		want    string
	}{
		{domain.NetworkBTC, domain.KindTx, "abc", "https://www.blockchain.com/btc/tx/abc"},
		{domain.NetworkBTC, domain.KindAddress, "1abc", "https://www.blockchain.com/btc/address/1abc"},
		{domain.NetworkETH, domain.KindAddress, "0xabc", "https://etherscan.io/address/0xabc"},
		{domain.NetworkLTC, domain.KindTx, "abc", "https://blockchair.com/litecoin/transaction/abc"},
		{domain.NetworkTRON, domain.KindAddress, "Tabc", "https://tronscan.org/#/address/Tabc"},
		{domain.NetworkTON, domain.KindAddress, "0:ab", "https://tonviewer.com/0:ab"},
		{domain.NetworkTON, domain.KindTx, "a/b", "https://tonviewer.com/transaction/a%2Fb"},
		{domain.NetworkUnknown, domain.KindTx, "abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExplorerURL(tt.network, tt.kind, tt.value))
	}
}
