package lookup

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vietddude/chainlens/internal/core/domain"
)

// FormatAmount rounds d to digits decimals and trims trailing zeros.
func FormatAmount(d decimal.Decimal, digits int32) string {
	s := d.StringFixed(digits)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// FormatCoin renders an amount of the network's native coin, e.g. "1.5 ETH".
func FormatCoin(d decimal.Decimal, network domain.Network) string {
	return FormatAmount(d, coinDigits(network)) + " " + domain.NetworkSymbol[network]
}

// FormatUSD renders a dollar value, or the sentinel when the price is unknown.
func FormatUSD(d decimal.Decimal, ok bool) string {
	if !ok {
		return domain.Sentinel
	}
	return "$" + FormatAmount(d, 2)
}

func coinDigits(network domain.Network) int32 {
	switch network {
	case domain.NetworkBTC, domain.NetworkLTC:
		return 8
	}
	return 6
}
