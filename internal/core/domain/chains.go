package domain

import "strings"

// Network identifies a blockchain family an input belongs to.
type Network string

const (
	NetworkBTC     Network = "BTC"
	NetworkETH     Network = "ETH"
	NetworkLTC     Network = "LTC"
	NetworkTON     Network = "TON"
	NetworkTRON    Network = "TRON"
	NetworkUnknown Network = "UNKNOWN"

	// NetworkAuto is only valid as a request hint; it never appears in results.
	NetworkAuto Network = "AUTO"
)

// NetworkSymbol maps a network to the ticker of its native coin.
var NetworkSymbol = map[Network]string{
	NetworkBTC:  "BTC",
	NetworkETH:  "ETH",
	NetworkLTC:  "LTC",
	NetworkTON:  "TON",
	NetworkTRON: "TRX",
}

// NetworkCoinID maps a network to the price oracle coin identifier.
var NetworkCoinID = map[Network]string{
	NetworkBTC:  "bitcoin",
	NetworkETH:  "ethereum",
	NetworkLTC:  "litecoin",
	NetworkTON:  "the-open-network",
	NetworkTRON: "tron",
}

// NetworkDecimals is the number of decimal places between the smallest unit and one coin.
var NetworkDecimals = map[Network]int32{
	NetworkBTC:  8,
	NetworkETH:  18,
	NetworkLTC:  8,
	NetworkTON:  9,
	NetworkTRON: 6,
}

// ParseNetwork parses a request network hint. Empty input means AUTO.
func ParseNetwork(s string) (Network, bool) {
	n := Network(strings.ToUpper(strings.TrimSpace(s)))
	switch n {
	case "":
		return NetworkAuto, true
	case NetworkAuto, NetworkBTC, NetworkETH, NetworkLTC, NetworkTON, NetworkTRON:
		return n, true
	}
	return NetworkUnknown, false
}

// Known reports whether n is one of the concrete supported networks.
func (n Network) Known() bool {
	_, ok := NetworkSymbol[n]
	return ok
}
