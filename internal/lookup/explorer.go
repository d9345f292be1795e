package lookup

import (
	"net/url"

	"github.com/vietddude/chainlens/internal/core/domain"
)

type explorerPaths struct {
	tx, address string
}

var explorers = map[domain.Network]explorerPaths{
	domain.NetworkBTC:  {"https://www.blockchain.com/btc/tx/", "https://www.blockchain.com/btc/address/"},
	domain.NetworkETH:  {"https://etherscan.io/tx/", "https://etherscan.io/address/"},
	domain.NetworkLTC:  {"https://blockchair.com/litecoin/transaction/", "https://blockchair.com/litecoin/address/"},
	domain.NetworkTRON: {"https://tronscan.org/#/transaction/", "https://tronscan.org/#/address/"},
	domain.NetworkTON:  {"https://tonviewer.com/transaction/", "https://tonviewer.com/"},
}

// ExplorerURL links value on the public explorer of network. It returns an empty string
// for networks without an explorer.
func ExplorerURL(network domain.Network, kind domain.Kind, value string) string {
	e, ok := explorers[network]
	if !ok {
		return ""
	}
	v := url.PathEscape(value)
	if kind == domain.KindTx {
		return e.tx + v
	}
	return e.address + v
}
