// Package blockcypher reads BTC, LTC and ETH addresses from the BlockCypher REST API.
package blockcypher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/chain"
	"github.com/vietddude/chainlens/internal/infra/chain/jsonx"
	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
)

const txrefsLimit = 30

var chainPaths = map[domain.Network]string{
	domain.NetworkBTC: "btc/main",
	domain.NetworkLTC: "ltc/main",
	domain.NetworkETH: "eth/main",
}

// Adapter implements chain.Adapter for one BlockCypher chain.
type Adapter struct {
	network  domain.Network
	path     string
	provider provider.Provider
	log      *slog.Logger
}

// NewAdapter creates an adapter for network, which must be BTC, LTC or ETH.
func NewAdapter(network domain.Network, p provider.Provider) (*Adapter, error) {
	path, ok := chainPaths[network]
	if !ok {
		return nil, fmt.Errorf("blockcypher: %w: %s", domain.ErrUnsupported, network)
	}
	return &Adapter{
		network:  network,
		path:     path,
		provider: p,
		log:      slog.Default().With("network", network),
	}, nil
}

// Network returns the chain served by this instance.
func (a *Adapter) Network() domain.Network {
	return a.network
}

// Normalize returns the trimmed address; BlockCypher addresses are case sensitive.
func (a *Adapter) Normalize(address string) string {
	return strings.TrimSpace(address)
}

// FetchAccount retrieves the address record including its recent txrefs.
func (a *Adapter) FetchAccount(ctx context.Context, address string) (*chain.Account, error) {
	doc, err := a.provider.Get(ctx, provider.Request{
		Endpoint: "addrs",
		Path:     fmt.Sprintf("/v1/%s/addrs/%s", a.path, url.PathEscape(address)),
		Query:    url.Values{"limit": {strconv.Itoa(txrefsLimit)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	balance, _ := jsonx.Decimal(doc, "balance")
	received, _ := jsonx.Decimal(doc, "total_received")
	sent, _ := jsonx.Decimal(doc, "total_sent")
	totalReceived := chain.Units(received, a.network)
	totalSent := chain.Units(sent, a.network)

	return &chain.Account{
		Network:       a.network,
		Address:       address,
		Balance:       chain.Units(balance, a.network),
		Title:         "Wallet",
		Status:        "ok",
		TotalReceived: &totalReceived,
		TotalSent:     &totalSent,
		TxCount:       jsonx.Str(doc, "n_tx"),
		Raw:           doc,
	}, nil
}

// FetchActivity maps the txrefs already carried by the account record.
func (a *Adapter) FetchActivity(_ context.Context, account *chain.Account) *chain.Activity {
	return &chain.Activity{
		Transfers: ParseTxRefs(jsonx.Arr(account.Raw, "txrefs"), account.Address, a.network),
	}
}

// ParseTxRefs maps at most 30 txrefs. A txref with tx_input_n == -1 lists the address
// among the outputs (incoming); tx_output_n == -1 lists it among the inputs (outgoing).
func ParseTxRefs(refs []any, address string, network domain.Network) []chain.Transfer {
	if len(refs) > txrefsLimit {
		refs = refs[:txrefsLimit]
	}
	transfers := make([]chain.Transfer, 0, len(refs))
	for _, ref := range refs {
		value, _ := jsonx.Decimal(ref, "value")
		amount := chain.Units(value, network)

		t := chain.Transfer{
			ID:        jsonx.Str(ref, "tx_hash", "hash"),
			Timestamp: confirmedAt(jsonx.Str(ref, "confirmed")),
			Direction: direction(ref),
			Amount:    &amount,
			Type:      "transfer",
		}
		if t.Direction != domain.DirectionIn {
			t.From = address
		}
		if t.Direction != domain.DirectionOut {
			t.To = address
		}
		transfers = append(transfers, t)
	}
	return transfers
}

func direction(ref any) domain.Direction {
	if n, ok := jsonx.Int(ref, "tx_input_n"); ok && n == -1 {
		return domain.DirectionIn
	}
	if n, ok := jsonx.Int(ref, "tx_output_n"); ok && n == -1 {
		return domain.DirectionOut
	}
	return domain.DirectionOther
}

func confirmedAt(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0
	}
	return t.Unix()
}
