package chain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/vietddude/chainlens/internal/core/domain"
)

// ErrNoAdapter is returned when no adapter is registered for a network.
var ErrNoAdapter = errors.New("no adapter for network")

// Adapter defines the boundary between the lookup engine and one provider family.
//
// A lookup calls FetchAccount first; its failure switches the whole lookup to the
// degraded mock result. FetchActivity is only called after a successful account fetch and
// must never fail as a whole: each secondary piece degrades to an empty value on its own.
type Adapter interface {
	// Network returns the network served by this adapter instance
	Network() domain.Network

	// Normalize returns the canonical form of an address for this network
	Normalize(address string) string

	// FetchAccount retrieves balance and account metadata
	FetchAccount(ctx context.Context, address string) (*Account, error)

	// FetchActivity retrieves recent transfers and collectibles
	FetchActivity(ctx context.Context, account *Account) *Activity
}

// Account is the primary record of a looked up address, amounts in whole coins.
type Account struct {
	Network      domain.Network
	Address      string
	Balance      decimal.Decimal
	Title        string
	Status       string
	ContractType string

	// Provider-reported lifetime totals. Nil means they are derived from the transfers.
	TotalReceived *decimal.Decimal
	TotalSent     *decimal.Decimal

	// TxCount as reported by the provider; empty when unknown.
	TxCount string

	Raw any
}

// Transfer is one recent transaction before price conversion and formatting.
type Transfer struct {
	ID        string
	Timestamp int64
	Direction domain.Direction
	Amount    *decimal.Decimal
	From      string
	To        string
	Type      string
}

// Activity holds the secondary data of a lookup.
type Activity struct {
	Transfers []Transfer
	NFTs      []domain.NftItem

	// TxCount overrides Account.TxCount when non-empty.
	TxCount string

	// Raw replaces Account.Raw in the response when non-nil.
	Raw any
}

// Registry resolves the adapter of a network.
type Registry struct {
	adapters map[domain.Network]Adapter
}

// NewRegistry creates a registry from the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.Network]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Network()] = a
	}
	return r
}

// Get returns the adapter for network.
func (r *Registry) Get(network domain.Network) (Adapter, error) {
	a, ok := r.adapters[network]
	if !ok {
		return nil, ErrNoAdapter
	}
	return a, nil
}

// Units converts a smallest-unit amount into whole coins.
func Units(raw decimal.Decimal, network domain.Network) decimal.Decimal {
	return raw.Shift(-domain.NetworkDecimals[network])
}
