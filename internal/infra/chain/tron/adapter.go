// Package tron reads TRON accounts from the Tronscan API.
package tron

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/chain"
	"github.com/vietddude/chainlens/internal/infra/chain/jsonx"
	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
)

const txLimit = 30

// Tronscan spells the same transaction fields differently across endpoints.
var (
	txID     = []string{"hash", "transactionHash"}
	txFrom   = []string{"ownerAddress", "fromAddress", "from"}
	txTo     = []string{"toAddress", "to"}
	txType   = []string{"contractType", "type"}
	txAmount = []string{"amount", "contractData.amount"}
	txCount  = []string{"total", "rangeTotal"}
)

// Adapter implements chain.Adapter for TRON.
type Adapter struct {
	provider provider.Provider
	log      *slog.Logger
}

// NewAdapter creates a TRON adapter on top of a Tronscan provider.
func NewAdapter(p provider.Provider) *Adapter {
	return &Adapter{
		provider: p,
		log:      slog.Default().With("network", domain.NetworkTRON),
	}
}

// Network returns TRON.
func (a *Adapter) Network() domain.Network {
	return domain.NetworkTRON
}

// Normalize returns the trimmed address. Direction uses exact string equality, so no
// case folding is applied to base58.
func (a *Adapter) Normalize(address string) string {
	return strings.TrimSpace(address)
}

// FetchAccount retrieves the account balance in SUN.
func (a *Adapter) FetchAccount(ctx context.Context, address string) (*chain.Account, error) {
	doc, err := a.provider.Get(ctx, provider.Request{
		Endpoint: "account",
		Path:     "/api/account",
		Query:    url.Values{"address": {address}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	balance, _ := jsonx.Decimal(doc, "balance", "data.0.balance")

	return &chain.Account{
		Network: domain.NetworkTRON,
		Address: address,
		Balance: chain.Units(balance, domain.NetworkTRON),
		Title:   "Wallet",
		Status:  "ok",
		Raw:     doc,
	}, nil
}

// FetchActivity loads the newest transactions. A failure leaves the feed empty.
func (a *Adapter) FetchActivity(ctx context.Context, account *chain.Account) *chain.Activity {
	doc, err := a.provider.Get(ctx, provider.Request{
		Endpoint: "transaction",
		Path:     "/api/transaction",
		Query: url.Values{
			"sort":    {"-timestamp"},
			"count":   {"true"},
			"limit":   {strconv.Itoa(txLimit)},
			"start":   {"0"},
			"address": {account.Address},
		},
	})
	if err != nil {
		a.log.Warn("failed to get transactions", "address", account.Address, "error", err)
	}

	transfers := ParseTransactions(jsonx.Arr(doc, "data"), account.Address)

	count := jsonx.Str(doc, txCount...)
	if count == "" && err == nil {
		count = strconv.Itoa(len(transfers))
	}

	return &chain.Activity{
		Transfers: transfers,
		TxCount:   count,
		Raw: map[string]any{
			"acct":   account.Raw,
			"txList": doc,
		},
	}
}

// ParseTransactions maps at most 30 Tronscan transactions.
func ParseTransactions(txs []any, address string) []chain.Transfer {
	if len(txs) > txLimit {
		txs = txs[:txLimit]
	}
	transfers := make([]chain.Transfer, 0, len(txs))
	for _, tx := range txs {
		from := jsonx.Str(tx, txFrom...)
		to := jsonx.Str(tx, txTo...)

		typ := jsonx.Str(tx, txType...)
		if typ == "" {
			typ = "transfer"
		}

		var ts int64
		if ms, ok := jsonx.Int(tx, "timestamp"); ok && ms > 0 {
			ts = ms / 1000
		}

		sun, _ := jsonx.Decimal(tx, txAmount...)
		amount := chain.Units(sun, domain.NetworkTRON)

		transfers = append(transfers, chain.Transfer{
			ID:        jsonx.Str(tx, txID...),
			Timestamp: ts,
			Direction: direction(address, from, to),
			Amount:    &amount,
			From:      from,
			To:        to,
			Type:      typ,
		})
	}
	return transfers
}

func direction(self, from, to string) domain.Direction {
	switch {
	case to != "" && to == self:
		return domain.DirectionIn
	case from != "" && from == self:
		return domain.DirectionOut
	}
	return domain.DirectionOther
}
