// Package ton reads TON accounts from a TonAPI-compatible indexer.
package ton

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/chain"
	"github.com/vietddude/chainlens/internal/infra/chain/jsonx"
	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
)

const (
	eventsLimit = 30
	nftsLimit   = 30
	nftsKeep    = 24
)

// Field fallback chains, most specific spelling first.
var (
	eventTimestamp = []string{"timestamp", "time", "utime"}
	eventID        = []string{"event_id", "id", "hash"}
	payloadKeys    = []string{"ton_transfer", "tonTransfer", "TonTransfer"}
	jettonKeys     = []string{"jetton_transfer", "jettonTransfer", "JettonTransfer"}
	senderPaths    = []string{"sender.address", "from.address", "from"}
	recipientPaths = []string{"recipient.address", "to.address", "to"}
	nftListPaths   = []string{"nft_items", "items"}
	nftImagePaths  = []string{
		"metadata.image", "metadata.image_url", "metadata.imageUrl",
		"previews.0.url", "previews.0.src",
		"image.original", "image.url",
	}
)

// Adapter implements chain.Adapter for TON.
type Adapter struct {
	provider provider.Provider
	log      *slog.Logger
}

// NewAdapter creates a TON adapter on top of a TonAPI provider.
func NewAdapter(p provider.Provider) *Adapter {
	return &Adapter{
		provider: p,
		log:      slog.Default().With("network", domain.NetworkTON),
	}
}

// Network returns TON.
func (a *Adapter) Network() domain.Network {
	return domain.NetworkTON
}

// Normalize returns the canonical raw form `wc:hex`.
func (a *Adapter) Normalize(address string) string {
	return Canonical(address)
}

// FetchAccount retrieves the account state.
func (a *Adapter) FetchAccount(ctx context.Context, address string) (*chain.Account, error) {
	doc, err := a.provider.Get(ctx, provider.Request{
		Endpoint: "account",
		Path:     "/v2/accounts/" + url.PathEscape(address),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	balance, _ := jsonx.Decimal(doc, "balance")

	title := "Account"
	if jsonx.Bool(doc, "is_wallet") {
		title = "Wallet"
	}

	status := jsonx.Str(doc, "status")
	if status == "" {
		status = "unknown"
	}

	return &chain.Account{
		Network:      domain.NetworkTON,
		Address:      address,
		Balance:      chain.Units(balance, domain.NetworkTON),
		Title:        title,
		Status:       status,
		ContractType: jsonx.Str(doc, "contract_type", "interfaces.0"),
		Raw:          doc,
	}, nil
}

// FetchActivity loads events and collectibles concurrently. Either one failing only
// empties its own part of the result.
func (a *Adapter) FetchActivity(ctx context.Context, account *chain.Account) *chain.Activity {
	var (
		g         errgroup.Group
		eventsDoc any
		nftsDoc   any
	)
	path := "/v2/accounts/" + url.PathEscape(account.Address)

	g.Go(func() error {
		doc, err := a.provider.Get(ctx, provider.Request{
			Endpoint: "events",
			Path:     path + "/events",
			Query:    url.Values{"limit": {strconv.Itoa(eventsLimit)}},
		})
		if err != nil {
			a.log.Warn("failed to get events", "address", account.Address, "error", err)
			return nil
		}
		eventsDoc = doc
		return nil
	})

	g.Go(func() error {
		doc, err := a.provider.Get(ctx, provider.Request{
			Endpoint: "nfts",
			Path:     path + "/nfts",
			Query:    url.Values{"limit": {strconv.Itoa(nftsLimit)}},
		})
		if err != nil {
			a.log.Warn("failed to get nfts", "address", account.Address, "error", err)
			return nil
		}
		nftsDoc = doc
		return nil
	})

	_ = g.Wait()

	events := jsonx.Arr(eventsDoc, "events")
	activity := &chain.Activity{
		Transfers: ParseEvents(events, account.Address),
		NFTs:      ParseNFTs(jsonx.Arr(nftsDoc, nftListPaths...)),
		Raw: map[string]any{
			"account": account.Raw,
			"events":  eventsDoc,
			"nfts":    nftsDoc,
		},
	}
	if len(events) > 0 {
		activity.TxCount = strconv.Itoa(len(events))
	}
	return activity
}

// ParseEvents maps TonAPI events to transfers. Direction compares canonical forms of the
// primary action's counterparties with the queried address.
func ParseEvents(events []any, address string) []chain.Transfer {
	self := Canonical(address)
	transfers := make([]chain.Transfer, 0, len(events))

	for _, ev := range events {
		ts, _ := jsonx.Int(ev, eventTimestamp...)
		primary := primaryAction(jsonx.Arr(ev, "actions"))

		actionType := jsonx.Str(primary, "type")
		if actionType == "" {
			actionType = "event"
		}

		payload, isCoin := actionPayload(primary)
		sender := firstStr(senderPaths, payload, primary)
		recipient := firstStr(recipientPaths, payload, primary)

		t := chain.Transfer{
			ID:        jsonx.Str(ev, eventID...),
			Timestamp: ts,
			Direction: direction(self, Canonical(sender), Canonical(recipient)),
			Type:      actionType,
		}
		if sender != "" {
			t.From = Friendly(sender)
		}
		if recipient != "" {
			t.To = Friendly(recipient)
		}

		if isCoin {
			if nano, ok := jsonx.Decimal(payload, "amount"); ok && nano.IsPositive() {
				amount := chain.Units(nano, domain.NetworkTON)
				t.Amount = &amount
			}
		}

		transfers = append(transfers, t)
	}
	return transfers
}

// ParseNFTs maps at most 24 collectibles.
func ParseNFTs(items []any) []domain.NftItem {
	if len(items) > nftsKeep {
		items = items[:nftsKeep]
	}
	nfts := make([]domain.NftItem, 0, len(items))
	for _, it := range items {
		name := jsonx.Str(it, "metadata.name", "name")
		if name == "" {
			name = "NFT"
		}
		nfts = append(nfts, domain.NftItem{
			Address:    jsonx.Str(it, "address", "nft_address"),
			Name:       name,
			Image:      jsonx.Str(it, nftImagePaths...),
			Collection: jsonx.Str(it, "collection.name", "collection_name"),
		})
	}
	return nfts
}

// primaryAction picks the first transfer-like action, else the first action.
func primaryAction(actions []any) any {
	for _, act := range actions {
		if strings.Contains(strings.ToLower(jsonx.Str(act, "type")), "transfer") {
			return act
		}
	}
	if len(actions) > 0 {
		return actions[0]
	}
	return nil
}

// actionPayload returns the typed payload of an action and whether its amount is
// denominated in TON. Jetton amounts use the jetton's own decimals and are skipped.
func actionPayload(action any) (any, bool) {
	if p := jsonx.Obj(action, payloadKeys...); p != nil {
		return p, true
	}
	if p := jsonx.Obj(action, jettonKeys...); p != nil {
		return p, false
	}
	return action, true
}

func firstStr(paths []string, docs ...any) string {
	for _, d := range docs {
		if s := jsonx.Str(d, paths...); s != "" {
			return s
		}
	}
	return ""
}

func direction(self, sender, recipient string) domain.Direction {
	switch {
	case self == "":
		return domain.DirectionOther
	case recipient == self:
		return domain.DirectionIn
	case sender == self:
		return domain.DirectionOut
	}
	return domain.DirectionOther
}
