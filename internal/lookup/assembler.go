package lookup

import (
	"github.com/shopspring/decimal"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/chain"
)

// Input is everything the assembler needs to build a successful result.
type Input struct {
	Query          string
	Classification domain.Classification
	Normalized     string
	Account        *chain.Account
	Activity       *chain.Activity

	// Price is the USD price of one coin, meaningful only when PriceOK is set.
	Price   decimal.Decimal
	PriceOK bool
}

// Assemble combines provider data and the price into the response envelope. It performs
// no I/O.
func Assemble(in Input) *domain.LookupResult {
	network := in.Classification.Network
	activity := in.Activity
	if activity == nil {
		activity = &chain.Activity{}
	}

	txs := make([]domain.UnifiedTransaction, 0, len(activity.Transfers))
	var sumIn, sumOut decimal.Decimal
	for _, t := range activity.Transfers {
		txs = append(txs, unify(t, network, in.Price, in.PriceOK))
		if t.Amount == nil {
			continue
		}
		switch t.Direction {
		case domain.DirectionIn:
			sumIn = sumIn.Add(*t.Amount)
		case domain.DirectionOut:
			sumOut = sumOut.Add(*t.Amount)
		}
	}

	received, sent := sumIn, sumOut
	if in.Account.TotalReceived != nil {
		received = *in.Account.TotalReceived
	}
	if in.Account.TotalSent != nil {
		sent = *in.Account.TotalSent
	}

	usd := FormatUSD(in.Account.Balance.Mul(in.Price), in.PriceOK)

	nfts := activity.NFTs
	if nfts == nil {
		nfts = []domain.NftItem{}
	}

	raw := activity.Raw
	if raw == nil {
		raw = in.Account.Raw
	}

	return &domain.LookupResult{
		OK:          true,
		Kind:        domain.KindAddress,
		Network:     network,
		Normalized:  in.Normalized,
		ExplorerURL: ExplorerURL(network, domain.KindAddress, in.Normalized),
		Summary: &domain.Summary{
			Title:            titleOr(in.Account.Title, "Wallet"),
			Subtitle:         in.Query,
			Balance:          FormatCoin(in.Account.Balance, network),
			USD:              usd,
			USDBalance:       usd,
			TotalReceived:    FormatCoin(received, network),
			TotalSent:        FormatCoin(sent, network),
			USDTotalReceived: FormatUSD(received.Mul(in.Price), in.PriceOK),
			USDTotalSent:     FormatUSD(sent.Mul(in.Price), in.PriceOK),
			TxCount:          txCount(in.Account, activity),
			Status:           titleOr(in.Account.Status, "ok"),
			ContractType:     in.Account.ContractType,
		},
		Txs:  txs,
		Nfts: nfts,
		Raw:  raw,
	}
}

// Mock is the deterministic degraded result returned when the primary fetch fails.
func Mock(c domain.Classification, query string) *domain.LookupResult {
	title := "Wallet"
	if c.Kind == domain.KindTx {
		title = "Transaction"
	}
	return &domain.LookupResult{
		OK:          true,
		Kind:        c.Kind,
		Network:     c.Network,
		Normalized:  query,
		ExplorerURL: ExplorerURL(c.Network, c.Kind, query),
		Summary: &domain.Summary{
			Title:            title,
			Subtitle:         query,
			Balance:          domain.Sentinel,
			USD:              domain.Sentinel,
			USDBalance:       domain.Sentinel,
			TotalReceived:    domain.Sentinel,
			TotalSent:        domain.Sentinel,
			USDTotalReceived: domain.Sentinel,
			USDTotalSent:     domain.Sentinel,
			TxCount:          domain.Sentinel,
			Status:           domain.StatusMock,
		},
		Txs:  []domain.UnifiedTransaction{},
		Nfts: []domain.NftItem{},
	}
}

func unify(t chain.Transfer, network domain.Network, price decimal.Decimal, priceOK bool) domain.UnifiedTransaction {
	u := domain.UnifiedTransaction{
		ID:        t.ID,
		Timestamp: t.Timestamp,
		Kind:      t.Direction,
		Symbol:    domain.NetworkSymbol[network],
		From:      t.From,
		To:        t.To,
		Type:      t.Type,
	}
	if u.Kind == "" {
		u.Kind = domain.DirectionOther
	}
	if t.ID != "" {
		u.ExplorerURL = ExplorerURL(network, domain.KindTx, t.ID)
	}
	if t.Amount != nil {
		amount := t.Amount.InexactFloat64()
		u.Amount = &amount
		if priceOK {
			usd := t.Amount.Mul(price).InexactFloat64()
			u.AmountUSD = &usd
		}
	}
	return u
}

func txCount(account *chain.Account, activity *chain.Activity) string {
	if activity.TxCount != "" {
		return activity.TxCount
	}
	if account.TxCount != "" {
		return account.TxCount
	}
	return domain.Sentinel
}

func titleOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
