package domain

// Direction is the flow of a transaction relative to the queried address.
type Direction string

const (
	DirectionIn    Direction = "in"
	DirectionOut   Direction = "out"
	DirectionOther Direction = "other"
)

// UnifiedTransaction is the provider-agnostic transfer record every adapter populates.
type UnifiedTransaction struct {
	ID          string    `json:"id"`
	Timestamp   int64     `json:"timestamp,omitempty"`
	Kind        Direction `json:"kind"`
	Amount      *float64  `json:"amount,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	AmountUSD   *float64  `json:"amountUsd,omitempty"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Type        string    `json:"type,omitempty"`
	ExplorerURL string    `json:"explorerUrl,omitempty"`
}

// NftItem is a collectible owned by the queried account.
type NftItem struct {
	Address    string `json:"address"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	Collection string `json:"collection,omitempty"`
}
