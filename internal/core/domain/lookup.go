package domain

import "encoding/json"

// Kind says whether an input is an account or a single transfer.
type Kind string

const (
	KindAddress Kind = "address"
	KindTx      Kind = "tx"
	KindUnknown Kind = "unknown"
)

// Sentinel marks a value that could not be resolved. It is never rendered as zero.
const Sentinel = "—"

// StatusMock is the summary status of a degraded result built without provider data.
const StatusMock = "mock"

// Classification is the result of inspecting a raw query.
type Classification struct {
	Kind    Kind    `json:"kind"`
	Network Network `json:"network"`
}

// Summary is the display-oriented aggregate for a looked up account.
type Summary struct {
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	Balance          string `json:"balance"`
	USD              string `json:"usd"`
	USDBalance       string `json:"usdBalance"`
	TotalReceived    string `json:"totalReceived"`
	TotalSent        string `json:"totalSent"`
	USDTotalReceived string `json:"usdTotalReceived"`
	USDTotalSent     string `json:"usdTotalSent"`
	TxCount          string `json:"txCount"`
	Status           string `json:"status"`
	ContractType     string `json:"contractType,omitempty"`
}

// LookupResult is the response envelope of a lookup. When OK is false only Error is meaningful.
type LookupResult struct {
	OK          bool                 `json:"ok"`
	Kind        Kind                 `json:"kind"`
	Network     Network              `json:"network"`
	Normalized  string               `json:"normalized,omitempty"`
	ExplorerURL string               `json:"explorerUrl,omitempty"`
	Summary     *Summary             `json:"summary,omitempty"`
	Txs         []UnifiedTransaction `json:"txs"`
	Nfts        []NftItem            `json:"nfts"`
	Raw         any                  `json:"raw"`
	Error       string               `json:"error,omitempty"`
}

// FailedLookup builds an ok=false envelope.
func FailedLookup(c Classification, msg string) *LookupResult {
	return &LookupResult{
		OK:      false,
		Kind:    c.Kind,
		Network: c.Network,
		Error:   msg,
	}
}

type failedLookupJSON struct {
	OK      bool    `json:"ok"`
	Kind    Kind    `json:"kind,omitempty"`
	Network Network `json:"network,omitempty"`
	Error   string  `json:"error"`
}

// MarshalJSON writes only ok, kind, network and error for a failed lookup.
func (r LookupResult) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return json.Marshal(failedLookupJSON{OK: false, Kind: r.Kind, Network: r.Network, Error: r.Error})
	}
	type envelope LookupResult
	return json.Marshal(envelope(r))
}
