package ton

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/chain"
	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAdapter(provider.NewHTTPProvider(provider.Config{
		Name:    "tonapi-mock",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}))
}

func TestAdapter_FetchAccountAndActivity(t *testing.T) {
	h := sampleHash()
	self := encodeFriendly(tagNonBounceable, 0, h)
	selfRaw := Canonical(self)
	other := "0:" + strings.Repeat("1", 64)

	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/accounts/" + selfRaw:
			fmt.Fprint(w, `{"balance": 2500000000, "status": "active", "is_wallet": true, "interfaces": ["wallet_v4r2"]}`)
		case "/v2/accounts/" + selfRaw + "/events":
			if r.URL.Query().Get("limit") != "30" {
				t.Errorf("expected limit=30, got %s", r.URL.RawQuery)
			}
			fmt.Fprintf(w, `{"events": [
				{"event_id": "e1", "timestamp": 1700000000, "actions": [
					{"type": "TonTransfer", "TonTransfer": {"amount": 1000000000, "sender": {"address": %q}, "recipient": {"address": %q}}}
				]},
				{"event_id": "e2", "timestamp": 1700000100, "actions": [
					{"type": "TonTransfer", "TonTransfer": {"amount": 250000000, "sender": {"address": %q}, "recipient": {"address": %q}}}
				]},
				{"event_id": "e3", "actions": [
					{"type": "JettonTransfer", "JettonTransfer": {"amount": "5000000", "sender": {"address": %q}, "recipient": {"address": %q}}}
				]},
				{"event_id": "e4", "actions": [{"type": "ContractDeploy"}]}
			]}`, other, strings.ToUpper(selfRaw), self, other, other, self)
		case "/v2/accounts/" + selfRaw + "/nfts":
			fmt.Fprint(w, `{"nft_items": [
				{"address": "0:aa", "metadata": {"name": "Punk", "image": "https://img/punk.png"}, "collection": {"name": "Punks"}},
				{"address": "0:bb", "previews": [{"url": "https://img/p.png"}]}
			]}`)
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	acct, err := adapter.FetchAccount(ctx, adapter.Normalize(self))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.Balance.String() != "2.5" {
		t.Errorf("expected balance 2.5, got %s", acct.Balance)
	}
	if acct.Title != "Wallet" || acct.Status != "active" || acct.ContractType != "wallet_v4r2" {
		t.Errorf("unexpected account metadata: %+v", acct)
	}

	activity := adapter.FetchActivity(ctx, acct)
	if len(activity.Transfers) != 4 {
		t.Fatalf("expected 4 transfers, got %d", len(activity.Transfers))
	}

	want := []domain.Direction{domain.DirectionIn, domain.DirectionOut, domain.DirectionIn, domain.DirectionOther}
	for i, tr := range activity.Transfers {
		if tr.Direction != want[i] {
			t.Errorf("transfer %s: expected %s, got %s", tr.ID, want[i], tr.Direction)
		}
	}
	if a := activity.Transfers[0].Amount; a == nil || a.String() != "1" {
		t.Errorf("expected 1 TON, got %v", a)
	}
	if activity.Transfers[2].Amount != nil {
		t.Error("jetton amount must not be counted as TON")
	}
	if activity.Transfers[0].To != Friendly(self) {
		t.Errorf("expected friendly recipient, got %s", activity.Transfers[0].To)
	}
	if activity.TxCount != "4" {
		t.Errorf("expected tx count 4, got %q", activity.TxCount)
	}

	if len(activity.NFTs) != 2 {
		t.Fatalf("expected 2 nfts, got %d", len(activity.NFTs))
	}
	if activity.NFTs[0].Collection != "Punks" || activity.NFTs[0].Image != "https://img/punk.png" {
		t.Errorf("unexpected nft: %+v", activity.NFTs[0])
	}
	if activity.NFTs[1].Name != "NFT" || activity.NFTs[1].Image != "https://img/p.png" {
		t.Errorf("unexpected nft fallbacks: %+v", activity.NFTs[1])
	}
}

func TestAdapter_SecondaryFailuresDegradeIndependently(t *testing.T) {
	raw := "0:" + strings.Repeat("2", 64)
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/accounts/" + raw + "/events":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/v2/accounts/" + raw + "/nfts":
			fmt.Fprint(w, `{"items": [{"nft_address": "0:cc", "name": "Ticket"}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	activity := adapter.FetchActivity(context.Background(), &chain.Account{Address: raw})
	if len(activity.Transfers) != 0 {
		t.Errorf("expected no transfers, got %d", len(activity.Transfers))
	}
	if activity.TxCount != "" {
		t.Errorf("expected unknown tx count, got %q", activity.TxCount)
	}
	if len(activity.NFTs) != 1 || activity.NFTs[0].Address != "0:cc" {
		t.Errorf("expected nft from fallback list, got %+v", activity.NFTs)
	}
}

func TestAdapter_AccountFailure(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	if _, err := adapter.FetchAccount(context.Background(), "0:"+strings.Repeat("3", 64)); err == nil {
		t.Fatal("expected error")
	}
}
