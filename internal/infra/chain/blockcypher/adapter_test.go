package blockcypher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
)

const ethAddr = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

func TestAdapter_ETH(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/eth/main/addrs/"+ethAddr || r.URL.Query().Get("limit") != "30" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"balance": 1500000000000000000,
			"total_received": 3000000000000000000,
			"total_sent": 1500000000000000000,
			"n_tx": 3,
			"txrefs": [
				{"tx_hash": "aa", "tx_input_n": -1, "tx_output_n": 0, "value": 2000000000000000000, "confirmed": "2024-01-02T03:04:05Z"},
				{"tx_hash": "bb", "tx_input_n": 0, "tx_output_n": -1, "value": 1500000000000000000},
				{"hash": "cc", "tx_input_n": 1, "tx_output_n": 2, "value": 7}
			]
		}`)
	}))
	defer server.Close()

	adapter, err := NewAdapter(domain.NetworkETH, provider.NewHTTPProvider(provider.Config{
		Name:    "blockcypher-mock",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}))
	require.NoError(t, err)

	ctx := context.Background()
	acct, err := adapter.FetchAccount(ctx, adapter.Normalize("  "+ethAddr+" "))
	require.NoError(t, err)

	assert.Equal(t, "1.5", acct.Balance.String())
	assert.Equal(t, "3", acct.TotalReceived.String())
	assert.Equal(t, "1.5", acct.TotalSent.String())
	assert.Equal(t, "3", acct.TxCount)
	assert.Equal(t, "Wallet", acct.Title)

	activity := adapter.FetchActivity(ctx, acct)
	require.Len(t, activity.Transfers, 3)

	in, out, other := activity.Transfers[0], activity.Transfers[1], activity.Transfers[2]
	assert.Equal(t, domain.DirectionIn, in.Direction)
	assert.Equal(t, "2", in.Amount.String())
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Unix(), in.Timestamp)
	assert.Empty(t, in.From)
	assert.Equal(t, ethAddr, in.To)

	assert.Equal(t, domain.DirectionOut, out.Direction)
	assert.Equal(t, ethAddr, out.From)
	assert.Empty(t, out.To)
	assert.Zero(t, out.Timestamp)

	assert.Equal(t, "cc", other.ID)
	assert.Equal(t, domain.DirectionOther, other.Direction)
}

func TestAdapter_Unreachable(t *testing.T) {
	adapter, err := NewAdapter(domain.NetworkBTC, provider.NewHTTPProvider(provider.Config{
		Name:    "blockcypher-down",
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Second,
	}))
	require.NoError(t, err)

	_, err = adapter.FetchAccount(context.Background(), "1BoatSLRHtKNngkdXEeobR76b53LETtpyT")
	assert.Error(t, err)
}

func TestNewAdapter_Unsupported(t *testing.T) {
	_, err := NewAdapter(domain.NetworkTON, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestParseTxRefs_Limit(t *testing.T) {
	refs := make([]any, 45)
	for i := range refs {
		refs[i] = map[string]any{"tx_hash": fmt.Sprint(i)}
	}
	assert.Len(t, ParseTxRefs(refs, "addr", domain.NetworkBTC), 30)
}
