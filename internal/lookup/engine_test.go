package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/chain"
	"github.com/vietddude/chainlens/internal/infra/chain/blockcypher"
	"github.com/vietddude/chainlens/internal/infra/price"
	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
)

const ethAddr = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

func newProvider(name, baseURL string) *provider.HTTPProvider {
	return provider.NewHTTPProvider(provider.Config{Name: name, BaseURL: baseURL, Timeout: 2 * time.Second})
}

func newETHEngine(t *testing.T, blockcypherURL, coingeckoURL string, opts Options) *Engine {
	t.Helper()
	eth, err := blockcypher.NewAdapter(domain.NetworkETH, newProvider("blockcypher", blockcypherURL))
	require.NoError(t, err)
	oracle := price.NewOracle(newProvider("coingecko", coingeckoURL), price.Config{})
	return NewEngine(chain.NewRegistry(eth), oracle, opts)
}

func TestEngine_ETHEndToEnd(t *testing.T) {
	bc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"balance": 2000000000000000000,
			"total_received": 5000000000000000000,
			"total_sent": 3000000000000000000,
			"n_tx": 7,
			"txrefs": [{"tx_hash": "0xfeed", "tx_input_n": -1, "tx_output_n": 0, "value": 1000000000000000000, "confirmed": "2024-05-01T00:00:00Z"}]
		}`)
	}))
	defer bc.Close()
	cg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ethereum": {"usd": 3000}}`)
	}))
	defer cg.Close()

	engine := newETHEngine(t, bc.URL, cg.URL, Options{})
	res, err := engine.Lookup(context.Background(), "  "+ethAddr+"  ", domain.NetworkAuto)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, domain.KindAddress, res.Kind)
	assert.Equal(t, domain.NetworkETH, res.Network)
	assert.Equal(t, ethAddr, res.Normalized)
	assert.Equal(t, "https://etherscan.io/address/"+ethAddr, res.ExplorerURL)

	s := res.Summary
	assert.Equal(t, "2 ETH", s.Balance)
	assert.Equal(t, "$6000", s.USD)
	assert.Equal(t, "5 ETH", s.TotalReceived)
	assert.Equal(t, "3 ETH", s.TotalSent)
	assert.Equal(t, "$15000", s.USDTotalReceived)
	assert.Equal(t, "$9000", s.USDTotalSent)
	assert.Equal(t, "7", s.TxCount)
	assert.Equal(t, "ok", s.Status)

	require.Len(t, res.Txs, 1)
	tx := res.Txs[0]
	assert.Equal(t, domain.DirectionIn, tx.Kind)
	assert.Equal(t, "https://etherscan.io/tx/0xfeed", tx.ExplorerURL)
	require.NotNil(t, tx.AmountUSD)
	assert.InDelta(t, 3000, *tx.AmountUSD, 1e-9)
}

func TestEngine_UnreachableProviderServesMock(t *testing.T) {
	engine := newETHEngine(t, "http://127.0.0.1:1", "http://127.0.0.1:1", Options{})

	res, err := engine.Lookup(context.Background(), ethAddr, domain.NetworkAuto)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, domain.NetworkETH, res.Network)
	assert.Equal(t, domain.StatusMock, res.Summary.Status)
	assert.Equal(t, domain.Sentinel, res.Summary.Balance)
	assert.Equal(t, domain.Sentinel, res.Summary.USD)
	assert.Empty(t, res.Txs)
	assert.Empty(t, res.Nfts)
}

func TestEngine_PriceFailureOnlyBlanksUSD(t *testing.T) {
	bc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"balance": 1000000000000000000, "n_tx": 1}`)
	}))
	defer bc.Close()

	engine := newETHEngine(t, bc.URL, "http://127.0.0.1:1", Options{})
	res, err := engine.Lookup(context.Background(), ethAddr, domain.NetworkETH)
	require.NoError(t, err)

	assert.Equal(t, "1 ETH", res.Summary.Balance)
	assert.Equal(t, domain.Sentinel, res.Summary.USD)
	assert.Equal(t, domain.Sentinel, res.Summary.USDTotalSent)
}

func TestEngine_Rejections(t *testing.T) {
	engine := newETHEngine(t, "http://127.0.0.1:1", "http://127.0.0.1:1", Options{})
	ctx := context.Background()

	res, err := engine.Lookup(ctx, "   ", domain.NetworkAuto)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, res.OK)
	assert.Nil(t, res.Summary)

	res, err = engine.Lookup(ctx, "0x"+strings.Repeat("a", 64), domain.NetworkAuto)
	assert.ErrorIs(t, err, domain.ErrUnsupported)
	assert.Equal(t, domain.KindTx, res.Kind)

	_, err = engine.Lookup(ctx, "not a thing", domain.NetworkAuto)
	assert.ErrorIs(t, err, domain.ErrUnsupported)

	// No TRON adapter is registered in this engine.
	_, err = engine.Lookup(ctx, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", domain.NetworkAuto)
	assert.ErrorIs(t, err, domain.ErrUnsupported)
	assert.True(t, IsClientError(err))
}

func TestEngine_ForcedNetworkMismatch(t *testing.T) {
	btcAddr := "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"
	ctx := context.Background()

	permissive := newETHEngine(t, "http://127.0.0.1:1", "http://127.0.0.1:1", Options{})
	res, err := permissive.Lookup(ctx, btcAddr, domain.NetworkETH)
	require.NoError(t, err)
	assert.Equal(t, domain.NetworkETH, res.Network)
	assert.Equal(t, domain.StatusMock, res.Summary.Status)

	strict := newETHEngine(t, "http://127.0.0.1:1", "http://127.0.0.1:1", Options{StrictNetwork: true})
	res, err = strict.Lookup(ctx, btcAddr, domain.NetworkETH)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, res.OK)
}
