package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/chainlens/internal/control"
	"github.com/vietddude/chainlens/internal/core/domain"
)

var lookupNetwork string

var lookupCmd = &cobra.Command{
	Use:   "lookup [query]",
	Short: "Look up an address and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	Run:   runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupNetwork, "network", "", "force a network (TON, BTC, LTC, ETH, TRON)")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) {
	network, ok := domain.ParseNetwork(lookupNetwork)
	if !ok {
		fmt.Printf("Unsupported network: %s\n", lookupNetwork)
		os.Exit(1)
	}

	cfg := loadConfig(cmd)
	engine, providers, err := control.NewEngine(cfg)
	if err != nil {
		slog.Error("Failed to build lookup engine", "error", err)
		os.Exit(1)
	}
	defer func() {
		for _, p := range providers {
			_ = p.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Upstream.Timeout)
	defer cancel()

	res, lookupErr := engine.Lookup(ctx, args[0], network)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		slog.Error("Failed to encode result", "error", err)
		os.Exit(1)
	}
	if lookupErr != nil {
		os.Exit(1)
	}
}
