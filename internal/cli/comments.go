package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/chainlens/internal/control"
)

var commentsCmd = &cobra.Command{
	Use:   "comments [network] [address]",
	Short: "Show the comment thread of an address",
	Args:  cobra.ExactArgs(2),
	Run:   runComments,
}

func init() {
	rootCmd.AddCommand(commentsCmd)
}

func runComments(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	ctx := context.Background()
	app, err := control.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open comment storage", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	thread, err := app.Comments().List(ctx, args[0], args[1], "")
	if err != nil {
		slog.Error("Failed to list comments", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s:%s (%s, %d comments)\n", thread.Key.Network, thread.Key.Address, app.Comments().Storage(), len(thread.Comments))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tCREATED\tTEXT")
	for _, c := range thread.Comments {
		created := time.UnixMilli(c.CreatedAt).UTC().Format(time.RFC3339)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, created, c.Text)
	}
	_ = w.Flush()
}
