package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/flipforge/dealshield/internal/config"
	"github.com/flipforge/dealshield/internal/workbench"
	"github.com/flipforge/dealshield/pkg/dealapi"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dealshield",
	Short: "Deal draft and verdict reconciliation client",
	Long: "Drafts flip, BRRRR and wholesale deals from listings, finalizes them against the analysis service, " +
		"and explains the verdict: conflicts, breakpoints, risk flags and the integrity gate on lender outputs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newClient builds the analysis service client from config.
func newClient() dealapi.Client {
	return dealapi.NewClient(
		dealapi.WithBaseURL(cfg.API.BaseURL),
		dealapi.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout()}),
		dealapi.WithLimiter(rate.NewLimiter(rate.Limit(cfg.API.RatePerSec), cfg.API.Burst)),
	)
}

// newWorkbench builds a session over the configured client.
func newWorkbench(cmd *cobra.Command) *workbench.Workbench {
	w := workbench.New(newClient(), financing(cmd))
	if addr, _ := cmd.Flags().GetString("address"); addr != "" {
		w.SetManualAddress(addr)
	}
	return w
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, dealapi.UserMessage(err))
		os.Exit(1)
	}
}
