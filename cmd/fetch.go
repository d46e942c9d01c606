package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"trading-statistics/config"
	httpDelivery "trading-statistics/internal/delivery/http"
	"trading-statistics/internal/dto"
	"trading-statistics/internal/presenter"
	"trading-statistics/internal/repository"
	"trading-statistics/internal/service"
	"trading-statistics/pkg/cache"

	"github.com/spf13/cobra"
)

var (
	fetchAccountID string
	fetchTimeRange int
	fetchJSON      bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch statistics for one account and print them",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchAccountID, "account", "a", "", "trading account id")
	fetchCmd.Flags().IntVarP(&fetchTimeRange, "range", "r", dto.DefaultTimeRange, "time range in days (3, 7, 30, 90, 180, 365)")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the result as JSON")
	_ = fetchCmd.MarkFlagRequired("account")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	params := dto.QueryParameters{AccountID: fetchAccountID, TimeRange: fetchTimeRange}
	if err := httpDelivery.NewValidator().Struct(params); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	repo := repository.NewRepository(cfg, log)
	services := service.NewService(cfg, log, repo, cache.NewCache(time.Minute, time.Minute))

	result, err := services.StatisticsService.Fetch(cmd.Context(), params)
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), result, cfg.DisplayLocation(), fetchJSON)
}

func printResult(w io.Writer, result *dto.StatisticsResult, loc *time.Location, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if len(result.Points) == 0 {
		fmt.Fprintln(w, "No data available.")
		return nil
	}
	if err := presenter.WriteTable(w, result.Points, loc); err != nil {
		return err
	}
	return presenter.WriteSummary(w, result.Params, result.Summary)
}
