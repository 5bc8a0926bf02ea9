package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/config"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage"
	pgstore "github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.toml", "Path to TOML configuration file")
	limit := flag.Int("limit", 20, "Maximum number of rows to list (0 for all)")
	id := flag.Int64("id", 0, "Show a single opportunity by id")
	summary := flag.Bool("summary", false, "Print per-direction aggregates instead of rows")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pool, err := pgstore.NewPool(ctx, cfg.Detector.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := pgstore.NewOpportunityStore(pool)

	switch {
	case *id > 0:
		err = showOpportunity(ctx, store, *id)
	case *summary:
		err = showSummary(ctx, store)
	default:
		err = listOpportunities(ctx, store, *limit)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// showOpportunity prints every field of a single record.
func showOpportunity(ctx context.Context, store storage.OpportunityStore, id int64) error {
	o, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no opportunity with id %d", id)
		}
		return err
	}

	fmt.Printf("ID:          %d\n", o.ID)
	fmt.Printf("Buy DEX:     %s\n", o.BuyDEX)
	fmt.Printf("Sell DEX:    %s\n", o.SellDEX)
	fmt.Printf("Profit USDC: %.6f\n", o.ProfitUSDC)
	fmt.Printf("Timestamp:   %s\n", o.Timestamp.UTC().Format(time.RFC3339))
	return nil
}

// listOpportunities prints recent records newest first.
func listOpportunities(ctx context.Context, store storage.OpportunityStore, limit int) error {
	rows, err := store.List(ctx, limit, 0)
	if err != nil {
		return err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("No opportunities recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBUY\tSELL\tPROFIT_USDC\tTIMESTAMP")
	for _, o := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.6f\t%s\n",
			o.ID, o.BuyDEX, o.SellDEX, o.ProfitUSDC, o.Timestamp.UTC().Format(time.RFC3339))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nShowing %d of %d opportunities.\n", len(rows), total)
	return nil
}

// showSummary aggregates records per trade direction.
func showSummary(ctx context.Context, store storage.OpportunityStore) error {
	rows, err := store.List(ctx, 0, 0)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("No opportunities recorded yet.")
		return nil
	}

	type directionStats struct {
		count    int
		total    float64
		max      float64
		lastSeen time.Time
	}

	stats := make(map[string]*directionStats)
	order := make([]string, 0, 2)

	for _, o := range rows {
		key := fmt.Sprintf("%s -> %s", o.BuyDEX, o.SellDEX)
		s, ok := stats[key]
		if !ok {
			s = &directionStats{}
			stats[key] = s
			order = append(order, key)
		}
		s.count++
		s.total += o.ProfitUSDC
		if o.ProfitUSDC > s.max {
			s.max = o.ProfitUSDC
		}
		if o.Timestamp.After(s.lastSeen) {
			s.lastSeen = o.Timestamp
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DIRECTION\tCOUNT\tTOTAL_USDC\tMAX_USDC\tLAST_SEEN")
	for _, key := range order {
		s := stats[key]
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.6f\t%s\n",
			key, s.count, s.total, s.max, s.lastSeen.UTC().Format(time.RFC3339))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d opportunities total.\n", len(rows))
	return nil
}
