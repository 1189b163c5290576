package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"persian-pages/config"
	"persian-pages/constants"
	"persian-pages/database"
	"persian-pages/logger"
	"persian-pages/services/scrape"

	"github.com/joho/godotenv"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run tools/migrate.go migrate                                   - Migrate tables and seed categories")
	fmt.Println("  go run tools/migrate.go scrape [--city X] [--country ca] [--limit N] [--dry-run]")
	fmt.Println("                                                                    - Scrape one city (auto-picked without --city)")
	fmt.Println("  go run tools/migrate.go fix-phones [--dry-run]                    - Normalize stored phones to E.164")
	fmt.Println("  go run tools/migrate.go cities [--country ca]                     - List scrapeable cities")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file loaded: " + err.Error())
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "migrate":
		fmt.Println("🚀 Running database migrations...")
		_, err = database.InitDB(cfg)
		if err == nil {
			fmt.Println("✅ Migration completed successfully!")
		}

	case "scrape":
		err = runScrape(ctx, cfg, args)

	case "fix-phones":
		err = runFixPhones(ctx, cfg, args)

	case "cities":
		err = listCities(args)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Available commands: migrate, scrape, fix-phones, cities")
		os.Exit(2)
	}

	if err != nil {
		fmt.Printf("❌ %s failed: %v\n", command, err)
		os.Exit(1)
	}
}

func runScrape(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	city := fs.String("city", "", "city to scrape (English name)")
	country := fs.String("country", "", "restrict automatic city choice to an ISO country code")
	limit := fs.Int("limit", constants.DefaultCLIScrapeLimit, "maximum listings to import")
	dryRun := fs.Bool("dry-run", false, "classify without importing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	pipeline, err := scrape.NewPipelineFromConfig(ctx, db, cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(ctx, scrape.Options{
		City:    *city,
		Country: *country,
		DryRun:  *dryRun,
		Limit:   *limit,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runFixPhones(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("fix-phones", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report changes without writing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	result, err := scrape.FixPhones(ctx, db, *dryRun)
	if err != nil {
		return err
	}
	for _, line := range result.Changes {
		fmt.Println("  " + line)
	}
	fmt.Printf("📞 fixed: %d, already ok: %d, failed: %d, total: %d\n", result.Fixed, result.AlreadyOk, result.Failed, result.Total)
	return nil
}

func listCities(args []string) error {
	fs := flag.NewFlagSet("cities", flag.ExitOnError)
	country := fs.String("country", "", "ISO country code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, c := range scrape.CandidateCities(*country) {
		fmt.Printf("  [%d] %-20s %s, %s (%s)\n", c.Priority, c.NameEn, c.Name, c.Country, strings.ToUpper(c.CountryCode))
	}
	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
