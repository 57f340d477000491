// Command rupeetrack-export writes a one-off workbook export. Without a
// configured spreadsheet it prints the workbook outline instead.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"rupeetrack/internal/cli"
	"rupeetrack/internal/core"
	"rupeetrack/internal/export"
	"rupeetrack/internal/log"
	"rupeetrack/internal/services"
	"rupeetrack/internal/sheets"
	"rupeetrack/internal/sheets/memory"
	"rupeetrack/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := cli.OpenBackend(ctx, cfg, logger)
	defer result.Close()

	st := store.New(ctx, result.Persister, store.WithLogger(logger))

	var writer sheets.WorkbookWriter = memory.New()
	if w := cli.NewSheetsWriter(ctx, cfg, logger); w != nil {
		writer = w
	}

	registry := core.DefaultRegistry()
	svc := services.NewExportService(st, export.NewBuilder(registry, registry), writer, logger)
	wb, err := svc.Export(ctx)
	if err != nil {
		logger.Error("Export failed", log.FieldError, err)
		result.Close()
		os.Exit(1)
	}

	fmt.Println(wb.Name)
	for _, sh := range wb.Sheets {
		fmt.Printf("  %-16s %d rows\n", sh.Name, len(sh.Rows))
	}
	totals := export.ComputeTotals(st.Snapshot())
	currency := st.Settings().Currency
	fmt.Printf("Total expenses: %s\n", core.FormatAmount(currency, totals.Expenses))
	fmt.Printf("Total budget:   %s\n", core.FormatAmount(currency, totals.Budget))
	fmt.Printf("Total savings:  %s\n", core.FormatAmount(currency, totals.Savings))
	fmt.Printf("Upcoming bills: %s\n", core.FormatAmount(currency, totals.UpcomingBills))
}
