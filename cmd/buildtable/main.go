// Command buildtable turns a produce season sheet (CSV or XLSX) into the
// season table artifact served by inseason, and optionally publishes it to
// Kafka.
//
// Usage:
//
//	go run ./cmd/buildtable \
//	  -in data/uk_seasonal_produce.csv \
//	  -out produce_data.json \
//	  -region UK
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	kafkaadapter "github.com/couchcryptid/seasonal-produce/internal/adapter/kafka"
	"github.com/couchcryptid/seasonal-produce/internal/adapter/spreadsheet"
	"github.com/couchcryptid/seasonal-produce/internal/adapter/tablestore"
	"github.com/couchcryptid/seasonal-produce/internal/config"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
	"github.com/couchcryptid/seasonal-produce/internal/pipeline"
)

type options struct {
	in      string
	out     string
	region  string
	sheet   string
	merge   bool
	publish bool
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "data/uk_seasonal_produce.csv", "season sheet to read (.csv, .xlsx)")
	flag.StringVar(&opts.out, "out", "produce_data.json", "season table artifact to write")
	flag.StringVar(&opts.region, "region", "UK", "region code the sheet describes")
	flag.StringVar(&opts.sheet, "sheet", "", "worksheet name for XLSX input (default: first sheet)")
	flag.BoolVar(&opts.merge, "merge", false, "keep other regions already present in -out")
	flag.BoolVar(&opts.publish, "publish", false, "also publish the table to KAFKA_TABLE_TOPIC")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, observability.NewMetrics()); err != nil {
		fmt.Fprintf(os.Stderr, "buildtable: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, metrics *observability.Metrics) error {
	region := strings.ToUpper(strings.TrimSpace(opts.region))
	if region == "" {
		return errors.New("-region is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	loaders := []pipeline.TableLoader{tablestore.NewFileWriter(opts.out, opts.merge, logger)}
	if opts.publish {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
	}

	reader := spreadsheet.NewReader(opts.in, opts.sheet)
	p := pipeline.New(reader, region, logger, metrics, loaders...)

	table, stats, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("season table built",
		"in", reader.Describe(),
		"out", opts.out,
		"regions", table.Regions(),
		"records", stats.Records,
		"placed", stats.Placed,
		"skipped", stats.Skipped,
	)
	return nil
}
