// Copyright 2025 Jurisnorm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jurisnorm/jurisnorm"
	"github.com/jurisnorm/jurisnorm/analysis"
	"github.com/jurisnorm/jurisnorm/cluster"
	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/normalize"
	"github.com/jurisnorm/jurisnorm/storage"
)

const dateLayout = "2006-01-02"

func main() {
	app := &cli.App{
		Name:  "jurisnorm",
		Usage: "Jurisprudence metadata normalization toolkit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "fields",
				Usage:  "List the normalizable metadata fields",
				Action: fieldsCommand,
			},
			{
				Name:   "analyze",
				Usage:  "Cluster a field's vocabulary into likely variant groups",
				Action: analyzeCommand,
				Flags: append(commonFlags(),
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity for linking two terms (0.70 to 1.00)",
						Value: cluster.DefaultThreshold,
					},
					&cli.IntFlag{
						Name:  "cap",
						Usage: "Maximum number of terms to analyze, by descending frequency",
						Value: cluster.DefaultCap,
					},
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Write the clusters to a CSV file",
					},
				),
			},
			{
				Name:   "rare",
				Usage:  "List a field's rare terms",
				Action: rareCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "max-count",
						Usage: "Maximum document count for a term to be rare",
						Value: 1,
					},
				),
			},
			{
				Name:   "timeline",
				Usage:  "Show document counts over time",
				Action: timelineCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:  "interval",
						Usage: "Bucket width (day, week, month, year)",
						Value: "month",
					},
					&cli.StringFlag{
						Name:  "min-date",
						Usage: "Only count decisions on or after this date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "max-date",
						Usage: "Only count decisions on or before this date (YYYY-MM-DD)",
					},
					&cli.BoolFlag{
						Name:  "eclis",
						Usage: "List the ECLIs inside each bucket",
					},
				),
			},
			{
				Name:   "normalize",
				Usage:  "Rewrite one term to another across the document store",
				Action: normalizeCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "field",
						Aliases:  []string{"f"},
						Usage:    "Field to rewrite",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Term to rewrite",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Replacement term",
						Required: true,
					},
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts per document",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func commonFlags() []cli.Flag {
	return append(dbFlags(),
		&cli.StringFlag{
			Name:     "field",
			Aliases:  []string{"f"},
			Usage:    "Field to inspect",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "min-date",
			Usage: "Only count decisions on or after this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "max-date",
			Usage: "Only count decisions on or before this date (YYYY-MM-DD)",
		},
	)
}

func fieldsCommand(c *cli.Context) error {
	for _, field := range core.DefaultFields() {
		fmt.Printf("%s\t%s\n", field.Key, field.Label)
	}
	return nil
}

func analyzeCommand(c *cli.Context) error {
	db, err := jurisnorm.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	analyzer, err := db.NewAnalyzer()
	if err != nil {
		return err
	}

	cfg := cluster.Config{
		Cap:       c.Int("cap"),
		Threshold: c.Float64("threshold"),
	}

	report, err := analyzer.AnalyzeField(c.Context, c.String("field"), filters, cfg)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if report.Truncated {
		fmt.Fprintln(os.Stderr, "warning: vocabulary exceeds analysis bounds, rare terms were not compared")
	}

	if path := c.String("csv"); path != "" {
		if err := writeClustersCSV(path, report); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d clusters to %s\n", len(report.Clusters), path)
		return nil
	}

	printReport(report)
	return nil
}

func printReport(report *analysis.Report) {
	if len(report.Clusters) == 0 {
		fmt.Printf("No variant clusters found in %q (%d terms)\n", report.Field, len(report.Terms))
		return
	}

	fmt.Printf("%d variant clusters in %q (%d terms)\n\n", len(report.Clusters), report.Field, len(report.Terms))
	for _, cl := range report.Clusters {
		fmt.Printf("%s (%d docs)\n", cl.Canonical.Key, cl.Canonical.Frequency)
		for _, ir := range cl.Irregulars {
			marker := "typo?"
			if ir.IsAlternative {
				marker = "alternative"
			}
			fmt.Printf("  %-40s %4d docs  %.3f  %s\n", ir.Term.Key, ir.Term.Frequency, ir.Similarity, marker)
		}
		fmt.Println()
	}
}

func writeClustersCSV(path string, report *analysis.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"canonical", "term", "frequency", "similarity", "alternative"}); err != nil {
		return err
	}
	for _, cl := range report.Clusters {
		row := []string{cl.Canonical.Key, cl.Canonical.Key, strconv.Itoa(cl.Canonical.Frequency), "1.000", "false"}
		if err := w.Write(row); err != nil {
			return err
		}
		for _, ir := range cl.Irregulars {
			row := []string{
				cl.Canonical.Key,
				ir.Term.Key,
				strconv.Itoa(ir.Term.Frequency),
				strconv.FormatFloat(ir.Similarity, 'f', 3, 64),
				strconv.FormatBool(ir.IsAlternative),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

func rareCommand(c *cli.Context) error {
	db, err := jurisnorm.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	analyzer, err := db.NewAnalyzer()
	if err != nil {
		return err
	}

	terms, err := analyzer.RareTerms(c.Context, c.String("field"), filters, c.Int("max-count"))
	if err != nil {
		return fmt.Errorf("rare term lookup failed: %w", err)
	}

	for _, term := range terms {
		fmt.Printf("%4d  %s\n", term.Frequency, term.Key)
	}
	fmt.Fprintf(os.Stderr, "%d rare terms\n", len(terms))
	return nil
}

func timelineCommand(c *cli.Context) error {
	db, err := jurisnorm.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	interval := storage.Interval(c.String("interval"))
	buckets, err := db.TermCatalog().Timeline(c.Context, interval, filters)
	if err != nil {
		return fmt.Errorf("timeline failed: %w", err)
	}

	for _, bucket := range buckets {
		fmt.Printf("%s  %5d\n", bucket.Date.Format(dateLayout), bucket.Count)
		if c.Bool("eclis") {
			for _, ecli := range bucket.ECLIs {
				fmt.Printf("           %s\n", ecli)
			}
		}
	}
	return nil
}

// progressMonitor prints per-document outcomes during a bulk rewrite.
type progressMonitor struct{}

func (m *progressMonitor) Start(request core.NormalizationRequest, affected int) {
	fmt.Fprintf(os.Stderr, "Rewriting %d documents...\n", affected)
}

func (m *progressMonitor) DocumentUpdated(id core.ID, ecli string) {}

func (m *progressMonitor) DocumentFailed(id core.ID, ecli string, err error) {
	fmt.Fprintf(os.Stderr, "  failed: %s: %v\n", ecli, err)
}

func (m *progressMonitor) Finish(result *normalize.Result) {}

func normalizeCommand(c *cli.Context) error {
	db, err := jurisnorm.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	exec, err := db.NewExecutor(
		normalize.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		normalize.WithMonitor(&progressMonitor{}),
	)
	if err != nil {
		return err
	}
	defer exec.Release()

	request := core.NormalizationRequest{
		Field:     c.String("field"),
		FromValue: c.String("from"),
		ToValue:   c.String("to"),
	}

	affected, truncated, err := exec.AffectedCount(c.Context, request)
	if err != nil {
		return err
	}
	if affected == 0 {
		fmt.Printf("No documents carry %q in %q; nothing to do.\n", request.FromValue, request.Field)
		return nil
	}

	fmt.Printf("Field:    %s\n", request.Field)
	fmt.Printf("Rewrite:  %q -> %q\n", request.FromValue, request.ToValue)
	fmt.Printf("Affected: %d documents", affected)
	if truncated {
		fmt.Printf(" (more beyond the lookup limit; rerun to finish)")
	}
	fmt.Println()

	if !c.Bool("yes") && !confirm() {
		fmt.Println("Aborted.")
		return nil
	}

	result, err := exec.Normalize(c.Context, request)
	if err != nil {
		if result != nil {
			fmt.Fprintf(os.Stderr, "Updated %d of %d documents\n", result.UpdatedCount, len(result.Documents))
		}
		return err
	}

	fmt.Printf("Updated %d documents.\n", result.UpdatedCount)
	if result.Partial {
		fmt.Println("More documents matched than one run covers; rerun the same command to finish.")
	}

	return refreshCatalog(c, db, request.Field)
}

// refreshCatalog re-reads the field's vocabulary after a merge so the
// operator sees the post-rewrite counts, not stale ones.
func refreshCatalog(c *cli.Context, db *jurisnorm.Database, field string) error {
	terms, _, err := db.TermCatalog().FetchTerms(c.Context, field, core.FilterSet{}, 10)
	if err != nil {
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	fmt.Printf("\nTop terms in %q now:\n", field)
	for _, term := range terms {
		fmt.Printf("%5d  %s\n", term.Frequency, term.Key)
	}
	return nil
}

func confirm() bool {
	fmt.Print("Proceed? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func parseFilters(c *cli.Context) (core.FilterSet, error) {
	var filters core.FilterSet

	if raw := c.String("min-date"); raw != "" {
		ts, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filters, fmt.Errorf("invalid min-date %q: %w", raw, err)
		}
		filters.MinDate = ts
	}
	if raw := c.String("max-date"); raw != "" {
		ts, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filters, fmt.Errorf("invalid max-date %q: %w", raw, err)
		}
		// Inclusive upper bound: cover the whole day
		filters.MaxDate = ts.Add(24*time.Hour - time.Nanosecond)
	}

	return filters, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
