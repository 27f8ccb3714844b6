package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pagepulse/post-insights/internal/analysis"
	"github.com/pagepulse/post-insights/internal/categorize"
	"github.com/pagepulse/post-insights/internal/ingest"
	"github.com/pagepulse/post-insights/internal/models"
	"github.com/pagepulse/post-insights/internal/report"
	"github.com/pagepulse/post-insights/internal/storage"
	"github.com/sirupsen/logrus"
)

// analyze-file runs the insights pipeline over a local export file,
// without any API credentials or server.
func main() {
	var (
		file           = flag.String("file", "", "Path to a JSON export of posts (required)")
		topN           = flag.Int("top-n", 5, "How many top-performing posts to highlight")
		sinceDays      = flag.Int("since-days", 365, "Lookback window in days")
		categoryConfig = flag.String("category-config", "", "Optional JSON file with category -> keywords mapping")
		asJSON         = flag.Bool("json", false, "Emit raw JSON instead of a human-readable report")
		outputDir      = flag.String("output-dir", "", "Also store the result JSON in this directory")
		verbose        = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	logrus.SetLevel(logrus.InfoLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "error: --file is required")
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		logrus.Fatalf("Failed to read export file: %v", err)
	}

	rules := categorize.DefaultRuleset()
	if *categoryConfig != "" {
		configData, err := os.ReadFile(*categoryConfig)
		if err != nil {
			logrus.Fatalf("Failed to read category config: %v", err)
		}
		rules, err = categorize.ParseRules(configData)
		if err != nil {
			logrus.Warnf("Falling back to default category ruleset: %v", err)
		}
	}

	posts, dropped := ingest.Load(data)
	logrus.Infof("Loaded %d posts from %s (%d records dropped)", len(posts), *file, dropped)

	result := analysis.Analyze(posts, models.AnalysisOptions{
		TopN:         *topN,
		LookbackDays: *sinceDays,
	}, rules)

	if *outputDir != "" {
		if err := storeResult(result, *outputDir); err != nil {
			logrus.Errorf("Failed to store result: %v", err)
		}
	}

	if *asJSON {
		out, err := report.RenderJSON(result)
		if err != nil {
			logrus.Fatalf("Failed to serialize result: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println(report.RenderText(result))
}

func storeResult(result *models.AnalysisResult, dir string) error {
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		return err
	}

	data, err := report.RenderJSON(result)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("analysis-%s.json", time.Now().Format("2006-01-02-15-04-05"))
	return store.Store(filename, data)
}
