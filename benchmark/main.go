// Package main provides a performance benchmarking tool for the pulse aggregation core.
// It measures aggregation, interpolation and merge times across raw logs of different sizes,
// running each test multiple times, treating the first run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Usage: go run benchmark/main.go [output-dir]
//
//	output-dir: Directory to write benchmark_results.csv to
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/communitypulse/pulse/core"
	"github.com/communitypulse/pulse/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Scenario string
	Days     int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	OutputDir string
	WarmRuns  int
	DayCounts []int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [output-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		OutputDir: os.Args[1],
		WarmRuns:  4,
		DayCounts: []int{365, 1825, 3650, 18250},
	}

	if _, err := os.Stat(config.OutputDir); os.IsNotExist(err) {
		fmt.Printf("Output directory %s not found\n", config.OutputDir)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(config, results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes all benchmark scenarios across configured log sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	now := time.Now().UTC()
	for _, days := range config.DayCounts {
		log := syntheticRawLog(days, now)
		anchors := syntheticAnchors(days / 30)

		scenarios := map[string]func(){
			"aggregate": func() {
				_ = core.BuildHistory(log, now)
			},
			"interpolate": func() {
				_, _ = core.Interpolate(anchors, schema.FamilyMetrics[schema.GitHubFamily])
			},
			"merge": func() {
				hist := core.BuildHistory(log, now)
				_, _, _ = core.Merge(hist.Monthly, anchors, schema.FamilyMetrics[schema.GitHubFamily], "", 25, 5.0)
			},
		}

		for name, fn := range scenarios {
			fmt.Printf("Benchmarking %s over %d days...\n", name, days)
			cold := timeOnce(fn)

			var warmTotal time.Duration
			for range config.WarmRuns {
				warmTotal += timeOnce(fn)
			}
			warm := warmTotal / time.Duration(config.WarmRuns)

			results = append(results, BenchmarkResult{
				Scenario: name,
				Days:     days,
				ColdTime: cold.String(),
				WarmTime: warm.String(),
			})
		}
	}

	return results
}

// timeOnce measures a single execution of fn.
func timeOnce(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

// syntheticRawLog builds a raw log with one entry per day ending today.
func syntheticRawLog(days int, now time.Time) *schema.RawLog {
	log := &schema.RawLog{}
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		log.Upsert(schema.DataPoint{
			Date:       day.Format(schema.DateFormat),
			Stars:      schema.IntPtr(1000 + i),
			Forks:      schema.IntPtr(100 + i/7),
			OpenIssues: schema.IntPtr(50 + i%40),
			Source:     schema.SourceGitHubAPI,
		})
	}
	return log
}

// syntheticAnchors builds a sparse ascending monthly series.
func syntheticAnchors(months int) []schema.DataPoint {
	if months < 2 {
		months = 2
	}
	var anchors []schema.DataPoint
	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < months; i += 3 {
		month := start.AddDate(0, i, 0)
		anchors = append(anchors, schema.DataPoint{
			Date:   month.Format("2006-01"),
			Stars:  schema.IntPtr(500 * (i + 1)),
			Source: schema.SourceWayback,
		})
	}
	return anchors
}

// saveResults writes benchmark results to a CSV file
func saveResults(config BenchmarkConfig, results []BenchmarkResult) error {
	outputPath := filepath.Join(config.OutputDir, "benchmark_results.csv")
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"scenario", "days", "cold_time", "warm_time"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{r.Scenario, fmt.Sprintf("%d", r.Days), r.ColdTime, r.WarmTime}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	fmt.Printf("Results saved to %s\n", outputPath)
	return nil
}

// printSummary prints a human-readable summary of all results
func printSummary(results []BenchmarkResult) {
	fmt.Println("\n=== Benchmark Summary ===")
	for _, r := range results {
		fmt.Printf("%-12s %6d days  cold=%-12s warm=%s\n", r.Scenario, r.Days, r.ColdTime, r.WarmTime)
	}
}
