// Command report_compare requests every report under a matrix of date ranges from two deployments
// and fails when their payloads differ. Response meta (cache hit, timings) is ignored.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	var (
		candidate string
		baseline  string
		prefix    string
		ranges    string
		timeout   time.Duration
	)

	flag.StringVar(&candidate, "candidate", "http://localhost:8080", "API under test")
	flag.StringVar(&baseline, "baseline", "http://localhost:8081", "reference API")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API prefix shared by both deployments")
	flag.StringVar(&ranges, "ranges", "current_month,previous_month,last_30_days,last_90_days,current_year", "comma-separated date_range values")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := buildTargets(prefix, splitList(ranges))
	if len(targets) == 0 {
		log.Fatal("no targets to compare")
	}

	client := &http.Client{Timeout: timeout}
	var diffs int
	results := make([]comparison, 0, len(targets))
	for _, t := range targets {
		res := compareTarget(client, candidate, baseline, t)
		if !res.ok() {
			diffs++
		}
		results = append(results, res)
	}

	printReport(os.Stdout, results)
	fmt.Printf("Targets: %d, diffs: %d\n", len(results), diffs)
	if diffs > 0 {
		os.Exit(1)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
