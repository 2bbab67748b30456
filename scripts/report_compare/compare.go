package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"
)

var reportPaths = []string{"attendance", "exams", "finances", "students"}

type target struct {
	Path  string
	Query url.Values
}

func (t target) String() string {
	if len(t.Query) == 0 {
		return t.Path
	}
	return t.Path + "?" + t.Query.Encode()
}

type comparison struct {
	Target            target
	CandidateStatus   int
	BaselineStatus    int
	BodyMatch         bool
	Error             error
	CandidateDuration time.Duration
	BaselineDuration  time.Duration
}

func (c comparison) ok() bool {
	return c.Error == nil && c.CandidateStatus == c.BaselineStatus && c.BodyMatch
}

// buildTargets lists the filter options endpoint plus every report under every date range.
func buildTargets(prefix string, ranges []string) []target {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	targets := []target{{Path: prefix + "/reports/filters"}}
	for _, report := range reportPaths {
		targets = append(targets, target{Path: prefix + "/reports/" + report})
		for _, dateRange := range ranges {
			targets = append(targets, target{
				Path:  prefix + "/reports/" + report,
				Query: url.Values{"date_range": []string{dateRange}},
			})
		}
	}
	return targets
}

func compareTarget(client *http.Client, candidateBase, baselineBase string, tgt target) comparison {
	comp := comparison{Target: tgt}

	candidateStatus, candidateBody, candidateDur, err := fetch(client, candidateBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("candidate request failed: %w", err)
		return comp
	}
	baselineStatus, baselineBody, baselineDur, err := fetch(client, baselineBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("baseline request failed: %w", err)
		return comp
	}

	comp.CandidateStatus, comp.BaselineStatus = candidateStatus, baselineStatus
	comp.CandidateDuration, comp.BaselineDuration = candidateDur, baselineDur
	comp.BodyMatch = payloadsEqual(candidateBody, baselineBody)
	return comp
}

func fetch(client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	endpoint := strings.TrimRight(base, "/") + tgt.String()
	start := time.Now()
	resp, err := client.Get(endpoint)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// payloadsEqual compares two envelopes on data and error only.
func payloadsEqual(a, b []byte) bool {
	var left, right map[string]interface{}
	if err := json.Unmarshal(a, &left); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &right); err != nil {
		return false
	}
	delete(left, "meta")
	delete(right, "meta")
	return reflect.DeepEqual(left, right)
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Report Compare")
	fmt.Fprintln(w, "==============")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Error != nil:
			status = "ERROR"
		case !res.ok():
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] GET %s\n", status, res.Target)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		fmt.Fprintf(w, "  Candidate: %d (%s) | Baseline: %d (%s) | Body match: %t\n",
			res.CandidateStatus, res.CandidateDuration, res.BaselineStatus, res.BaselineDuration, res.BodyMatch)
	}
}
