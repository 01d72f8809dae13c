package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/emersion/go-mbox"
	"golang.org/x/sync/errgroup"

	"github.com/synqronlabs/mockingbird"
	"github.com/synqronlabs/mockingbird/dmarc"
)

// scanResult pairs one mbox message with its analysis outcome.
type scanResult struct {
	index  int
	report *mockingbird.Report
	err    error
}

// runScan analyzes every message in an mbox archive, printing one line
// per message in archive order followed by a per-organizational-domain
// summary. Messages without a usable From address are skipped rather
// than aborting the scan; only an unreadable archive exits 2.
func runScan(conf config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "scan expects exactly one mbox file")
		flag.Usage()
		return 2
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "mockingbird: %v\n", err)
		return 2
	}
	defer f.Close()

	analyzer := newAnalyzer(conf)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*conf.concurrency)

	var (
		mu      sync.Mutex
		results []scanResult
	)

	// The mbox reader is sequential; only the analyses fan out.
	reader := mbox.NewReader(f)
	for index := 0; ; index++ {
		msg, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "mockingbird: reading %s: %v\n", args[0], err)
			return 2
		}
		raw, err := io.ReadAll(msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mockingbird: reading %s: %v\n", args[0], err)
			return 2
		}

		headers := string(raw)
		g.Go(func() error {
			report, err := analyzer.Analyze(ctx, headers)
			mu.Lock()
			results = append(results, scanResult{index: index, report: report, err: err})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "mockingbird: %v\n", err)
		return 2
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	type tally struct {
		total      int
		byCategory map[mockingbird.Category]int
	}
	tallies := make(map[string]*tally)
	skipped := 0
	flagged := 0

	for _, res := range results {
		if res.err != nil {
			fmt.Printf("%5d  %-22s  %v\n", res.index+1, "-", res.err)
			skipped++
			continue
		}
		category := res.report.Verdict.Category
		fmt.Printf("%5d  %-22s  %s\n", res.index+1, category, res.report.FromDomain)
		if exitCode(category) != 0 {
			flagged++
		}

		org := dmarc.OrganizationalDomain(res.report.FromDomain)
		t := tallies[org]
		if t == nil {
			t = &tally{byCategory: make(map[mockingbird.Category]int)}
			tallies[org] = t
		}
		t.total++
		t.byCategory[category]++
	}

	orgs := make([]string, 0, len(tallies))
	for org := range tallies {
		orgs = append(orgs, org)
	}
	sort.Strings(orgs)

	fmt.Printf("\n%d messages", len(results))
	if skipped > 0 {
		fmt.Printf(" (%d skipped)", skipped)
	}
	fmt.Println(", by organizational domain:")
	for _, org := range orgs {
		t := tallies[org]
		fmt.Printf("  %-30s %d", org, t.total)
		for _, category := range []mockingbird.Category{
			mockingbird.CategoryLikelyLegitimate,
			mockingbird.CategoryPotentiallyLegitimate,
			mockingbird.CategorySuspicious,
			mockingbird.CategoryHighRisk,
		} {
			if n := t.byCategory[category]; n > 0 {
				fmt.Printf("  %d %s", n, category)
			}
		}
		fmt.Println()
	}

	if flagged > 0 {
		return 1
	}
	return 0
}
