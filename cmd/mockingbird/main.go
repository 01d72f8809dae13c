// Command mockingbird analyzes email headers for sender spoofing.
//
// In its default form it reads one message (or a bare header block)
// from a file argument or stdin, runs the SPF, DKIM and DMARC checks
// against the claimed sender domain and prints the verdict:
//
//	mockingbird message.eml
//	mockingbird -format json < message.eml
//
// The scan form walks an mbox archive instead and summarizes every
// message it contains:
//
//	mockingbird scan archive.mbox
//
// The exit code reflects the outcome: 0 when the message passes the
// checks, 1 when the verdict is Suspicious or High Risk of Spoofing,
// 2 when the input could not be analyzed at all.
//
// Every flag can also be set through an environment variable carrying
// the MOCKINGBIRD prefix, e.g. MOCKINGBIRD_NAMESERVERS.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jamiealquiza/envy"

	"github.com/synqronlabs/mockingbird"
	"github.com/synqronlabs/mockingbird/dns"
)

type config struct {
	format      *string
	timeout     *time.Duration
	nameservers *string
	dnssec      *bool
	concurrency *int
	verbose     *bool
}

func main() {
	conf := config{
		format:      flag.String("format", "text", "output format: text, json or msgpack"),
		timeout:     flag.Duration("timeout", mockingbird.DefaultCheckTimeout, "per-mechanism DNS check timeout"),
		nameservers: flag.String("nameservers", "", "comma-separated DNS servers, host or host:port (system servers when empty)"),
		dnssec:      flag.Bool("dnssec", false, "request DNSSEC validation from the upstream resolvers"),
		concurrency: flag.Int("concurrency", 8, "messages analyzed in parallel by scan"),
		verbose:     flag.Bool("verbose", false, "log individual DNS lookups to stderr"),
	}
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), "Usage:\n  mockingbird [flags] [file]\n  mockingbird [flags] scan <archive.mbox>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	envy.Parse("MOCKINGBIRD")
	flag.Parse()

	switch *conf.format {
	case "text", "json", "msgpack":
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n\n", *conf.format)
		flag.Usage()
		os.Exit(2)
	}

	args := flag.Args()
	if len(args) > 0 && args[0] == "scan" {
		os.Exit(runScan(conf, args[1:]))
	}
	os.Exit(runAnalyze(conf, args))
}

// newAnalyzer builds the analyzer shared by both command forms. DNS
// lookups are only logged at debug level, so the default logger stays
// quiet unless -verbose raises it.
func newAnalyzer(conf config) *mockingbird.Analyzer {
	level := slog.LevelWarn
	if *conf.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var servers []string
	for _, s := range strings.Split(*conf.nameservers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}

	return mockingbird.New(mockingbird.Config{
		Resolver: dns.NewResolver(dns.ResolverConfig{
			Nameservers: servers,
			DNSSEC:      *conf.dnssec,
		}),
		Logger:       logger,
		CheckTimeout: *conf.timeout,
	})
}

func runAnalyze(conf config, args []string) int {
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "expected at most one input file")
		flag.Usage()
		return 2
	}

	var (
		raw []byte
		err error
	)
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mockingbird: %v\n", err)
		return 2
	}

	report, err := newAnalyzer(conf).Analyze(context.Background(), string(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "mockingbird: %v\n", err)
		return 2
	}
	if err := printReport(os.Stdout, report, *conf.format); err != nil {
		fmt.Fprintf(os.Stderr, "mockingbird: %v\n", err)
		return 2
	}
	return exitCode(report.Verdict.Category)
}

// exitCode maps a verdict to the process exit code: 0 for the
// legitimate categories, 1 for the spoofing-leaning ones.
func exitCode(category mockingbird.Category) int {
	switch category {
	case mockingbird.CategoryHighRisk, mockingbird.CategorySuspicious:
		return 1
	default:
		return 0
	}
}

func printReport(w io.Writer, report *mockingbird.Report, format string) error {
	switch format {
	case "json":
		data, err := report.ToJSONIndent()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "msgpack":
		data, err := report.ToMessagePack()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return printText(w, report)
	}
}

func printText(w io.Writer, report *mockingbird.Report) error {
	_, err := fmt.Fprintf(w,
		"From domain: %s\n\n"+
			"  SPF    %-7s  %s\n"+
			"  DKIM   %-7s  %s\n"+
			"  DMARC  %-7s  %s\n\n"+
			"Verdict: %s\n%s\n",
		report.FromDomain,
		report.SPF.Status, report.SPF.Detail,
		report.DKIM.Status, report.DKIM.Detail,
		report.DMARC.Status, report.DMARC.Detail,
		report.Verdict.Category, report.Verdict.Description)
	return err
}
