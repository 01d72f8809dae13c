package mockingbird

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/synqronlabs/mockingbird/authres"
	"github.com/synqronlabs/mockingbird/dkim"
	"github.com/synqronlabs/mockingbird/dmarc"
	"github.com/synqronlabs/mockingbird/dns"
	"github.com/synqronlabs/mockingbird/spf"
)

// DefaultCheckTimeout bounds a single mechanism check, retries included.
const DefaultCheckTimeout = 10 * time.Second

// Config contains configuration for an Analyzer.
type Config struct {
	// Resolver performs the DNS TXT lookups behind the three checks.
	// Defaults to a miekg/dns resolver using system nameservers.
	Resolver dns.Resolver

	// Logger receives debug notes about DNS outcomes. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// CheckTimeout bounds each mechanism check. Zero means
	// DefaultCheckTimeout.
	CheckTimeout time.Duration
}

// Analyzer runs the spoofing analysis pipeline: extract the claimed
// sender identity, probe the three authentication mechanisms, synthesize
// a verdict. An Analyzer is stateless and safe for concurrent use.
type Analyzer struct {
	resolver dns.Resolver
	logger   *slog.Logger
	timeout  time.Duration
}

// New creates an Analyzer, filling unset config fields with defaults.
func New(cfg Config) *Analyzer {
	if cfg.Resolver == nil {
		cfg.Resolver = dns.NewResolver(dns.ResolverConfig{})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CheckTimeout == 0 {
		cfg.CheckTimeout = DefaultCheckTimeout
	}

	return &Analyzer{
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
		timeout:  cfg.CheckTimeout,
	}
}

// Analyze runs the full pipeline over raw header text.
//
// It fails only on unusable input: ErrEmptyHeaders when rawHeaders is
// empty, ErrNoFromDomain when no From domain can be extracted, or the
// context's error when ctx ends before the checks do. DNS trouble never
// fails an analysis; it lands in the per-mechanism results instead.
//
// The three checks run concurrently against independent DNS names. Each
// writes its own report field, so the outcome does not depend on
// scheduling: identical input and DNS state yield identical reports.
func (a *Analyzer) Analyze(ctx context.Context, rawHeaders string) (*Report, error) {
	if rawHeaders == "" {
		return nil, ErrEmptyHeaders
	}

	identity := ExtractIdentity(ParseHeaderBlock(rawHeaders))
	if identity.FromDomain == "" {
		return nil, ErrNoFromDomain
	}

	fromDomain := QueryDomain(identity.FromDomain)

	// The DKIM key lives under the signature's d= domain when declared,
	// otherwise under the From domain.
	dkimDomain := identity.DKIMDomain
	if dkimDomain == "" {
		dkimDomain = identity.FromDomain
	}
	dkimDomain = QueryDomain(dkimDomain)

	report := &Report{
		FromDomainFound: true,
		FromDomain:      identity.FromDomain,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		report.SPF = a.runCheck(gctx, "spf", fromDomain, func(cctx context.Context) (authres.Result, error) {
			return spf.Check(cctx, a.resolver, fromDomain)
		})
		return nil
	})

	g.Go(func() error {
		report.DKIM = a.runCheck(gctx, "dkim", dkimDomain, func(cctx context.Context) (authres.Result, error) {
			return dkim.Check(cctx, a.resolver, identity.DKIMSelector, dkimDomain)
		})
		return nil
	})

	g.Go(func() error {
		report.DMARC = a.runCheck(gctx, "dmarc", fromDomain, func(cctx context.Context) (authres.Result, error) {
			return dmarc.Check(cctx, a.resolver, fromDomain)
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A canceled analysis would report absences it never verified.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Verdict = Synthesize(report.SPF.Status, report.DKIM.Status, report.DMARC.Status)
	return report, nil
}

// runCheck applies the per-check timeout and logs advisory DNS failures.
func (a *Analyzer) runCheck(ctx context.Context, mechanism, domain string, check func(context.Context) (authres.Result, error)) authres.Result {
	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := check(cctx)
	if err != nil {
		a.logger.Debug("mechanism lookup did not complete",
			slog.String("mechanism", mechanism),
			slog.String("domain", domain),
			slog.Any("error", err),
		)
	}
	return result
}
