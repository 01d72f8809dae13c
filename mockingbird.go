// Mockingbird is a sender-spoofing analysis engine for email.
//
// It scores how trustworthy a message's claimed sender domain is by
// probing the three DNS-anchored authentication mechanisms (SPF, DKIM,
// DMARC) for the domain extracted from raw header text, then reduces
// the three outcomes to a single verdict. The probes check for
// published policy records; they do not verify signatures or evaluate
// SPF mechanisms, which header text alone cannot support.
//
// # Analysis
//
// Create an Analyzer and feed it raw header text:
//
//	analyzer := mockingbird.New(mockingbird.Config{
//	    Resolver: dns.NewResolver(dns.ResolverConfig{
//	        Nameservers: []string{"8.8.8.8:53"},
//	    }),
//	})
//
//	report, err := analyzer.Analyze(ctx, rawHeaders)
//	if err != nil {
//	    // Empty input or no usable From domain.
//	    log.Fatal(err)
//	}
//
//	fmt.Println(report.Verdict.Category)
//	fmt.Println(report.SPF.Detail)
//
// Analyze fails only on unusable input. DNS failures are routine
// outcomes for the mechanisms and land in the report, never in the
// error.
//
// # Extraction
//
// Header parsing and identity extraction are usable on their own:
//
//	headers := mockingbird.ParseHeaderBlock(rawHeaders)
//	identity := mockingbird.ExtractIdentity(headers)
//	fmt.Println(identity.FromDomain, identity.DKIMSelector)
//
// # Serialization
//
// Reports serialize to JSON and MessagePack with stable field order:
//
//	jsonData, err := report.ToJSON()
//	report, err = mockingbird.FromJSON(jsonData)
//
//	msgpackData, err := report.ToMessagePack()
//	report, err = mockingbird.FromMessagePack(msgpackData)
//
// Reports carry no timestamps or identifiers: the same headers checked
// against the same DNS state serialize to identical bytes.
//
// # Verdicts
//
// The verdict rules are ordered and the first match wins:
//
//  1. DMARC pass and (SPF pass or DKIM pass): Likely Legitimate
//  2. SPF pass and DKIM pass: Potentially Legitimate
//  3. SPF fail and DKIM not passing: High Risk of Spoofing
//  4. Anything else: Suspicious
//
// # Serving
//
// The server subpackage wraps the engine in an HTTP API with request
// logging, Prometheus metrics and MessagePack content negotiation; the
// cmd/mockingbirdd binary runs it. The cmd/mockingbird binary analyzes
// single messages or whole mbox archives from the command line.
package mockingbird
