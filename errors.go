package mockingbird

import "errors"

// Input errors returned by Analyze. DNS-level failures never surface as
// errors; they fold into the per-mechanism results.
var (
	ErrEmptyHeaders = errors.New("mockingbird: empty headers")
	ErrNoFromDomain = errors.New("mockingbird: no valid From address in headers")
)
