package pdf

import "time"

const (
	// MinContentStreamBytes is the minimum trimmed content-stream size (in bytes)
	// for a page with no text and no XObjects to count as content. Empirically
	// tuned: a handful of boilerplate operators (e.g. a bare q/Q pair) can appear
	// on a genuinely empty page, while real content virtually always exceeds this.
	MinContentStreamBytes = 30

	// GhostscriptTimeout is the hard wall-clock bound on one ghostscript run
	GhostscriptTimeout = 90 * time.Second
)

// ghostscriptCandidates are the binary names probed on PATH, in order.
// Unix installs ship "gs"; Windows installs ship gswin64c/gswin32c.
var ghostscriptCandidates = []string{"gs", "gswin64c", "gswin32c"}
