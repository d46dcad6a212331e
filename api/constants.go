package api

import "time"

const (
	// FileCleanupDelay is the delay before cleaning up temp files after response is sent
	FileCleanupDelay = 2 * time.Second

	// DefaultFilePermissions for temp directory creation
	DefaultFilePermissions = 0755

	// TotalPagesHeader and RemovedPagesHeader carry clean statistics alongside
	// the returned file.
	TotalPagesHeader   = "X-Pdf-Total-Pages"
	RemovedPagesHeader = "X-Pdf-Removed-Pages"
)
