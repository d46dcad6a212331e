package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Quality is a ghostscript -dPDFSETTINGS preset. The string values are
// bit-exact: they are interpolated into the ghostscript argv.
type Quality string

const (
	QualityScreen   Quality = "screen"
	QualityEbook    Quality = "ebook"
	QualityPrinter  Quality = "printer"
	QualityPrepress Quality = "prepress"

	DefaultQuality = QualityScreen
)

func (q Quality) Valid() bool {
	switch q {
	case QualityScreen, QualityEbook, QualityPrinter, QualityPrepress:
		return true
	}
	return false
}

// FindGhostscript returns the path of the first ghostscript binary found on
// PATH, probing the platform aliases in order. It is the only discovery step;
// Compress fails with ErrGhostscriptNotFound before spawning anything if this
// fails.
func FindGhostscript() (string, error) {
	for _, name := range ghostscriptCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrGhostscriptNotFound
}

// Compressor recompresses PDFs through ghostscript. The zero value is ready to
// use and applies GhostscriptTimeout.
type Compressor struct {
	// Timeout overrides GhostscriptTimeout when > 0.
	Timeout time.Duration
}

// Compress runs ghostscript on inputPath and writes the recompressed PDF to
// outputPath. It returns ErrGhostscriptNotFound, *TimeoutError or *ExecError;
// on a nil return the caller still owns verifying that outputPath exists and
// is non-empty before trusting it. No retries happen here: retrying a
// deterministic tool failure without changing quality or input is pointless.
func (c Compressor) Compress(ctx context.Context, inputPath, outputPath string, quality Quality) error {
	if !quality.Valid() {
		return fmt.Errorf("unknown quality preset %q", quality)
	}
	gs, err := FindGhostscript()
	if err != nil {
		return err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = GhostscriptTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/" + string(quality),
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + outputPath,
		inputPath,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, gs, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// A killed ghostscript can leave children holding the output pipes open.
	cmd.WaitDelay = time.Second

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return &TimeoutError{Timeout: timeout}
	}
	if err != nil {
		return &ExecError{Err: err, Stdout: stdout.String(), Stderr: stderr.String()}
	}
	return nil
}

// Compress runs ghostscript with the default timeout.
func Compress(ctx context.Context, inputPath, outputPath string, quality Quality) error {
	return Compressor{}.Compress(ctx, inputPath, outputPath, quality)
}
