package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
)

// installGsShim puts a fake "gs" shell script at the front of PATH so the
// invocation path can be exercised without ghostscript installed.
func installGsShim(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell shim tests are unix-only")
	}
	dir := t.TempDir()
	shim := filepath.Join(dir, "gs")
	if err := os.WriteFile(shim, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("writing gs shim: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// copyingShim mimics a well-behaved ghostscript: it records its argv and
// copies the input to -sOutputFile.
const copyingShim = `printf '%s\n' "$@" > "$GS_ARGS_FILE"
out=""
in=""
for a in "$@"; do
  case "$a" in
    -sOutputFile=*) out="${a#-sOutputFile=}" ;;
    -*) ;;
    *) in="$a" ;;
  esac
done
cp "$in" "$out"
`

func TestFindGhostscriptMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := FindGhostscript(); !errors.Is(err, ErrGhostscriptNotFound) {
		t.Fatalf("FindGhostscript = %v, want ErrGhostscriptNotFound", err)
	}

	// Compress must fail the same way before spawning anything.
	err := Compress(context.Background(), "in.pdf", "out.pdf", QualityScreen)
	if !errors.Is(err, ErrGhostscriptNotFound) {
		t.Fatalf("Compress = %v, want ErrGhostscriptNotFound", err)
	}
}

func TestCompressRejectsUnknownQuality(t *testing.T) {
	err := Compress(context.Background(), "in.pdf", "out.pdf", Quality("lossless"))
	if err == nil || errors.Is(err, ErrGhostscriptNotFound) {
		t.Fatalf("Compress with bad quality = %v, want a quality error", err)
	}
}

func TestCompressArgvPerQuality(t *testing.T) {
	installGsShim(t, copyingShim)
	input := writeFixturePDF(t, []fixturePage{{content: longTextContent}})

	for _, quality := range []Quality{QualityScreen, QualityEbook, QualityPrinter, QualityPrepress} {
		t.Run(string(quality), func(t *testing.T) {
			argsFile := filepath.Join(t.TempDir(), "args")
			t.Setenv("GS_ARGS_FILE", argsFile)
			output := filepath.Join(t.TempDir(), "out.pdf")

			if err := Compress(context.Background(), input, output, quality); err != nil {
				t.Fatalf("Compress: %v", err)
			}

			args, err := os.ReadFile(argsFile)
			if err != nil {
				t.Fatalf("reading recorded argv: %v", err)
			}
			for _, want := range []string{
				"-sDEVICE=pdfwrite",
				"-dCompatibilityLevel=1.4",
				"-dPDFSETTINGS=/" + string(quality),
				"-dNOPAUSE",
				"-dQUIET",
				"-dBATCH",
			} {
				if !strings.Contains(string(args), want) {
					t.Errorf("argv missing %q:\n%s", want, args)
				}
			}

			info, err := os.Stat(output)
			if err != nil || info.Size() == 0 {
				t.Errorf("no output written: %v", err)
			}
		})
	}
}

func TestCompressTimeout(t *testing.T) {
	installGsShim(t, "sleep 5\n")

	start := time.Now()
	err := Compressor{Timeout: 100 * time.Millisecond}.Compress(
		context.Background(), "in.pdf", "out.pdf", QualityScreen)

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Compress = %v, want *TimeoutError", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timed-out run took %v, process was not killed promptly", elapsed)
	}
}

func TestCompressExecError(t *testing.T) {
	installGsShim(t, "echo gs-out\necho gs-err >&2\nexit 3\n")

	err := Compress(context.Background(), "in.pdf", "out.pdf", QualityScreen)

	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("Compress = %v, want *ExecError", err)
	}
	if !strings.Contains(execErr.Stdout, "gs-out") {
		t.Errorf("Stdout = %q, want captured stdout", execErr.Stdout)
	}
	if !strings.Contains(execErr.Stderr, "gs-err") {
		t.Errorf("Stderr = %q, want captured stderr", execErr.Stderr)
	}
	if !strings.Contains(execErr.Diagnostics(), "gs-err") {
		t.Errorf("Diagnostics() = %q, want both streams", execErr.Diagnostics())
	}
}

func TestCompressWithRealGhostscript(t *testing.T) {
	if _, err := FindGhostscript(); err != nil {
		t.Skip("ghostscript not installed")
	}
	input := writeFixturePDF(t, []fixturePage{{content: longTextContent}})

	for _, quality := range []Quality{QualityScreen, QualityEbook, QualityPrinter, QualityPrepress} {
		t.Run(string(quality), func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "out.pdf")
			if err := Compress(context.Background(), input, output, quality); err != nil {
				t.Fatalf("Compress: %v", err)
			}

			f, r, err := pdf.Open(output)
			if err != nil {
				t.Fatalf("compressed output is not a readable PDF: %v", err)
			}
			defer f.Close()
			if r.NumPage() < 1 {
				t.Error("compressed output has no pages")
			}
		})
	}
}

func TestQualityValid(t *testing.T) {
	for _, q := range []Quality{QualityScreen, QualityEbook, QualityPrinter, QualityPrepress} {
		if !q.Valid() {
			t.Errorf("%q should be valid", q)
		}
	}
	for _, q := range []Quality{"", "Screen", "lossless", "screen "} {
		if q.Valid() {
			t.Errorf("%q should be invalid", q)
		}
	}
}
