// Command pdfclean strips blank pages from a PDF and optionally recompresses
// it through ghostscript. Unlike the web API it accepts every quality preset,
// including prepress.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	pdfPkg "pdf_cleaner/pdf"
)

func main() {
	compress := flag.Bool("compress", false, "recompress the cleaned PDF with ghostscript")
	quality := flag.String("quality", string(pdfPkg.QualityEbook),
		"ghostscript quality preset: screen, ebook, printer or prepress")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	q := pdfPkg.Quality(*quality)
	if !q.Valid() {
		fmt.Fprintf(os.Stderr, "unknown quality %q: expected screen, ebook, printer or prepress\n", *quality)
		os.Exit(2)
	}

	result, err := pdfPkg.Process(context.Background(), input, output, q, *compress)
	if err != nil {
		fail(err)
	}

	mode := "clean"
	if *compress {
		mode = "clean + compress (" + string(q) + ")"
	}
	fmt.Printf("OK (%s)\n", mode)
	fmt.Printf("Pages: %d total, %d removed, %d remaining\n", result.Total, result.Removed, result.Remaining)
	fmt.Printf("Size: %d KB -> %d KB\n", result.OriginalSize/1024, result.FinalSize/1024)
	fmt.Printf("Output: %s\n", output)
}

// fail prints an operator-facing message for the known failure modes. The CLI
// user is the operator, so ghostscript diagnostics are printed in full.
func fail(err error) {
	var structural *pdfPkg.StructuralError
	var execErr *pdfPkg.ExecError

	switch {
	case errors.Is(err, pdfPkg.ErrGhostscriptNotFound):
		fmt.Fprintln(os.Stderr, "Ghostscript is not installed or not in PATH.")
		fmt.Fprintln(os.Stderr, "Install it and try again:")
		fmt.Fprintln(os.Stderr, "- Windows: install Ghostscript (gswin64c should then work)")
		fmt.Fprintln(os.Stderr, "- Mac: brew install ghostscript")
		fmt.Fprintln(os.Stderr, "- Linux: sudo apt-get install ghostscript")
	case errors.As(err, &structural):
		fmt.Fprintf(os.Stderr, "Input is not a readable PDF: %v\n", structural.Err)
	case errors.As(err, &execErr):
		fmt.Fprintf(os.Stderr, "%v\n%s\n", execErr, execErr.Diagnostics())
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-compress] [-quality preset] input.pdf output.pdf\n", os.Args[0])
	flag.PrintDefaults()
}
