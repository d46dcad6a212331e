package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ledongthuc/pdf"
)

// CleanStats summarizes one clean run.
type CleanStats struct {
	Total     int `json:"total"`
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}

// CleanPDF classifies every page of inputPath with the default BlankHeuristic
// and writes a PDF containing only the kept pages to outputPath.
func CleanPDF(inputPath, outputPath string) (CleanStats, error) {
	return CleanPDFWith(inputPath, outputPath, BlankHeuristic{})
}

// CleanPDFWith is CleanPDF with a caller-supplied classification policy.
//
// Pages are classified independently, in order, and the output preserves the
// original relative order of kept pages. If the policy would drop every page
// of a non-empty document, all decisions are discarded and every page is kept,
// so the output is never empty when the input was not. The input file is never
// mutated.
func CleanPDFWith(inputPath, outputPath string, classifier PageClassifier) (CleanStats, error) {
	f, r, err := openDocument(inputPath)
	if err != nil {
		return CleanStats{}, err
	}
	defer f.Close()

	total := r.NumPage()
	if total == 0 {
		if err := copyFile(inputPath, outputPath); err != nil {
			return CleanStats{}, err
		}
		return CleanStats{}, nil
	}

	kept := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if classifyPage(r, i, classifier) {
			kept = append(kept, strconv.Itoa(i))
		}
	}

	removed := total - len(kept)
	if len(kept) == 0 {
		// Failsafe: the heuristic condemned every page. Keep the document whole.
		removed = 0
	}
	stats := CleanStats{Total: total, Removed: removed, Remaining: total - removed}

	if removed == 0 {
		if err := copyFile(inputPath, outputPath); err != nil {
			return CleanStats{}, err
		}
		return stats, nil
	}

	if err := pdfcpu.TrimFile(inputPath, outputPath, kept, nil); err != nil {
		return CleanStats{}, fmt.Errorf("rewriting %d kept pages: %w", len(kept), err)
	}
	return stats, nil
}

// classifyPage shields the classifier from parser panics on a single broken
// page. An unclassifiable page is ambiguous, and ambiguous means keep.
func classifyPage(r *pdf.Reader, num int, classifier PageClassifier) (keep bool) {
	defer func() {
		if recover() != nil {
			keep = true
		}
	}()
	return classifier.KeepPage(r.Page(num))
}

// openDocument opens and parses inputPath. Anything that stops the document
// from being read as a PDF, including parser panics, comes back as a
// *StructuralError; filesystem errors pass through untouched.
func openDocument(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r = nil, nil
			err = &StructuralError{Path: path, Err: fmt.Errorf("%v", rec)}
		}
	}()
	f, r, err = pdf.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return nil, nil, err
		}
		return nil, nil, &StructuralError{Path: path, Err: err}
	}
	return f, r, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
