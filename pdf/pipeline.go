package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Result is the outcome of one full pipeline run.
type Result struct {
	CleanStats
	OriginalSize int64 `json:"original_size"`
	FinalSize    int64 `json:"final_size"`
}

// SavedBytes reports how many bytes the run shaved off the input.
func (r Result) SavedBytes() int64 {
	return r.OriginalSize - r.FinalSize
}

// Process runs the two-stage pipeline: blank pages are stripped into a private
// temp file, then (when compress is set) ghostscript recompresses that file to
// outputPath; otherwise the cleaned file is copied there. The stages run in
// strict sequence with no feedback loop. Each call uses its own temp path, so
// concurrent calls need no coordination; the temp file is removed before
// return, input and output paths belong to the caller.
func Process(ctx context.Context, inputPath, outputPath string, quality Quality, compress bool) (Result, error) {
	in, err := os.Stat(inputPath)
	if err != nil {
		return Result{}, err
	}

	cleaned := filepath.Join(os.TempDir(), "clean_"+uuid.NewString()+".pdf")
	defer os.Remove(cleaned)

	stats, err := CleanPDF(inputPath, cleaned)
	if err != nil {
		return Result{}, err
	}

	if compress {
		err = Compress(ctx, cleaned, outputPath, quality)
	} else {
		err = copyFile(cleaned, outputPath)
	}
	if err != nil {
		return Result{}, err
	}

	out, err := os.Stat(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline produced no output file: %w", err)
	}
	if out.Size() == 0 {
		return Result{}, fmt.Errorf("pipeline produced an empty output file: %s", outputPath)
	}

	return Result{CleanStats: stats, OriginalSize: in.Size(), FinalSize: out.Size()}, nil
}

// FileSizeKB reports a file's size in whole kilobytes.
func FileSizeKB(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size() / 1024, nil
}
