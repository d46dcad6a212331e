package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	pdfPkg "pdf_cleaner/pdf"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// webQualities are the presets a web client may select. "prepress" is
// deliberately absent: it is reachable only through the CLI entry point.
var webQualities = map[pdfPkg.Quality]bool{
	pdfPkg.QualityScreen:  true,
	pdfPkg.QualityEbook:   true,
	pdfPkg.QualityPrinter: true,
}

// HandleClean strips blank pages from the uploaded PDF and returns it,
// without recompression.
func HandleClean(c *gin.Context, config *Config) {
	handleProcess(c, config, pdfPkg.DefaultQuality, false, "cleaned")
}

// HandleCompress strips blank pages and recompresses through ghostscript.
func HandleCompress(c *gin.Context, config *Config) {
	quality := webQuality(c.PostForm("quality"))
	handleProcess(c, config, quality, true, "compressed")
}

// webQuality maps the user-supplied quality field to a preset. Anything
// outside the web-selectable set falls back to the default rather than
// failing the request.
func webQuality(value string) pdfPkg.Quality {
	q := pdfPkg.Quality(value)
	if !webQualities[q] {
		return pdfPkg.DefaultQuality
	}
	return q
}

func handleProcess(c *gin.Context, config *Config, quality pdfPkg.Quality, compress bool, suffix string) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return
	}
	defer file.Close()

	// Validate PDF file
	if err := validatePDFFile(file, header, config.MaxFileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Create temp input file
	if err := ensureTempDir(config.TempDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory"})
		return
	}

	uniqueID := uuid.NewString()
	inFile := filepath.Join(config.TempDir, "input_"+uniqueID+".pdf")
	outFile := filepath.Join(config.TempDir, "output_"+uniqueID+"_"+suffix+".pdf")

	out, err := os.Create(inFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp file"})
		return
	}

	_, err = out.ReadFrom(file)
	out.Close()
	if err != nil {
		os.Remove(inFile) // Clean up on error
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save input file"})
		return
	}

	result, err := pdfPkg.Process(c.Request.Context(), inFile, outFile, quality, compress)
	if err != nil {
		os.Remove(inFile)
		if _, statErr := os.Stat(outFile); statErr == nil {
			os.Remove(outFile)
		}
		status, message := statusForError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header(TotalPagesHeader, strconv.Itoa(result.Total))
	c.Header(RemovedPagesHeader, strconv.Itoa(result.Removed))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(header, suffix)))

	c.File(outFile)

	// Clean up temp files after the response is sent to avoid racing the
	// file transfer.
	defer func() {
		go func() {
			time.Sleep(FileCleanupDelay)
			os.Remove(inFile)
			os.Remove(outFile)
		}()
	}()
}

// statusForError maps the pipeline's failure taxonomy onto HTTP statuses.
// Ghostscript diagnostics stay in the server log; the client sees a generic
// message.
func statusForError(err error) (int, string) {
	var structural *pdfPkg.StructuralError
	var timeout *pdfPkg.TimeoutError
	var execErr *pdfPkg.ExecError

	switch {
	case errors.As(err, &structural):
		return http.StatusBadRequest, "The uploaded file is not a readable PDF document"
	case errors.Is(err, pdfPkg.ErrGhostscriptNotFound):
		log.Printf("Ghostscript is missing from this deployment: %v", err)
		return http.StatusServiceUnavailable, "PDF compression is unavailable on this server"
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, "Compression took too long; try a smaller file or a lower quality"
	case errors.As(err, &execErr):
		log.Printf("Ghostscript failed: %v\n%s", execErr, execErr.Diagnostics())
		return http.StatusInternalServerError, "PDF compression failed"
	default:
		log.Printf("PDF operation error: %v", err)
		return http.StatusInternalServerError, "PDF operation failed"
	}
}

func downloadName(header *multipart.FileHeader, suffix string) string {
	filename := "document_" + suffix + ".pdf"
	if header != nil {
		originalName := header.Filename
		if strings.HasSuffix(strings.ToLower(originalName), ".pdf") {
			filename = originalName[:len(originalName)-4] + "_" + suffix + ".pdf"
		} else {
			filename = originalName + "_" + suffix + ".pdf"
		}
	}
	return sanitizeFilename(filename)
}

// ensureTempDir creates the temp directory if it doesn't exist
func ensureTempDir(tempDir string) error {
	return os.MkdirAll(tempDir, DefaultFilePermissions)
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	// Remove directory separators and path traversal attempts
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	// Get just the base filename to prevent path issues
	filename = filepath.Base(filename)
	filename = strings.TrimSpace(filename)

	if filename == "" {
		filename = "document.pdf"
	}

	return filename
}

// validatePDFFile checks if the file is a valid PDF by reading the header
func validatePDFFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed %d bytes", header.Size, maxSize)
	}

	// Read first 4 bytes to check PDF header
	buffer := make([]byte, 4)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file header: %v", err)
	}

	if n < 4 || string(buffer[:4]) != "%PDF" {
		return fmt.Errorf("invalid PDF file: header does not match")
	}

	// Seek back to beginning for subsequent reads
	_, err = file.Seek(0, 0)
	if err != nil {
		return fmt.Errorf("failed to reset file position: %v", err)
	}

	return nil
}
