package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fixturePage describes one page of a generated test document.
type fixturePage struct {
	content string // raw, uncompressed content stream
	image   bool   // declare an image XObject in the page resources
}

const (
	// 22 bytes, under the stream threshold: proves text wins on its own.
	textContent = "BT /F1 9 Tf (Hi) Tj ET"
	// Longer text for pages that should survive recompression round-trips.
	longTextContent = "BT /F1 12 Tf 72 720 Td (Hello, world) Tj ET"
	// 7 bytes, under the stream threshold: proves the XObject signal wins.
	imageContent = "/Im0 Do"
	// 42 bytes of plain vector drawing, over the stream threshold.
	drawContent = "1 0 0 1 0 0 cm 0 0 0 rg 72 72 200 200 re f"
	// Boilerplate save/restore only, the canonical near-empty page.
	tinyContent = "q Q"
)

// writeFixturePDF builds a minimal but structurally valid PDF and writes it
// into the test's temp dir.
func writeFixturePDF(t *testing.T, pages []fixturePage) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := os.WriteFile(path, buildFixturePDF(pages), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func buildFixturePDF(pages []fixturePage) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // pages node, filled in once the kids are known
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8 /Length 1 >>\nstream\n\xff\nendstream",
	}

	var kids []string
	for i, pg := range pages {
		pageObj := 5 + 2*i
		res := "<< /Font << /F1 3 0 R >>"
		if pg.image {
			res += " /XObject << /Im0 4 0 R >>"
		}
		res += " >>"
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources %s /Contents %d 0 R >>",
				res, pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(pg.content), pg.content),
		)
		kids = append(kids, fmt.Sprintf("%d 0 R", pageObj))
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xref)
	return buf.Bytes()
}
