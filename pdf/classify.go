package pdf

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageClassifier decides whether a single page carries visible content.
// Decisions are stateless and independent per page; document-level concerns
// (failsafe, stats) live in CleanPDF.
type PageClassifier interface {
	KeepPage(p pdf.Page) bool
}

// BlankHeuristic is the default classification policy. It is deliberately
// asymmetric: deleting a real page is expensive, leaving a truly blank page in
// place is cheap, so every ambiguous case resolves to "keep".
//
// The cascade, strongest signal first:
//  1. any extractable text -> keep
//  2. any XObject resource (image or form) -> keep, a pure scan has no text layer
//  3. trimmed content stream shorter than the threshold -> drop
type BlankHeuristic struct {
	// MinStreamBytes overrides MinContentStreamBytes when > 0.
	MinStreamBytes int
}

func (h BlankHeuristic) KeepPage(p pdf.Page) bool {
	if strings.TrimSpace(pageText(p)) != "" {
		return true
	}
	if pageXObjectCount(p) > 0 {
		return true
	}
	minBytes := h.MinStreamBytes
	if minBytes <= 0 {
		minBytes = MinContentStreamBytes
	}
	return len(bytes.TrimSpace(pageContent(p))) >= minBytes
}

// pageText extracts the page's plain text. Extraction failures of any kind
// (error or panic inside the parser) yield the empty string, never an error:
// absent text is just a missing signal, not a reason to fail the document.
func pageText(p pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// pageXObjectCount reports how many XObjects (images, forms) the page's
// resource dictionary declares. Malformed resources count as zero.
func pageXObjectCount(p pdf.Page) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	res := p.Resources()
	if res.Kind() != pdf.Dict {
		return 0
	}
	xobj := res.Key("XObject")
	if xobj.Kind() != pdf.Dict {
		return 0
	}
	return len(xobj.Keys())
}

// pageContent concatenates the page's content streams (a page may carry one
// stream or an array of streams). A stream that fails to decode is skipped;
// the rest still contribute.
func pageContent(p pdf.Page) []byte {
	var buf bytes.Buffer
	contents := pageContents(p)
	switch contents.Kind() {
	case pdf.Stream:
		appendStream(&buf, contents)
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			appendStream(&buf, contents.Index(i))
		}
	}
	return buf.Bytes()
}

func pageContents(p pdf.Page) (v pdf.Value) {
	defer func() {
		if recover() != nil {
			v = pdf.Value{}
		}
	}()
	return p.V.Key("Contents")
}

func appendStream(buf *bytes.Buffer, v pdf.Value) {
	defer func() {
		_ = recover()
	}()
	if v.Kind() != pdf.Stream {
		return
	}
	r := v.Reader()
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}
	buf.Write(data)
}
