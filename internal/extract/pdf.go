package extract

import (
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFDecoder decodes PDF files with github.com/ledongthuc/pdf.
type PDFDecoder struct{}

// NewPDFDecoder returns a PDF decoder.
func NewPDFDecoder() *PDFDecoder {
	return &PDFDecoder{}
}

// Open parses the PDF cross-reference table and trailer. Encrypted documents fail here.
func (d *PDFDecoder) Open(r io.ReaderAt, size int64) (Document, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return &pdfDocument{reader: reader}, nil
}

type pdfDocument struct {
	reader *pdf.Reader
}

func (d *pdfDocument) NumPages() int {
	return d.reader.NumPage()
}

// PageText returns the plain text of the zero-indexed page. A missing page object yields "".
func (d *pdfDocument) PageText(index int) (string, error) {
	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return sanitizeText(text), nil
}
