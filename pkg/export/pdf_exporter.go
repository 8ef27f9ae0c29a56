package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// StorySection is one heading plus flowing body text for document rendering.
type StorySection struct {
	Heading string
	Body    string
}

// RenderStory creates a PDF document of flowing prose sections, used for
// story and presentation exports where tabular layout does not fit.
func (e *PDFExporter) RenderStory(title string, sections []StorySection) ([]byte, error) {
	if title == "" && len(sections) == 0 {
		return nil, fmt.Errorf("story pdf requires a title or at least one section")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	for _, section := range sections {
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 9, section.Heading, "", 1, "L", false, 0, "")
			pdf.Ln(1)
		}
		pdf.SetFont("Arial", "", 11)
		for _, paragraph := range strings.Split(section.Body, "\n\n") {
			pdf.MultiCell(0, 6, strings.TrimSpace(paragraph), "", "L", false)
			pdf.Ln(3)
		}
		pdf.Ln(2)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render story pdf: %w", err)
	}
	return buf.Bytes(), nil
}
