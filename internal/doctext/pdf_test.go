package doctext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

// buildPDF writes a minimal PDF with one content stream per page, all set in
// Helvetica. Each entry of streams is the raw content for that page.
func buildPDF(t *testing.T, streams ...string) []byte {
	t.Helper()
	n := len(streams)
	objs := make([]string, 0, 3+2*n)

	kids := make([]string, n)
	for i := range streams {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, content := range streams {
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func textStream(s string) string {
	return fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", s)
}

func TestExtract_PDFPagesInOrder(t *testing.T) {
	data := buildPDF(t, textStream("Page1"), textStream("Page2"))

	for _, doc := range []extract.Document{
		{Data: data, Filename: "cv.pdf"},
		{Data: data, Filename: "upload", ContentType: constants.MimePDF},
		{Data: data, Filename: "cv.bin"},
	} {
		t.Run(doc.Filename, func(t *testing.T) {
			res, err := newTestExtractor().Extract(context.Background(), doc)
			require.NoError(t, err)
			assert.Equal(t, constants.PDF, res.Format)
			assert.Equal(t, 2, res.Pages)
			assert.Equal(t, "Page1\nPage2", res.Text)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestExtract_PDFSkipsBrokenPage(t *testing.T) {
	data := buildPDF(t, textStream("Jane Doe"), "BT /F1 12 Tf Tj ET")

	res, err := newTestExtractor().Extract(context.Background(), extract.Document{Data: data, Filename: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", res.Text)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "page 2")
}

func TestExtract_PDFMaxPages(t *testing.T) {
	data := buildPDF(t, textStream("One"), textStream("Two"), textStream("Three"))

	ex := NewExtractor(Config{MaxPages: 2}, newTestExtractor().logger)
	res, err := ex.Extract(context.Background(), extract.Document{Data: data, Filename: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "One\nTwo", res.Text)
	assert.Equal(t, 2, res.Pages)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "truncated to 2 of 3 pages")
}
