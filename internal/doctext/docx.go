package doctext

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

const (
	docxBody = "word/document.xml"
	wordNS   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// extractDOCX joins w:p paragraph texts in document order, one per line.
func (e *Extractor) extractDOCX(data []byte) (extract.TextResult, error) {
	res := extract.TextResult{Format: constants.DOCX, Method: "docx-xml"}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return res, fmt.Errorf("open archive: %w", err)
	}
	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return res, fmt.Errorf("missing %s", docxBody)
	}
	rc, err := body.Open()
	if err != nil {
		return res, fmt.Errorf("open %s: %w", docxBody, err)
	}
	defer func(rc io.ReadCloser) {
		if err := rc.Close(); err != nil {
			e.logger.Warn("docx body close error", "error", err)
		}
	}(rc)

	paras, err := paragraphs(rc)
	if err != nil {
		return res, err
	}
	res.Text = strings.Join(paras, "\n")
	res.Pages = 1
	return res, nil
}

func paragraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		out      []string
		cur      strings.Builder
		depth    int // nested w:p (text boxes)
		inText   bool
		fallback int // mc:Fallback duplicates AlternateContent text
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", docxBody, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "Fallback" {
				fallback++
				continue
			}
			if fallback > 0 || t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					cur.Reset()
				}
				depth++
			case "t":
				inText = true
			case "tab":
				if depth > 0 {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Local == "Fallback" {
				fallback--
				continue
			}
			if fallback > 0 || t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				depth--
				if depth == 0 {
					out = append(out, cur.String())
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && depth > 0 && fallback == 0 {
				cur.Write(t)
			}
		}
	}
	return out, nil
}
