package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DocumentFormat is an output format of a rendered bill
type DocumentFormat int

const (
	DocumentFormatHTML DocumentFormat = iota
	DocumentFormatPDF
	DocumentFormatReceipt
	DocumentFormatXLSX
)

var documentFormatNames = [...]string{"html", "pdf", "receipt", "xlsx"}

func (f DocumentFormat) String() string {
	if f < 0 || int(f) >= len(documentFormatNames) {
		return "unknown"
	}
	return documentFormatNames[f]
}

// ContentType returns the MIME type served for the format
func (f DocumentFormat) ContentType() string {
	switch f {
	case DocumentFormatHTML:
		return "text/html; charset=utf-8"
	case DocumentFormatPDF:
		return "application/pdf"
	case DocumentFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// ParseDocumentFormat maps a name onto a format. An empty name means HTML.
func ParseDocumentFormat(s string) (DocumentFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DocumentFormatHTML, nil
	}
	for i, name := range documentFormatNames {
		if name == s {
			return DocumentFormat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown document format %q", s)
}

func (f DocumentFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *DocumentFormat) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*f = DocumentFormat(i)
		return nil
	}
	parsed, err := ParseDocumentFormat(str)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
