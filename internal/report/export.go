package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
)

type Format string

const (
	FormatCSV       Format = "csv"
	FormatJSON      Format = "json"
	FormatHTMLExcel Format = "html-excel"
	FormatHTMLPDF   Format = "html-pdf"
)

// Rendered is the byte stream a report sink ships to the client.
type Rendered struct {
	ContentType        string
	ContentDisposition string
	Body               []byte
}

// Render serializes a report. Headers always follow report.Columns; cell
// escaping is this layer's responsibility.
func Render(r *Report, format Format) (*Rendered, error) {
	if r == nil {
		return nil, fmt.Errorf("nil report")
	}
	switch format {
	case FormatCSV:
		return renderCSV(r)
	case FormatJSON:
		return renderJSON(r)
	case FormatHTMLExcel:
		return renderHTML(r, "application/vnd.ms-excel", "xls")
	case FormatHTMLPDF:
		// Printable HTML: the browser's print pipeline produces the PDF.
		return renderHTML(r, "text/html; charset=utf-8", "html")
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func filename(r *Report, ext string) string {
	base := strings.ToLower(strings.TrimSpace(r.Title))
	base = strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return c
		case c == ' ', c == '-', c == '_':
			return '_'
		default:
			return -1
		}
	}, base)
	if base == "" {
		base = "report"
	}
	return base + "." + ext
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func renderCSV(r *Report) (*Rendered, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(r.Columns); err != nil {
		return nil, err
	}
	for _, row := range r.Rows {
		record := make([]string, len(row.Values))
		for i, v := range row.Values {
			record[i] = cellString(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &Rendered{
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", filename(r, "csv")),
		Body:               buf.Bytes(),
	}, nil
}

func renderJSON(r *Report) (*Rendered, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return &Rendered{
		ContentType:        "application/json; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", filename(r, "json")),
		Body:               body,
	}, nil
}

func renderHTML(r *Report, contentType, ext string) (*Rendered, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	buf.WriteString("<title>" + html.EscapeString(r.Title) + "</title>")
	buf.WriteString("<style>table{border-collapse:collapse}td,th{border:1px solid #999;padding:4px 8px}</style>")
	buf.WriteString("</head><body>\n")
	buf.WriteString("<h1>" + html.EscapeString(r.Title) + "</h1>\n")
	buf.WriteString("<h3>" + html.EscapeString(r.Subtitle) + "</h3>\n")

	buf.WriteString("<table>\n<tr>")
	for _, col := range r.Columns {
		buf.WriteString("<th>" + html.EscapeString(col) + "</th>")
	}
	buf.WriteString("</tr>\n")
	for _, row := range r.Rows {
		buf.WriteString("<tr>")
		for _, v := range row.Values {
			buf.WriteString("<td>" + html.EscapeString(cellString(v)) + "</td>")
		}
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</table>\n")

	if len(r.Recommendations) > 0 {
		buf.WriteString("<h3>Recommendations</h3>\n<ul>\n")
		for _, rec := range r.Recommendations {
			buf.WriteString("<li>" + html.EscapeString(rec) + "</li>\n")
		}
		buf.WriteString("</ul>\n")
	}
	buf.WriteString("</body></html>\n")

	return &Rendered{
		ContentType:        contentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", filename(r, ext)),
		Body:               buf.Bytes(),
	}, nil
}
