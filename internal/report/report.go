package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/kpi"
)

// Row is an ordered column/value pair list. Downstream exporters derive
// their headers from column order, so Row marshals to a JSON object with
// keys in exactly the order supplied by the assembler.
type Row struct {
	Columns []string
	Values  []any
}

func (r Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

func (r Row) MarshalJSON() ([]byte, error) {
	if len(r.Columns) != len(r.Values) {
		return nil, fmt.Errorf("row has %d columns but %d values", len(r.Columns), len(r.Values))
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores column order from the wire by walking tokens
// instead of decoding into a map. Numbers come back as json.Number so no
// precision is lost on a round trip.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}

	r.Columns = nil
	r.Values = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row: non-string key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Columns = append(r.Columns, key)
		r.Values = append(r.Values, value)
	}
	_, err = dec.Token() // closing brace
	return err
}

// Report is the assembled bundle handed to exporters. Field order of rows
// and the summary block is fixed by the assembler and preserved through
// serialization.
type Report struct {
	Title           string             `json:"title"`
	Subtitle        string             `json:"subtitle"`
	GeneratedAt     time.Time          `json:"generated_at"`
	Columns         []string           `json:"columns"`
	Rows            []Row              `json:"rows"`
	Summary         kpi.GroupAggregate `json:"summary"`
	Recommendations []string           `json:"recommendations"`
}
