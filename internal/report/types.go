// Package report turns an fMRIPrep HTML report into a normalized nested
// record structure.
package report

import (
	"bytes"
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/neurostack/prepreport/internal/bib"
)

// Fields is an insertion-ordered mapping of field names to values. Values
// are strings, except list-valued fields which are []string.
type Fields = *orderedmap.OrderedMap[string, any]

// SectionLists maps a top-level section name to an ordered sequence of
// extracted strings (figure references or error messages). An empty slice
// means the section had none; never an error.
type SectionLists = *orderedmap.OrderedMap[string, []string]

// Session is one functional scan block: the raw header it was found
// under, the identifier synthesized from that header, and the normalized
// metric record.
type Session struct {
	ID     string
	Header string
	Record Fields
}

// Sessions is the Functional section in document order. Pairing between
// header order and synthesized identifiers is positional.
type Sessions []Session

// MarshalJSON renders Sessions as an object keyed by session ID,
// preserving document order.
func (s Sessions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ses := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ses.ID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(ses.Record)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Methods groups the boilerplate-derived blocks under their renamed keys.
type Methods struct {
	AnatomicalPreprocess string   `json:"Anatomical_preprocess"`
	FunctionalPreprocess string   `json:"Functional_preprocess"`
	Errors               []string `json:"Errors"`
	Copyright            string   `json:"Copyright"`
}

// Report is the parsed document. Every section key is present on every
// successful parse; a section the document lacks fails the parse instead
// of going missing here.
type Report struct {
	Summary      Fields       `json:"Summary"`
	Anatomical   Fields       `json:"Anatomical"`
	Functional   Sessions     `json:"Functional"`
	About        Fields       `json:"About"`
	Problems     SectionLists `json:"Problems"`
	Figures      SectionLists `json:"Figures"`
	Bibliography []bib.Entry  `json:"Bibliography"`
	Errors       []string     `json:"Errors"`
	Methods      Methods      `json:"Methods"`
}

// SessionIDs returns the synthesized session identifiers in document
// order. These double as BIDS lookup keys for confound tables.
func (r *Report) SessionIDs() []string {
	ids := make([]string, len(r.Functional))
	for i, s := range r.Functional {
		ids[i] = s.ID
	}
	return ids
}

// SubjectID returns the Summary's normalized subject identifier
// ("sub-<label>"), or "" if the field is not a string.
func (r *Report) SubjectID() string {
	v, _ := r.Summary.Get("Subject_ID")
	id, _ := v.(string)
	return id
}

// FuncTable flattens the Functional section into a rectangular table:
// one row per session, columns in first-seen metric order with the
// session ID first. The confounds field is excluded.
func (r *Report) FuncTable() (columns []string, rows [][]string) {
	columns = []string{"session"}
	seen := map[string]int{"session": 0}
	for _, ses := range r.Functional {
		for p := ses.Record.Oldest(); p != nil; p = p.Next() {
			if p.Key == confoundsKey {
				continue
			}
			if _, ok := seen[p.Key]; !ok {
				seen[p.Key] = len(columns)
				columns = append(columns, p.Key)
			}
		}
	}
	for _, ses := range r.Functional {
		row := make([]string, len(columns))
		row[0] = ses.ID
		for p := ses.Record.Oldest(); p != nil; p = p.Next() {
			idx, ok := seen[p.Key]
			if !ok {
				continue
			}
			if v, ok := p.Value.(string); ok {
				row[idx] = v
			}
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// normalizeKeys rebuilds f with internal spaces replaced by underscores,
// preserving order and values.
func normalizeKeys(f Fields) Fields {
	out := orderedmap.New[string, any]()
	for p := f.Oldest(); p != nil; p = p.Next() {
		out.Set(strings.ReplaceAll(p.Key, " ", "_"), p.Value)
	}
	return out
}
