package confounds

import "fmt"

// DefaultColumns are the confound variables shown in the report's carpet
// plot.
var DefaultColumns = []string{
	"global_signal",
	"csf",
	"white_matter",
	"csf_wm",
	"framewise_displacement",
	"std_dvars",
}

// SessionStats pairs a session identifier with its per-column summary.
type SessionStats struct {
	SessionID string        `json:"session_id"`
	Stats     []ColumnStats `json:"stats"`
}

// Summaries loads each session's confounds table from the dataset
// containing the report at src and describes the requested columns.
// Session identifiers are the ones the parser synthesizes, in report
// order.
func Summaries(src string, sessionIDs []string, columns []string) ([]SessionStats, error) {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	topdir, err := TopDir(src)
	if err != nil {
		return nil, err
	}

	out := make([]SessionStats, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		path, err := Locate(topdir, id)
		if err != nil {
			return nil, err
		}
		table, err := Load(path)
		if err != nil {
			return nil, err
		}
		stats, err := table.Describe(columns)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", id, err)
		}
		out = append(out, SessionStats{SessionID: id, Stats: stats})
	}
	return out, nil
}
