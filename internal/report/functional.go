package report

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/neurostack/prepreport/internal/pattern"
	"github.com/neurostack/prepreport/internal/segment"
)

const (
	sectionFunctional = "Functional"

	// Confounds field name before and after the final underscore pass.
	rawConfoundsKey = "Confounds collected"
	confoundsKey    = "Confounds_collected"

	funcSummaryKey = "Summary"
)

var metricKeyReplacer = strings.NewReplacer("(", "", ")", "", " ", "_")

// parseFunctional splits the Functional section into per-session blocks
// in document order and normalizes each block's metric record. The
// confounds paragraph is folded into the record first; in short mode it
// is then dropped.
func parseFunctional(text string, pats *pattern.Set, short bool) (Sessions, error) {
	blocks := segment.SplitOrdered(pats.Func, text)
	if len(blocks) == 0 {
		return nil, structuralErr(sectionFunctional, pattern.NameFunc, "no session blocks found")
	}

	sessions := make(Sessions, 0, len(blocks))
	for _, block := range blocks {
		rec, err := parseSessionBlock(block, pats)
		if err != nil {
			return nil, err
		}
		if short {
			rec.Delete(rawConfoundsKey)
		}
		sessions = append(sessions, Session{Header: block.Header, Record: rec})
	}
	return sessions, nil
}

func parseSessionBlock(block segment.Block, pats *pattern.Set) (Fields, error) {
	sub := segment.Split(pats.FuncSub, block.Body)

	summaryText, ok := sub.Get(funcSummaryKey)
	if !ok {
		return nil, structuralErr(sectionFunctional, pattern.NameFuncSub,
			"session %q has no %s sub-section", block.Header, funcSummaryKey)
	}
	confText, ok := sub.Get(rawConfoundsKey)
	if !ok {
		return nil, structuralErr(sectionFunctional, pattern.NameFuncSub,
			"session %q has no %s sub-section", block.Header, rawConfoundsKey)
	}

	rec := orderedmap.New[string, any]()
	metrics := segment.Split(pats.Subtitle, summaryText)
	for p := metrics.Oldest(); p != nil; p = p.Next() {
		key := metricKeyReplacer.Replace(p.Key)
		val := firstParagraph(strings.ReplaceAll(p.Value, ":", ""))
		// A pluralized value is made singular and the cardinality signal
		// moves into the key, so the transform stays recoverable.
		if strings.HasSuffix(p.Value, "s") {
			key += "_s"
		}
		rec.Set(key, strings.TrimRight(val, "s"))
	}

	conf := firstParagraph(confText)
	if conf != "" {
		conf = conf[:len(conf)-1] // trailing period
	}
	rec.Set(rawConfoundsKey, conf)
	return rec, nil
}

// firstParagraph cuts text at the first run of three consecutive
// newlines.
func firstParagraph(s string) string {
	para, _, _ := strings.Cut(s, "\n\n\n")
	return para
}

// sessionID derives the stable per-session identifier
// "<subject>_ses-<session>_task-<task>" from a session header such as
// "Reports for session 1, task rest.".
func sessionID(subject, header string) (string, error) {
	ses, err := tokenAfter(header, "session ")
	if err != nil {
		return "", err
	}
	task, err := tokenAfter(header, "task ")
	if err != nil {
		return "", err
	}
	return subject + "_ses-" + ses + "_task-" + task, nil
}

// tokenAfter extracts the substring following marker, terminated at the
// next comma or period (or end of string).
func tokenAfter(header, marker string) (string, error) {
	_, rest, ok := strings.Cut(header, marker)
	if !ok {
		return "", structuralErr(sectionFunctional, pattern.NameFunc,
			"marker %q not found in session header %q", marker, header)
	}
	if end := strings.IndexAny(rest, ",."); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", structuralErr(sectionFunctional, pattern.NameFunc,
			"empty token after %q in session header %q", marker, header)
	}
	return rest, nil
}

// assignSessionIDs pairs synthesized identifiers with session blocks
// strictly by position: block i gets identifier i.
func assignSessionIDs(subject string, sessions Sessions) error {
	for i := range sessions {
		id, err := sessionID(subject, sessions[i].Header)
		if err != nil {
			return err
		}
		sessions[i].ID = id
	}
	return nil
}
