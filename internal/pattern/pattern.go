// Package pattern loads the delimiter patterns that drive report
// segmentation. Defaults ship embedded; a JSON file and inline overrides
// can be layered on top, with explicit overrides winning.
package pattern

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed patterns.json
var defaultJSON []byte

// Names of the configurable patterns, as they appear in the JSON file.
const (
	NameErr         = "err_pat"
	NameFigure      = "getfig_pat"
	NameFunc        = "func_pat"
	NameFuncSub     = "fsub_pat"
	NameTitle       = "title_pat"
	NameSubtitle    = "subtitle_pat"
	NameBoilerplate = "bp_pat"
)

// Config holds the raw pattern strings keyed by their JSON names.
type Config struct {
	Err         string `koanf:"err_pat"`
	Figure      string `koanf:"getfig_pat"`
	Func        string `koanf:"func_pat"`
	FuncSub     string `koanf:"fsub_pat"`
	Title       string `koanf:"title_pat"`
	Subtitle    string `koanf:"subtitle_pat"`
	Boilerplate string `koanf:"bp_pat"`
}

// Set is the compiled pattern set handed to the extractors. Read-only
// after Load; safe to share across concurrent parses.
type Set struct {
	Err         *regexp.Regexp // error-message boundary
	Figure      *regexp.Regexp // figure-reference boundary
	Func        *regexp.Regexp // per-session report header
	FuncSub     *regexp.Regexp // functional sub-section boundary
	Title       *regexp.Regexp // top-level title boundary
	Subtitle    *regexp.Regexp // generic "label: " subtitle boundary
	Boilerplate *regexp.Regexp // boilerplate heading boundary
}

// ConfigurationError reports a missing or malformed pattern configuration.
type ConfigurationError struct {
	Source string // file path, pattern name, or "defaults"
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("pattern configuration %s: %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Load builds the compiled pattern set. Precedence, lowest to highest:
// embedded defaults, the JSON file at path (if path is non-empty), then
// per-name overrides.
func Load(path string, overrides map[string]string) (*Set, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultJSON), kjson.Parser()); err != nil {
		return nil, &ConfigurationError{Source: "defaults", Err: err}
	}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigurationError{Source: path, Err: err}
		}
		if err := k.Load(rawbytes.Provider(content), kjson.Parser()); err != nil {
			return nil, &ConfigurationError{Source: path, Err: err}
		}
	}

	if len(overrides) > 0 {
		over := make(map[string]any, len(overrides))
		for name, pat := range overrides {
			over[name] = pat
		}
		if err := k.Load(confmap.Provider(over, "."), nil); err != nil {
			return nil, &ConfigurationError{Source: "overrides", Err: err}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &ConfigurationError{Source: path, Err: err}
	}
	return cfg.Compile()
}

// Compile turns the raw pattern strings into a Set, rejecting any pattern
// that is not valid Go regexp syntax.
func (c Config) Compile() (*Set, error) {
	var (
		s   Set
		err error
	)
	for _, p := range []struct {
		name string
		src  string
		dst  **regexp.Regexp
	}{
		{NameErr, c.Err, &s.Err},
		{NameFigure, c.Figure, &s.Figure},
		{NameFunc, c.Func, &s.Func},
		{NameFuncSub, c.FuncSub, &s.FuncSub},
		{NameTitle, c.Title, &s.Title},
		{NameSubtitle, c.Subtitle, &s.Subtitle},
		{NameBoilerplate, c.Boilerplate, &s.Boilerplate},
	} {
		if p.src == "" {
			return nil, &ConfigurationError{Source: p.name, Err: fmt.Errorf("pattern is empty")}
		}
		if *p.dst, err = regexp.Compile(p.src); err != nil {
			return nil, &ConfigurationError{Source: p.name, Err: err}
		}
	}
	return &s, nil
}
