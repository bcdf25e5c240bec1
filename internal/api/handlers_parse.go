package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/neurostack/prepreport/internal/flatten"
	"github.com/neurostack/prepreport/internal/pattern"
	"github.com/neurostack/prepreport/internal/report"
)

// handleParse accepts a raw report document as the request body and
// returns the parsed Report as JSON. Query parameters: engine
// (tree|tokenizer), full (keep per-session confounds), ascii
// (transliterate).
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		jsonError(w, fmt.Sprintf("read body: %s", err), http.StatusRequestEntityTooLarge)
		return
	}
	if len(body) == 0 {
		jsonError(w, "empty request body", http.StatusBadRequest)
		return
	}

	opts, err := s.parseOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := report.Parse(string(body), opts)
	if err != nil {
		var serr *report.StructuralMismatchError
		var cerr *pattern.ConfigurationError
		switch {
		case errors.As(err, &serr):
			jsonError(w, serr.Error(), http.StatusUnprocessableEntity)
		case errors.As(err, &cerr):
			s.log.Error("pattern configuration broken", "error", cerr)
			jsonError(w, "pattern configuration error", http.StatusInternalServerError)
		default:
			jsonError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (s *Server) parseOptions(r *http.Request) (report.Options, error) {
	opts := report.DefaultOptions()
	opts.PatternFile = s.cfg.PatternFile
	opts.EnsureASCII = s.cfg.EnsureASCII

	q := r.URL.Query()
	engineName := q.Get("engine")
	if engineName == "" {
		engineName = s.cfg.Engine
	}
	engine, err := flatten.ParseEngine(engineName)
	if err != nil {
		return report.Options{}, err
	}
	opts.Engine = engine

	if v := q.Get("full"); v != "" {
		full, err := strconv.ParseBool(v)
		if err != nil {
			return report.Options{}, fmt.Errorf("full: %w", err)
		}
		opts.Full = full
	}
	if v := q.Get("ascii"); v != "" {
		ascii, err := strconv.ParseBool(v)
		if err != nil {
			return report.Options{}, fmt.Errorf("ascii: %w", err)
		}
		opts.EnsureASCII = ascii
	}
	return opts, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
