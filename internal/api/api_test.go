package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/neurostack/prepreport/internal/config"
)

const testDoc = `<div id="Summary">
Summary
Subject ID: 01
Functional series: 1

Task: rest (1 run)

Standard output spaces: MNI152NLin2009cAsym
Non-standard output spaces: T1w
</div>
<div id="Anatomical">
Anatomical
Discarded images: 0
Output dimensions: 97x115x97
Output voxel size: 2mm x 2mm x 2mm
</div>
<div id="Functional">
Functional
Reports for: session 1, task rest.
Summary
Repetition time (s): 2.
Confounds collected
global_signal, csf.
</div>
<div id="boilerplate">
boilerplate
Intro paragraph for the methods text.

Anatomical data preprocessing
Anat block.
Functional data preprocessing
Func block.
Copyright Waiver
Copy block.
References
Ref list.
Bibliography
@article{one, author = {A}, title = {T}, year = {2019}}
</div>
<div id="About">
About
Version: 20.2.1
</div>
<div id="errors">
Errors
No errors to report!
</div>`

func testServer(apiKey string) *Server {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := config.Config{
		Port:         "0",
		APIKey:       apiKey,
		MaxBodyBytes: 1 << 20,
		Engine:       "tree",
		EnsureASCII:  true,
	}
	return NewServer(log, cfg)
}

func TestHandleParse(t *testing.T) {
	srv := testServer("")

	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader(testDoc))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	for _, key := range []string{"Summary", "Anatomical", "Functional", "About", "Problems", "Figures", "Bibliography", "Errors", "Methods"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing section %q", key)
		}
	}

	var summary map[string]any
	if err := json.Unmarshal(body["Summary"], &summary); err != nil {
		t.Fatal(err)
	}
	if summary["Subject_ID"] != "sub-01" {
		t.Errorf("Subject_ID: got %v", summary["Subject_ID"])
	}
}

func TestHandleParseStructuralMismatch(t *testing.T) {
	srv := testServer("")

	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("<p>not a report</p>"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestHandleParseEmptyBody(t *testing.T) {
	srv := testServer("")

	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader(""))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleParseBadEngine(t *testing.T) {
	srv := testServer("")

	req := httptest.NewRequest(http.MethodPost, "/api/parse?engine=lxml", strings.NewReader(testDoc))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := testServer("secret")

	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader(testDoc))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader(testDoc))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}

	// Health stays public.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for health, got %d", rec.Code)
	}
}
