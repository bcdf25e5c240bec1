package flatten

import "testing"

func TestTextKeepsNewlinesBetweenElements(t *testing.T) {
	markup := "<div>\nSubject ID: 01\nFunctional series: 1\n</div>"
	for _, engine := range []Engine{EngineTree, EngineTokenizer} {
		got, err := Text(markup, engine)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", engine, err)
		}
		want := "Subject ID: 01\nFunctional series: 1"
		if got != want {
			t.Errorf("%s: expected %q, got %q", engine, want, got)
		}
	}
}

func TestTextSkipsScriptAndStyle(t *testing.T) {
	markup := "<div>keep<script>var x = 1;</script><style>.a{}</style> this</div>"
	for _, engine := range []Engine{EngineTree, EngineTokenizer} {
		got, err := Text(markup, engine)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", engine, err)
		}
		if got != "keep this" {
			t.Errorf("%s: expected %q, got %q", engine, "keep this", got)
		}
	}
}

func TestTextPlainInputPassesThrough(t *testing.T) {
	got, err := Text("no markup at all", EngineTree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "no markup at all" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestParseEngine(t *testing.T) {
	if e, err := ParseEngine(""); err != nil || e != EngineTree {
		t.Errorf("empty name: expected tree default, got %q (%v)", e, err)
	}
	if e, err := ParseEngine("tokenizer"); err != nil || e != EngineTokenizer {
		t.Errorf("tokenizer: got %q (%v)", e, err)
	}
	if _, err := ParseEngine("lxml"); err == nil {
		t.Errorf("expected error for unknown engine name")
	}
}

func TestASCIITransliteration(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Montréal Neurological Institute", "Montreal Neurological Institute"},
		{"naïve café", "naive cafe"},
		{"plain ascii", "plain ascii"},
		{"συν 2mm", " 2mm"},
	}
	for _, c := range cases {
		if got := ASCII(c.in); got != c.want {
			t.Errorf("ASCII(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}
