package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"histview/internal/loader"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	srv := httptest.NewServer(NewServer(loader.Demo(), "", nil).Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + url)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res.StatusCode, string(body)
}

func TestTree(t *testing.T) {
	status, body := get(t, "/api/tree")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var nodes []TreeNode
	if err := json.Unmarshal([]byte(body), &nodes); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, n := range nodes {
		if n.Path == "hists:gaus" {
			found = true
			if n.Kind != "hist1d" || n.Depth != 1 || n.Container {
				t.Errorf("gaus = %+v", n)
			}
		}
	}
	if !found {
		t.Error("hists:gaus missing from tree")
	}
}

func TestPlot(t *testing.T) {
	status, body := get(t, "/api/plot?path=hists:flow&width=40&height=12")
	if status != http.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	if !strings.Contains(body, "flow - Entries = 6 (8 with flow)") {
		t.Errorf("missing title:\n%s", body)
	}
	if strings.Contains(body, "\x1b[") {
		t.Error("escape codes should be stripped without ansi=1")
	}
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	if len(lines) != 12 {
		t.Errorf("%d lines, want 12", len(lines))
	}
}

func TestPlot_Errors(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		status int
		body   string
	}{
		{"missing path", "/api/plot", http.StatusBadRequest, "path is required"},
		{"bad width", "/api/plot?path=hists:gaus&width=x", http.StatusBadRequest, "invalid width"},
		{"zero height", "/api/plot?path=hists:gaus&height=0", http.StatusBadRequest, "invalid height"},
		{"unknown theme", "/api/plot?path=hists:gaus&theme=nope", http.StatusBadRequest, "unknown theme"},
		{"not found", "/api/plot?path=hists:nope", http.StatusNotFound, "nope"},
		{"text object", "/api/plot?path=info", http.StatusUnprocessableEntity, "Traceback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, tt.url)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%s)", status, tt.status, body)
			}
			if !strings.Contains(body, tt.body) {
				t.Errorf("body %q lacks %q", body, tt.body)
			}
		})
	}
}

func TestEntriesAndHelp(t *testing.T) {
	status, body := get(t, "/api/entries")
	if status != http.StatusOK || !strings.Contains(body, `"entries_with_flow":8`) {
		t.Errorf("entries = %d %s", status, body)
	}
	status, body = get(t, "/api/help")
	if status != http.StatusOK || strings.Contains(body, "{{VERSION}}") {
		t.Errorf("help = %d %s", status, body)
	}
}

func TestIndex(t *testing.T) {
	status, body := get(t, "/")
	if status != http.StatusOK || !strings.Contains(body, "/api/tree") {
		t.Errorf("index = %d", status)
	}
}
