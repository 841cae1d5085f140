package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"histview/internal/model"
	"histview/internal/plot"
	"histview/internal/render"
	"histview/internal/report"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

const (
	defaultWidth  = 80
	defaultHeight = 24
	maxDimension  = 500
)

// Server exposes a loaded tree over HTTP.
type Server struct {
	root   model.Container
	theme  string
	logger *slog.Logger
}

// NewServer returns a server for root. Plots use theme unless the request
// names another.
func NewServer(root model.Container, theme string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if theme == "" {
		theme = plot.DefaultTheme
	}
	return &Server{root: root, theme: theme, logger: logger}
}

// Handler routes the static page and the API endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	mux.HandleFunc("/api/tree", s.handleTree)
	mux.HandleFunc("/api/entries", s.handleEntries)
	mux.HandleFunc("/api/plot", s.handlePlot)
	mux.HandleFunc("/api/help", handleHelp)
	return mux
}

// StartServer serves root on addr until the listener fails.
func StartServer(addr string, root model.Container, theme string, logger *slog.Logger) error {
	s := NewServer(root, theme, logger)
	s.logger.Info("web server starting", slog.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

// TreeNode is one entry of /api/tree.
type TreeNode struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Icon      string `json:"icon"`
	Depth     int    `json:"depth"`
	Container bool   `json:"container"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	nodes := []TreeNode{}
	for _, n := range model.Flatten(s.root, nil) {
		nodes = append(nodes, TreeNode{
			Path:      n.Path.String(),
			Name:      n.Object.Name(),
			Kind:      model.KindName(n.Object),
			Icon:      model.IconFor(n.Object, true),
			Depth:     n.Depth,
			Container: n.IsContainer(),
		})
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	entries := report.Entries(s.root)
	if entries == nil {
		entries = []report.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	width, err := dimension(q.Get("width"), defaultWidth)
	if err != nil {
		http.Error(w, "invalid width", http.StatusBadRequest)
		return
	}
	height, err := dimension(q.Get("height"), defaultHeight)
	if err != nil {
		http.Error(w, "invalid height", http.StatusBadRequest)
		return
	}
	theme := q.Get("theme")
	if theme == "" {
		theme = s.theme
	}
	if _, err := plot.LookupTheme(theme); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := model.Resolve(s.root, model.ParsePath(path))
	if err != nil {
		s.logger.Debug("plot lookup failed", slog.String("path", path), slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	c, err := render.NewCanvas(item, width, height, theme)
	if err != nil {
		s.logger.Warn("plot render failed", slog.String("path", path), slog.String("error", err.Error()))
		status := http.StatusInternalServerError
		if errors.Is(err, plot.ErrUnsupported) || errors.Is(err, plot.ErrInvalidSize) {
			status = http.StatusUnprocessableEntity
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, render.Capture(err).String()+"\n")
		return
	}

	text := c.String()
	if q.Get("ansi") != "1" {
		text = ansi.Strip(text)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text+"\n")
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)
	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

// dimension parses a width or height query value, using def when empty.
func dimension(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > maxDimension {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
