package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"histview/internal/config"
	"histview/internal/loader"
	"histview/internal/model"
	"histview/internal/plot"
	"histview/internal/report"
	"histview/internal/tui"
	"histview/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

const demoSource = "demo.root"

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "histview",
		Repository: "histview",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/histview/histview/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: histview [options] [FILE]\n\n")
		fmt.Fprintf(os.Stderr, "histview browses the histograms in FILE (YAML or JSON) and plots\n")
		fmt.Fprintf(os.Stderr, "them in the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  histview run.yaml                    # Browse interactively\n")
		fmt.Fprintf(os.Stderr, "  histview run.yaml --tree             # Print the object tree\n")
		fmt.Fprintf(os.Stderr, "  histview run.yaml -p hists:pt        # Print one plot\n")
		fmt.Fprintf(os.Stderr, "  histview --demo --web --addr :9000   # Serve the demo file\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Print plottable objects and their entry counts as JSON")
	treeFlag := pflag.BoolP("tree", "t", false, "Print the object tree")
	plotFlag := pflag.StringP("plot", "p", "", "Print the plot of the object at `PATH` (dir:sub:name)")
	widthFlag := pflag.Int("width", 0, "Width of --plot output (default: console width)")
	heightFlag := pflag.Int("height", 0, "Height of --plot output (default: console height)")
	themeFlag := pflag.String("theme", "", "Plot theme: "+fmt.Sprint(plot.ThemeNames()))
	webFlag := pflag.BoolP("web", "w", false, "Serve the file over HTTP")
	addrFlag := pflag.String("addr", "", "Listen address for --web (default from config, localhost:8080)")
	configFlag := pflag.StringP("config", "c", "", "Config file (default "+config.DefaultPath()+")")
	logFileFlag := pflag.String("log-file", "", "Write logs to this file")
	demoFlag := pflag.Bool("demo", false, "Use a built-in demo file instead of FILE")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for a newer release")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return 0
	}

	if *versionFlag {
		fmt.Printf("histview version %s\n", model.Version)
		return 0
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return 0
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return fail(err)
	}
	if pflag.Lookup("theme").Changed {
		cfg.Theme = *themeFlag
	}
	if pflag.Lookup("addr").Changed {
		cfg.Web.Addr = *addrFlag
	}
	if pflag.Lookup("log-file").Changed {
		cfg.Log.File = *logFileFlag
	}
	if pflag.Lookup("width").Changed {
		cfg.Plot.Width = *widthFlag
	}
	if pflag.Lookup("height").Changed {
		cfg.Plot.Height = *heightFlag
	}
	if _, err := plot.LookupTheme(cfg.Theme); err != nil {
		return fail(err)
	}

	logger, closer, err := cfg.Logger()
	if err != nil {
		return fail(err)
	}
	defer closer.Close()

	source, load, err := openSource(pflag.Args(), *demoFlag, logger)
	if err != nil {
		pflag.Usage()
		return fail(err)
	}

	if !colorOutput() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	switch {
	case *webFlag:
		err = runWebMode(cfg, load, logger)
	case *jsonFlag:
		err = runJSONMode(load)
	case *treeFlag:
		err = runTreeMode(load)
	case *plotFlag != "":
		err = runPlotMode(cfg, load, *plotFlag, logger)
	default:
		err = runTuiMode(cfg, source, load, logger)
	}
	if err != nil {
		return fail(err)
	}
	return 0
}

// openSource picks the file to open. Loading is deferred so the TUI can show
// its loading screen.
func openSource(args []string, demo bool, logger *slog.Logger) (string, func() (model.Container, error), error) {
	if demo {
		return demoSource, func() (model.Container, error) { return loader.Demo(), nil }, nil
	}
	if len(args) != 1 {
		return "", nil, errors.New("expected exactly one FILE (or --demo)")
	}
	path := args[0]
	l := loader.New(logger)
	return path, func() (model.Container, error) { return l.LoadFile(path) }, nil
}

// colorOutput reports whether stdout should carry ANSI colours.
func colorOutput() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "histview: %v\n", err)
	return 1
}

func runWebMode(cfg config.Config, load func() (model.Container, error), logger *slog.Logger) error {
	root, err := load()
	if err != nil {
		return err
	}
	fmt.Printf("Starting histview web server at http://%s\n", cfg.Web.Addr)
	return web.StartServer(cfg.Web.Addr, root, cfg.Theme, logger)
}

func runJSONMode(load func() (model.Container, error)) error {
	root, err := load()
	if err != nil {
		return err
	}
	return report.WriteJSON(os.Stdout, root)
}

func runTreeMode(load func() (model.Container, error)) error {
	root, err := load()
	if err != nil {
		return err
	}
	fmt.Println(report.Tree(root))
	return nil
}

// runPlotMode prints the same panel the browser would show for path. A
// failed selection still prints its diagnostic before returning the error.
func runPlotMode(cfg config.Config, load func() (model.Container, error), path string, logger *slog.Logger) error {
	root, err := load()
	if err != nil {
		return err
	}

	width, height := tui.ConsoleSize()
	if cfg.Plot.Width > 0 {
		width = cfg.Plot.Width
	}
	if cfg.Plot.Height > 0 {
		height = cfg.Plot.Height
	}

	panel := tui.NewPlotPanel(root, logger)
	selErr := panel.Select(path)
	fmt.Println(panel.Render(width, height, cfg.Theme))
	if selErr != nil {
		return selErr
	}
	if panel.State() == tui.StateFailed {
		return fmt.Errorf("cannot plot %s", path)
	}
	return nil
}

func runTuiMode(cfg config.Config, source string, load func() (model.Container, error), logger *slog.Logger) error {
	m := tui.InitialModel(tui.Options{
		Source: source,
		Load:   load,
		Theme:  cfg.Theme,
		Logger: logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
