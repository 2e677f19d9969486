package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/medicare-portal/medicare/internal/browser"
	"github.com/medicare-portal/medicare/internal/config"
	"github.com/medicare-portal/medicare/internal/logging"
	"github.com/medicare-portal/medicare/internal/portal"
	"github.com/medicare-portal/medicare/internal/tui"
	"github.com/medicare-portal/medicare/pkg/records"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(stdout, "medicare "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(stdout)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		switch args[0] {
		case "config":
			fmt.Fprint(stdout, cfg.String())
			return nil
		case "support":
			return openSupport(stdout, cfg.UI.SupportURL)
		default:
			return fmt.Errorf("unknown command %q (try: medicare help)", args[0])
		}
	}

	log, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	app, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	log.WithField("version", version).Info("starting portal")
	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(app, opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	log.Info("portal closed")
	printGoodbye(stdout)
	return nil
}

// newApp wires the portal core, the record store and the UI together.
func newApp(cfg *config.Config, log *logrus.Logger) (tui.App, error) {
	store := records.New(
		records.WithLogger(log),
		records.WithPatientName(cfg.UI.PatientName),
	)
	sched := tui.NewScheduler()
	p, err := portal.New(cfg.ScanConfig(), sched, log)
	if err != nil {
		return tui.App{}, fmt.Errorf("portal: %w", err)
	}
	return tui.NewApp(tui.Deps{
		Portal:     p,
		Scheduler:  sched,
		Records:    store,
		Log:        log,
		SupportURL: cfg.UI.SupportURL,
	}), nil
}

var openURL = browser.Open

func openSupport(w io.Writer, url string) error {
	if url == "" {
		return fmt.Errorf("no support URL configured (set ui.support_url or %s)", config.EnvSupportURL)
	}
	if err := openURL(url); err != nil {
		fmt.Fprintln(w, url)
	}
	return nil
}
