package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/chrissnell/shotchart/internal/log"
	"github.com/chrissnell/shotchart/pkg/config"
	"github.com/chrissnell/shotchart/pkg/responseformat"
	"github.com/chrissnell/shotchart/pkg/shotchart"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

type options struct {
	shotFile         string
	compareFile      string
	cfgFile          string
	cfgBackend       string
	profile          string
	preferFahrenheit *bool
	format           string
	indent           bool
	outFile          string
}

func main() {
	var opts options
	flag.StringVar(&opts.shotFile, "shot", "-", "Path to the shot JSON document, '-' reads stdin")
	flag.StringVar(&opts.compareFile, "compare", "", "Path to a second shot drawn dashed on the same chart")
	flag.StringVar(&opts.cfgFile, "config", "", "Path to profile source:\n\t\t\t  YAML: profiles.yaml\n\t\t\t  SQLite: profiles.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	flag.StringVar(&opts.cfgBackend, "config-backend", config.BackendYAML, "Profile backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	flag.StringVar(&opts.profile, "profile", config.DefaultProfileName, "Name of the profile supplying chart settings")
	preferFahrenheit := flag.Bool("prefer-fahrenheit", false, "Show temperatures in Fahrenheit, overriding the profile and shot")
	flag.StringVar(&opts.format, "format", responseformat.FormatJSON, "Output format: 'json' or 'msgpack'")
	flag.BoolVar(&opts.indent, "indent", false, "Indent JSON output")
	flag.StringVar(&opts.outFile, "o", "-", "Output path, '-' writes stdout")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("shotchart %s\n", version)
		os.Exit(0)
	}

	// only an explicit flag overrides the profile
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "prefer-fahrenheit" {
			opts.preferFahrenheit = preferFahrenheit
		}
	})

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	out := io.Writer(os.Stdout)
	if opts.outFile != "-" {
		f, err := os.Create(opts.outFile)
		if err != nil {
			log.Errorf("Failed to create output file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := run(opts, os.Stdin, out, log.GetSugaredLogger()); err != nil {
		log.Errorf("Failed to chart shot: %v", err)
		os.Exit(1)
	}
}

// run charts the shot named by opts and writes the result document to out
func run(opts options, stdin io.Reader, out io.Writer, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	formatter, err := responseformat.NewFormatter(opts.format)
	if err != nil {
		return err
	}

	profile, err := loadProfile(opts.cfgFile, opts.cfgBackend, opts.profile)
	if err != nil {
		return err
	}

	shot, err := readShot(opts.shotFile, stdin)
	if err != nil {
		return err
	}
	applyUnitPreference(shot, profile, opts.preferFahrenheit)

	var chart *shotchart.Chart
	if opts.compareFile != "" {
		other, err := readShot(opts.compareFile, stdin)
		if err != nil {
			return err
		}
		chart, err = shotchart.NewComparison(shot, other, profile.Overrides(), logger)
		if err != nil {
			return err
		}
	} else {
		chart, err = shotchart.New(shot, profile.Overrides(), logger)
		if err != nil {
			return err
		}
	}

	logger.Infow("charted shot",
		"chart_id", chart.ID().String(),
		"channels", len(chart.Processed()),
		"format", formatter.Format(),
	)

	return formatter.Indent(opts.indent).Write(out, chart.Result())
}

// loadProfile returns the named profile, or nil when no profile source is
// configured. A missing default profile is not an error.
func loadProfile(cfgFile, cfgBackend, name string) (*config.ProfileData, error) {
	if cfgFile == "" {
		return nil, nil
	}

	filename, _ := filepath.Abs(cfgFile)
	provider, err := config.NewProvider(cfgBackend, filename)
	if err != nil {
		return nil, fmt.Errorf("error creating %s provider: %w", cfgBackend, err)
	}
	defer provider.Close()

	profile, err := provider.GetProfile(name)
	if errors.Is(err, config.ErrProfileNotFound) && name == config.DefaultProfileName {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading profile. Did you pass the -config flag? Run with -h for help: %w", err)
	}
	return profile, nil
}

func readShot(path string, stdin io.Reader) (*shotchart.RawShot, error) {
	var doc []byte
	var err error
	if path == "-" {
		doc, err = io.ReadAll(stdin)
	} else {
		doc, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading shot %s: %w", path, err)
	}

	var shot shotchart.RawShot
	if err := json.Unmarshal(doc, &shot); err != nil {
		return nil, fmt.Errorf("error decoding shot %s: %w", path, err)
	}
	return &shot, nil
}

// applyUnitPreference sets the display unit: the flag wins over the profile,
// which wins over the shot document
func applyUnitPreference(shot *shotchart.RawShot, profile *config.ProfileData, flagValue *bool) {
	switch {
	case flagValue != nil:
		shot.PreferFahrenheit = flagValue
	case profile != nil && profile.PreferFahrenheit != nil:
		shot.PreferFahrenheit = profile.PreferFahrenheit
	}
}
