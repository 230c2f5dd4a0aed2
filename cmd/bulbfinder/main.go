package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ExclusiveAccount/bulb-finder/pkg/config"
	"github.com/ExclusiveAccount/bulb-finder/pkg/discovery"
	"github.com/ExclusiveAccount/bulb-finder/pkg/finder"
	"github.com/ExclusiveAccount/bulb-finder/pkg/fingerprint"
)

const appVersion = "1.0.0"

var log = logrus.New()

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	defaults := config.DefaultConfig()

	return &cli.App{
		Name:    "bulbfinder",
		Usage:   "Find the MAC address of a Bluetooth LE smart bulb",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Value:   int(defaults.Timeout / time.Second),
				Usage:   "Scan duration in seconds",
			},
			&cli.StringSliceFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Value:   cli.NewStringSlice(defaults.Filters...),
				Usage:   "Name substrings that identify a bulb (case-insensitive)",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: defaults.Format,
				Usage: "Output format (text, json)",
			},
			&cli.StringFlag{
				Name:  "oui-db",
				Usage: "Resolve vendors from a MAC vendor CSV `FILE` (IEEE oui.csv layout)",
			},
			&cli.BoolFlag{
				Name:  "test",
				Usage: "Run with simulated devices instead of the Bluetooth adapter",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"BULBFINDER_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				level = logrus.WarnLevel
			}
			if c.Bool("verbose") {
				level = logrus.DebugLevel
			}
			log.SetLevel(level)
			log.SetOutput(c.App.ErrWriter)
			log.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})
			return nil
		},
		Action: runFind,
	}
}

// runFind performs a single scan-and-report cycle
func runFind(c *cli.Context) error {
	timeout, err := config.TimeoutFromSeconds(c.Int("timeout"))
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Timeout = timeout
	cfg.Filters = config.ParseFilters(c.StringSlice("filter")...)
	cfg.Format = c.String("format")
	cfg.OUIDatabase = c.String("oui-db")
	cfg.TestMode = c.Bool("test")

	log.Debugf("Starting with configuration: %+v", cfg)

	var vendors *fingerprint.MacVendorDB
	if cfg.OUIDatabase != "" {
		db, err := fingerprint.LoadMacVendorDB(cfg.OUIDatabase, log)
		if err != nil {
			log.Warnf("Vendor lookup disabled: %v", err)
		} else {
			log.WithFields(logrus.Fields{
				"entries": db.Count(),
				"updated": db.GetLastUpdated().Format("2006-01-02"),
			}).Infof("Loaded MAC vendor database %s", cfg.OUIDatabase)
			vendors = db
		}
	}

	var scanner discovery.Scanner
	if cfg.TestMode {
		log.Info("Running in test mode with simulated devices")
		scanner = discovery.NewTestScanner(log)
	} else {
		scanner = discovery.NewBLEScanner(log)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = finder.NewFinder(cfg, scanner, vendors, c.App.Writer, log).ScanAndReport(ctx)
	return err
}

// reportError prints a user-facing diagnostic for a failed run
func reportError(err error) {
	red := color.New(color.FgRed)
	if errors.Is(err, discovery.ErrAdapterUnavailable) {
		red.Fprintln(os.Stderr, "Could not use the Bluetooth adapter.")
		red.Fprintln(os.Stderr, "Make sure Bluetooth is switched on and this program is allowed to use it.")
	}
	red.Fprintf(os.Stderr, "Error: %v\n", err)
}
