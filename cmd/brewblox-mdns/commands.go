package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BrewBlox/brewblox-mdns/internal/config"
	"github.com/BrewBlox/brewblox-mdns/internal/discovery"
	"github.com/BrewBlox/brewblox-mdns/internal/logging"
	"github.com/BrewBlox/brewblox-mdns/internal/server"
	"github.com/BrewBlox/brewblox-mdns/internal/tui"
	"github.com/BrewBlox/brewblox-mdns/internal/usb"
)

// Command flags
var (
	configPath  string
	mode        string
	timeoutSecs float64
	interactive bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(discoverCmd)
}

// newDiscoverer builds the production discoverer for a config
func newDiscoverer(cfg *config.Config) *discovery.Discoverer {
	return discovery.New(&discovery.MulticastBrowser{Domain: cfg.Domain})
}

// loadConfig reads the config file and resolves flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if timeoutSecs > 0 {
		cfg.TimeoutSeconds = timeoutSecs
	}
	return cfg, nil
}

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the discovery HTTP API",
	Long: `Run the HTTP API used by other BrewBlox services.

Exposes POST /discover, POST /discover_all, and a WebSocket event
stream on GET /discover/events. The server runs until interrupted.`,
	Example: `  # Serve on the default port (5000)
  brewblox-mdns serve

  # Serve with a config file
  brewblox-mdns serve --config /etc/brewblox/mdns.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if level == "" {
		level = "info"
	}
	if err := logging.Initialize(level); err != nil {
		return err
	}
	defer logging.Sync()

	return server.New(cfg, newDiscoverer(cfg)).Start()
}

// discoverCmd performs one-shot discovery from the command line
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover Spark controllers",
	Long: `Discover Spark controllers and print one line per result.

USB mode enumerates serial device links; wifi mode browses mDNS for
the configured window. Output format:

  usb <serial> <model>
  wifi <id> <host> <port>`,
	Example: `  # Check USB and mDNS
  brewblox-mdns discover

  # mDNS only, with a longer window
  brewblox-mdns discover --mode wifi --timeout 30

  # Watch results arrive in an interactive screen
  brewblox-mdns discover --interactive`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&mode, "mode", "all", "Discovery mode (all, usb, wifi)")
	discoverCmd.Flags().Float64Var(&timeoutSecs, "timeout", 0, "mDNS discovery window in seconds")
	discoverCmd.Flags().BoolVar(&interactive, "interactive", false, "Show results in an interactive screen")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	defer logging.Sync()

	switch mode {
	case "all", "usb", "wifi":
	default:
		return fmt.Errorf("invalid mode %q (expected all, usb or wifi)", mode)
	}

	if mode == "all" || mode == "usb" {
		if err := printUSB(cfg); err != nil {
			return err
		}
	}

	if mode == "all" || mode == "wifi" {
		if err := printWifi(cmd.Context(), cfg); err != nil {
			return err
		}
	}
	return nil
}

func printUSB(cfg *config.Config) error {
	devices, err := usb.Devices(cfg.USBGlob)
	if err != nil {
		return err
	}
	for _, dev := range devices {
		fmt.Println("usb", dev.Serial, dev.Model)
	}
	return nil
}

func printWifi(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	d := newDiscoverer(cfg)
	filter := discovery.Filter{
		Type:    cfg.ServiceType,
		Timeout: cfg.Timeout(),
	}

	if interactive {
		_, err := tui.Run(d, filter)
		return err
	}

	// Stream results as they resolve instead of waiting for the window
	ctx, cancel := context.WithTimeout(ctx, filter.Timeout)
	defer cancel()

	sess, err := d.Session(ctx, filter)
	if err != nil {
		return err
	}
	defer sess.Close()

	for {
		select {
		case rec, ok := <-sess.Records():
			if !ok {
				return nil
			}
			fmt.Println("wifi", rec.ID, rec.Host, rec.Port)
		case <-ctx.Done():
			return nil
		}
	}
}
