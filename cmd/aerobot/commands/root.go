// Package commands implements the aerobot command line
package commands

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/aeroproject/aerobot"
	"github.com/aeroproject/aerobot/config"
	"github.com/aeroproject/aerobot/credential"
	"github.com/aeroproject/aerobot/plugins"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	botName = "aerobot"

	configFlag      = "config"
	metricsAddrFlag = "metrics-addr"
	debugFlag       = "debug"

	tokenResolutionTimeout = 30 * time.Second
	metricsShutdownTimeout = 5 * time.Second
)

// Version is the bot's version, set at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   botName,
	Short: "aerobot - AeroProject client statistics on slack",
	Long: `aerobot connects to slack and answers the stats and online commands with the
AeroProject client statistics. It can also post those statistics on a schedule.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString(configFlag)

		v, err := loadConfig(configFile, cmd)
		if err != nil {
			return err
		}

		return run(v)
	},
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		return err
	}

	return nil
}

func init() {
	rootCmd.Flags().String(configFlag, "", "Path of an optional configuration file (yaml, json or toml)")
	rootCmd.Flags().String(metricsAddrFlag, "", "Address to serve prometheus metrics on (i.e. :9090). Metrics are disabled when empty")
	rootCmd.Flags().Bool(debugFlag, false, "Enable debug logging")
}

func run(v *viper.Viper) (err error) {
	logger := newLogger(v)

	source, err := credential.FromConfig(v)
	if err != nil {
		logger.Fatalf("Invalid token configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), tokenResolutionTimeout)
	token, err := credential.Resolve(ctx, source)
	cancel()
	if err != nil {
		logger.Fatalf("Can't get the slack token: %v", err)
	}

	logger.Infof("Using token from %s", source)
	logger.Infof("Using stats url: %s", plugins.StatsURL(config.GetPluginConfigOrEmpty(v, plugins.StatsPluginName)))

	meter, metrics, err := newMeter(v.GetString(metricsAddrFlag), logger)
	if err != nil {
		logger.Fatalf("Error setting up metrics: %v", err)
	}

	statsConfig := config.GetPluginConfigOrEmpty(v, plugins.StatsPluginName)

	statsPlugin, statsErr := plugins.NewStats(statsConfig, plugins.OptionStatsMeter(meter))

	// The metrics server closes along with the stats plugin
	bot, err := aerobot.NewBot(botName, v, aerobot.OptionToken(token), aerobot.OptionLogger(logger), aerobot.OptionMeter(meter)).
		WithPluginCloserErr(metrics, statsPlugin, statsErr).
		WithPlugin(plugins.NewVersionner(botName, Version)).
		Build()
	if err != nil {
		metrics.Close()
		logger.Fatalf("Error initializing %s: %v", botName, err)
	}

	defer func() {
		if cerr := bot.Close(); cerr != nil {
			logger.Errorf("Error closing %s: %v", botName, cerr)
		}
	}()

	return bot.Run()
}

// loadConfig layers, from lowest to highest precedence: defaults, the optional config file, the
// environment (including a .env file) and the command line flags
func loadConfig(configFile string, cmd *cobra.Command) (v *viper.Viper, err error) {
	loadDotEnv()

	v = config.NewViperWithDefaults()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err = v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if err = bindEnv(v); err != nil {
		return nil, err
	}

	if cmd != nil {
		if err = v.BindPFlag(debugFlag, cmd.Flags().Lookup(debugFlag)); err != nil {
			return nil, err
		}

		if err = v.BindPFlag(metricsAddrFlag, cmd.Flags().Lookup(metricsAddrFlag)); err != nil {
			return nil, err
		}
	}

	layerStatsConfig(v)

	return v, nil
}

func newLogger(v *viper.Viper) (logger *logrus.Logger) {
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if v.GetBool(config.DebugKey) {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

// metricsServer serves the prometheus metrics of the meter provider. A zero metricsServer has
// nothing to close
type metricsServer struct {
	listener net.Listener
	server   *http.Server
	provider *sdkmetric.MeterProvider
}

// Close stops serving metrics and shuts down the meter provider
func (m *metricsServer) Close() (err error) {
	if m.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()

	err = m.server.Shutdown(ctx)
	if perr := m.provider.Shutdown(ctx); err == nil {
		err = perr
	}

	return err
}

// newMeter returns a meter exported to prometheus on addr or a noop meter when addr is empty. The
// returned metricsServer must be closed once the bot stops
func newMeter(addr string, logger *logrus.Logger) (meter metric.Meter, ms *metricsServer, err error) {
	if addr == "" {
		return noop.NewMeterProvider().Meter(botName), &metricsServer{}, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	ms = &metricsServer{
		listener: listener,
		server:   &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
	}

	go func() {
		logger.Infof("Serving metrics on [%s/metrics]", listener.Addr())
		if err := ms.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Metrics server stopped: %v", err)
		}
	}()

	return ms.provider.Meter(botName), ms, nil
}
