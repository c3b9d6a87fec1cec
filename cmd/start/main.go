package start

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shopmirror/shopstore/frontend"
	"github.com/shopmirror/shopstore/frontend/stream"
	"github.com/shopmirror/shopstore/ledger"
	"github.com/shopmirror/shopstore/metrics"
	"github.com/shopmirror/shopstore/replication"
	"github.com/shopmirror/shopstore/secondary"
	"github.com/shopmirror/shopstore/store"
	"github.com/shopmirror/shopstore/utils"
	"github.com/shopmirror/shopstore/utils/log"
)

const (
	usage                 = "start"
	short                 = "Start a shopstore server"
	long                  = "This command starts a shopstore server"
	example               = "shopstore start --config <path>"
	defaultConfigFilePath = "./shopstore.yml"
	configDesc            = "set the path for the shopstore YAML configuration file"
)

var (
	// Cmd is the start command.
	Cmd = &cobra.Command{
		Use:        usage,
		Short:      short,
		Long:       long,
		Aliases:    []string{"s"},
		SuggestFor: []string{"boot", "up"},
		Example:    example,
		RunE:       executeStart,
	}
	// configFilePath set flag for a path to the config file.
	configFilePath string
)

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	utils.InstanceConfig.StartTime = time.Now()
	Cmd.Flags().StringVarP(&configFilePath, "config", "c", defaultConfigFilePath, configDesc)
}

// executeStart implements the start command.
func executeStart(cmd *cobra.Command, _ []string) error {
	globalCtx, globalCancel := context.WithCancel(context.Background())
	defer globalCancel()

	// Attempt to read config file.
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return fmt.Errorf("failed to read configuration file error: %w", err)
	}

	// Don't output command usage if args are correct.
	cmd.SilenceUsage = true

	// Log config location.
	log.Info("using %v for configuration", configFilePath)

	// Attempt to set configuration.
	config, err := utils.ParseConfig(data)
	if err != nil {
		return fmt.Errorf("failed to parse configuration file error: %w", err)
	}
	config.StartTime = utils.InstanceConfig.StartTime
	utils.InstanceConfig = *config

	// Initialize shopstore services.
	// ------------------------------
	log.Info("initializing shopstore...")

	if err := os.MkdirAll(config.RootDirectory, 0o700); err != nil {
		return fmt.Errorf("failed to create root directory: %w", err)
	}

	stream.Initialize()

	led := ledger.New()
	st := store.NewStore(led, store.WithEvents(stream.Sink{}))
	sec := secondary.NewClient(config.SecondaryURL, config.SecondaryTimeout)

	// Hydrate the primary store: local snapshots first, secondary store
	// as a fallback, empty collections on total failure.
	st.Load(globalCtx, config.RootDirectory, sec)

	// Start the asynchronous ledger drainer.
	drainer := replication.NewDrainer(led, sec, config.DrainInterval, config.SecondaryTimeout)
	drainer.Run(globalCtx)
	log.Info("initialized ledger drainer (interval: %v)", config.DrainInterval)

	// Set API handlers.
	log.Info("launching http data server...")
	svc := frontend.NewService(st, config.RootDirectory)
	mux := http.NewServeMux()
	mux.Handle("/", svc.Handler())

	// Set websocket handler.
	log.Info("initializing websocket...")
	mux.HandleFunc("/ws", stream.Handler)

	// Set monitoring handler.
	log.Info("launching prometheus metrics server...")
	mux.Handle("/metrics", promhttp.Handler())
	metrics.StartupTime.Set(time.Since(config.StartTime).Seconds())

	if config.UtilitiesURL != "" {
		// Start utility endpoints.
		log.Info("launching utility service...")
		uah := frontend.NewUtilityAPIHandlers(config.StartTime)
		go func() {
			if err := uah.Handle(config.UtilitiesURL); err != nil {
				log.Error("utility API handle error: %v", err.Error())
			}
		}()
	}

	// Spawn a goroutine and listen for a signal.
	signalChan := make(chan os.Signal, 1)
	go func() {
		for s := range signalChan {
			switch s {
			case syscall.SIGINT, syscall.SIGTERM:
				log.Info("initiating graceful shutdown due to '%v' request", s)
				globalCancel()

				log.Info("waiting a grace period of %v to shutdown...", config.StopGracePeriod)
				time.Sleep(config.StopGracePeriod)

				// Final snapshot so the next start hydrates locally.
				if _, err := st.Save(config.RootDirectory); err != nil {
					log.Error("failed to write final snapshot: %v", err)
				}
				shutdown()
			}
		}
	}()
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	// Serve.
	log.Info("launching tcp listener for all services...")
	if err := http.ListenAndServe(config.ListenURL, mux); err != nil {
		return fmt.Errorf("failed to start server - error: %w", err)
	}

	return nil
}

func shutdown() {
	log.Info("exiting...")
	os.Exit(0)
}
