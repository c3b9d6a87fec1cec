package utils

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/shopmirror/shopstore/utils/log"
)

// InstanceConfig is the configuration of the running instance.
var InstanceConfig Config

const (
	defaultDrainInterval    = 5 * time.Minute
	defaultSecondaryTimeout = 10 * time.Second
	defaultStopGracePeriod  = 0
)

// Config holds the runtime configuration of a shopstore instance.
type Config struct {
	// RootDirectory is where the flat-file collection snapshots live.
	RootDirectory string
	// ListenURL is the host:port the HTTP API binds to.
	ListenURL string
	// UtilitiesURL, when set, serves heartbeat/pprof on a separate listener.
	UtilitiesURL string
	// SecondaryURL is the base URL of the secondary document store.
	SecondaryURL string
	// SecondaryTimeout bounds every call made against the secondary store.
	SecondaryTimeout time.Duration
	// DrainInterval is the period between ledger drain cycles.
	DrainInterval time.Duration
	// StopGracePeriod is how long shutdown waits for in-flight work.
	StopGracePeriod time.Duration
	StartTime       time.Time
}

// ParseConfig reads a YAML configuration document and applies defaults.
func ParseConfig(data []byte) (*Config, error) {
	var aux struct {
		RootDirectory    string `yaml:"root_directory"`
		ListenURL        string `yaml:"listen_url"`
		UtilitiesURL     string `yaml:"utilities_url"`
		LogLevel         string `yaml:"log_level"`
		SecondaryURL     string `yaml:"secondary_url"`
		SecondaryTimeout int    `yaml:"secondary_timeout"`
		DrainInterval    int    `yaml:"drain_interval"`
		StopGracePeriod  int    `yaml:"stop_grace_period"`
	}

	if err := yaml.Unmarshal(data, &aux); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if aux.RootDirectory == "" {
		return nil, errors.New("invalid root directory")
	}
	if aux.ListenURL == "" {
		return nil, errors.New("invalid listen URL")
	}
	if aux.SecondaryURL == "" {
		return nil, errors.New("invalid secondary store URL")
	}

	c := &Config{
		RootDirectory:    aux.RootDirectory,
		ListenURL:        aux.ListenURL,
		UtilitiesURL:     aux.UtilitiesURL,
		SecondaryURL:     aux.SecondaryURL,
		SecondaryTimeout: defaultSecondaryTimeout,
		DrainInterval:    defaultDrainInterval,
		StopGracePeriod:  defaultStopGracePeriod,
	}

	if aux.SecondaryTimeout > 0 {
		c.SecondaryTimeout = time.Duration(aux.SecondaryTimeout) * time.Second
	}
	if aux.DrainInterval > 0 {
		c.DrainInterval = time.Duration(aux.DrainInterval) * time.Second
	}
	if aux.StopGracePeriod > 0 {
		c.StopGracePeriod = time.Duration(aux.StopGracePeriod) * time.Second
	}

	if aux.LogLevel != "" {
		switch strings.ToLower(aux.LogLevel) {
		case "fatal":
			log.SetLevel(log.FATAL)
		case "error":
			log.SetLevel(log.ERROR)
		case "warning":
			log.SetLevel(log.WARNING)
		case "info":
			log.SetLevel(log.INFO)
		case "debug":
			log.SetLevel(log.DEBUG)
		default:
			log.Warn("unknown log level %q, using info", aux.LogLevel)
		}
	}

	return c, nil
}
