package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// MountSpec describes a single monitored mountpoint.
type MountSpec struct {
	// Path is the mountpoint itself. It is the key of the mountpoints
	// mapping in the config file and is filled in during Load.
	Path       string `yaml:"-"`
	CheckDir   string `yaml:"checkdir"`
	CheckFile  string `yaml:"checkfile"`
	WriteCheck bool   `yaml:"write_check"`
	// AlertKey optionally overrides the global alert_trigger_key for
	// events about this mountpoint.
	AlertKey string `yaml:"alert_key"`
}

// CheckDirPath returns the absolute path of the write-check directory.
func (m MountSpec) CheckDirPath() string {
	return filepath.Join(m.Path, m.CheckDir)
}

// CheckFilePath returns the absolute path of the write-check file.
func (m MountSpec) CheckFilePath() string {
	return filepath.Join(m.Path, m.CheckDir, m.CheckFile)
}

// Validate checks the per-mountpoint required fields.
func (m MountSpec) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Path, validation.Required),
		validation.Field(&m.CheckDir, validation.Required.When(m.WriteCheck)),
		validation.Field(&m.CheckFile, validation.Required.When(m.WriteCheck)),
	)
}

// Config is the top-level structure for the daemon's configuration.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	Daemonize       bool    `mapstructure:"daemonize"`
	Interval        float64 `mapstructure:"interval"`
	Alerting        bool    `mapstructure:"alerting"`
	AlertTriggerKey string  `mapstructure:"alert_trigger_key"`
	AlertAddress    string  `mapstructure:"alert_address"`
	Logfile         string  `mapstructure:"logfile"`
	Loglevel        string  `mapstructure:"loglevel"`
	Hostname        string  `mapstructure:"hostname"`
	Remount         bool    `mapstructure:"remount"`
	Pidfile         string  `mapstructure:"pidfile"`
	WorkingDir      string  `mapstructure:"working_dir"`

	// MountpointSpecs is the raw path-keyed mapping from the config file.
	// It is decoded straight from the YAML (not through viper) because
	// viper folds keys case-insensitively and drops map branches with no
	// leaf values, which would lose "/mnt/Media: {}" style entries.
	MountpointSpecs map[string]MountSpec `mapstructure:"-"`

	// Mountpoints is MountpointSpecs flattened into a stable, path-sorted
	// order. The scheduler iterates this slice.
	Mountpoints []MountSpec `mapstructure:"-"`
}

// IntervalDuration returns the check interval as a time.Duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}

// Load reads the configuration from cfgfile (or the default search path when
// empty), applies MOUNTMON_* environment overrides and validates the result.
// Any failure here is fatal to the caller.
func Load(cfgfile string) (*Config, error) {
	v := viper.New()

	hostname, _ := os.Hostname()
	v.SetDefault("daemonize", false)
	v.SetDefault("interval", 60.0)
	v.SetDefault("alerting", false)
	v.SetDefault("alert_trigger_key", "mountmon.error")
	v.SetDefault("alert_address", "localhost:10051")
	v.SetDefault("loglevel", "info")
	v.SetDefault("hostname", hostname)
	v.SetDefault("remount", false)

	if cfgfile != "" {
		v.SetConfigFile(cfgfile)
	} else {
		v.SetConfigName("mountmon")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/mountmon/")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("mountmon")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	specs, err := loadMountpoints(v.ConfigFileUsed())
	if err != nil {
		return nil, err
	}
	cfg.MountpointSpecs = specs

	// YAML mappings carry no order, so sort the paths to give every cycle
	// the same iteration order.
	paths := make([]string, 0, len(cfg.MountpointSpecs))
	for path := range cfg.MountpointSpecs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		spec := cfg.MountpointSpecs[path]
		spec.Path = path
		cfg.Mountpoints = append(cfg.Mountpoints, spec)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadMountpoints decodes the path-keyed mountpoints mapping directly from
// the config file, preserving the case of paths and keeping entries whose
// options mapping is empty.
func loadMountpoints(cfgfile string) (map[string]MountSpec, error) {
	raw, err := os.ReadFile(cfgfile)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	var section struct {
		Mountpoints map[string]MountSpec `yaml:"mountpoints"`
	}
	if err := yaml.Unmarshal(raw, &section); err != nil {
		return nil, fmt.Errorf("failed to parse mountpoints: %w", err)
	}
	return section.Mountpoints, nil
}

// Validate checks the loaded configuration for required fields and
// per-mountpoint consistency.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Interval, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.Hostname, validation.Required),
		validation.Field(&c.AlertTriggerKey, validation.Required.When(c.Alerting)),
		validation.Field(&c.AlertAddress, validation.Required.When(c.Alerting)),
		validation.Field(&c.Mountpoints, validation.Required.Error("at least one mountpoint must be configured"), validation.By(validateMountpoints)),
	)
}

func validateMountpoints(value interface{}) error {
	specs, ok := value.([]MountSpec)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a list of mountpoints")
	}
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("mountpoint %q: %w", spec.Path, err)
		}
		if _, dup := seen[spec.Path]; dup {
			return fmt.Errorf("duplicate mountpoint path %q", spec.Path)
		}
		seen[spec.Path] = struct{}{}
	}
	return nil
}
