// Package settings loads the runtime settings of a rig from an optional grasp.yaml file, GRASP_ environment
// variables and built-in defaults, in that order of precedence.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oomph-ac/grasp/haptic"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// FileName is the name of the settings file, without extension.
const FileName = "grasp"

// Settings contains all settings that can be configured for a rig.
type Settings struct {
	// TickRate is the number of ticks per second run by the driver loop.
	TickRate int `mapstructure:"tickRate"`
	// LogLevel is a logrus level name.
	LogLevel string `mapstructure:"logLevel"`
	// Backend selects the device backend. Only backends that can run without a host runtime are selectable.
	Backend string `mapstructure:"backend"`
	// Scene is the path of the scene file. The built-in scene is used if empty.
	Scene string `mapstructure:"scene"`

	Haptics struct {
		// Policy is the rumble overlap policy, see haptic.ParsePolicy.
		Policy string `mapstructure:"policy"`
		// Strength is the rumble strength of controllers, in [0, 1].
		Strength float64 `mapstructure:"strength"`
	} `mapstructure:"haptics"`

	Kick struct {
		// TimeScaled forces time scaled kick decay on every grabbable of the scene.
		TimeScaled bool `mapstructure:"timeScaled"`
	} `mapstructure:"kick"`

	Sentry struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"sentry"`

	StatsView struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"statsView"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tickRate", 90)
	v.SetDefault("logLevel", "info")
	v.SetDefault("backend", "null")
	v.SetDefault("scene", "")

	v.SetDefault("haptics.policy", haptic.Concurrent.String())
	v.SetDefault("haptics.strength", haptic.DefaultStrength)

	v.SetDefault("kick.timeScaled", false)

	v.SetDefault("sentry.dsn", "")

	v.SetDefault("statsView.addr", "localhost:18066")
}

// DefaultSettings returns the settings used when no file or environment overrides them.
func DefaultSettings() Settings {
	v := viper.New()
	setDefaults(v)
	var s Settings
	// Unmarshalling defaults into the struct above cannot fail.
	_ = v.Unmarshal(&s)
	return s
}

// Load reads grasp.yaml from dir on top of the defaults and applies GRASP_ environment variables, such as
// GRASP_TICKRATE or GRASP_HAPTICS_POLICY. A missing settings file is not an error.
func Load(dir string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("GRASP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an
// error.
func SaveDefault(path string) error {
	v := viper.New()
	setDefaults(v)
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Validate checks that every setting holds a usable value.
func (s Settings) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, got %d", s.TickRate)
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	if _, err := s.HapticPolicy(); err != nil {
		return err
	}
	if s.Haptics.Strength < 0 || s.Haptics.Strength > 1 {
		return fmt.Errorf("haptics.strength must be in [0, 1], got %v", s.Haptics.Strength)
	}
	if s.Backend != "null" {
		return fmt.Errorf("unsupported backend %q, the steamvr and openvr backends need a host runtime", s.Backend)
	}
	return nil
}

// Level returns the parsed log level.
func (s Settings) Level() (logrus.Level, error) {
	return logrus.ParseLevel(s.LogLevel)
}

// HapticPolicy returns the parsed rumble overlap policy.
func (s Settings) HapticPolicy() (haptic.Policy, error) {
	return haptic.ParsePolicy(s.Haptics.Policy)
}

// TickDuration returns the length of a single tick.
func (s Settings) TickDuration() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}
