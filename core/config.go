// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"io/ioutil"
	"os"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Environment keys that override the configuration file.
const (
	EnvWidth        = "VKB_WIDTH"
	EnvHeight       = "VKB_HEIGHT"
	EnvValidation   = "VKB_VALIDATION"
	EnvFPS          = "VKB_FPS"
	EnvLogLevel     = "VKB_LOG_LEVEL"
	EnvShaderBundle = "VKB_SHADER_BUNDLE"
)

// DefaultValidationLayer is enabled when validation is requested
// and no other layer is configured.
const DefaultValidationLayer = "VK_LAYER_LUNARG_standard_validation"

// Configuration defines a global engine configuration setting
type Configuration struct {
	Window   WindowConfiguration   `toml:"window"`
	Renderer RendererConfiguration `toml:"renderer"`
	Time     TimeConfiguration     `toml:"time"`
	Log      LogConfiguration      `toml:"log"`
}

// WindowConfiguration describes the platform window
type WindowConfiguration struct {
	Title     string `toml:"title"`
	Width     uint32 `toml:"width"`
	Height    uint32 `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int `toml:"fps"`
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	// SwapchainSize of 0 takes the minimum image count of the surface
	SwapchainSize    uint32   `toml:"swapchain_size"`
	FramesInFlight   int      `toml:"frames_in_flight"`
	Validation       bool     `toml:"validation"`
	ValidationLayer  string   `toml:"validation_layer"`
	DeviceExtensions []string `toml:"device_extensions"`

	// ShaderBundle is a path to an spvpack archive, empty uses built in shaders
	ShaderBundle string `toml:"shader_bundle"`
}

// LogConfiguration sets up the logger
type LogConfiguration struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// DefaultConfiguration returns the built in settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		Window: WindowConfiguration{
			Title:     "vkb",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Renderer: RendererConfiguration{
			FramesInFlight:   2,
			ValidationLayer:  DefaultValidationLayer,
			DeviceExtensions: []string{"VK_KHR_swapchain"},
		},
		Log: LogConfiguration{
			Level: "info",
		},
	}
}

// LoadConfiguration layers the configuration sources. Later ones win:
// defaults, the TOML file at path, the dotenv file at envFile and finally
// the process environment. Empty paths are skipped, so is a missing
// dotenv file.
func LoadConfiguration(path, envFile string) (Configuration, error) {
	cfg := DefaultConfiguration()

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read configuration")
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse configuration %s", path)
		}
	}

	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case os.IsNotExist(errors.Cause(err)):
		case err != nil:
			return cfg, errors.Wrapf(err, "read env file %s", envFile)
		default:
			if err := applyOverrides(&cfg, func(key string) (string, bool) {
				v, ok := values[key]
				return v, ok
			}); err != nil {
				return cfg, err
			}
		}
	}

	if err := applyOverrides(&cfg, func(key string) (string, bool) {
		v, err := envy.MustGet(key)
		return v, err == nil
	}); err != nil {
		return cfg, err
	}

	if cfg.Renderer.FramesInFlight < 1 {
		cfg.Renderer.FramesInFlight = 1
	}
	if cfg.Renderer.Validation && cfg.Renderer.ValidationLayer == "" {
		cfg.Renderer.ValidationLayer = DefaultValidationLayer
	}
	return cfg, nil
}

func applyOverrides(cfg *Configuration, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvWidth); ok {
		w, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return errors.Wrap(err, EnvWidth)
		}
		cfg.Window.Width = uint32(w)
	}
	if v, ok := lookup(EnvHeight); ok {
		h, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return errors.Wrap(err, EnvHeight)
		}
		cfg.Window.Height = uint32(h)
	}
	if v, ok := lookup(EnvValidation); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, EnvValidation)
		}
		cfg.Renderer.Validation = b
	}
	if v, ok := lookup(EnvFPS); ok {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, EnvFPS)
		}
		cfg.Time.FramesPerSecond = fps
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvShaderBundle); ok {
		cfg.Renderer.ShaderBundle = v
	}
	return nil
}

// ConfigureLogger applies level and format settings.
func ConfigureLogger(logger *logrus.Logger, cfg LogConfiguration) error {
	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return errors.Wrap(err, "log level")
		}
		logger.SetLevel(level)
	}
	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
