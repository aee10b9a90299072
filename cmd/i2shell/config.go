package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.bug.st/serial"

	"github.com/wtarreau/i2shell/types"
)

const defaultConfigName = "i2shell.toml"

// Config is the host-side serial settings, loadable from a TOML file and
// overridable by flags.
type Config struct {
	Port   string `toml:"port"`
	Baud   int    `toml:"baud"`
	Parity string `toml:"parity"`
}

func defaultConfig() *Config {
	return &Config{Baud: 115200, Parity: types.ParityNone.String()}
}

// loadConfig reads path, or the default config file when path is empty.
// A missing default file is not an error; a missing explicit one is.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, defaultConfigName)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if un := meta.Undecoded(); len(un) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, un[0].String())
	}
	if _, err := types.ParseParity(cfg.Parity); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SerialParity maps the config's parity name onto the serial driver's
// constant. Validation already happened in loadConfig.
func (c *Config) SerialParity() serial.Parity {
	p, _ := types.ParseParity(c.Parity)
	switch p {
	case types.ParityEven:
		return serial.EvenParity
	case types.ParityOdd:
		return serial.OddParity
	default:
		return serial.NoParity
	}
}
