package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.bug.st/serial"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "i2shell.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
port = "/dev/ttyACM0"
baud = 921600
parity = "even"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "/dev/ttyACM0" || cfg.Baud != 921600 {
		t.Errorf("got %+v", cfg)
	}
	if p := cfg.SerialParity(); p != serial.EvenParity {
		t.Errorf("parity = %v, want EvenParity", p)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `port = "COM3"`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Baud != 115200 {
		t.Errorf("baud = %d, want default 115200", cfg.Baud)
	}
	if p := cfg.SerialParity(); p != serial.NoParity {
		t.Errorf("parity = %v, want NoParity", p)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, `prot = "/dev/ttyACM0"`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("typoed key accepted")
	}
}

func TestLoadConfigRejectsBadParity(t *testing.T) {
	path := writeConfig(t, `parity = "sometimes"`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("bad parity accepted")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("missing explicit config accepted")
	}
}
