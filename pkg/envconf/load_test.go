package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Basic(t *testing.T) {
	t.Setenv("ENVCONF_TEST_STR", "hello")
	t.Setenv("ENVCONF_TEST_UINT", "8080")
	t.Setenv("ENVCONF_TEST_DUR", "5s")
	t.Setenv("ENVCONF_TEST_LEVEL", "WARN")

	type cfg struct {
		Str   string        `env:"ENVCONF_TEST_STR"`
		Port  uint16        `env:"ENVCONF_TEST_UINT"`
		Dur   time.Duration `env:"ENVCONF_TEST_DUR"`
		Level slog.Level    `env:"ENVCONF_TEST_LEVEL"`
	}

	c := new(cfg)
	err := Load(c)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Str != "hello" || c.Port != 8080 || c.Dur != 5*time.Second || c.Level != slog.LevelWarn {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestLoad_Default(t *testing.T) {
	type cfg struct {
		Port uint16        `env:"ENVCONF_TEST_MISSING_UINT" envDefault:"9090"`
		Dur  time.Duration `env:"ENVCONF_TEST_MISSING_DUR" envDefault:"10s"`
	}

	c := new(cfg)
	err := Load(c)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Port != 9090 || c.Dur != 10*time.Second {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestLoad_DefaultOverridden(t *testing.T) {
	t.Setenv("ENVCONF_TEST_OVERRIDE", "1234")

	type cfg struct {
		Port uint16 `env:"ENVCONF_TEST_OVERRIDE" envDefault:"9090"`
	}

	c := new(cfg)
	err := Load(c)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Port != 1234 {
		t.Fatalf("env value should win over default, got %d", c.Port)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	type cfg struct {
		DSN string `env:"ENVCONF_TEST_ABSENT"`
	}

	err := Load(new(cfg))
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("want ErrMissingRequired, got %v", err)
	}
}
