package config

import (
	"fmt"
	"os"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// durationEnvKeys lists the Config fields parsed as time.Duration.
var durationEnvKeys = []string{
	"READ_TIMEOUT",
	"WRITE_TIMEOUT",
	"IDLE_TIMEOUT",
	"SHUTDOWN_TIMEOUT",
	"TICK_INTERVAL",
	"REACTION_WINDOW",
	"CANDLE_INTERVAL",
}

// genDurationString generates a valid Go duration string (e.g. "3s", "500ms", "2m").
func genDurationString() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		unit := rapid.SampledFrom([]string{"ms", "s", "m"}).Draw(t, "unit")
		val := rapid.IntRange(1, 600).Draw(t, "val")
		return fmt.Sprintf("%d%s", val, unit)
	})
}

// parseDurationOrDefault parses a duration string, returning the default if empty.
func parseDurationOrDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, _ := time.ParseDuration(s)
	return d
}

func TestProperty_ValidConfigParsing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clearConfigEnv()
		defer clearConfigEnv()

		// Generate optional valid values for each field.
		// Empty string means "use default" (env var not set).
		portStr := rapid.OneOf(
			rapid.Just(""),
			rapid.Map(rapid.IntRange(1, 65535), func(v int) string { return fmt.Sprintf("%d", v) }),
		).Draw(t, "port")

		logLevel := rapid.OneOf(
			rapid.Just(""),
			rapid.SampledFrom([]string{"debug", "info", "warn", "error"}),
		).Draw(t, "logLevel")

		durStrs := make(map[string]string, len(durationEnvKeys))
		for _, key := range durationEnvKeys {
			durStrs[key] = rapid.OneOf(
				rapid.Just(""),
				genDurationString(),
			).Draw(t, key)
		}

		seedStr := rapid.OneOf(
			rapid.Just(""),
			rapid.Map(rapid.Int64Range(1, 1<<40), func(v int64) string { return fmt.Sprintf("%d", v) }),
		).Draw(t, "seed")

		if portStr != "" {
			os.Setenv("PORT", portStr)
		}
		if logLevel != "" {
			os.Setenv("LOG_LEVEL", logLevel)
		}
		for key, v := range durStrs {
			if v != "" {
				os.Setenv(key, v)
			}
		}
		if seedStr != "" {
			os.Setenv("RNG_SEED", seedStr)
		}

		def := Default()
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed for valid env: %v", err)
		}

		if portStr == "" && cfg.Port != def.Port {
			t.Fatalf("expected default port %d, got %d", def.Port, cfg.Port)
		}
		if logLevel != "" && cfg.LogLevel != logLevel {
			t.Fatalf("expected log level %q, got %q", logLevel, cfg.LogLevel)
		}
		if got, want := cfg.TickInterval, parseDurationOrDefault(durStrs["TICK_INTERVAL"], def.TickInterval); got != want {
			t.Fatalf("expected tick interval %v, got %v", want, got)
		}
		if got, want := cfg.ReactionWindow, parseDurationOrDefault(durStrs["REACTION_WINDOW"], def.ReactionWindow); got != want {
			t.Fatalf("expected reaction window %v, got %v", want, got)
		}

		// Every loaded config must also pass its own validation.
		if err := cfg.Validate(); err != nil {
			t.Fatalf("loaded config failed validation: %v", err)
		}
	})
}
