// Package bootstrap loads the immutable environment presets (§6 Bootstrap
// profile) that pkg/app uses to build a Container and telemetry Recorder:
// Development/Production/Testing/Staging, plus viper-backed overrides from
// file/env. Loading is pure with respect to the rest of the system — it
// only reads configuration sources, never opens a database connection or
// starts a listener (that happens in pkg/app).
package bootstrap

import (
	"fmt"

	"github.com/aras-services/corefw/pkg/kernel"
	"github.com/aras-services/corefw/pkg/telemetry"
)

// Profile is §3's BootstrapProfile: the immutable bundle an Application is
// built from.
type Profile struct {
	Name      string
	Container kernel.Config
	Telemetry telemetry.Config
}

// Development favors fast feedback: debug on, strict off, telemetry sink
// kind "logger". app.New constructs no sink for that kind, so the
// recorder it builds discards these events.
func Development() Profile {
	return Profile{
		Name: "development",
		Container: kernel.Config{
			Debug:              true,
			Strict:             false,
			TelemetryEnabled:   true,
			MaxResolutionDepth: 64,
		},
		Telemetry: telemetry.Config{
			Enabled:    true,
			Sink:       telemetry.SinkLogger,
			SampleRate: 1,
		},
	}
}

// Production favors correctness-over-convenience: strict mode catches
// unregistered autowiring and out-of-namespace types before they reach a
// customer, telemetry samples instead of recording every event.
func Production() Profile {
	return Profile{
		Name: "production",
		Container: kernel.Config{
			Debug:              false,
			Strict:             true,
			TelemetryEnabled:   true,
			MaxResolutionDepth: 32,
		},
		Telemetry: telemetry.Config{
			Enabled:    true,
			Sink:       telemetry.SinkFile,
			OutputPath: "var/telemetry.jsonl",
			SampleRate: 10,
		},
	}
}

// Testing disables telemetry entirely and turns strict mode on, so test
// suites fail loudly on an unregistered dependency instead of silently
// autowiring one.
func Testing() Profile {
	return Profile{
		Name: "testing",
		Container: kernel.Config{
			Debug:              true,
			Strict:             true,
			TelemetryEnabled:   false,
			MaxResolutionDepth: 32,
		},
		Telemetry: telemetry.Config{
			Enabled: false,
			Sink:    telemetry.SinkNull,
		},
	}
}

// Staging mirrors Production but keeps debug on and records every event,
// matching the teacher's habit of running staging with verbose logging.
func Staging() Profile {
	p := Production()
	p.Name = "staging"
	p.Container.Debug = true
	p.Telemetry.SampleRate = 1
	return p
}

// ForName resolves one of the four closed presets by name, returning an
// error for anything else rather than silently defaulting (§6 closed
// enumeration of environments).
func ForName(name string) (Profile, error) {
	switch name {
	case "development", "dev", "":
		return Development(), nil
	case "production", "prod":
		return Production(), nil
	case "testing", "test":
		return Testing(), nil
	case "staging", "stage":
		return Staging(), nil
	default:
		return Profile{}, fmt.Errorf("bootstrap: unknown profile %q", name)
	}
}
