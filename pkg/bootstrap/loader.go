package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/aras-services/corefw/pkg/telemetry"
)

// Load starts from the named preset and overlays values from a config file
// (if present) and COREFW_-prefixed environment variables, the way the
// teacher's config.Load() overlays env vars onto envDefault tags. A missing
// config file is not an error — viper.ConfigFileNotFoundError degrades to
// the preset defaults, same as the teacher tolerating unset env vars.
func Load(env, configPath string) (Profile, error) {
	profile, err := ForName(env)
	if err != nil {
		return Profile{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("corefw")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Profile{}, fmt.Errorf("bootstrap: reading config %s: %w", configPath, err)
			}
		}
	}

	applyOverrides(&profile, v)
	return profile, nil
}

func applyOverrides(p *Profile, v *viper.Viper) {
	if v.IsSet("container.debug") {
		p.Container.Debug = v.GetBool("container.debug")
	}
	if v.IsSet("container.strict") {
		p.Container.Strict = v.GetBool("container.strict")
	}
	if v.IsSet("container.max_resolution_depth") {
		p.Container.MaxResolutionDepth = v.GetInt("container.max_resolution_depth")
	}
	if v.IsSet("container.cache_dir") {
		p.Container.CacheDir = v.GetString("container.cache_dir")
	}
	if v.IsSet("container.prototype_cache_dir") {
		p.Container.PrototypeCacheDir = v.GetString("container.prototype_cache_dir")
	}
	if v.IsSet("container.compile") {
		p.Container.Compile = v.GetBool("container.compile")
	}

	if v.IsSet("telemetry.enabled") {
		p.Telemetry.Enabled = v.GetBool("telemetry.enabled")
	}
	if v.IsSet("telemetry.sink") {
		p.Telemetry.Sink = telemetry.SinkKind(v.GetString("telemetry.sink"))
	}
	if v.IsSet("telemetry.output_path") {
		p.Telemetry.OutputPath = v.GetString("telemetry.output_path")
	}
	if v.IsSet("telemetry.sample_rate") {
		p.Telemetry.SampleRate = v.GetInt("telemetry.sample_rate")
	}
}
