package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForName_ResolvesClosedEnumeration(t *testing.T) {
	p, err := ForName("production")
	require.NoError(t, err)
	assert.Equal(t, "production", p.Name)
	assert.True(t, p.Container.Strict)
}

func TestForName_RejectsUnknownProfile(t *testing.T) {
	_, err := ForName("nonsense")
	require.Error(t, err)
}

func TestDevelopment_IsPermissiveAndLogged(t *testing.T) {
	p := Development()
	assert.False(t, p.Container.Strict)
	assert.True(t, p.Telemetry.Enabled)
}

func TestTesting_DisablesTelemetryAndIsStrict(t *testing.T) {
	p := Testing()
	assert.False(t, p.Telemetry.Enabled)
	assert.True(t, p.Container.Strict)
}

func TestStaging_MirrorsProductionButVerbose(t *testing.T) {
	p := Staging()
	assert.True(t, p.Container.Strict)
	assert.True(t, p.Container.Debug)
	assert.Equal(t, 1, p.Telemetry.SampleRate)
}

func TestLoad_FallsBackToPresetWithoutConfigFile(t *testing.T) {
	p, err := Load("production", "")
	require.NoError(t, err)
	assert.Equal(t, "production", p.Name)
}

func TestLoad_MissingConfigFileIsNotFatal(t *testing.T) {
	_, err := Load("development", "/nonexistent/path/config.yaml")
	require.NoError(t, err)
}
