package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnvFile(t *testing.T, contents string) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.env"), []byte(contents), 0600))

	origVars, origState := envVars, state
	t.Cleanup(func() { envVars, state = origVars, origState })
	envVars = setup(dir)
}

func TestGetEnv(t *testing.T) {
	withEnvFile(t, "TEST_HELLO=world\nTEST_LIST=One,Two,Three,Four\nTEST_NUM=1234\n")
	assert.Equal(t, configgood, state)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"Single Value", "TEST_HELLO", "world"},
		{"Multi-value separated by commas", "TEST_LIST", "One,Two,Three,Four"},
		{"Number", "TEST_NUM", "1234"},
		{"Default", "FACADE_PORT", "8290"},
		{"Missing", "TEST_MISSING", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetEnv(tt.key))
		})
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	withEnvFile(t, "TEST_HELLO=world\n")
	t.Setenv("TEST_HELLO", "override")

	assert.Equal(t, "override", GetEnv("TEST_HELLO"))
}

func TestSetupWithoutFile(t *testing.T) {
	origVars, origState := envVars, state
	t.Cleanup(func() { envVars, state = origVars, origState })

	envVars = setup(t.TempDir())
	assert.Equal(t, noconfigfound, state)
	assert.Equal(t, "http://localhost:9090", GetEnv("HOSPITAL_BACKEND_URL"))

	envVars = setup("")
	assert.Equal(t, noconfigfound, state)
}

func TestSetAndUnsetEnv(t *testing.T) {
	withEnvFile(t, "TEST_SOMEPATH=../../FAKE/PATH\n")

	assert.NoError(t, SetEnv(t, "TEST_SOMEPATH", "../somepath"))
	assert.Equal(t, "../somepath", GetEnv("TEST_SOMEPATH"))

	assert.NoError(t, UnsetEnv(t, "TEST_SOMEPATH"))
	assert.Equal(t, "", GetEnv("TEST_SOMEPATH"))
	_, ok := LookupEnv("TEST_SOMEPATH")
	assert.False(t, ok)
}

func TestGetEnvInt(t *testing.T) {
	withEnvFile(t, "TEST_NUM=1234\nTEST_WORD=abc\n")

	assert.Equal(t, 1234, GetEnvInt("TEST_NUM", 7))
	assert.Equal(t, 7, GetEnvInt("TEST_WORD", 7))
	assert.Equal(t, 7, GetEnvInt("TEST_MISSING", 7))
}

func TestLoadConfigDefaults(t *testing.T) {
	withEnvFile(t, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8290", cfg.Port)
	assert.Equal(t, "8291", cfg.RouterPort)
	assert.Equal(t, "http://localhost:9090", cfg.HospitalBackendURL)
	assert.Equal(t, "http://localhost:9090/healthcare/payments", cfg.PaymentBackendURL)
	assert.Equal(t, "http://localhost:9090/grandoaks/categories", cfg.GrandOakBackendURL)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 120*time.Second, cfg.IdleTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	withEnvFile(t, "HOSPITAL_BACKEND_URL=http://hospital.internal\n")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("FACADE_PORT", "9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://hospital.internal", cfg.HospitalBackendURL)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoadConfigMissingBackend(t *testing.T) {
	withEnvFile(t, "")
	assert.NoError(t, SetEnv(t, "PAYMENT_BACKEND_URL", ""))

	cfg, err := LoadConfig()
	assert.Nil(t, cfg)
	assert.EqualError(t, err, "no value provided for PAYMENT_BACKEND_URL")
}
