package tdbconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdbconfig"
)

func TestNewDefaultsConnectTimeout(t *testing.T) {
	t.Parallel()

	cfg := tdbconfig.New("http://localhost:6363", "admin", "secret", "admin")
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
}

func TestValidateRejectsMissingFields(t *testing.T) {
	t.Parallel()

	cfg := tdbconfig.Config{User: "admin", Org: "admin"}
	require.Error(t, cfg.Validate())

	cfg = tdbconfig.Config{Endpoint: "http://localhost:6363", Org: "admin"}
	require.Error(t, cfg.Validate())
}

func TestValidateNormalizesZeroConnectTimeout(t *testing.T) {
	t.Parallel()

	cfg := tdbconfig.Config{Endpoint: "http://localhost:6363", User: "admin", Org: "admin"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
}

func TestLoadYAMLParsesFileAndDefaultsTimeout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "endpoint: http://localhost:6363\nuser: admin\npassword: secret\norg: admin\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := tdbconfig.LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:6363", cfg.Endpoint)
	assert.Equal(t, "admin", cfg.User)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
}

func TestLoadViperReadsBoundKeys(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("endpoint", "http://localhost:6363")
	v.Set("user", "admin")
	v.Set("password", "secret")
	v.Set("org", "admin")
	v.Set("connect_timeout", "10s")

	cfg, err := tdbconfig.LoadViper(v)
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.Org)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}
