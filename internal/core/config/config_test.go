package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadWithDefaults(t *testing.T) {
	p := writeYAML(t, `
jwt:
  secret: s3cret
policy:
  hide_out_of_scope_incomes: true
app:
  limits:
    per_ip_rps: 5
    max_body_kb: 64
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, time.Hour, c.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, c.JWT.RefreshTTL())
	assert.Equal(t, 30*time.Second, c.Redis.StatsTTL())
	assert.True(t, c.Policy.HideOutOfScopeIncomes)
	assert.Equal(t, 256, c.Audit.Buffer)
	assert.EqualValues(t, 5, c.App.Limits.PerIPRPS)
	assert.EqualValues(t, 64, c.App.Limits.MaxBodyKB)
	assert.Zero(t, c.App.Limits.RPS)
}

func TestEnvOverrides(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: from-file\ndb:\n  driver: mysql\n")
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_DB_DRIVER", "postgres")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "postgres", c.DB.Driver)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeYAML(t, "app:\n  name: x\n"))
	assert.ErrorContains(t, err, "jwt.secret")

	_, err = Load(writeYAML(t, "jwt:\n  secret: x\nredis:\n  enable: true\n  addr: \"\"\n"))
	assert.ErrorContains(t, err, "redis.addr")
}

func TestLocalConfigLoads(t *testing.T) {
	c, err := Load("../../../configs/config.local.yaml")
	require.NoError(t, err)
	assert.Equal(t, "grocery-backend", c.App.Name)
	assert.False(t, c.Redis.Enable)
}
