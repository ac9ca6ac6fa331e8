package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tinysplit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "cfg.yaml", `
arena:
  capacity: 64
  limit: "4096"
stack:
  limit: 16
output:
  format: json
store:
  driver: redis
  redis:
    addr: redis:6379
    db: 2
    ttl: 90s
server:
  port: 9000
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Arena.Capacity)
	assert.Equal(t, 4096, cfg.Arena.Limit, "weakly typed input accepts strings")
	assert.Equal(t, 16, cfg.Stack.Limit)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color, "unset keys keep their default")
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "tinysplit:session:", cfg.Store.Redis.Prefix)
	assert.Equal(t, 90*time.Second, cfg.Store.Redis.TTL)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"store": {"driver": "memory"}, "log": {"level": "debug"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "arena:\n  size: 3\n",
		"unknown driver": "store:\n  driver: etcd\n",
		"bad format":     "output:\n  format: xml\n",
		"negative limit": "stack:\n  limit: -1\n",
		"bad yaml":       "arena: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "cfg.yaml", content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_StoreMiddleware(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))
	path := writeFile(t, "cfg.yaml", "store:\n  redact: [\"^:token\"]\n  encryption:\n    key: "+key+"\n    fallback_keys: [\""+key+"\"]\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"^:token"}, cfg.Store.Redact)

	active, fallback, err := cfg.Store.Encryption.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Len(t, fallback, 1)

	_, _, err = EncryptionConfig{Key: "not base64!"}.Keys()
	assert.Error(t, err)

	active, _, err = EncryptionConfig{}.Keys()
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestSessionOptions(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.SessionOptions())

	cfg.Stack.Limit = 1
	s := tinysplit.New(cfg.SessionOptions()...)
	_, err := s.ProcessString("(A")
	require.NoError(t, err)
	_, err = s.ProcessString(":b")
	assert.Error(t, err, "depth limit from config applies")
}
