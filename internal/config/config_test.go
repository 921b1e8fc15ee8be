package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "fsi_ri_group_input_detail", cfg.Query.TableName)
	assert.Equal(t, 10, cfg.Query.MaxGroupCodes)
	assert.Equal(t, "ri_columns.xlsx", cfg.Query.InputFile)
	assert.Equal(t, "ri_update_queries.txt", cfg.Query.OutputFile)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
query:
  table_name: fsi_ri_group_input_stage
  max_group_codes: 3
logging:
  level: debug
  format: json
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fsi_ri_group_input_stage", cfg.Query.TableName)
	assert.Equal(t, 3, cfg.Query.MaxGroupCodes)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_QUERY_TABLE_NAME", "ri_from_env")
	t.Setenv("APP_SERVER_ADDRESS", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ri_from_env", cfg.Query.TableName)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		Server:  Server{Address: ":8080"},
		Query:   Query{TableName: "t", MaxGroupCodes: 10},
		Storage: Storage{Type: "local", BasePath: "./artifacts"},
		Logging: Logging{Level: "info"},
	}
	assert.NoError(t, validateConfig(valid))

	tests := map[string]func(c *Config){
		"empty address":   func(c *Config) { c.Server.Address = "" },
		"empty table":     func(c *Config) { c.Query.TableName = "" },
		"zero max codes":  func(c *Config) { c.Query.MaxGroupCodes = 0 },
		"unknown storage": func(c *Config) { c.Storage.Type = "ftp" },
		"s3 no bucket":    func(c *Config) { c.Storage = Storage{Type: "s3", S3: S3{Region: "us-east-1"}} },
		"bad log level":   func(c *Config) { c.Logging.Level = "verbose" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, validateConfig(c))
		})
	}
}

func TestStringHidesSecrets(t *testing.T) {
	c := Config{Storage: Storage{S3: S3{AccessKey: "AKIA123", SecretKey: "s3cr3t"}}}
	s := c.String()
	assert.NotContains(t, s, "AKIA123")
	assert.NotContains(t, s, "s3cr3t")
}
