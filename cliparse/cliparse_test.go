// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/council-vote/db"
)

// noEnvFile points -env-file at a path that does not exist
func noEnvFile(t *testing.T) []string {
	return []string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("IDENTITY_SECRET", "test-secret")
	t.Setenv("PURGE_TOKENS_ON_CLOSE", "false")

	cfg, err := ParseFlags(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, DatabasePostgres, cfg.DatabaseType)
	assert.Equal(t, "test-secret", cfg.IdentitySecret)
	assert.False(t, cfg.PurgeTokensOnClose)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PURGE_TOKENS_ON_CLOSE", "false")

	args := append(noEnvFile(t), "-p", "8080", "-d", "file:test.db", "-identity-secret", "s1", "-purge-tokens-on-close=true")
	cfg, err := ParseFlags(args)
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.PurgeTokensOnClose)
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("IDENTITY_SECRET", "s1")

	cfg, err := ParseFlags(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, DatabaseSQLite, cfg.DatabaseType)
	assert.True(t, cfg.PurgeTokensOnClose)
}

func TestParseFlags_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "DATABASE_URL=file:from-dotenv.db\nIDENTITY_SECRET=dotenv-secret\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Make sure the keys are absent before the file is loaded, and removed afterwards
	for _, key := range []string{"DATABASE_URL", "IDENTITY_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := ParseFlags([]string{"-env-file", path})
	require.NoError(t, err)

	assert.Equal(t, "file:from-dotenv.db", cfg.DatabaseURL)
	assert.Equal(t, "dotenv-secret", cfg.IdentitySecret)
}

func TestParseFlags_DatabaseTypes(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("IDENTITY_SECRET", "s1")

	for _, dbType := range []string{db.TypeSQLite, db.TypePostgres, db.TypePgx} {
		t.Run(dbType, func(t *testing.T) {
			cfg, err := ParseFlags(append(noEnvFile(t), "-t", dbType))
			require.NoError(t, err)
			assert.Equal(t, dbType, cfg.DatabaseType)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"IDENTITY_SECRET": "s"},
		},
		{
			name: "missing identity secret",
			env:  map[string]string{"DATABASE_URL": "file:x.db"},
		},
		{
			name: "invalid port env",
			env:  map[string]string{"PORT": "abc", "DATABASE_URL": "file:x.db", "IDENTITY_SECRET": "s"},
		},
		{
			name: "unsupported database type",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "IDENTITY_SECRET": "s"},
			args: []string{"-t", "mysql"},
		},
		{
			name: "port out of range",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "IDENTITY_SECRET": "s"},
			args: []string{"-p", "70000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envBindings {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := ParseFlags(append(noEnvFile(t), tt.args...))
			assert.Error(t, err)
		})
	}
}
