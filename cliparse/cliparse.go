package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/danielhkuo/council-vote/db"
)

// Supported DatabaseType values, as understood by db.Open
const (
	DatabaseSQLite   = db.TypeSQLite
	DatabasePostgres = db.TypePostgres
	DatabasePgx      = db.TypePgx
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	IdentitySecret string

	// PurgeTokensOnClose deletes a poll's eligibility tokens when it closes.
	// Ballots are kept either way; with purging on, "who voted" can no
	// longer be answered for a closed poll.
	PurgeTokensOnClose bool
}

// environment variable bound to each viper key
var envBindings = map[string]string{
	"port":                  "PORT",
	"database_url":          "DATABASE_URL",
	"database_type":         "DATABASE_TYPE",
	"identity_secret":       "IDENTITY_SECRET",
	"purge_tokens_on_close": "PURGE_TOKENS_ON_CLOSE",
}

// ParseFlags reads flags, then fills anything not given on the command line
// from the environment (optionally seeded from a .env file) and defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fset := flag.NewFlagSet("council-vote", flag.ContinueOnError)

	fset.IntVar(&cfg.Port, "p", 0, "Server port")
	fset.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fset.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or pgx)")
	fset.StringVar(&cfg.IdentitySecret, "identity-secret", "", "Identity signing secret (prefer env)")
	fset.BoolVar(&cfg.PurgeTokensOnClose, "purge-tokens-on-close", true, "Delete eligibility tokens when a poll closes")
	envFile := fset.String("env-file", ".env", "Optional dotenv file")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	explicit := make(map[string]bool)
	fset.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	// Values already in the process environment win over the file
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	v := viper.New()
	v.SetDefault("port", 3318)
	v.SetDefault("database_type", DatabaseSQLite)
	v.SetDefault("purge_tokens_on_close", true)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if cfg.Port == 0 {
		port, err := strconv.Atoi(v.GetString("port"))
		if err != nil {
			return Config{}, errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = v.GetString("database_url")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = v.GetString("database_type")
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabasePgx:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secret - MUST be provided
	if cfg.IdentitySecret == "" {
		cfg.IdentitySecret = v.GetString("identity_secret")
	}
	if cfg.IdentitySecret == "" {
		return Config{}, errors.New("IDENTITY_SECRET required")
	}

	if !explicit["purge-tokens-on-close"] {
		cfg.PurgeTokensOnClose = v.GetBool("purge_tokens_on_close")
	}

	return cfg, nil
}
