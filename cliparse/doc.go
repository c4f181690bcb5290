// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string or SQLite file DSN (required)
  - DatabaseType: sqlite, postgres (lib/pq) or pgx (default: sqlite)
  - IdentitySecret: Shared secret for identity signatures and admin keys (required)
  - PurgeTokensOnClose: Drop eligibility tokens on close (default: true)

# CLI Flags

	-p                       Server port
	-d                       Database URL
	-t                       Database type
	-identity-secret         Identity signing secret
	-purge-tokens-on-close   Purge eligibility tokens when a poll closes
	-env-file                Dotenv file to load (default: .env)

# Environment Variables

Flags fall back to environment variables, read through viper:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	IDENTITY_SECRET       → -identity-secret
	PURGE_TOKENS_ON_CLOSE → -purge-tokens-on-close

A .env file is loaded first if present; it never overrides variables that
are already set. CLI flags take precedence over everything.
*/
package cliparse
