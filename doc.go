// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the council-vote API server.

council-vote runs student council polls: administrators open a poll with a
fixed set of options, each registered student casts exactly one ballot, and
results stay sealed until the poll is closed and an administrator publishes
them.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:council.db IDENTITY_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -identity-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file DSN or PostgreSQL connection string
  - IDENTITY_SECRET (-identity-secret): Secret shared with the identity provider

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - PURGE_TOKENS_ON_CLOSE: Drop eligibility tokens when a poll closes (default: true)

# Architecture

  - ballot: Polls, eligibility, the ballot ledger, tallies and the poll lifecycle
  - handlers: HTTP request handlers over ballot.Engine
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, identity, JSON helpers
  - models: Domain and request/response types
  - auth: ID and token generation, identity signatures
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
