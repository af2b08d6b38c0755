// Package pg provides PostgreSQL connection pooling, health checks, and
// goose-based schema migrations on top of pgx.
package pg
