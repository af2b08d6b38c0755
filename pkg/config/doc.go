// Package config loads environment-driven configuration structs.
//
// It combines godotenv (optional .env bootstrap) with caarlos0/env struct
// tag parsing, and caches each configuration type for the process lifetime
// so repeated Load calls are cheap and consistent.
package config
