// Package database provides SQLite-based storage for conversion run
// history. Each completed run is recorded with its counters and per-tag
// page counts so past conversions of the same dump can be compared.
package database
