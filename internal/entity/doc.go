// Package entity defines the tracked record base and the explicit table
// configuration registry used by the SQL store.
//
// Tracked carries the audit columns shared by every stored record (id,
// created/updated by and on, optimistic concurrency version). Record types
// embed it and register a Config naming their table and extra columns at
// startup; nothing is discovered by reflection.
package entity
