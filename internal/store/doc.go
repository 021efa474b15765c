// Package store persists competition records keyed by competition id.
//
// Every backend implements the same upsert: writing a record with an existing id
// replaces it. Records are never deleted. Backends are a JSON file on disk, a Redis
// hash, a PostgreSQL or MySQL table, and a file in a private GitHub Gist.
package store
