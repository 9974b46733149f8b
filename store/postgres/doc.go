// Package postgres stores identities and catalog documents in PostgreSQL
// through pgx v5. Identities use plain columns; catalog records keep their
// JSON document in a jsonb column next to the indexed fields.
//
// Call [Store.Migrate] once before first use.
package postgres
