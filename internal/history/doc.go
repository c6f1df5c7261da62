// Package history records every pipeline run in a SQLite database.
//
// Each audio or youtube invocation inserts a row when it starts and updates
// it with the final status, project folder and error classification when it
// ends. The history command reads the most recent rows.
//
// Schema changes bump schemaVersion in schema.go; users delete history.db to
// adopt the new schema.
package history
