package sqlite

// Schema DDL. Each document is one row; every save also appends a history
// row so earlier revisions can be listed.
const (
	createDocuments = `CREATE TABLE IF NOT EXISTS documents (
    name TEXT PRIMARY KEY,
    body BLOB NOT NULL,
    revision TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createDocumentHistory = `CREATE TABLE IF NOT EXISTS document_history (
    revision TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    size INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL.
const (
	idxDocumentHistoryName = `CREATE INDEX IF NOT EXISTS idx_document_history_name ON document_history(name, created_at);`
)

// schemaDDL lists all statements run on Attach, tables first.
var schemaDDL = []string{
	createDocuments,
	createDocumentHistory,
	idxDocumentHistoryName,
}

// Statements used by the backend.
const (
	selectDocument = `SELECT body FROM documents WHERE name = ?`

	upsertDocument = `INSERT INTO documents (name, body, revision, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    body = excluded.body,
    revision = excluded.revision,
    updated_at = excluded.updated_at`

	insertHistory = `INSERT INTO document_history (revision, name, size, created_at) VALUES (?, ?, ?, ?)`

	selectHistory = `SELECT revision, size, created_at FROM document_history
WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`
)
