package types

// Document names one of the three persisted stores.
type Document string

// The persisted documents. Each is saved whole; there is no partial write.
const (
	DocParameters Document = "parameters"
	DocCommands   Document = "generic_commands"
	DocTests      Document = "tests"
)

// Documents lists every document in load order.
var Documents = []Document{DocParameters, DocCommands, DocTests}

// Store persists whole documents. Callers attach to a backend, load and save
// documents by name, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Load returns the raw bytes of a document. Returns ErrNotFound if the
	// document was never saved.
	Load(doc Document) ([]byte, error)

	// Save replaces the document with data. A failed Save leaves the
	// previously saved document intact.
	Save(doc Document, data []byte) error

	// Detach releases backend resources. Idempotent.
	Detach() error
}
