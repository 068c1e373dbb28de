package gen

import (
	"io/fs"
	"os"
)

// KeySource abstracts keypair generation so the driver can be tested with
// deterministic keys and so key material can optionally come from the wg(8)
// tool instead of the in-process generator.
type KeySource interface {
	NewPrivateKey() (string, error)
	DerivePublicKey(private string) (string, error)
}

// FileWriter abstracts artifact persistence for testability. The driver
// renders everything in memory first and only then touches the writer, so a
// failing generation never leaves partial output behind.
type FileWriter interface {
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// OSWriter is the FileWriter backed by the real filesystem.
type OSWriter struct{}

func (OSWriter) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSWriter) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}
