package gen

import (
	"fmt"
	"io/fs"
)

// fakeKeySource hands out deterministic keypairs so rendered artifacts can
// be asserted against.
type fakeKeySource struct {
	n int
}

func (f *fakeKeySource) NewPrivateKey() (string, error) {
	f.n++
	return fmt.Sprintf("priv-%d", f.n), nil
}

func (f *fakeKeySource) DerivePublicKey(private string) (string, error) {
	return "pub(" + private + ")", nil
}

// failingKeySource errors on first use.
type failingKeySource struct{}

func (failingKeySource) NewPrivateKey() (string, error) {
	return "", fmt.Errorf("entropy pool on strike")
}

func (failingKeySource) DerivePublicKey(private string) (string, error) {
	return "", fmt.Errorf("entropy pool on strike")
}

// fakeWriter records all writes in memory.
type fakeWriter struct {
	dirs  []string
	files map[string][]byte
	modes map[string]fs.FileMode
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		files: make(map[string][]byte),
		modes: make(map[string]fs.FileMode),
	}
}

func (w *fakeWriter) MkdirAll(path string, perm fs.FileMode) error {
	w.dirs = append(w.dirs, path)
	return nil
}

func (w *fakeWriter) WriteFile(path string, data []byte, perm fs.FileMode) error {
	w.files[path] = data
	w.modes[path] = perm
	return nil
}
