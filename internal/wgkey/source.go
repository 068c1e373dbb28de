package wgkey

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// LocalSource generates keypairs in-process using x/crypto. Keys are handed
// out as their base64 string form since downstream consumers only ever embed
// them into rendered config text.
type LocalSource struct{}

// NewPrivateKey generates a fresh private key.
func (LocalSource) NewPrivateKey() (string, error) {
	k, err := GeneratePrivateKey()
	if err != nil {
		return "", err
	}
	return k.String(), nil
}

// DerivePublicKey returns the public key corresponding to the given base64
// private key.
func (LocalSource) DerivePublicKey(private string) (string, error) {
	k, err := ParseKey(private)
	if err != nil {
		return "", fmt.Errorf("parsing private key: %w", err)
	}
	return PublicKey(k).String(), nil
}

// CommandSource generates keypairs by invoking the wg(8) command line tool,
// for setups that want keys to come from the same binary that will consume
// the generated configs.
type CommandSource struct {
	// Path is the wg executable to invoke. Empty means "wg" from $PATH.
	Path string
}

func (s CommandSource) executable() string {
	if s.Path != "" {
		return s.Path
	}
	return "wg"
}

// NewPrivateKey runs `wg genkey`.
func (s CommandSource) NewPrivateKey() (string, error) {
	out, err := exec.Command(s.executable(), "genkey").Output()
	if err != nil {
		return "", fmt.Errorf("running %s genkey: %w", s.executable(), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// DerivePublicKey runs `wg pubkey` with the private key on stdin.
func (s CommandSource) DerivePublicKey(private string) (string, error) {
	cmd := exec.Command(s.executable(), "pubkey")
	cmd.Stdin = bytes.NewBufferString(private + "\n")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("running %s pubkey: %w", s.executable(), err)
	}
	return strings.TrimSpace(string(out)), nil
}
