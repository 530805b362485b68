// Package objects defines the PowerShell values that cross the host UI boundary.
//
// # SecureString
//
// SecureString keeps sensitive input (passwords read with echo disabled)
// encrypted in memory:
//
//	ss, err := objects.NewSecureString("secret")
//	if err != nil {
//		return err
//	}
//	defer ss.Clear()
//
// # PSCredential
//
// PSCredential pairs a user name with a SecureString password, as returned
// by PromptForCredential.
//
// # ProgressRecord
//
// ProgressRecord carries a progress update for WriteProgress.
//
// # Reference
//
// MS-PSRP Section 2.2.5.2: https://docs.microsoft.com/en-us/openspecs/windows_protocols/ms-psrp/
package objects

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// ErrCleared is returned when a cleared SecureString is decrypted.
var ErrCleared = errors.New("secure string has been cleared")

// SecureString holds AES-GCM encrypted text under a per-value random key.
type SecureString struct {
	sealed  []byte
	key     []byte
	length  int
	cleared bool
}

// NewSecureString encrypts plaintext into a new SecureString.
func NewSecureString(plaintext string) (*SecureString, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return &SecureString{
		sealed: gcm.Seal(nonce, nonce, []byte(plaintext), nil),
		key:    key,
		length: len([]rune(plaintext)),
	}, nil
}

// Len returns the number of characters held.
func (s *SecureString) Len() int { return s.length }

// Decrypt returns the plaintext. The caller should zero the slice when done.
func (s *SecureString) Decrypt() ([]byte, error) {
	if s.cleared {
		return nil, ErrCleared
	}

	gcm, err := newGCM(s.key)
	if err != nil {
		return nil, err
	}

	n := gcm.NonceSize()
	if len(s.sealed) < n {
		return nil, fmt.Errorf("sealed data shorter than nonce")
	}
	return gcm.Open(nil, s.sealed[:n], s.sealed[n:], nil)
}

// Clear zeroes the key and ciphertext.
func (s *SecureString) Clear() {
	clear(s.sealed)
	clear(s.key)
	s.cleared = true
	s.length = 0
}

// String never reveals the content.
func (s *SecureString) String() string { return "System.Security.SecureString" }

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return gcm, nil
}

// PSCredential represents a PowerShell PSCredential object.
type PSCredential struct {
	UserName string
	Password *SecureString
}

// NewPSCredential creates a new PSCredential.
func NewPSCredential(userName string, password *SecureString) *PSCredential {
	return &PSCredential{
		UserName: userName,
		Password: password,
	}
}

// Clear clears the password.
func (c *PSCredential) Clear() {
	if c.Password != nil {
		c.Password.Clear()
	}
}

// ProgressRecord represents a PowerShell progress update.
type ProgressRecord struct {
	ActivityID        int
	ParentActivityID  int
	Activity          string
	StatusDescription string
	CurrentOperation  string
	PercentComplete   int
	SecondsRemaining  int
	RecordType        ProgressRecordType
}

// ProgressRecordType indicates the type of progress record.
type ProgressRecordType int

const (
	// ProgressRecordTypeProcessing marks an activity in progress.
	ProgressRecordTypeProcessing ProgressRecordType = iota
	// ProgressRecordTypeCompleted marks a finished activity.
	ProgressRecordTypeCompleted
)
