// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// Sealed file layout: magic | salt | nonce | secretbox(plain).
const (
	sealMagic   = "EDS1"
	saltSize    = 16
	nonceSize   = 24
	keySize     = 32
	scryptCost  = 1 << 15
	scryptBlock = 8
	scryptPar   = 1
)

// sealer encrypts session files with a key derived from an operator secret.
type sealer struct {
	secret []byte
}

func newSealer(secret string) *sealer {
	if secret == "" {
		return nil
	}
	return &sealer{secret: []byte(secret)}
}

// deriveKey stretches the secret with a per-file salt.
func (s *sealer) deriveKey(salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key(s.secret, salt, scryptCost, scryptBlock, scryptPar, keySize)
	if err != nil {
		return nil, fmt.Errorf("session: derive key: %w", err)
	}

	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}

// seal encrypts plain with a fresh salt and nonce.
func (s *sealer) seal(plain []byte) ([]byte, error) {
	header := make([]byte, len(sealMagic)+saltSize+nonceSize)
	copy(header, sealMagic)

	salt := header[len(sealMagic) : len(sealMagic)+saltSize]
	if _, err := io.ReadFull(rand.Reader, header[len(sealMagic):]); err != nil {
		return nil, fmt.Errorf("session: read entropy: %w", err)
	}

	key, err := s.deriveKey(salt)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], header[len(sealMagic)+saltSize:])

	return secretbox.Seal(header, plain, &nonce, key), nil
}

// open reverses [sealer.seal]. A wrong secret or tampered file yields ErrCorrupt.
func (s *sealer) open(data []byte) ([]byte, error) {
	headerSize := len(sealMagic) + saltSize + nonceSize
	if len(data) < headerSize+secretbox.Overhead || !bytes.HasPrefix(data, []byte(sealMagic)) {
		return nil, fmt.Errorf("%w: not a sealed session file", ErrCorrupt)
	}

	salt := data[len(sealMagic) : len(sealMagic)+saltSize]
	key, err := s.deriveKey(salt)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[len(sealMagic)+saltSize:headerSize])

	plain, ok := secretbox.Open(nil, data[headerSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, errSealMismatch)
	}
	return plain, nil
}

var errSealMismatch = errors.New("secret does not match or file was modified")
