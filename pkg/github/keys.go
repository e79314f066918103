package github

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/youmark/pkcs8"

	"restops/pkg/enums"
)

// KeyFormat is the PEM layout of an App private key.
var KeyFormat = enums.Register("github_private_key_format",
	enums.M("PEM_PKCS_1", "PKCS#1"),
	enums.M("PEM_PKCS_8", "PKCS#8"),
)

const (
	FormatPKCS1 = "PKCS#1"
	FormatPKCS8 = "PKCS#8"
)

var errNoPEM = errors.New("private key is not PEM encoded")

// ParsePrivateKey decodes a PEM private key of the given format.
//
// PKCS#1 keys, optionally encrypted with legacy PEM encryption, are first
// converted to PKCS#8. PKCS#8 keys may be encrypted, in which case password
// is required.
func ParsePrivateKey(data, format, password string) (crypto.Signer, error) {
	if strings.TrimSpace(data) == "" {
		return nil, fmt.Errorf("the 'private_key' is required")
	}
	format, err := KeyFormat.Parse(format)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatPKCS8
	}

	block, _ := pem.Decode([]byte(strings.TrimSpace(data)))
	if block == nil {
		return nil, errNoPEM
	}

	der := block.Bytes
	if format == FormatPKCS1 && block.Type != "PRIVATE KEY" && block.Type != "ENCRYPTED PRIVATE KEY" {
		der, err = pkcs1ToPKCS8(block, password)
		if err != nil {
			return nil, err
		}
	}

	var key any
	if block.Type == "ENCRYPTED PRIVATE KEY" {
		if password == "" {
			return nil, fmt.Errorf("private key is encrypted and no password was given")
		}
		key, err = pkcs8.ParsePKCS8PrivateKey(der, []byte(password))
	} else {
		key, err = pkcs8.ParsePKCS8PrivateKey(der)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
	}

	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("unsupported private key type %T", key)
	}
	return signer, nil
}

// pkcs1ToPKCS8 returns the unencrypted PKCS#8 DER form of a PKCS#1 RSA or
// SEC1 EC key block.
func pkcs1ToPKCS8(block *pem.Block, password string) ([]byte, error) {
	der := block.Bytes
	//nolint:staticcheck // legacy PEM encryption is still found on PKCS#1 keys
	if x509.IsEncryptedPEMBlock(block) {
		if password == "" {
			return nil, fmt.Errorf("private key is encrypted and no password was given")
		}
		var err error
		//nolint:staticcheck // see above
		der, err = x509.DecryptPEMBlock(block, []byte(password))
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
	}

	var (
		key any
		err error
	)
	switch block.Type {
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(der)
	default:
		key, err = x509.ParsePKCS1PrivateKey(der)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKCS#1 private key: %w", err)
	}

	out, err := pkcs8.ConvertPrivateKeyToPKCS8(key)
	if err != nil {
		return nil, fmt.Errorf("failed to convert private key to PKCS#8: %w", err)
	}
	return out, nil
}
