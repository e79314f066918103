package security

import (
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"restops/pkg/core/config"
)

// ErrPasswordRequired is returned for blank passwords.
var ErrPasswordRequired = errors.New("The Field 'password' is Mandatory.") //nolint:staticcheck // user facing message

const (
	pbkdf2KeyLength = 64
	pbkdf2Prefix    = "pbkdf2-sha512"
)

// PBKDF2Params are the inputs of a hash computation.
type PBKDF2Params struct {
	Password string `yaml:"password"`
	Salt     string `yaml:"salt"`
	Rounds   int    `yaml:"rounds"`
}

// SetDefaults implements config.Defaulter.
func (p *PBKDF2Params) SetDefaults() {
	p.Rounds = config.DefaultPBKDF2Rounds
}

// PBKDF2Result is the hash in the formats consumers expect.
type PBKDF2Result struct {
	PasswordOriginal   string `json:"password_original"`
	SaltOriginal       string `json:"salt_original"`
	Salt               string `json:"salt"`
	PasswordSingleLine string `json:"password_single_line"`
	PasswordCrypted    string `json:"password_crypted"`
	Rounds             string `json:"rounds"`
	HashMethod         string `json:"hash_method,omitempty"`
	HashDerivation     string `json:"hash_derivation,omitempty"`
	HashAlgorithm      string `json:"hash_algoritm"`
}

// HashPBKDF2 derives a PBKDF2-HMAC-SHA512 key of 64 bytes.
//
// A blank salt is replaced by a random 16 character salt and rounds <= 0
// fall back to 100000. The single-line form is
// "$pbkdf2-sha512$<rounds>$<b64 salt>$<b64 hash>" with standard, padded
// base64.
func HashPBKDF2(p PBKDF2Params) (*PBKDF2Result, error) {
	if strings.TrimSpace(p.Password) == "" {
		return nil, ErrPasswordRequired
	}

	salt := p.Salt
	if strings.TrimSpace(salt) == "" {
		var err error
		if salt, err = RandomString(config.DefaultSaltLength); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
	}

	rounds := p.Rounds
	if rounds <= 0 {
		rounds = config.DefaultPBKDF2Rounds
	}

	key := pbkdf2.Key([]byte(p.Password), []byte(salt), rounds, pbkdf2KeyLength, sha512.New)

	saltEncoded := base64.StdEncoding.EncodeToString([]byte(salt))
	hashEncoded := base64.StdEncoding.EncodeToString(key)
	roundsText := strconv.Itoa(rounds)

	return &PBKDF2Result{
		PasswordOriginal:   p.Password,
		SaltOriginal:       salt,
		Salt:               saltEncoded,
		PasswordSingleLine: "$" + pbkdf2Prefix + "$" + roundsText + "$" + saltEncoded + "$" + hashEncoded,
		PasswordCrypted:    roundsText + "$" + hashEncoded,
		Rounds:             roundsText,
		HashMethod:         "PBKDF2",
		HashAlgorithm:      "SHA512",
	}, nil
}

// HashPBKDF2Lookup is the lookup flavour of HashPBKDF2: the password is
// trimmed first and the result reports hash_derivation instead of
// hash_method.
func HashPBKDF2Lookup(p PBKDF2Params) (*PBKDF2Result, error) {
	p.Password = strings.TrimSpace(p.Password)
	res, err := HashPBKDF2(p)
	if err != nil {
		return nil, err
	}
	res.HashDerivation, res.HashMethod = res.HashMethod, ""
	return res, nil
}
