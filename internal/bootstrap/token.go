package bootstrap

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	tokenIDLength     = 6
	tokenSecretLength = 16

	// secretAlphabet is the character set for the token secret. Both
	// halves must stay lowercase so the token survives DNS-label and
	// secret-name contexts unchanged.
	secretAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idAlphabet     = "0123456789abcdef"
)

var tokenPattern = regexp.MustCompile(`^[a-f0-9]{6}\.[a-z0-9]{16}$`)

// Token is a kubelet bootstrap token in the id.secret form kube-apiserver
// expects. The ID is public and names the secret object; the secret half
// is the credential.
type Token struct {
	ID     string `yaml:"id"`
	Secret string `yaml:"secret"`
}

// NewToken generates a fresh bootstrap token from crypto/rand.
func NewToken() (Token, error) {
	id, err := randomString(idAlphabet, tokenIDLength)
	if err != nil {
		return Token{}, fmt.Errorf("failed to generate token id: %w", err)
	}
	secret, err := randomString(secretAlphabet, tokenSecretLength)
	if err != nil {
		return Token{}, fmt.Errorf("failed to generate token secret: %w", err)
	}
	return Token{ID: id, Secret: secret}, nil
}

// ParseToken splits an id.secret string and validates its shape.
func ParseToken(s string) (Token, error) {
	if !tokenPattern.MatchString(s) {
		return Token{}, fmt.Errorf("malformed bootstrap token: expected <6 hex>.<16 lowercase alphanumeric>")
	}
	id, secret, _ := strings.Cut(s, ".")
	return Token{ID: id, Secret: secret}, nil
}

// String renders the token in the id.secret wire form.
func (t Token) String() string {
	return t.ID + "." + t.Secret
}

// SecretName is the name of the Kubernetes secret holding this token.
func (t Token) SecretName() string {
	return "bootstrap-token-" + t.ID
}

func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}
