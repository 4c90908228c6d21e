package bootstrap

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_Shape(t *testing.T) {
	t.Parallel()
	tok, err := NewToken()
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[a-f0-9]{6}$`), tok.ID)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{16}$`), tok.Secret)
	assert.Regexp(t, tokenPattern, tok.String())
}

func TestNewToken_Unique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewToken()
		require.NoError(t, err)
		require.False(t, seen[tok.String()], "duplicate token %s", tok.String())
		seen[tok.String()] = true
	}
}

func TestParseToken(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "abc123.0123456789abcdef"},
		{name: "uppercase id", input: "ABC123.0123456789abcdef", wantErr: true},
		{name: "short secret", input: "abc123.0123456789abcde", wantErr: true},
		{name: "missing dot", input: "abc1230123456789abcdef", wantErr: true},
		{name: "non-hex id", input: "abz123.0123456789abcdef", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok, err := ParseToken(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, tok.String())
		})
	}
}

func TestToken_SecretName(t *testing.T) {
	t.Parallel()
	tok := Token{ID: "abc123", Secret: "0123456789abcdef"}
	assert.Equal(t, "bootstrap-token-abc123", tok.SecretName())
}
