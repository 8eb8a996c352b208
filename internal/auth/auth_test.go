package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSalt(t *testing.T) {
	t.Parallel()

	salt := MakeSalt(saltLength)
	assert.Len(t, salt, saltLength)
	for _, r := range salt {
		assert.Contains(t, saltAlphabet, string(r))
	}

	// Two salts colliding would be a 1-in-52^5 fluke; treat it as failure.
	assert.NotEqual(t, MakeSalt(saltLength), MakeSalt(saltLength))
}

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	hash := HashPassword("alice", "secret", "")
	salt, digest, ok := strings.Cut(hash, "|")
	require.True(t, ok)
	assert.Len(t, salt, saltLength)
	assert.Len(t, digest, 64) // hex sha256
}

func TestHashPassword_DeterministicGivenSalt(t *testing.T) {
	t.Parallel()

	first := HashPassword("alice", "secret", "AbCdE")
	second := HashPassword("alice", "secret", "AbCdE")
	assert.Equal(t, first, second)

	assert.NotEqual(t, first, HashPassword("alice", "secret", "eDcBa"))
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"simple", "alice", "secret"},
		{"long password", "bob", strings.Repeat("p", 20)},
		{"symbols", "carol_1", "p@ss w0rd!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stored := HashPassword(tt.username, tt.password, "")
			assert.True(t, CheckPassword(tt.username, tt.password, stored))
			assert.False(t, CheckPassword(tt.username, tt.password+"x", stored))
			assert.False(t, CheckPassword(tt.username+"x", tt.password, stored))
		})
	}
}

func TestCheckPassword_MalformedStored(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("alice", "secret", ""))
	assert.False(t, CheckPassword("alice", "secret", "no-separator"))
}

func TestSessionCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("test-secret")
	for _, id := range []uint{1, 42, 99999} {
		token := codec.Issue(id)
		got, ok := codec.Verify(token)
		require.True(t, ok, "token for id %d should verify", id)
		assert.Equal(t, id, got)
	}
}

func TestSessionCodec_RejectsMutatedTokens(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("test-secret")
	token := codec.Issue(42)

	// Every single-character mutation must fail verification.
	for i := 0; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'x' {
			mutated[i] = 'y'
		} else {
			mutated[i] = 'x'
		}
		_, ok := codec.Verify(string(mutated))
		assert.False(t, ok, "mutation at index %d should not verify", i)
	}
}

func TestSessionCodec_RejectsMalformedInput(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("test-secret")
	for _, token := range []string{"", "|", "42", "42|", "|deadbeef", "abc|def", strings.Repeat("|", 10)} {
		_, ok := codec.Verify(token)
		assert.False(t, ok, "token %q should not verify", token)
	}
}

func TestSessionCodec_SecretMatters(t *testing.T) {
	t.Parallel()

	token := NewSessionCodec("secret-one").Issue(7)
	_, ok := NewSessionCodec("secret-two").Verify(token)
	assert.False(t, ok)
}
