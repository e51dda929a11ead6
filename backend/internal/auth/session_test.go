package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := NewHMACCodec("secret")
	token := codec.Issue("user-1")
	assert.Equal(t, "user-1", codec.Verify(token))
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := NewHMACCodec("secret")
	token := codec.Issue("user-1")

	tampered := strings.Replace(token, "user-1", "user-2", 1)
	assert.Equal(t, "", codec.Verify(tampered))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token := NewHMACCodec("secret-a").Issue("user-1")
	assert.Equal(t, "", NewHMACCodec("secret-b").Verify(token))
}

func TestVerifyRejectsMalformed(t *testing.T) {
	codec := NewHMACCodec("secret")
	for _, token := range []string{"", "abc", "a:b", "a:b:c:d"} {
		assert.Equal(t, "", codec.Verify(token))
	}
}
