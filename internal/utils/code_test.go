package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReferralCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateReferralCode()
		assert.Len(t, code, ReferralCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q in %s", r, code)
		}
	}
}

func TestGenerateReferralCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateReferralCode()] = true
	}
	// 36^8 possibilities make 50 collisions in a row effectively impossible
	assert.Greater(t, len(seen), 1)
}
