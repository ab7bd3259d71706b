package utils

import "math/rand"

// Alphabet for referral codes: uppercase letters and digits
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferralCodeLength is the fixed length of every referral code
const ReferralCodeLength = 8

// GenerateReferralCode returns a random 8-character alphanumeric code.
// Uniqueness is the caller's responsibility (regenerate on collision).
func GenerateReferralCode() string {
	b := make([]byte, ReferralCodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
