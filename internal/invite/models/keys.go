package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// AttemptKey identifies an attempt counter.
type AttemptKey struct {
	Email    string
	Question string
}

func NewAttemptKey(email, question string) AttemptKey {
	return AttemptKey{Email: email, Question: question}
}

// String renders the key for key-value backends as
// attempts:<len(email)>:<email>:<question hash>. The length prefix keeps
// emails containing ':' from colliding with other emails; question text is
// free-form, so it is hashed.
func (k AttemptKey) String() string {
	sum := sha256.Sum256([]byte(k.Question))
	return "attempts:" + strconv.Itoa(len(k.Email)) + ":" + k.Email + ":" + hex.EncodeToString(sum[:8])
}
