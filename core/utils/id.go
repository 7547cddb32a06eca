package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short unique identifier
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateShareCode returns a code suitable for meeting share links.
// Longer than GenerateID so codes stay unguessable.
func GenerateShareCode() string {
	code, err := gonanoid.Generate(idAlphabet, 12)
	if err != nil {
		return ""
	}
	return code
}
