// Package randstr generates random strings over a fixed alphabet.
package randstr

import "math/rand/v2"

type Generator struct {
	letters []byte
}

func New(letters []byte) *Generator {
	return &Generator{letters: letters}
}

func (g *Generator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = g.letters[rand.IntN(len(g.letters))]
	}

	return string(b)
}
