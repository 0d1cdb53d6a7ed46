package service

import (
	"crypto/rand"
	"fmt"
	"strings"

	"pool-api/internal/domain"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// largest multiple of len(codeAlphabet) that fits in a byte; bytes above it are
// discarded so every symbol is equally likely
const codeRejectAbove = 256 - 256%len(codeAlphabet)

// RandomCodeGenerator draws join codes from crypto/rand
type RandomCodeGenerator struct {
	read func([]byte) (int, error)
}

// NewCodeGenerator returns a generator backed by crypto/rand
func NewCodeGenerator() *RandomCodeGenerator {
	return &RandomCodeGenerator{read: rand.Read}
}

// Generate returns 6 characters from [A-Z0-9]
func (g *RandomCodeGenerator) Generate() string {
	var sb strings.Builder
	sb.Grow(domain.CodeLength)

	buf := make([]byte, domain.CodeLength*2)
	for sb.Len() < domain.CodeLength {
		if _, err := g.read(buf); err != nil {
			panic(fmt.Sprintf("pool code entropy source failed: %v", err))
		}
		for _, b := range buf {
			if int(b) >= codeRejectAbove {
				continue
			}
			sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
			if sb.Len() == domain.CodeLength {
				break
			}
		}
	}

	return sb.String()
}

// NormalizeCode trims and upper-cases a user supplied code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
