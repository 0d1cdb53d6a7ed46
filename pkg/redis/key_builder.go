package redis

import "fmt"

// KeyBuilder prefixes keys per environment so staging and production can share an instance
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

func (kb *KeyBuilder) KeyPoolsCount() string {
	return kb.BuildKey(KeyPoolsCount)
}

func (kb *KeyBuilder) KeyGuessesCount() string {
	return kb.BuildKey(KeyGuessesCount)
}

func (kb *KeyBuilder) KeyUsersCount() string {
	return kb.BuildKey(KeyUsersCount)
}

// KeyRateLimit returns the window counter key for one client in one scope
func (kb *KeyBuilder) KeyRateLimit(scope, clientHash string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRateLimit, scope, clientHash))
}
