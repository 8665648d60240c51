package redis

import (
	"fmt"
	"strings"

	"github.com/teamoff/offdays/internal/domain"
)

const (
	// KeyPrefixWindow is the prefix for window snapshot keys
	KeyPrefixWindow = "offdays:window:"
	// KeyRoster is the key for the cached team configuration document
	KeyRoster = "offdays:roster"
)

// WindowKey returns the Redis key for a window snapshot
func WindowKey(key domain.WindowKey) string {
	return KeyPrefixWindow + string(key)
}

// ExtractWindowKey extracts the window key from a Redis key
func ExtractWindowKey(redisKey string) (domain.WindowKey, error) {
	if !strings.HasPrefix(redisKey, KeyPrefixWindow) || len(redisKey) <= len(KeyPrefixWindow) {
		return "", fmt.Errorf("invalid window snapshot key: %s", redisKey)
	}
	return domain.WindowKey(redisKey[len(KeyPrefixWindow):]), nil
}
