package keys

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const (
	// PfxNonce prefixes sign-in nonces
	PfxNonce = "nonce"
	// PfxMetadata prefixes parsed token metadata documents
	PfxMetadata = "metadata"
	// PfxHttpCache prefixes cached http responses
	PfxHttpCache = "httpCache"
	// PfxHealthCheck prefixes health check probes
	PfxHealthCheck = "healthCheck"
)

// MD5 hashes the data with md5
func MD5(data string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}
