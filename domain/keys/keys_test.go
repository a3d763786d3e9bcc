package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "nonce:0xabc", RedisKey(PfxNonce, "0xabc"))
	assert.Equal(t, "metadata", RedisKey(PfxMetadata))
}

func TestMD5(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", MD5(""))
	assert.Len(t, MD5("ipfs://QmToken/1.json"), 32)
}
