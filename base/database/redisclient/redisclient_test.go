package redisclient

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPoolSizing(t *testing.T) {
	p := NewPool("localhost:6379", "")
	assert.Equal(t, 200, p.MaxIdle)
	assert.Equal(t, 1024, p.MaxActive)

	p = NewPool("localhost:6379", "secret", RedisParam{PoolMultiplier: 4})
	cpu := runtime.NumCPU()
	assert.Equal(t, cpu*4, p.MaxActive)
	assert.Equal(t, cpu, p.MaxIdle)
}

func TestConnectRedisUnreachable(t *testing.T) {
	// port 1 is never a redis server
	_, err := ConnectRedis("127.0.0.1:1", "")
	assert.Error(t, err)
}
