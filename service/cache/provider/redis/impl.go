package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/base/metrics"
	"github.com/x-xyz/marketapi/service/cache/provider"
)

const (
	// pttl reply when the key does not exist
	retTTLNoKey = -2
	// pttl reply when the key exists but has no associated expire
	retTTLNoExpire = -1
)

// Pool is satisfied by *redis.Pool
type Pool interface {
	Get() redis.Conn
}

type impl struct {
	name string
	pool Pool
	met  metrics.Service
}

func NewRedis(name string, pool Pool) provider.Provider {
	return &impl{
		name: name,
		pool: pool,
		met:  metrics.New("redis"),
	}
}

func (im *impl) do(c ctx.Ctx, command string, args ...interface{}) (interface{}, error) {
	defer im.met.BumpTime("time", "func", command, "cluster", im.name).End()
	conn := im.pool.Get()
	if err := conn.Err(); err != nil {
		im.met.BumpSum("getConn.err", 1, "cluster", im.name)
		return nil, err
	}
	reply, err := conn.Do(command, args...)
	// release the connection back to the pool asap
	if err := conn.Close(); err != nil {
		im.met.BumpSum("conn.Close.err", 1, "cluster", im.name)
	}
	return reply, err
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, err := redis.Bytes(im.do(c, "GET", key))
	if err == redis.ErrNil {
		return nil, time.Duration(0), provider.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis GET failed")
		return nil, time.Duration(0), err
	}
	ms, err := redis.Int64(im.do(c, "PTTL", key))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis PTTL failed")
		return nil, time.Duration(0), err
	}
	switch ms {
	case retTTLNoKey:
		// expired between GET and PTTL
		return nil, time.Duration(0), provider.ErrNotFound
	case retTTLNoExpire:
		return val, time.Duration(0), nil
	}
	return val, time.Duration(ms) * time.Millisecond, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	var err error
	if ttl > 0 {
		ms := int64(ttl / time.Millisecond)
		if ms == 0 {
			ms = 1
		}
		_, err = im.do(c, "SET", key, value, "PX", ms)
	} else {
		_, err = im.do(c, "SET", key, value)
	}
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis SET failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	if _, err := im.do(c, "DEL", key); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis DEL failed")
		return err
	}
	return nil
}
