package primitive

import (
	"time"

	"github.com/coocood/freecache"
	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive creates an in-process cache of sizeMb megabytes
func NewPrimitive(name string, sizeMb int) provider.Provider {
	return &impl{name, freecache.NewCache(sizeMb * 1024 * 1024)}
}

// expireSeconds rounds sub-second ttls up, freecache treats 0 as no expiry
func expireSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	sec := int(ttl / time.Second)
	if ttl%time.Second != 0 {
		sec++
	}
	return sec
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, expireAt, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, time.Duration(0), provider.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name}).Error("cache.Get failed")
		return nil, time.Duration(0), err
	}
	if expireAt == 0 {
		return val, time.Duration(0), nil
	}
	return val, time.Until(time.Unix(int64(expireAt), 0)), nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.cache.Set([]byte(key), value, expireSeconds(ttl)); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name}).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}
