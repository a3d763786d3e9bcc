package compound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/service/cache/provider"
	"github.com/x-xyz/marketapi/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	lyr0 provider.Provider
	lyr1 provider.Provider
	im   *impl
}

func (ts *testsuite) SetupTest() {
	ts.lyr0 = primitive.NewPrimitive("layer 0", 1)
	ts.lyr1 = primitive.NewPrimitive("layer 1", 1)
	ts.im = NewCompound([]provider.Provider{ts.lyr0, ts.lyr1}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSetWritesEveryLayer() {
	k := "key"
	v := []byte("value")

	ts.NoError(ts.im.Set(mockCtx, k, v, time.Minute))
	r0, _, e := ts.lyr0.Get(mockCtx, k)
	ts.NoError(e)
	ts.Equal(v, r0)
	r1, _, e := ts.lyr1.Get(mockCtx, k)
	ts.NoError(e)
	ts.Equal(v, r1)
}

func (ts *testsuite) TestGet() {
	cases := []struct {
		Desc  string
		Key   string
		Val   string
		Err   error
		Cache provider.Provider
	}{
		{
			Desc:  "hit in layer 0",
			Key:   "key 0",
			Val:   "value 0",
			Cache: ts.lyr0,
		},
		{
			Desc:  "hit in layer 1",
			Key:   "key 1",
			Val:   "value 1",
			Cache: ts.lyr1,
		},
		{
			Desc: "miss",
			Key:  "key 2",
			Err:  provider.ErrNotFound,
		},
	}

	for _, c := range cases {
		if c.Cache != nil {
			ts.NoError(c.Cache.Set(mockCtx, c.Key, []byte(c.Val), time.Minute), c.Desc)
		}

		v, _, e := ts.im.Get(mockCtx, c.Key)
		ts.Equal(c.Err, e, c.Desc)
		if c.Err == nil {
			ts.Equal(c.Val, string(v), c.Desc)
		}
	}
}

func (ts *testsuite) TestGetFillsFrontLayers() {
	ts.NoError(ts.lyr1.Set(mockCtx, "key", []byte("value"), time.Minute))

	_, _, err := ts.lyr0.Get(mockCtx, "key")
	ts.Equal(provider.ErrNotFound, err)

	_, _, err = ts.im.Get(mockCtx, "key")
	ts.NoError(err)

	v, ttl, err := ts.lyr0.Get(mockCtx, "key")
	ts.NoError(err)
	ts.Equal([]byte("value"), v)
	ts.True(ttl > 0)
}

func (ts *testsuite) TestDel() {
	ts.NoError(ts.im.Set(mockCtx, "key", []byte("value"), time.Minute))
	ts.NoError(ts.im.Del(mockCtx, "key"))

	_, _, err := ts.lyr0.Get(mockCtx, "key")
	ts.Equal(provider.ErrNotFound, err)
	_, _, err = ts.lyr1.Get(mockCtx, "key")
	ts.Equal(provider.ErrNotFound, err)
}
