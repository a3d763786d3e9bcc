package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/x-xyz/marketapi/base/log"
)

// ContractCaller is the read-only call surface of an rpc client
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ThrottledCaller bounds the number of in-flight calls against one rpc endpoint
type ThrottledCaller struct {
	caller ContractCaller
	tokens chan int
}

func NewThrottledCaller(caller ContractCaller, n int) *ThrottledCaller {
	if n < 1 {
		n = 1
	}
	tokens := make(chan int, n)
	for i := 0; i < n; i++ {
		tokens <- i + 1
	}
	return &ThrottledCaller{
		caller: caller,
		tokens: tokens,
	}
}

func (c *ThrottledCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	token, err := c.before(ctx)
	if err != nil {
		return nil, err
	}
	defer c.after(token)
	return c.caller.CallContract(ctx, msg, blockNumber)
}

func (c *ThrottledCaller) before(ctx context.Context) (int, error) {
	now := time.Now()
	select {
	case <-ctx.Done():
		log.Log().WithField("wait", time.Since(now)).Debug("throttle ctx done")
		return 0, ctx.Err()
	case token := <-c.tokens:
		if wait := time.Since(now); wait > time.Second {
			log.Log().WithFields(log.Fields{
				"token": token,
				"wait":  wait,
			}).Warn("throttled rpc call")
		}
		return token, nil
	}
}

func (c *ThrottledCaller) after(token int) {
	c.tokens <- token
}
