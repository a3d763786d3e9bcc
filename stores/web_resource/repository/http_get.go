package repository

import (
	"io"
	"io/ioutil"
	"net/http"
	"time"

	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/domain"
	"golang.org/x/xerrors"
)

// HttpCfg is shared by every reader that speaks http
type HttpCfg struct {
	Client  *http.Client
	Timeout time.Duration
	// MaxBodyBytes caps the response size, 0 means unlimited
	MaxBodyBytes int64
	Headers      map[string]string
}

func (cfg HttpCfg) client() *http.Client {
	if cfg.Client == nil {
		return http.DefaultClient
	}
	return cfg.Client
}

// readAll reads r up to max bytes and fails if there is more
func readAll(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return ioutil.ReadAll(r)
	}
	body, err := ioutil.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > max {
		return nil, domain.ErrResponseTooLarge
	}
	return body, nil
}

func httpGet(c bCtx.Ctx, cfg HttpCfg, url string) ([]byte, error) {
	ctx := c
	if cfg.Timeout > 0 {
		var cancel func()
		ctx, cancel = bCtx.WithTimeout(c, cfg.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	resp, err := cfg.client().Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{"url": url, "err": err}).Warn("failed with request")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Warn("resp.StatusCode != 200")
		return nil, xerrors.Errorf("GET %s: status %d: %w", url, resp.StatusCode, domain.ErrUnexpectedResponse)
	}
	body, err := readAll(resp.Body, cfg.MaxBodyBytes)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("failed to read body")
		return nil, err
	}
	return body, nil
}
