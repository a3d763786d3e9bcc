package usecase

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/x-xyz/marketapi/base/backoff"
	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/keys"
	"github.com/x-xyz/marketapi/domain/listing"
	"github.com/x-xyz/marketapi/service/cache"
	"golang.org/x/xerrors"
)

type MetadataUseCaseCfg struct {
	WebResource domain.WebResourceUseCase
	// Cache is optional
	Cache cache.Service
	// Retries is the number of extra attempts after a transient failure
	Retries      int
	RetryBackoff time.Duration
}

const maxRetryWait = 5 * time.Second

type metadataUseCase struct {
	webResource  domain.WebResourceUseCase
	cache        cache.Service
	retries      int
	retryBackoff time.Duration
}

func NewMetadataUseCase(cfg *MetadataUseCaseCfg) listing.MetadataUseCase {
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 200 * time.Millisecond
	}
	return &metadataUseCase{
		webResource:  cfg.WebResource,
		cache:        cfg.Cache,
		retries:      cfg.Retries,
		retryBackoff: retryBackoff,
	}
}

func (u *metadataUseCase) GetMetadata(c bCtx.Ctx, uri string) (*listing.Metadata, error) {
	if u.cache == nil {
		return u.fetch(c, uri)
	}
	res := &listing.Metadata{}
	err := u.cache.GetByFunc(c, keys.MD5(uri), res, func() (interface{}, error) {
		return u.fetch(c, uri)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isPermanent reports errors another attempt cannot fix
func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrInvalidJsonFormat) ||
		errors.Is(err, domain.ErrUnsupportedSchema) ||
		errors.Is(err, domain.ErrResponseTooLarge) ||
		errors.Is(err, domain.ErrInvalidDataUri)
}

func (u *metadataUseCase) fetch(c bCtx.Ctx, uri string) (*listing.Metadata, error) {
	var data []byte
	attempt := 0
	err := backoff.Retry(c, backoff.NewExponential(u.retryBackoff, maxRetryWait), u.retries, func() (err error) {
		attempt++
		data, err = u.webResource.GetJson(c, uri)
		return err
	}, func(err error) bool {
		if isPermanent(err) || c.Err() != nil {
			return false
		}
		c.WithFields(log.Fields{"uri": uri, "attempt": attempt, "err": err}).Warn("webResource.GetJson failed, retrying")
		return true
	})
	if err != nil {
		return nil, err
	}
	meta, err := ParseMetadata(data)
	if err != nil {
		c.WithFields(log.Fields{"uri": uri, "err": err}).Warn("ParseMetadata failed")
		return nil, err
	}
	return meta, nil
}

type rawMetadata struct {
	Image       json.RawMessage `json:"image"`
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
}

// ParseMetadata reads image, name and description out of a token metadata
// document. Other fields are ignored. Non string values are kept as their
// json text.
func ParseMetadata(data []byte) (*listing.Metadata, error) {
	raw := rawMetadata{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, xerrors.Errorf("%v: %w", err, domain.ErrInvalidJsonFormat)
	}
	return &listing.Metadata{
		Image:       toText(raw.Image),
		Name:        toText(raw.Name),
		Description: toText(raw.Description),
	}, nil
}

func toText(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	s := ""
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}
