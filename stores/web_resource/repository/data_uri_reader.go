package repository

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
	"golang.org/x/xerrors"
)

const dataUriSchema = "data:"

type dataUriReaderRepo struct {
	maxBytes int64
}

func NewDataUriReaderRepo(maxBytes int64) domain.WebResourceReaderRepository {
	return &dataUriReaderRepo{maxBytes: maxBytes}
}

// Get decodes data:[<mediatype>][;base64],<data>
func (r *dataUriReaderRepo) Get(_ ctx.Ctx, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, dataUriSchema) {
		return nil, domain.ErrInvalidDataUri
	}
	uriParts := strings.SplitN(strings.TrimPrefix(uri, dataUriSchema), ",", 2)
	if len(uriParts) < 2 || len(uriParts[1]) == 0 {
		return nil, xerrors.Errorf("no data part provided: %w", domain.ErrInvalidDataUri)
	}

	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(uriParts[0], ";base64") {
		data, err = base64.StdEncoding.DecodeString(uriParts[1])
	} else {
		data = unescapeData(uriParts[1])
	}
	if err != nil {
		return nil, xerrors.Errorf("%v: %w", err, domain.ErrInvalidDataUri)
	}
	if r.maxBytes > 0 && int64(len(data)) > r.maxBytes {
		return nil, domain.ErrResponseTooLarge
	}
	return data, nil
}

// unescapeData percent-decodes a plain payload. Payloads carrying a literal
// '%' that is not a valid escape are returned as is.
func unescapeData(payload string) []byte {
	if !strings.Contains(payload, "%") {
		return []byte(payload)
	}
	if s, err := url.PathUnescape(payload); err == nil {
		return []byte(s)
	}
	return []byte(payload)
}
