package usecase

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/domain"
)

type WebResourceUseCaseCfg struct {
	HttpReader    domain.WebResourceReaderRepository
	IpfsReader    domain.WebResourceReaderRepository
	DataUriReader domain.WebResourceReaderRepository
	ArUriReader   domain.WebResourceReaderRepository
}

type webResourceUseCase struct {
	httpReader    domain.WebResourceReaderRepository
	ipfsReader    domain.WebResourceReaderRepository
	dataUriReader domain.WebResourceReaderRepository
	arUriReader   domain.WebResourceReaderRepository
}

func NewWebResourceUseCase(cfg *WebResourceUseCaseCfg) domain.WebResourceUseCase {
	return &webResourceUseCase{
		httpReader:    cfg.HttpReader,
		ipfsReader:    cfg.IpfsReader,
		dataUriReader: cfg.DataUriReader,
		arUriReader:   cfg.ArUriReader,
	}
}

func (u *webResourceUseCase) Get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	return u.get(c, rawUrl)
}

func (u *webResourceUseCase) GetJson(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	data, err := u.get(c, rawUrl)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		c.WithFields(log.Fields{
			"url": rawUrl,
		}).Warn("invalid json")
		return nil, domain.ErrInvalidJsonFormat
	}

	return data, nil
}

func (u *webResourceUseCase) reader(scheme string) domain.WebResourceReaderRepository {
	switch scheme {
	case "http", "https":
		return u.httpReader
	case "ipfs":
		return u.ipfsReader
	case "data":
		return u.dataUriReader
	case "ar":
		return u.arUriReader
	}
	return nil
}

func (u *webResourceUseCase) get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	rawUrl = strings.TrimSpace(rawUrl)
	pUrl, err := url.Parse(rawUrl)
	if err != nil {
		// data uris may carry characters url.Parse rejects
		if !strings.HasPrefix(rawUrl, "data:") {
			c.WithFields(log.Fields{
				"url": rawUrl,
				"err": err,
			}).Warn("failed to parse url")
			return nil, domain.ErrUnsupportedSchema
		}
		pUrl = &url.URL{Scheme: "data"}
	}

	scheme := strings.ToLower(pUrl.Scheme)
	reader := u.reader(scheme)
	if reader == nil {
		return nil, domain.ErrUnsupportedSchema
	}

	target := rawUrl
	if scheme == "ipfs" {
		target = strings.TrimPrefix(rawUrl, "ipfs://")
		target = strings.TrimPrefix(target, "ipfs/")
	}

	data, err := reader.Get(c, target)
	if err == nil {
		return data, nil
	}

	if scheme == "https" && c.Err() == nil {
		if ipfsUrl := getIpfsUrl(rawUrl); len(ipfsUrl) > 0 {
			c.WithFields(log.Fields{
				"url":     rawUrl,
				"ipfsUrl": ipfsUrl,
			}).Info("falling back to ipfs")
			return u.get(c, ipfsUrl)
		}
	}

	c.WithFields(log.Fields{
		"schema": scheme,
		"url":    rawUrl,
		"err":    err,
	}).Warn("failed to fetch")
	return nil, err
}

var dedicatedPinataRegex = regexp.MustCompile(`^https://[^/]+\.mypinata\.cloud/ipfs/`)

// getIpfsUrl rewrites well-known gateway urls to ipfs://, or returns ""
func getIpfsUrl(url string) string {
	const ipfsPrefix = "ipfs://"
	fixedPrefix := []string{
		"https://gateway.pinata.cloud/ipfs/",
		"https://ipfs.io/ipfs/",
		"https://cloudflare-ipfs.com/ipfs/",
		"https://dweb.link/ipfs/",
	}
	for _, p := range fixedPrefix {
		if strings.HasPrefix(url, p) {
			return strings.Replace(url, p, ipfsPrefix, 1)
		}
	}
	if dedicatedPinataRegex.MatchString(url) {
		return dedicatedPinataRegex.ReplaceAllLiteralString(url, ipfsPrefix)
	}
	return ""
}
