package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/ethereum"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/base/validator"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/service/cache"
	"github.com/x-xyz/marketapi/service/chain/contract"
	"golang.org/x/xerrors"
)

const DefaultSigningMsg = "Sign in to view your marketplace listings.\n\nNonce: %s"

type SessionUseCaseCfg struct {
	JwtSecret string
	Ttl       time.Duration
	// SigningMsg holds one %s for the nonce
	SigningMsg string
	// Nonces keeps one pending nonce per address, its ttl bounds the sign-in window
	Nonces cache.Service
	// Erc1271 validates contract wallet signatures when set
	Erc1271 contract.Erc1271Contract
	ChainId domain.ChainId
	Now     func() time.Time
}

type impl struct {
	jwtSecret  []byte
	ttl        time.Duration
	signingMsg string
	nonces     cache.Service
	erc1271    contract.Erc1271Contract
	chainId    domain.ChainId
	now        func() time.Time
}

func New(cfg *SessionUseCaseCfg) domain.SessionUsecase {
	signingMsg := cfg.SigningMsg
	if signingMsg == "" {
		signingMsg = DefaultSigningMsg
	}
	ttl := cfg.Ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &impl{
		jwtSecret:  []byte(cfg.JwtSecret),
		ttl:        ttl,
		signingMsg: signingMsg,
		nonces:     cfg.Nonces,
		erc1271:    cfg.Erc1271,
		chainId:    cfg.ChainId,
		now:        now,
	}
}

func (im *impl) makeMessageWithNonce(nonce string) []byte {
	return []byte(fmt.Sprintf(im.signingMsg, nonce))
}

func (im *impl) SigningMessage(c ctx.Ctx, address domain.Address) (string, error) {
	if !validator.IsValidAddress(string(address)) {
		return "", domain.ErrInvalidAddress
	}
	c = ctx.WithValue(c, "address", address)

	nonce := uuid.New().String()
	if err := im.nonces.Set(c, address.ToLowerStr(), nonce); err != nil {
		c.WithField("err", err).Error("nonces.Set failed")
		return "", err
	}
	return string(im.makeMessageWithNonce(nonce)), nil
}

func (im *impl) SignIn(c ctx.Ctx, address domain.Address, signature string) (string, *domain.Session, error) {
	if !validator.IsValidAddress(string(address)) {
		return "", nil, domain.ErrInvalidAddress
	}
	c = ctx.WithValue(c, "address", address)

	// a nonce is consumed by the first attempt, successful or not
	var nonce string
	if err := im.nonces.Take(c, address.ToLowerStr(), &nonce); err == cache.ErrNotFound {
		return "", nil, domain.ErrNonceNotFound
	} else if err != nil {
		c.WithField("err", err).Error("nonces.Take failed")
		return "", nil, err
	}

	msg := im.makeMessageWithNonce(nonce)
	if err := im.validateSignature(c, address, msg, signature); err != nil {
		return "", nil, err
	}
	return im.SignToken(c, address)
}

func (im *impl) validateSignature(c ctx.Ctx, address domain.Address, msg []byte, signature string) error {
	isValid, err := ethereum.ValidateMsgSignature(msg, signature, string(address))
	if err != nil && !errors.Is(err, domain.ErrInvalidSignature) {
		c.WithField("err", err).Warn("ValidateMsgSignature failed")
	}
	if isValid {
		return nil
	}
	if im.erc1271 == nil {
		return domain.ErrInvalidSignature
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return domain.ErrInvalidSignature
	}
	hash := common.BytesToHash(accounts.TextHash(msg))
	isValid, err = im.erc1271.IsValidSignature(c, im.chainId, address, hash, sig)
	if err != nil {
		// an EOA reverts isValidSignature, which means the signature is wrong
		c.WithField("err", err).Warn("erc1271.IsValidSignature failed")
		return domain.ErrInvalidSignature
	}
	if !isValid {
		return domain.ErrInvalidSignature
	}
	return nil
}

func (im *impl) SignToken(c ctx.Ctx, address domain.Address) (string, *domain.Session, error) {
	now := im.now()
	session := &domain.Session{
		Id:        uuid.New().String(),
		Address:   address.ToLower(),
		ExpiresAt: now.Add(im.ttl).Truncate(time.Second),
	}
	claims := domain.JwtCustomClaims{
		Address: string(session.Address),
		StandardClaims: jwt.StandardClaims{
			Id:        session.Id,
			IssuedAt:  now.Unix(),
			ExpiresAt: session.ExpiresAt.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		c.WithField("err", err).Error("token.SignedString failed")
		return "", nil, err
	} else {
		c.WithFields(log.Fields{"address": session.Address, "sessionId": session.Id}).Info("session issued")
		return ss, session, nil
	}
}

func (im *impl) ParseToken(c ctx.Ctx, str string) (*domain.Session, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})

	if err == nil {
		if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
			return &domain.Session{
				Id:        claims.Id,
				Address:   domain.Address(claims.Address),
				ExpiresAt: time.Unix(claims.ExpiresAt, 0),
			}, nil
		}
	}

	var ve *jwt.ValidationError
	if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
		return nil, domain.ErrSessionExpired
	}
	return nil, xerrors.Errorf("%v: %w", err, domain.ErrNoSession)
}
