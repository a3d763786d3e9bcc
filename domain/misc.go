package domain

import (
	"math/big"
	"strings"
)

var (
	Big10 = big.NewInt(10)
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

// ToBigInt parses a decimal token id
func (i TokenId) ToBigInt() (*big.Int, error) {
	id, ok := new(big.Int).SetString(i.String(), 10)
	if !ok || id.Sign() < 0 {
		return nil, ErrInvalidNumberFormat
	}
	return id, nil
}

func TokenIdFromBigInt(id *big.Int) TokenId {
	if id == nil {
		return ""
	}
	return TokenId(id.String())
}
