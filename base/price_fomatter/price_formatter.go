package pricefomatter

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/x-xyz/marketapi/domain"
)

const EtherDecimals = int32(18)

// FormatUnits renders a fixed-point integer with the given decimals. The
// result always carries a fractional part, e.g. 10^18 with 18 decimals is "1.0".
func FormatUnits(value *big.Int, decimals int32) (string, error) {
	if value == nil || decimals < 0 {
		return "", domain.ErrInvalidNumberFormat
	}
	s := decimal.NewFromBigInt(value, -decimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}

func FormatEther(value *big.Int) (string, error) {
	return FormatUnits(value, EtherDecimals)
}
