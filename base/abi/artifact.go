package abi

import (
	"encoding/json"
	"io/ioutil"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"
)

// Artifact is the deployment descriptor written next to the frontend,
// e.g. {"address": "0x...", "abi": [...]}
type Artifact struct {
	Address common.Address
	ABI     abi.ABI
}

type rawArtifact struct {
	Address string          `json:"address"`
	ABI     json.RawMessage `json:"abi"`
}

func ParseArtifact(data []byte) (*Artifact, error) {
	raw := rawArtifact{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, xerrors.Errorf("invalid artifact: %w", err)
	}
	if !common.IsHexAddress(raw.Address) {
		return nil, xerrors.Errorf("invalid artifact address %q", raw.Address)
	}
	if len(raw.ABI) == 0 {
		return nil, xerrors.Errorf("artifact has no abi")
	}
	_abi, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return nil, xerrors.Errorf("invalid artifact abi: %w", err)
	}
	return &Artifact{
		Address: common.HexToAddress(raw.Address),
		ABI:     _abi,
	}, nil
}

func LoadArtifact(path string) (*Artifact, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseArtifact(data)
}
