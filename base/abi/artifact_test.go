package abi

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArtifact(t *testing.T) {
	req := require.New(t)

	data := []byte(fmt.Sprintf(`{"address": "0x5FbDB2315678afecb367f032d93F642f64180aa3", "abi": %s}`, marketplaceABIJson))
	art, err := ParseArtifact(data)
	req.NoError(err)
	req.Equal("0x5FbDB2315678afecb367f032d93F642f64180aa3", art.Address.Hex())
	for _, m := range []string{"getAllListedNFTs", "tokenURI", "getListPrice", "getCurrentToken"} {
		_, ok := art.ABI.Methods[m]
		req.True(ok, m)
	}

	_, err = ParseArtifact([]byte(`{"address": "not-an-address", "abi": []}`))
	req.Error(err)

	_, err = ParseArtifact([]byte(`{"address": "0x5FbDB2315678afecb367f032d93F642f64180aa3"}`))
	req.Error(err)

	_, err = ParseArtifact([]byte(`[`))
	req.Error(err)
}

func TestLoadArtifact(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "marketplace.json")
	content := fmt.Sprintf(`{"address": "0x5FbDB2315678afecb367f032d93F642f64180aa3", "abi": %s}`, marketplaceABIJson)
	req.NoError(ioutil.WriteFile(path, []byte(content), 0o644))

	art, err := LoadArtifact(path)
	req.NoError(err)
	req.Len(art.ABI.Methods, len(MarketplaceABI.Methods))

	_, err = LoadArtifact(filepath.Join(t.TempDir(), "missing.json"))
	req.Error(err)
}
