package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var MarketplaceABI abi.ABI

func init() {
	_abi, err := abi.JSON(strings.NewReader(marketplaceABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	MarketplaceABI = _abi
}

const listedTokenComponents = `
      {
        "internalType": "uint256",
        "name": "tokenId",
        "type": "uint256"
      },
      {
        "internalType": "address payable",
        "name": "owner",
        "type": "address"
      },
      {
        "internalType": "address payable",
        "name": "seller",
        "type": "address"
      },
      {
        "internalType": "uint256",
        "name": "price",
        "type": "uint256"
      },
      {
        "internalType": "bool",
        "name": "currentlyListed",
        "type": "bool"
      }`

var marketplaceABIJson = `
[
  {
    "inputs": [],
    "name": "getAllListedNFTs",
    "outputs": [
      {
        "components": [` + listedTokenComponents + `
        ],
        "internalType": "struct NFTMarketplace.ListedToken[]",
        "name": "",
        "type": "tuple[]"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "uint256",
        "name": "tokenId",
        "type": "uint256"
      }
    ],
    "name": "getListedTokenForId",
    "outputs": [
      {
        "components": [` + listedTokenComponents + `
        ],
        "internalType": "struct NFTMarketplace.ListedToken",
        "name": "",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "uint256",
        "name": "tokenId",
        "type": "uint256"
      }
    ],
    "name": "tokenURI",
    "outputs": [
      {
        "internalType": "string",
        "name": "",
        "type": "string"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getListPrice",
    "outputs": [
      {
        "internalType": "uint256",
        "name": "",
        "type": "uint256"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getCurrentToken",
    "outputs": [
      {
        "internalType": "uint256",
        "name": "",
        "type": "uint256"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]
`
