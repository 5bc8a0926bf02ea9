package dex

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// getAmountsOutMethod is the only router read the detector depends on.
const getAmountsOutMethod = "getAmountsOut"

// ParseRouterABI parses a router contract ABI from JSON and verifies it
// exposes getAmountsOut.
func ParseRouterABI(abiJSON string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse router abi: %w", err)
	}
	if _, ok := parsed.Methods[getAmountsOutMethod]; !ok {
		return abi.ABI{}, fmt.Errorf("router abi: missing %q method", getAmountsOutMethod)
	}
	return parsed, nil
}

// LoadRouterABI reads and parses the router ABI file at path.
func LoadRouterABI(path string) (abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("read router abi: %w", err)
	}
	return ParseRouterABI(string(data))
}
