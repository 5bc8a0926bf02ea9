package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
)

// Router is one venue's call configuration: a venue name, a contract
// address, and the shared parsed ABI. The two venues differ only in
// this data, not in behavior.
type Router struct {
	venue   domain.Venue
	address common.Address
	abi     abi.ABI
	caller  ethereum.ContractCaller
}

// NewRouter creates a router binding for one venue.
func NewRouter(venue domain.Venue, address common.Address, routerABI abi.ABI, caller ethereum.ContractCaller) *Router {
	return &Router{
		venue:   venue,
		address: address,
		abi:     routerABI,
		caller:  caller,
	}
}

// Venue returns the venue this router quotes for.
func (r *Router) Venue() domain.Venue {
	return r.venue
}

// AmountsOut calls getAmountsOut(amountIn, path) on the router contract
// and returns the full output amounts sequence.
func (r *Router) AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	data, err := r.abi.Pack(getAmountsOutMethod, amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("pack getAmountsOut: %w", err)
	}

	raw, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &r.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s router: %w", r.venue, err)
	}

	outs, err := r.abi.Methods[getAmountsOutMethod].Outputs.Unpack(raw)
	if err != nil {
		return nil, fmt.Errorf("decode getAmountsOut from %s: %w", r.venue, err)
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("decode getAmountsOut from %s: empty output", r.venue)
	}
	amounts, ok := outs[0].([]*big.Int)
	if !ok || len(amounts) < 2 {
		return nil, fmt.Errorf("%s router returned malformed amounts", r.venue)
	}
	return amounts, nil
}

// Quote returns the last element of AmountsOut, the realizable output
// amount for the path, as this venue's quote.
func (r *Router) Quote(ctx context.Context, amountIn *big.Int, path []common.Address) (domain.Quote, error) {
	amounts, err := r.AmountsOut(ctx, amountIn, path)
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote{Venue: r.venue, Amount: amounts[len(amounts)-1]}, nil
}
