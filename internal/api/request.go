package api

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"tracesim/internal/simulator"
)

// Operation codes. Delegate call is part of the request schema but is not
// implemented and is rejected at validation.
const (
	OpCall         uint8 = 0
	OpDelegateCall uint8 = 1
	OpCreate       uint8 = 2
)

// TransactionRequest is one entry of an inbound batch
type TransactionRequest struct {
	From      string  `json:"from"`
	To        *string `json:"to"`
	Value     *string `json:"value"`
	Data      *string `json:"data"`
	Operation uint8   `json:"operation"`
}

// BatchRequest is the body of POST /simulate/batch
type BatchRequest struct {
	ChainID     uint64               `json:"chain_id"`
	IsStateful  bool                 `json:"is_stateful"`
	BlockNumber *uint64              `json:"block_number"`
	Requests    []TransactionRequest `json:"requests"`
}

// transactions validates every entry and converts them into simulator
// transactions, preserving order
func (r *BatchRequest) transactions() ([]simulator.Transaction, *Error) {
	txs := make([]simulator.Transaction, 0, len(r.Requests))
	for _, req := range r.Requests {
		tx, err := req.transaction()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (r *TransactionRequest) transaction() (simulator.Transaction, *Error) {
	var tx simulator.Transaction

	from, err := parseAddress(r.From)
	if err != nil {
		return tx, err
	}

	var to *common.Address
	switch r.Operation {
	case OpCall:
		if r.To == nil {
			return tx, errInvalidOperation("Operation call must have a to address")
		}
		addr, err := parseAddress(*r.To)
		if err != nil {
			return tx, err
		}
		to = &addr
	case OpCreate:
		if r.To != nil {
			return tx, errInvalidOperation("Operation create must not have a to address")
		}
	default:
		return tx, errInvalidOperation("Invalid operation type")
	}

	value := uint256.NewInt(0)
	if r.Value != nil {
		value, err = parseUint256(*r.Value)
		if err != nil {
			return tx, err
		}
	}

	var data []byte
	if r.Data != nil {
		data, err = parseHexData(*r.Data)
		if err != nil {
			return tx, err
		}
	}

	tx = simulator.Transaction{
		From:  from,
		To:    to,
		Value: value,
		Data:  data,
	}
	return tx, nil
}

func parseAddress(s string) (common.Address, *Error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errAddressParse(s)
	}
	return common.HexToAddress(s), nil
}

// parseUint256 decodes a base-10 value into a 256-bit unsigned integer
func parseUint256(s string) (*uint256.Int, *Error) {
	value, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errUint256Parse(s)
	}
	return value, nil
}

// parseHexData decodes a hex payload, with or without the 0x prefix
func parseHexData(s string) ([]byte, *Error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errHexDecode(err)
	}
	return data, nil
}
