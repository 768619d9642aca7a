package api

import "fmt"

// Kind classifies a request error for reporting. Every kind maps to HTTP
// 400 with a single {"error": "..."} body.
type Kind int

const (
	KindAddressParse Kind = iota
	KindUint256Parse
	KindInvalidOperation
	KindChainNotFound
	KindHexDecode
	KindSimulation
	KindTimeout
)

// Error is a user-visible request failure
type Error struct {
	Kind    Kind
	message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAddressParse:
		return "Address parse error: " + e.message
	case KindUint256Parse:
		return "Uint256 parse error: " + e.message
	case KindInvalidOperation:
		return "Invalid operation: " + e.message
	case KindChainNotFound:
		return "Chain not found: " + e.message
	case KindHexDecode:
		return "Hex decode error: " + e.message
	case KindTimeout:
		return "Trace request timed out"
	default:
		return "Simulation error: " + e.message
	}
}

func errAddressParse(addr string) *Error {
	return &Error{Kind: KindAddressParse, message: fmt.Sprintf("Invalid address format: %s", addr)}
}

func errUint256Parse(value string) *Error {
	return &Error{Kind: KindUint256Parse, message: fmt.Sprintf("Invalid uint256 radix of decimal format: %s", value)}
}

func errInvalidOperation(msg string) *Error {
	return &Error{Kind: KindInvalidOperation, message: msg}
}

func errChainNotFound(chainID uint64) *Error {
	return &Error{Kind: KindChainNotFound, message: fmt.Sprintf("%d", chainID)}
}

func errHexDecode(err error) *Error {
	return &Error{Kind: KindHexDecode, message: err.Error()}
}

func errSimulation(msg string) *Error {
	return &Error{Kind: KindSimulation, message: msg}
}

func errTimeout() *Error {
	return &Error{Kind: KindTimeout}
}
