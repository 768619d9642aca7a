package api

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func strptr(s string) *string { return &s }

const (
	fromAddr = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	toAddr   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func TestTransaction_Call(t *testing.T) {
	req := TransactionRequest{
		From:      fromAddr,
		To:        strptr(toAddr),
		Value:     strptr("1000"),
		Data:      strptr("0xdeadbeef"),
		Operation: OpCall,
	}

	tx, err := req.transaction()
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	if tx.To == nil || *tx.To != common.HexToAddress(toAddr) {
		t.Errorf("to = %v", tx.To)
	}
	if tx.From != common.HexToAddress(fromAddr) {
		t.Errorf("from = %v", tx.From)
	}
	if tx.Value.Uint64() != 1000 {
		t.Errorf("value = %s, want 1000", tx.Value)
	}
	if len(tx.Data) != 4 {
		t.Errorf("data = %x", tx.Data)
	}
}

func TestTransaction_CallWithoutTo(t *testing.T) {
	req := TransactionRequest{From: fromAddr, Operation: OpCall}

	_, err := req.transaction()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "Invalid operation: Operation call must have a to address" {
		t.Errorf("err = %q", got)
	}
}

func TestTransaction_Create(t *testing.T) {
	req := TransactionRequest{
		From:      fromAddr,
		Data:      strptr("600160015500"),
		Operation: OpCreate,
	}

	tx, err := req.transaction()
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if tx.To != nil {
		t.Errorf("to = %v, want nil for create", tx.To)
	}
	if !tx.Value.IsZero() {
		t.Errorf("value = %s, want zero default", tx.Value)
	}
}

func TestTransaction_CreateWithTo(t *testing.T) {
	req := TransactionRequest{From: fromAddr, To: strptr(toAddr), Operation: OpCreate}

	_, err := req.transaction()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "Invalid operation: Operation create must not have a to address" {
		t.Errorf("err = %q", got)
	}
}

func TestTransaction_DelegateCallRejected(t *testing.T) {
	req := TransactionRequest{From: fromAddr, To: strptr(toAddr), Operation: OpDelegateCall}

	_, err := req.transaction()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "Invalid operation: Invalid operation type" {
		t.Errorf("err = %q", got)
	}
}

func TestTransaction_UnknownOperationRejected(t *testing.T) {
	req := TransactionRequest{From: fromAddr, Operation: 7}

	if _, err := req.transaction(); err == nil || err.Kind != KindInvalidOperation {
		t.Fatalf("err = %v, want invalid operation", err)
	}
}

func TestTransaction_BadFromAddress(t *testing.T) {
	req := TransactionRequest{From: "0x123", To: strptr(toAddr), Operation: OpCall}

	_, err := req.transaction()
	if err == nil || err.Kind != KindAddressParse {
		t.Fatalf("err = %v, want address parse error", err)
	}
	if got := err.Error(); got != "Address parse error: Invalid address format: 0x123" {
		t.Errorf("err = %q", got)
	}
}

func TestTransaction_BadValue(t *testing.T) {
	tests := []string{"abc", "-5", "0x10", ""}
	for _, value := range tests {
		req := TransactionRequest{
			From:      fromAddr,
			To:        strptr(toAddr),
			Value:     strptr(value),
			Operation: OpCall,
		}
		_, err := req.transaction()
		if err == nil || err.Kind != KindUint256Parse {
			t.Errorf("value %q: err = %v, want uint256 parse error", value, err)
		}
	}
}

func TestTransaction_BadHexData(t *testing.T) {
	req := TransactionRequest{
		From:      fromAddr,
		To:        strptr(toAddr),
		Data:      strptr("zz"),
		Operation: OpCall,
	}

	_, err := req.transaction()
	if err == nil || err.Kind != KindHexDecode {
		t.Fatalf("err = %v, want hex decode error", err)
	}
}

func TestTransaction_HexDataPrefixOptional(t *testing.T) {
	for _, data := range []string{"0x", "", "deadbeef", "0xdeadbeef"} {
		req := TransactionRequest{
			From:      fromAddr,
			To:        strptr(toAddr),
			Data:      strptr(data),
			Operation: OpCall,
		}
		if _, err := req.transaction(); err != nil {
			t.Errorf("data %q: %v", data, err)
		}
	}
}

func TestTransactions_OrderPreserved(t *testing.T) {
	req := BatchRequest{
		ChainID: 1,
		Requests: []TransactionRequest{
			{From: fromAddr, To: strptr(toAddr), Value: strptr("1"), Operation: OpCall},
			{From: fromAddr, Operation: OpCreate},
			{From: fromAddr, To: strptr(toAddr), Value: strptr("3"), Operation: OpCall},
		},
	}

	txs, err := req.transactions()
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("txs = %d, want 3", len(txs))
	}
	if txs[0].Value.Uint64() != 1 || txs[2].Value.Uint64() != 3 {
		t.Error("transaction order not preserved")
	}
	if txs[1].To != nil {
		t.Error("second transaction should be a create")
	}
}

func TestTransactions_FirstErrorWins(t *testing.T) {
	req := BatchRequest{
		Requests: []TransactionRequest{
			{From: fromAddr, To: strptr(toAddr), Operation: OpCall},
			{From: "bogus", Operation: OpCall},
		},
	}

	if _, err := req.transactions(); err == nil || err.Kind != KindAddressParse {
		t.Fatalf("err = %v, want address parse error", err)
	}
}
