package simulator

import (
	"bytes"
	"testing"
)

func mustPackOutput(t *testing.T, method string, value interface{}) []byte {
	t.Helper()
	data, err := erc20ABI.Methods[method].Outputs.Pack(value)
	if err != nil {
		t.Fatalf("pack %s output: %v", method, err)
	}
	return data
}

func TestERC20Selectors(t *testing.T) {
	tests := []struct {
		method   string
		selector []byte
	}{
		{"symbol", []byte{0x95, 0xd8, 0x9b, 0x41}},
		{"decimals", []byte{0x31, 0x3c, 0xe5, 0x67}},
	}

	for _, tt := range tests {
		data, err := erc20ABI.Pack(tt.method)
		if err != nil {
			t.Fatalf("pack %s: %v", tt.method, err)
		}
		if !bytes.Equal(data, tt.selector) {
			t.Errorf("%s calldata = %x, want %x", tt.method, data, tt.selector)
		}
	}
}

func TestUnpackSymbol(t *testing.T) {
	symbol, err := unpackSymbol(mustPackOutput(t, "symbol", "USDC"))
	if err != nil {
		t.Fatalf("unpackSymbol: %v", err)
	}
	if symbol != "USDC" {
		t.Errorf("symbol = %q", symbol)
	}
}

func TestUnpackSymbol_Garbage(t *testing.T) {
	if _, err := unpackSymbol([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated return data")
	}
}

func TestUnpackDecimals(t *testing.T) {
	decimals, err := unpackDecimals(mustPackOutput(t, "decimals", uint8(6)))
	if err != nil {
		t.Fatalf("unpackDecimals: %v", err)
	}
	if decimals != 6 {
		t.Errorf("decimals = %d", decimals)
	}
}

func TestUnpackDecimals_Empty(t *testing.T) {
	if _, err := unpackDecimals(nil); err == nil {
		t.Fatal("expected error for empty return data")
	}
}
