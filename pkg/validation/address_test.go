package validation

import "testing"

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"valid lowercase", "0x4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37", false},
		{"valid mixed case", "0x4F5E8Ca2CADecaf7b4b82b3e3b0a2b59B04B5F37", false},
		{"valid without prefix", "4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37", false},
		{"empty", "", true},
		{"too short", "0x4f5e8ca2", true},
		{"too long", "0x4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37ab", true},
		{"not hex", "0xzz5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddress(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	got := NormalizeAddress("0X4F5E8CA2CADECAF7B4B82B3E3B0A2B59B04B5F37")
	want := "0x4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37"
	if got != want {
		t.Errorf("NormalizeAddress() = %q, want %q", got, want)
	}
}

func TestValidateAndNormalizeAddress(t *testing.T) {
	got, err := ValidateAndNormalizeAddress("4F5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0x4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37" {
		t.Errorf("unexpected normalized address: %q", got)
	}

	if _, err := ValidateAndNormalizeAddress("nonsense"); err == nil {
		t.Error("expected error for invalid address")
	}
}
