package gateway

import (
	"encoding/json"
	"testing"
)

func TestBigID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		expectError bool
	}{
		{"plain number", `12345`, "12345", false},
		{"quoted number", `"12345"`, "12345", false},
		{"suffixed bigint", `"9007199254740993n"`, "9007199254740993", false},
		{"beyond float64 precision", `"123456789012345678901234567890n"`, "123456789012345678901234567890", false},
		{"negative", `-42`, "-42", false},
		{"null leaves zero", `null`, "0", false},
		{"not a number", `"abc"`, "", true},
		{"suffix only", `"n"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id BigID
			err := json.Unmarshal([]byte(tt.input), &id)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if id.String() != tt.want {
				t.Errorf("Value = %s, want %s", id.String(), tt.want)
			}
		})
	}
}

func TestBigID_MarshalJSON(t *testing.T) {
	id := NewBigID(9007199254740993)

	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"9007199254740993n"` {
		t.Errorf("Marshal = %s, want %q", data, `"9007199254740993n"`)
	}
}

func TestBigID_RoundTrip(t *testing.T) {
	type record struct {
		ID BigID `json:"orderId"`
	}

	var in record
	if err := json.Unmarshal([]byte(`{"orderId": "340282366920938463463374607431768211456n"}`), &in); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	out, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"orderId":"340282366920938463463374607431768211456n"}` {
		t.Errorf("Round trip = %s", out)
	}
}
