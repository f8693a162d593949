package gateway

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// BigID is an arbitrary-precision integer identifier.
//
// The backend serializes identifiers wider than 53 bits as strings with an
// "n" suffix (e.g. "9007199254740993n") so that JavaScript clients do not
// lose precision. BigID accepts that form plus plain numbers and quoted
// numbers, and is the boundary type for every identifier field that may
// carry such a value. It marshals back to the suffixed string form.
type BigID struct {
	big.Int
}

// NewBigID creates a BigID from an int64, mostly for tests.
func NewBigID(v int64) BigID {
	var b BigID
	b.SetInt64(v)
	return b
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BigID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("parse big id %s: %w", s, err)
		}
		s = strings.TrimSuffix(unquoted, "n")
	}

	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("parse big id: %q is not an integer", s)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b BigID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(b.String() + "n")), nil
}
