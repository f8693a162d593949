package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuerySpec_Equal(t *testing.T) {
	tests := []struct {
		name string
		a    QuerySpec
		b    QuerySpec
		want bool
	}{
		{
			name: "identical",
			a:    NewQuerySpec("/api/orders", map[string]string{"status": "OPEN"}),
			b:    NewQuerySpec("/api/orders", map[string]string{"status": "OPEN"}),
			want: true,
		},
		{
			name: "different endpoint",
			a:    NewQuerySpec("/api/orders", nil),
			b:    NewQuerySpec("/api/returns", nil),
			want: false,
		},
		{
			name: "different value",
			a:    NewQuerySpec("/api/orders", map[string]string{"status": "OPEN"}),
			b:    NewQuerySpec("/api/orders", map[string]string{"status": "CLOSED"}),
			want: false,
		},
		{
			name: "extra key",
			a:    NewQuerySpec("/api/orders", map[string]string{"status": "OPEN"}),
			b:    NewQuerySpec("/api/orders", map[string]string{"status": "OPEN", "source": "Shopify"}),
			want: false,
		},
		{
			name: "nil and empty params are equivalent",
			a:    NewQuerySpec("/api/orders", nil),
			b:    NewQuerySpec("/api/orders", map[string]string{}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestQuerySpec_CloneIsIndependent(t *testing.T) {
	original := NewQuerySpec("/api/orders", map[string]string{"status": "OPEN"})
	clone := original.Clone()

	clone.Params["status"] = "CLOSED"

	assert.Equal(t, "OPEN", original.Params["status"])
}

func TestQuerySpec_WithParams(t *testing.T) {
	base := NewQuerySpec("/api/orders", map[string]string{"status": "OPEN", "source": "Shopify"})

	merged := base.WithParams(map[string]string{"status": "CLOSED", "search": "ORD"})

	assert.Equal(t, "CLOSED", merged.Params["status"])
	assert.Equal(t, "Shopify", merged.Params["source"])
	assert.Equal(t, "ORD", merged.Params["search"])

	// The receiver is untouched.
	assert.Equal(t, "OPEN", base.Params["status"])
	assert.NotContains(t, base.Params, "search")
}
