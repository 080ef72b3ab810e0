package actiontype

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "simple", in: "prayed", want: true},
		{name: "with separators", in: "devotional.read_v2-x", want: true},
		{name: "max length", in: "a" + strings.Repeat("b", 63), want: true},
		{name: "empty", in: "", want: false},
		{name: "upper case", in: "Prayed", want: false},
		{name: "space", in: "bad type", want: false},
		{name: "leading digit", in: "1prayed", want: false},
		{name: "slash", in: "a/b", want: false},
		{name: "too long", in: "a" + strings.Repeat("b", 64), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.in))
		})
	}
}
