package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain array", in: `[{"id":"a"}]`, want: `[{"id":"a"}]`},
		{name: "wrapping object", in: `{"topics":[{"id":"a"}]}`, want: `{"topics":[{"id":"a"}]}`},
		{name: "json fence", in: "```json\n[1]\n```", want: "[1]"},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bom and spaces", in: "\uFEFF [2] ", want: "[2]"},
		{name: "text around", in: "Here you go:\n[1,2]\nEnjoy!", want: `[1,2]`},
		{name: "fence with chatter", in: "Sure:\n```json\n[3]\n```\nBye", want: "[3]"},
		{name: "brackets inside strings", in: `[{"t":"a ] b"}] tail`, want: `[{"t":"a ] b"}]`},
		{name: "escaped quote", in: `{"t":"say \"}\""} x`, want: `{"t":"say \"}\""}`},
		{name: "object before array", in: `{"topics":[]} [1]`, want: `{"topics":[]}`},
		{name: "unterminated", in: `[{"id":"a"}`, want: ""},
		{name: "blank", in: "   ", want: ""},
		{name: "nothing", in: "no json", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}
