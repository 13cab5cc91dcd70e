package compute_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kantoku/kantoku/internal/compute"
)

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		want     bool
	}{
		{name: "exact match", input: "あいだ", expected: "あいだ", want: true},
		{name: "trailing whitespace trimmed", input: "あいだ ", expected: "あいだ", want: true},
		{name: "leading whitespace trimmed", input: "　あいだ", expected: "あいだ", want: true},
		{name: "wave dash matches fullwidth tilde", input: "A〜B", expected: "A～B", want: true},
		{name: "wavy dash matches ascii tilde", input: "A〰B", expected: "A~B", want: true},
		{name: "horizontal bar matches tilde", input: "A―B", expected: "A~B", want: true},
		{name: "different readings differ", input: "あ", expected: "い", want: false},
		{name: "halfwidth katakana folds to fullwidth", input: "ｶﾞｯｺｳ", expected: "ガッコウ", want: true},
		{name: "empty input does not match", input: "", expected: "あ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compute.CheckAnswer(tt.input, tt.expected))
		})
	}
}

func TestNormalizeAnswer_Idempotent(t *testing.T) {
	once := compute.NormalizeAnswer("A〜B ")
	twice := compute.NormalizeAnswer(once)

	assert.Equal(t, once, twice)
}
