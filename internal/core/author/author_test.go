// Copyright (c) 2026 BookVault. All rights reserved.

package author

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name", input: "Dennis M. Ritchie", want: "Dennis M. Ritchie"},
		{name: "surrounding whitespace", input: "  Brian W. Kernighan  ", want: "Brian W. Kernighan"},
		{name: "internal whitespace runs", input: "Brian   W.\tKernighan", want: "Brian W. Kernighan"},
		{name: "compatibility forms", input: "Ｄｏｎａｌｄ Ｋｎｕｔｈ", want: "Donald Knuth"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, NormalizeName(testCase.input))
		})
	}
}

func TestSplitNames(t *testing.T) {
	t.Run("splits and trims", func(t *testing.T) {
		names := SplitNames("Brian W. Kernighan, Dennis M. Ritchie")
		assert.Equal(t, []string{"Brian W. Kernighan", "Dennis M. Ritchie"}, names)
	})

	t.Run("drops empties and duplicates", func(t *testing.T) {
		names := SplitNames("Kernighan, , Ritchie,, Kernighan ")
		assert.Equal(t, []string{"Kernighan", "Ritchie"}, names)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SplitNames(""))
	})
}
