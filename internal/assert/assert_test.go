package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLength(t *testing.T) {
	require.NotPanics(t, func() { Length("abcd", 4) })
	require.PanicsWithValue(t, "assert.Length expected 4 actual 3", func() { Length("abc", 4) })
}

func TestNotEmpty(t *testing.T) {
	require.NotPanics(t, func() { NotEmpty("session ID", "x") })
	require.PanicsWithValue(t, "assert.NotEmpty session ID is empty", func() { NotEmpty("session ID", "") })
}
