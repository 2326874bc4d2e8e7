package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLength(t *testing.T) {
	require.NotPanics(t, func() { Length("01HZX3J5Q8", 10) })
	require.NotPanics(t, func() { Length([]byte{1, 2, 3}, 3) })

	require.PanicsWithValue(t, "assert.Length expected 26 actual 3", func() { Length("abc", 26) })
}
