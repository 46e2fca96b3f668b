package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlank(t *testing.T) {
	require.True(t, Blank(""))
	require.True(t, Blank(" \t\n"))
	require.False(t, Blank(" a "))
}

func TestFirstNonBlank(t *testing.T) {
	require.Equal(t, "b", FirstNonBlank("", "  ", "b", "c"))
	require.Empty(t, FirstNonBlank(" ", ""))
	require.Empty(t, FirstNonBlank())
}
