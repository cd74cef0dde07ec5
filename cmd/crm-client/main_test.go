package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, ids)

	ids, err = parseIDs(" ")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = parseIDs("1,x")
	assert.ErrorContains(t, err, `"x"`)

	_, err = parseIDs("4294967296")
	assert.Error(t, err)
}
