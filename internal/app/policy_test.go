package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/livedocs/internal/core"
)

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, DropFrame, p.OnBackPressure(core.Member{}))

	p, err = PolicyByName("kick")
	require.NoError(t, err)
	assert.Equal(t, KickMember, p.OnBackPressure(core.Member{}))

	_, err = PolicyByName("retry")
	assert.Error(t, err)
}
