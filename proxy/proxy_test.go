package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinProxySwitcher(t *testing.T) {
	_, err := RoundRobinProxySwitcher()
	assert.Error(t, err)

	p, err := RoundRobinProxySwitcher("http://a:8080", "http://b:8080")
	require.NoError(t, err)

	var got []string
	for i := 0; i < 3; i++ {
		s, err := Server(p)
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []string{"http://a:8080", "http://b:8080", "http://a:8080"}, got)
}

func TestServerNil(t *testing.T) {
	s, err := Server(nil)
	assert.NoError(t, err)
	assert.Empty(t, s)
}
