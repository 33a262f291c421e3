package firefox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		name string
		want Channel
	}{
		{"stable", Stable},
		{"beta", Beta},
		{"nightly", Nightly},
		{"dev", DevEdition},
		{"esr", ESRNext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChannel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChannelRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "bogus", "Stable", "BETA", " stable", "dev-edition", "esr-next", "release"} {
		_, err := ParseChannel(name)
		require.Error(t, err, "target %q", name)

		var invalid *InvalidChannelError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, name, invalid.Target)
		assert.ErrorIs(t, err, ErrInvalidChannel)
		assert.NotErrorIs(t, err, ErrUpstream)
	}
}

func TestInvalidChannelMessage(t *testing.T) {
	_, err := ParseChannel("bogus")
	require.Error(t, err)
	assert.Equal(t, "Invalid target 'bogus'. Try 'stable', 'beta', 'nightly', 'dev', or 'esr'.", err.Error())
}

func TestChannelKeyRoundTrip(t *testing.T) {
	for _, c := range Channels() {
		got, err := ParseChannel(c.Key())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "dev-edition", DevEdition.String())
	assert.Equal(t, "esr-next", ESRNext.String())
	assert.Equal(t, "unknown", Channel(42).String())
	assert.Empty(t, Channel(-1).Key())
}
