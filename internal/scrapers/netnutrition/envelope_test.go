package netnutrition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"success":true,"panels":[{"id":"menuPanel","html":"<div>menus</div>"},{"id":"itemPanel","html":"  "}]}`))
	require.NoError(t, err)
	require.True(t, env.Success)

	html, ok := env.Panel(PanelMenu)
	require.True(t, ok)
	require.Equal(t, "<div>menus</div>", html)

	html, ok, err = env.RequirePanel(PanelMenu)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "<div>menus</div>", html)

	_, ok, err = env.RequirePanel(PanelItems)
	require.True(t, ok)
	require.ErrorIs(t, err, ErrProtocol)

	_, ok, err = env.RequirePanel("nutritionPanel")
	require.False(t, ok)
	require.NoError(t, err)
}

func TestDecodeEnvelopeFailures(t *testing.T) {
	testCases := []string{
		`{"success":false,"panels":[]}`,
		`{"panels":[{"id":"menuPanel","html":"<div></div>"}]}`,
		`<html>Service Unavailable</html>`,
		``,
	}
	for _, body := range testCases {
		_, err := DecodeEnvelope([]byte(body))
		require.ErrorIs(t, err, ErrProtocol, body)
	}
}
