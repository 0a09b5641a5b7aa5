package rtc

import (
	"encoding/json"
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/livedocs/internal/config"
)

func TestICEServersDefaultToPublicSTUN(t *testing.T) {
	got := ICEServers(nil)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, got[0].URLs)

	got[0].URLs[0] = "changed"
	assert.Equal(t, "stun:stun.l.google.com:19302", ICEServers(nil)[0].URLs[0], "default list is copied per call")
}

func TestICEServersFromConfig(t *testing.T) {
	got := ICEServers([]config.ICEServer{
		{URLs: []string{"stun:stun.example.org:3478"}},
		{URLs: []string{"turn:turn.example.org:3478?transport=udp"}, Username: "alice", Credential: "secret"},
	})
	require.Len(t, got, 2)
	assert.Empty(t, got[0].Username)
	assert.Equal(t, "alice", got[1].Username)
	assert.Equal(t, "secret", got[1].Credential)
	assert.Equal(t, webrtc.ICECredentialTypePassword, got[1].CredentialType)
	require.NoError(t, Validate(got))
}

func TestICEServersJSONShape(t *testing.T) {
	data, err := json.Marshal(ICEServers(nil))
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, []any{"stun:stun.l.google.com:19302"}, decoded[0]["urls"])
	assert.NotContains(t, decoded[0], "username")
}

func TestValidateRejectsBadURL(t *testing.T) {
	err := Validate([]webrtc.ICEServer{{URLs: []string{"bogus://nowhere"}}})
	assert.Error(t, err)
}
