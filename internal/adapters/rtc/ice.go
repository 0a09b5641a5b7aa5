// Package rtc holds the WebRTC settings handed to call clients. Media never
// passes through the server; browsers connect to each other directly and
// only need to know which STUN/TURN servers to use.
package rtc

import (
	"fmt"

	"github.com/dkeye/livedocs/internal/config"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var defaultICEServers = []webrtc.ICEServer{
	{URLs: []string{"stun:stun.l.google.com:19302"}},
}

// ICEServers converts the configured servers, falling back to public STUN
// when none are set.
func ICEServers(servers []config.ICEServer) []webrtc.ICEServer {
	if len(servers) == 0 {
		return cloneServers(defaultICEServers)
	}
	out := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		srv := webrtc.ICEServer{
			URLs:     append([]string(nil), s.URLs...),
			Username: s.Username,
		}
		if s.Credential != "" {
			srv.Credential = s.Credential
			srv.CredentialType = webrtc.ICECredentialTypePassword
		}
		out = append(out, srv)
	}
	return out
}

// Validate checks the servers the same way a peer connection would, so a
// typo in a TURN url fails at startup instead of in every browser.
func Validate(servers []webrtc.ICEServer) error {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: servers})
	if err != nil {
		return fmt.Errorf("ice servers: %w", err)
	}
	if err := pc.Close(); err != nil {
		log.Warn().Err(err).Str("module", "rtc").Msg("close probe peer connection")
	}
	return nil
}

func cloneServers(in []webrtc.ICEServer) []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, len(in))
	for i, s := range in {
		out[i] = s
		out[i].URLs = append([]string(nil), s.URLs...)
	}
	return out
}
