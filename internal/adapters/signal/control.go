package signal

import (
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/protocol"
)

func (ctl *SignalWSController) handlePing(id domain.ClientID) {
	_ = ctl.Orch.Send(id, protocol.Pong{Type: protocol.TypePong})
}
