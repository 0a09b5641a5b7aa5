package orch

import (
	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/metrics"
	"github.com/rs/zerolog/log"
)

// JoinDocument subscribes id to doc. A connection edits one document at a
// time, so a previous document room is left first.
func (o *Orchestrator) JoinDocument(id domain.ClientID, doc domain.DocumentID) error {
	if err := domain.ValidateRoomKey(string(doc)); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Registry.Get(id)
	if !ok {
		return errClient(id)
	}
	if sess.InDocument() && sess.Document != doc {
		log.Info().Str("module", "orch").Str("cid", string(id)).Str("from_document", string(sess.Document)).Msg("switching document")
		o.leaveDocumentLocked(id, sess.Document)
	}
	o.Documents.Join(doc, core.NewMember(id, sess.Signal, sess.DisplayName))
	_ = o.Registry.SetDocument(id, doc)
	o.syncRoomGauges()
	return nil
}

// PublishDocument forwards f unchanged to the other members of the sender's
// document room.
func (o *Orchestrator) PublishDocument(id domain.ClientID, f core.Frame) (core.PublishResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Registry.Get(id)
	if !ok {
		return core.PublishResult{}, errClient(id)
	}
	if !sess.InDocument() {
		o.Metrics.Dropped(metrics.DropNoRoom, 1)
		return core.PublishResult{}, ErrNotInDocument
	}
	res, ok := o.Documents.Broadcast(sess.Document, id, f)
	if !ok {
		o.Metrics.Dropped(metrics.DropNoRoom, 1)
		return core.PublishResult{}, ErrNotInDocument
	}
	o.publishResult(res)
	return res, nil
}

func (o *Orchestrator) leaveDocumentLocked(id domain.ClientID, doc domain.DocumentID) {
	o.Documents.Leave(doc, id)
	_ = o.Registry.ClearDocument(id)
	o.syncRoomGauges()
}
