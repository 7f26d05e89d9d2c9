package server

import (
	"maps"

	"github.com/vango-dev/hive/pkg/protocol"
	"github.com/vango-dev/hive/pkg/store"
)

// subscription is a remote component. It lives on the hub goroutine.
type subscription struct {
	id     string
	conn   *conn
	module *store.Store

	// Until the snapshot is sent, patches are folded into initial so the
	// client never sees a patch before its snapshot.
	ready   bool
	initial map[string]any
}

// ApplyPatch implements store.Component.
func (s *subscription) ApplyPatch(patch map[string]any) {
	if !s.ready {
		if s.initial == nil {
			s.initial = make(map[string]any, len(patch))
		}
		maps.Copy(s.initial, patch)
		return
	}
	s.conn.enqueue(protocol.Patch(s.id, patch))
}

// TypeTag implements store.TypeTagger.
func (s *subscription) TypeTag() string {
	return "remote"
}
