package sse

import (
	"github.com/christopherkarani/Conduit/pkg/json/complete"
	"github.com/christopherkarani/Conduit/pkg/json/repair"
)

// RelayJSONFragment takes a possibly-truncated JSON fragment — the kind an
// LLM has streamed out so far — completes and repairs it into syntactically
// valid JSON, and encodes the result as an SSE message under event, ready
// to write to a client mid-stream.
//
// The scratch Message used to carry the repaired JSON into enc.Encode is
// drawn from messagePool and released before returning, since it's
// consumed synchronously by Encode and never escapes this call.
func RelayJSONFragment(enc *Encoder, event string, fragment string, maxDepth int) ([]byte, error) {
	completed := complete.Complete(fragment, maxDepth)
	repaired := repair.Repair(completed, maxDepth)

	msg := GetMessage()
	defer ReleaseMessage(msg)

	msg.Event = event
	msg.Data = append(msg.Data, repaired...)

	return enc.Encode(msg)
}
