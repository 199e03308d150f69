package injector

import (
	"sync/atomic"

	"iocc/pkg/key"
)

var resolutionSeq atomic.Uint64

// Resolution identifies one top-level request and every nested request made
// on its behalf.
type Resolution struct {
	id uint64
}

// ID returns a process-unique number for the resolution.
func (r *Resolution) ID() uint64 { return r.id }

// Call is an immutable trace of the keys being resolved, innermost first.
type Call struct {
	key  key.Key
	prev *Call
	res  *Resolution
}

// NewCall starts the trace of a top-level request for k.
func NewCall(k key.Key) *Call {
	return &Call{key: k, res: &Resolution{id: resolutionSeq.Add(1)}}
}

// Append returns the trace of a nested request for k made while resolving c.
func (c *Call) Append(k key.Key) *Call {
	return &Call{key: k, prev: c, res: c.res}
}

// Key returns the key requested by this frame.
func (c *Call) Key() key.Key { return c.key }

// Previous returns the enclosing frame, or nil for a top-level request.
func (c *Call) Previous() *Call { return c.prev }

// Resolution returns the top-level request this frame belongs to.
func (c *Call) Resolution() *Resolution { return c.res }

// Contains reports whether an enclosing frame already requested k.
func (c *Call) Contains(k key.Key) bool {
	for p := c.prev; p != nil; p = p.prev {
		if p.key == k {
			return true
		}
	}
	return false
}

// Depth returns the number of frames in the trace.
func (c *Call) Depth() int {
	n := 0
	for p := c; p != nil; p = p.prev {
		n++
	}
	return n
}

// Path returns the requested keys from the outermost frame to c.
func (c *Call) Path() []key.Key {
	path := make([]key.Key, c.Depth())
	i := len(path) - 1
	for p := c; p != nil; p = p.prev {
		path[i] = p.key
		i--
	}
	return path
}
