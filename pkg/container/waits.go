package container

import (
	"sync"

	"iocc/pkg/injector"
)

// construction is a shared object being built by one resolution.
type construction struct {
	owner *injector.Resolution
	done  chan struct{}

	// finished is guarded by waitGraph.mu.
	finished bool

	obj any
	err error
}

// waitGraph records which resolutions wait on constructions owned by other
// resolutions. It is shared by a container tree and lets a wait that would
// never end be reported as a cycle.
type waitGraph struct {
	mu    sync.Mutex
	edges map[*injector.Resolution]map[*construction]int
}

func newWaitGraph() *waitGraph {
	return &waitGraph{edges: make(map[*injector.Resolution]map[*construction]int)}
}

// add records that r waits on c. It returns false, recording nothing, if
// the owner of c already waits on r.
func (g *waitGraph) add(r *injector.Resolution, c *construction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c.finished {
		return true
	}
	if g.reaches(c.owner, r, make(map[*injector.Resolution]bool)) {
		return false
	}
	if g.edges[r] == nil {
		g.edges[r] = make(map[*construction]int)
	}
	g.edges[r][c]++
	return true
}

func (g *waitGraph) remove(r *injector.Resolution, c *construction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cs := g.edges[r]
	if cs[c] <= 1 {
		delete(cs, c)
	} else {
		cs[c]--
	}
	if len(cs) == 0 {
		delete(g.edges, r)
	}
}

func (g *waitGraph) reaches(from, to *injector.Resolution, seen map[*injector.Resolution]bool) bool {
	if from == to {
		return true
	}
	if seen[from] {
		return false
	}
	seen[from] = true
	for c := range g.edges[from] {
		if !c.finished && g.reaches(c.owner, to, seen) {
			return true
		}
	}
	return false
}

// finish publishes the outcome of c and wakes its waiters.
func (g *waitGraph) finish(c *construction, obj any, err error) {
	g.mu.Lock()
	c.obj, c.err = obj, err
	c.finished = true
	g.mu.Unlock()
	close(c.done)
}
