package scope

// Lifetime is either a Scope or transient.
type Lifetime struct {
	scope     Scope
	transient bool
}

// Scoped returns the lifetime of objects cached in containers of scope s.
func Scoped(s Scope) Lifetime { return Lifetime{scope: s} }

// Transient returns the lifetime of objects built on every request.
func Transient() Lifetime { return Lifetime{transient: true} }

// IsTransient reports whether l is transient. The zero Lifetime is transient.
func (l Lifetime) IsTransient() bool { return l.transient || l.scope.IsZero() }

// Scope returns the scope of a scoped lifetime.
func (l Lifetime) Scope() (Scope, bool) {
	if l.IsTransient() {
		return Scope{}, false
	}
	return l.scope, true
}

func (l Lifetime) String() string {
	if l.IsTransient() {
		return "Transient"
	}
	return l.scope.String()
}

// Compare orders lifetimes by how long they last: -1 if l is shorter than o,
// +1 if longer, 0 if equal. Every scoped lifetime outlives a transient one.
// Scoped lifetimes of different hierarchies compare by rank only.
func (l Lifetime) Compare(o Lifetime) int {
	switch {
	case l.IsTransient() && o.IsTransient():
		return 0
	case l.IsTransient():
		return -1
	case o.IsTransient():
		return 1
	case l.scope.rank < o.scope.rank:
		return -1
	case l.scope.rank > o.scope.rank:
		return 1
	default:
		return 0
	}
}
