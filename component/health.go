package component

// Life is a one-way alive/dead latch. Once dead it stays dead.
type Life struct {
	dead bool

	OnDeath func(l *Life)
}

// Dead reports whether the latch has been tripped.
func (l *Life) Dead() bool {
	return l != nil && l.dead
}

// Kill trips the latch. It returns true only for the call that changed the
// state; later calls are no-ops.
func (l *Life) Kill() bool {
	if l == nil || l.dead {
		return false
	}
	l.dead = true
	if l.OnDeath != nil {
		l.OnDeath(l)
	}
	return true
}
