package requests

// transitions is the legal status graph. Terminal statuses have no
// outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusDisputed},
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// Terminal reports whether the status has no outgoing edges.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
