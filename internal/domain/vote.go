package domain

// VoteDirection is the direction of a cast vote intent.
type VoteDirection string

const (
	// VoteDirectionUp is an upvote intent.
	VoteDirectionUp VoteDirection = "up"

	// VoteDirectionDown is a downvote intent.
	VoteDirectionDown VoteDirection = "down"
)

// Valid reports whether the direction is one of the two cast directions.
func (d VoteDirection) Valid() bool {
	return d == VoteDirectionUp || d == VoteDirectionDown
}

// VoteState is the viewer's session-local vote on a votable item: the
// optimistic overlay layered on top of the last server-confirmed score.
// It is derived state, never persisted.
type VoteState int

const (
	// VoteNone means the viewer has no standing vote on the item.
	VoteNone VoteState = 0

	// VoteUp means the viewer's standing vote is an upvote.
	VoteUp VoteState = 1

	// VoteDown means the viewer's standing vote is a downvote.
	VoteDown VoteState = -1
)

// Next returns the overlay state after casting in the given direction.
// Casting the standing direction again toggles the vote off; casting the
// opposite direction flips it.
func (s VoteState) Next(dir VoteDirection) VoteState {
	switch dir {
	case VoteDirectionUp:
		if s == VoteUp {
			return VoteNone
		}

		return VoteUp

	case VoteDirectionDown:
		if s == VoteDown {
			return VoteNone
		}

		return VoteDown
	}

	return s
}

// Delta is the overlay's contribution to the displayed score.
func (s VoteState) Delta() int {
	return int(s)
}

// WireValue is the value sent to the remote vote operation for a
// transition landing on this state: the cast direction, or "remove"
// when the transition toggles the vote off.
func (s VoteState) WireValue() string {
	switch s {
	case VoteUp:
		return string(VoteDirectionUp)
	case VoteDown:
		return string(VoteDirectionDown)
	default:
		return "remove"
	}
}

// String implements fmt.Stringer.
func (s VoteState) String() string {
	switch s {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "none"
	}
}
