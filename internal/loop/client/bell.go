package client

// Bell is a game.Effects for terminals without audio: a crash rings the
// terminal bell on the next drawn frame.
type Bell struct {
	pending bool
}

// PlayCrash implements game.Effects.
func (b *Bell) PlayCrash() { b.pending = true }

// take reports whether the bell should ring and clears it.
func (b *Bell) take() bool {
	ring := b.pending
	b.pending = false
	return ring
}
