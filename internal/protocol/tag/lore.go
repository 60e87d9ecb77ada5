package tag

// Lore is the ordered sequence of rendered tooltip lines. Order mirrors the
// client's tooltip rendering order.
type Lore struct {
	lines []string
}

func (l *Lore) Append(lines ...string) {
	l.lines = append(l.lines, lines...)
}

// Insert places line at index i, shifting later lines back. i is clamped to
// [0, Len()].
func (l *Lore) Insert(i int, line string) {
	if i < 0 {
		i = 0
	}
	if i > len(l.lines) {
		i = len(l.lines)
	}
	l.lines = append(l.lines, "")
	copy(l.lines[i+1:], l.lines[i:])
	l.lines[i] = line
}

func (l *Lore) Len() int {
	return len(l.lines)
}

// Lines returns a copy of the current lines.
func (l *Lore) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
