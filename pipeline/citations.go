package pipeline

import "strings"

// Citations accumulates the distinct (source, dataset) attributions touched
// while answering one question. Ask creates a fresh value per call and
// discards it afterwards, so concurrent queries never share attribution
// state. Registration order is preserved for rendering.
type Citations struct {
	seen    map[string]bool
	entries []string
}

// NewCitations returns an empty per-query citation accumulator.
func NewCitations() *Citations {
	return &Citations{seen: make(map[string]bool)}
}

// Add registers one source attribution. Registering the same pair again is
// a no-op.
func (c *Citations) Add(source, dataset string) {
	entry := source + " - " + dataset
	if c.seen[entry] {
		return
	}
	c.seen[entry] = true
	c.entries = append(c.entries, entry)
}

// Empty reports whether no attribution has been registered.
func (c *Citations) Empty() bool {
	return len(c.entries) == 0
}

// Len returns the number of distinct attributions.
func (c *Citations) Len() int {
	return len(c.entries)
}

// List returns the attributions in registration order.
func (c *Citations) List() []string {
	if len(c.entries) == 0 {
		return nil
	}
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}

// Render formats the attributions as the trailing Sources block appended to
// answers.
func (c *Citations) Render() string {
	var b strings.Builder
	b.WriteString("**Sources:**")
	for _, entry := range c.entries {
		b.WriteString("\n- ")
		b.WriteString(entry)
	}
	return b.String()
}
