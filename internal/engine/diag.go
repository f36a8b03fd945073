package engine

// Skip records one input record that was dropped during shaping, so callers
// can inspect skip counts and reasons instead of losing them to a log line.
type Skip struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// View selects which archive state a shaping pass keeps.
type View int

const (
	ViewActive View = iota
	ViewArchived
)

func (v View) String() string {
	if v == ViewArchived {
		return "archived"
	}
	return "active"
}
