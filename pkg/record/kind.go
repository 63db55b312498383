package record

// Kind classifies what a record holds.
type Kind string

const (
	KindSemantic   Kind = "semantic"
	KindEpisodic   Kind = "episodic"
	KindProcedural Kind = "procedural"
	KindFactual    Kind = "factual"
	KindPreference Kind = "preference"
	KindContextual Kind = "contextual"
)

// ValidKinds lists every accepted kind.
var ValidKinds = map[Kind]bool{
	KindSemantic:   true,
	KindEpisodic:   true,
	KindProcedural: true,
	KindFactual:    true,
	KindPreference: true,
	KindContextual: true,
}
