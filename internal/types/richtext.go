package types

const (
	TypeBlock = "block"
	TypeSpan  = "span"

	BlockStyleNormal = "normal"
)

// Span is a single run of text inside a block. The converter only ever emits
// unformatted spans (no marks).
type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// Block is one paragraph in the store's rich-text representation.
type Block struct {
	Type     string `json:"_type"`
	Key      string `json:"_key"`
	Style    string `json:"style"`
	Children []Span `json:"children"`
	MarkDefs []any  `json:"markDefs"`
}
