package types

const (
	TypeReference = "reference"
	TypeSlug      = "slug"
)

// Reference points at another document in the store. The target id may belong
// to a document staged in the same transaction and not yet committed.
type Reference struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
	Key  string `json:"_key,omitempty"`
}

func NewReference(id string) Reference {
	return Reference{Type: TypeReference, Ref: id}
}

// NewKeyedReference is for references held inside arrays, where the store
// requires a stable _key per element.
func NewKeyedReference(id, key string) Reference {
	return Reference{Type: TypeReference, Ref: id, Key: key}
}

type Slug struct {
	Type    string `json:"_type"`
	Current string `json:"current"`
}

func NewSlug(current string) Slug {
	return Slug{Type: TypeSlug, Current: current}
}
