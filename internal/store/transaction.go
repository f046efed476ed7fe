package store

import (
	"encoding/json"
	"sort"
)

// Patch describes a partial update of one document. Zero-value fields are
// omitted from the encoded mutation.
type Patch struct {
	// Set overwrites document fields.
	Set map[string]any
	// SetIfMissing initializes fields only when absent, e.g. creating an
	// empty array before appending to it.
	SetIfMissing map[string]any
	// Inc adds signed deltas to numeric fields.
	Inc map[string]any
	// Append inserts items after the last element of the named array field.
	Append map[string][]any
	// IfRevision makes the whole transaction fail when the document revision
	// no longer matches, turning a concurrent lost update into a commit
	// conflict.
	IfRevision string
}

type mutation struct {
	Create            any            `json:"create,omitempty"`
	CreateIfNotExists any            `json:"createIfNotExists,omitempty"`
	Patch             *patchMutation `json:"patch,omitempty"`
	Delete            *deleteByID    `json:"delete,omitempty"`
}

type patchMutation struct {
	ID           string         `json:"id"`
	IfRevisionID string         `json:"ifRevisionID,omitempty"`
	Set          map[string]any `json:"set,omitempty"`
	SetIfMissing map[string]any `json:"setIfMissing,omitempty"`
	Inc          map[string]any `json:"inc,omitempty"`
	Insert       *insertOp      `json:"insert,omitempty"`
}

type insertOp struct {
	After string `json:"after"`
	Items []any  `json:"items"`
}

type deleteByID struct {
	ID string `json:"id"`
}

// Transaction accumulates create/patch/delete mutations plus their
// client-side pre-assigned ids, and is committed as one atomic batch.
// It is not safe for concurrent use; each request flow builds its own.
type Transaction struct {
	mutations []mutation
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

func (t *Transaction) Create(doc any) *Transaction {
	t.mutations = append(t.mutations, mutation{Create: doc})
	return t
}

// CreateIfNotExists stages a create that is a no-op when a document with the
// same id already exists. Used with deterministic ids to make concurrent
// writers converge instead of duplicating.
func (t *Transaction) CreateIfNotExists(doc any) *Transaction {
	t.mutations = append(t.mutations, mutation{CreateIfNotExists: doc})
	return t
}

// Patch stages a partial update. The mutation encoding holds one insert per
// patch, so appends to multiple array fields expand into one patch mutation
// per field (fields in sorted order, each carrying the same revision guard).
func (t *Transaction) Patch(id string, p Patch) *Transaction {
	pm := &patchMutation{
		ID:           id,
		IfRevisionID: p.IfRevision,
		Set:          p.Set,
		SetIfMissing: p.SetIfMissing,
		Inc:          p.Inc,
	}
	fields := make([]string, 0, len(p.Append))
	for field := range p.Append {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	if len(fields) > 0 {
		pm.Insert = &insertOp{After: fields[0] + "[-1]", Items: p.Append[fields[0]]}
	}
	t.mutations = append(t.mutations, mutation{Patch: pm})
	if len(fields) > 1 {
		for _, field := range fields[1:] {
			t.mutations = append(t.mutations, mutation{Patch: &patchMutation{
				ID:           id,
				IfRevisionID: p.IfRevision,
				Insert:       &insertOp{After: field + "[-1]", Items: p.Append[field]},
			}})
		}
	}
	return t
}

func (t *Transaction) Delete(id string) *Transaction {
	t.mutations = append(t.mutations, mutation{Delete: &deleteByID{ID: id}})
	return t
}

func (t *Transaction) Len() int {
	if t == nil {
		return 0
	}
	return len(t.mutations)
}

// MarshalJSON encodes the transaction as its mutation array, the same shape
// the mutate endpoint receives.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.mutations)
}

type MutationResult struct {
	ID        string `json:"id"`
	Operation string `json:"operation"`
}

type TransactionResult struct {
	TransactionID string           `json:"transactionId"`
	Results       []MutationResult `json:"results"`
}

// ResultFor returns the mutation result for a document id, if present.
func (r *TransactionResult) ResultFor(id string) (MutationResult, bool) {
	if r == nil {
		return MutationResult{}, false
	}
	for _, res := range r.Results {
		if res.ID == id {
			return res, true
		}
	}
	return MutationResult{}, false
}
