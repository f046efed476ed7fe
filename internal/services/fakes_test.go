package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/store"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// fakeStore implements store.Client with pluggable behavior per call site.
type fakeStore struct {
	FetchFunc  func(ctx context.Context, query string, params map[string]any, out any) error
	CommitFunc func(ctx context.Context, tx *store.Transaction) (*store.TransactionResult, error)

	FetchCalls  []fetchCall
	Committed   []*store.Transaction
	CreatedDocs []any
	DeletedIDs  []string
}

type fetchCall struct {
	Query  string
	Params map[string]any
}

func (f *fakeStore) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	f.FetchCalls = append(f.FetchCalls, fetchCall{Query: query, Params: params})
	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, query, params, out)
	}
	return nil
}

func (f *fakeStore) Create(ctx context.Context, doc any) (string, error) {
	f.CreatedDocs = append(f.CreatedDocs, doc)
	return fmt.Sprintf("doc-%d", len(f.CreatedDocs)), nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.DeletedIDs = append(f.DeletedIDs, id)
	return nil
}

func (f *fakeStore) Commit(ctx context.Context, tx *store.Transaction) (*store.TransactionResult, error) {
	f.Committed = append(f.Committed, tx)
	if f.CommitFunc != nil {
		return f.CommitFunc(ctx, tx)
	}
	return &store.TransactionResult{TransactionID: "txn-1"}, nil
}

// fillResult writes a canned fetch result into the caller's out pointer the
// same way the real client decodes a query response.
func fillResult(out any, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// decodeMutations renders a staged transaction into the mutation maps the
// mutate endpoint would receive.
func decodeMutations(t *testing.T, tx *store.Transaction) []map[string]any {
	t.Helper()
	raw, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal transaction: %v", err)
	}
	var muts []map[string]any
	if err := json.Unmarshal(raw, &muts); err != nil {
		t.Fatalf("unmarshal transaction: %v", err)
	}
	return muts
}
