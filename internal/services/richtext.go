package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/courseforge/backend/internal/types"
)

// TextToBlocks converts a plain-text lesson body into the store's rich-text
// block array: one block per double-newline-separated paragraph, each holding
// a single unformatted span. Single newlines inside a paragraph stay literal.
// Empty input yields an empty slice, never nil blocks.
func TextToBlocks(text string) []types.Block {
	blocks := []types.Block{}
	if strings.TrimSpace(text) == "" {
		return blocks
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	for _, para := range strings.Split(normalized, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		blocks = append(blocks, types.Block{
			Type:  types.TypeBlock,
			Key:   newItemKey(),
			Style: types.BlockStyleNormal,
			Children: []types.Span{{
				Type:  types.TypeSpan,
				Key:   newItemKey(),
				Text:  para,
				Marks: []string{},
			}},
			MarkDefs: []any{},
		})
	}
	return blocks
}

func newItemKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
