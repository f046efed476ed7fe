package services

import (
	"testing"

	"github.com/courseforge/backend/internal/types"
)

func TestTextToBlocks_SplitsOnBlankLines(t *testing.T) {
	blocks := TextToBlocks("Para one.\n\nPara two.")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Children[0].Text != "Para one." || blocks[1].Children[0].Text != "Para two." {
		t.Fatalf("unexpected texts: %q / %q", blocks[0].Children[0].Text, blocks[1].Children[0].Text)
	}
	for i, b := range blocks {
		if b.Type != types.TypeBlock || b.Style != types.BlockStyleNormal {
			t.Fatalf("block %d has wrong type/style: %+v", i, b)
		}
		if b.Key == "" {
			t.Fatalf("block %d missing key", i)
		}
		if len(b.Children) != 1 {
			t.Fatalf("block %d should hold one span, got %d", i, len(b.Children))
		}
		span := b.Children[0]
		if span.Type != types.TypeSpan || span.Key == "" {
			t.Fatalf("block %d has malformed span: %+v", i, span)
		}
		if span.Marks == nil || b.MarkDefs == nil {
			t.Fatalf("block %d marks/markDefs must be empty, not nil", i)
		}
	}
	if blocks[0].Key == blocks[1].Key {
		t.Fatalf("block keys must be unique")
	}
}

func TestTextToBlocks_KeepsSingleNewlinesInsideParagraph(t *testing.T) {
	blocks := TextToBlocks("line one\nline two")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Children[0].Text != "line one\nline two" {
		t.Fatalf("got %q", blocks[0].Children[0].Text)
	}
}

func TestTextToBlocks_NormalizesCRLF(t *testing.T) {
	blocks := TextToBlocks("a\r\n\r\nb")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
}

func TestTextToBlocks_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\n"} {
		blocks := TextToBlocks(in)
		if blocks == nil {
			t.Fatalf("TextToBlocks(%q) returned nil", in)
		}
		if len(blocks) != 0 {
			t.Fatalf("TextToBlocks(%q) returned %d blocks", in, len(blocks))
		}
	}
}

func TestTextToBlocks_SkipsWhitespaceOnlyParagraphs(t *testing.T) {
	blocks := TextToBlocks("a\n\n   \n\nb")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
}
