package book_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simplx-lang/mdbook-grammar/book"
)

func TestScanBlocks(t *testing.T) {
	content := "Intro `code`\n\n```syntax\nA = \"a\" ;\n```\n\ntext\n\n```\n123\n```\n\n````syntax-example A\na\n````\n"
	require.Equal(t, []book.Block{
		{Tag: "syntax", Info: "syntax", Text: `A = "a" ;`, File: "a.md", Offset: 24, Start: 14, End: 37},
		{Tag: "", Info: "", Text: "123", File: "a.md", Offset: 49, Start: 45, End: 56},
		{Tag: "syntax-example", Info: "syntax-example A", Text: "a", File: "a.md", Offset: 79, Start: 58, End: 85},
	}, book.ScanBlocks("a.md", content))
}

func TestScanBlocksFenceLength(t *testing.T) {
	content := "````syntax\n```\nA = ;\n````"
	blocks := book.ScanBlocks("", content)
	require.Len(t, blocks, 1)
	require.Equal(t, "```\nA = ;", blocks[0].Text)
	require.Equal(t, len(content), blocks[0].End)
}

func TestScanBlocksUnterminated(t *testing.T) {
	content := "```syntax\nA = \"a\" ;\n"
	blocks := book.ScanBlocks("", content)
	require.Len(t, blocks, 1)
	require.Equal(t, "A = \"a\" ;\n", blocks[0].Text)
	require.Equal(t, len(content), blocks[0].End)
}

func TestScanBlocksEmpty(t *testing.T) {
	blocks := book.ScanBlocks("", "```syntax\n```\n")
	require.Len(t, blocks, 1)
	require.Equal(t, "", blocks[0].Text)
	require.Equal(t, 10, blocks[0].Offset)
	require.Equal(t, 13, blocks[0].End)
}

func TestScanBlocksIgnoresInlineCode(t *testing.T) {
	require.Empty(t, book.ScanBlocks("", "Use ```syntax``` inline.\n``two``\n"))
}

func TestBlockArgument(t *testing.T) {
	block := book.Block{Tag: "syntax-example", Info: "syntax-example  Expr "}
	require.Equal(t, "Expr", block.Argument())
}
