// Package book hosts the grammar engine inside an mdbook build.
//
// Pages are scanned for fenced code blocks. Grammar blocks are highlighted
// and indexed so that rule names link to their definitions across pages, and
// example blocks are checked against the grammar defined on the same page.
// Every problem found is reported as a Diagnostic; failing the build on them
// is left to the caller.
package book

import (
	"strings"
)

// A Block is a fenced code block found in a page.
type Block struct {
	// Tag is the first word of the info string.
	Tag string
	// Info is the whole info string.
	Info string
	// Text between the fences, without the line break before the closing
	// fence.
	Text string
	File string
	// Offset of Text within the page.
	Offset int
	// Start and End delimit the whole block in the page, from the opening
	// fence up to the end of the closing fence line, excluding its line break.
	Start, End int
}

// Argument is the info string following the tag.
func (b Block) Argument() string {
	return strings.TrimSpace(strings.TrimPrefix(b.Info, b.Tag))
}

// ScanBlocks finds every fenced code block in content.
//
// A fence is a line of three or more backticks, optionally indented and
// followed by an info string. The block is closed by a line holding at least
// as many backticks and nothing else, or by the end of content.
func ScanBlocks(file, content string) []Block {
	var blocks []Block
	offset := 0
	for offset < len(content) {
		line, next := lineAt(content, offset)
		fence, info, ok := openingFence(line)
		if !ok {
			offset = next
			continue
		}
		block := Block{File: file, Info: info, Offset: next, Start: offset, End: len(content)}
		if fields := strings.Fields(info); len(fields) > 0 {
			block.Tag = fields[0]
		}
		textEnd := len(content)
		offset = len(content)
		for at := next; at < len(content); {
			line, after := lineAt(content, at)
			if closingFence(line, fence) {
				textEnd = at
				if textEnd > block.Offset {
					textEnd--
					if textEnd > block.Offset && content[textEnd-1] == '\r' {
						textEnd--
					}
				}
				block.End = at + len(strings.TrimRight(line, "\r"))
				offset = after
				break
			}
			at = after
		}
		block.Text = content[block.Offset:textEnd]
		blocks = append(blocks, block)
	}
	return blocks
}

// Returns the line starting at offset without its line break, and the offset
// of the following line.
func lineAt(content string, offset int) (string, int) {
	end := strings.IndexByte(content[offset:], '\n')
	if end < 0 {
		return content[offset:], len(content)
	}
	return content[offset : offset+end], offset + end + 1
}

func openingFence(line string) (fence, info string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	n := backticks(trimmed)
	if n < 3 {
		return "", "", false
	}
	info = strings.TrimSpace(trimmed[n:])
	if strings.ContainsRune(info, '`') {
		return "", "", false
	}
	return trimmed[:n], info, true
}

func closingFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	n := backticks(trimmed)
	return n >= len(fence) && n == len(trimmed)
}

func backticks(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}
