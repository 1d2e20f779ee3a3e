package document

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// frontmatterEnd returns the offset just past a leading --- frontmatter block, or 0
func frontmatterEnd(source []byte) int {
	if !bytes.HasPrefix(source, []byte("---\n")) && !bytes.HasPrefix(source, []byte("---\r\n")) {
		return 0
	}
	offset := bytes.IndexByte(source, '\n') + 1
	for offset < len(source) {
		end := bytes.IndexByte(source[offset:], '\n')
		next := len(source)
		if end >= 0 {
			next = offset + end + 1
		}
		if string(bytes.TrimRight(source[offset:next], "\r\n")) == "---" {
			return next
		}
		offset = next
	}
	return 0
}

func hasImport(source []byte, namespace string) bool {
	pattern := regexp.MustCompile(`(?m)^import\s+\*\s+as\s+` + regexp.QuoteMeta(namespace) + `\s+from\s`)
	return pattern.Match(source)
}

func linesSpan(lines *text.Segments) span {
	if lines.Len() == 0 {
		return span{}
	}
	return span{start: lines.At(0).Start, end: lines.At(lines.Len() - 1).Stop}
}

func firstContentOffset(source []byte, lines *text.Segments) int {
	for i := range lines.Len() {
		seg := lines.At(i)
		raw := source[seg.Start:seg.Stop]
		if idx := bytes.IndexFunc(raw, func(r rune) bool { return !strings.ContainsRune(" \t\r\n", r) }); idx >= 0 {
			return seg.Start + idx
		}
	}
	return lines.At(0).Start
}

func lineOf(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte("\n")) + 1
}

// codeSpanRange finds the source range of a code span, backticks included
func codeSpanRange(source []byte, cs *ast.CodeSpan) (span, bool) {
	first, ok := cs.FirstChild().(*ast.Text)
	if !ok {
		return span{}, false
	}
	last := cs.LastChild().(*ast.Text)

	start := first.Segment.Start
	if start > 0 && source[start-1] != '`' {
		start-- // stripped padding space
	}
	ticks := 0
	for start > 0 && source[start-1] == '`' {
		start--
		ticks++
	}

	end := last.Segment.Stop
	if end < len(source) && source[end] != '`' {
		end++
	}
	for range ticks {
		if end >= len(source) || source[end] != '`' {
			return span{}, false
		}
		end++
	}
	if ticks == 0 {
		return span{}, false
	}
	return span{start: start, end: end}, true
}

// codeSpanContent returns the text of a code span given its source, backticks included
func codeSpanContent(raw []byte) string {
	ticks := 0
	for ticks < len(raw) && raw[ticks] == '`' {
		ticks++
	}
	content := strings.ReplaceAll(string(raw[ticks:len(raw)-ticks]), "\n", " ")
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' && strings.TrimSpace(content) != "" {
		content = content[1 : len(content)-1]
	}
	return content
}

// fenceRange returns the range from the opening fence to the end of the closing fence. The
// indentation or blockquote markers before the fences stay in the document.
func fenceRange(source []byte, block *ast.FencedCodeBlock) (int, int) {
	start := block.Info.Segment.Start
	for start > 0 && (source[start-1] == ' ' || source[start-1] == '\t') {
		start--
	}
	infoStart := start
	for start > 0 && (source[start-1] == '`' || source[start-1] == '~') {
		start--
	}
	fence := strings.Repeat(string(source[start]), infoStart-start)

	after := len(source)
	if lines := block.Lines(); lines.Len() > 0 {
		after = lines.At(lines.Len() - 1).Stop
	} else if nl := bytes.IndexByte(source[block.Info.Segment.Stop:], '\n'); nl >= 0 {
		after = block.Info.Segment.Stop + nl + 1
	}

	lineEnd := len(source)
	if nl := bytes.IndexByte(source[after:], '\n'); nl >= 0 {
		lineEnd = after + nl
	}
	line := source[after:lineEnd]
	indent := len(line) - len(bytes.TrimLeft(line, " \t>"))
	if bytes.HasPrefix(line[indent:], []byte(fence)) {
		end := after + indent
		for end < lineEnd && source[end] == fence[0] {
			end++
		}
		return start, end
	}

	end := after
	for end > start && (source[end-1] == '\n' || source[end-1] == '\r') {
		end--
	}
	return start, end
}
