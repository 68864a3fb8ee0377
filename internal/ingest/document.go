package ingest

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// DocumentInfo is what the indexer reads back out of a knowledge document.
type DocumentInfo struct {
	Title  string
	Fields map[string]string
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
)

// ParseDocument extracts the first level-1 heading and every
// "- **Label**: value" list item of a knowledge document.
func ParseDocument(src []byte) DocumentInfo {
	info := DocumentInfo{Fields: make(map[string]string)}
	root := markdown.Parser().Parse(text.NewReader(src))

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && info.Title == "" {
				info.Title = strings.TrimSpace(plainText(node, src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if label, value, ok := listField(node, src); ok {
				info.Fields[label] = value
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return info
}

// RenderHTML renders a knowledge document to HTML.
func RenderHTML(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// listField matches list items whose first inline is a bold label followed
// by ": value".
func listField(item *ast.ListItem, src []byte) (string, string, bool) {
	block := item.FirstChild()
	if block == nil {
		return "", "", false
	}
	label, ok := block.FirstChild().(*ast.Emphasis)
	if !ok || label.Level != 2 {
		return "", "", false
	}
	var rest strings.Builder
	for n := label.NextSibling(); n != nil; n = n.NextSibling() {
		rest.WriteString(plainText(n, src))
	}
	value, found := strings.CutPrefix(strings.TrimSpace(rest.String()), ":")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(plainText(label, src)), strings.TrimSpace(value), true
}

func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.URL(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
