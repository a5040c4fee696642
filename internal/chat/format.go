package chat

import (
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

const timeLayout = "15:04"

// FormatTime renders t as local hour:minute.
func FormatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

// PlainText drops lightweight markup such as **bold** and keeps the visible text.
func PlainText(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse([]byte(text), p)

	var b strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				b.Write(n.Literal)
				b.WriteString("\n")
			}
		case *ast.Softbreak, *ast.Hardbreak:
			if entering {
				b.WriteString("\n")
			}
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				b.WriteString("\n\n")
			}
		case *ast.ListItem:
			if entering {
				b.WriteString("• ")
			} else {
				b.WriteString("\n")
			}
		}
		return ast.GoToNext
	})

	out := strings.TrimSpace(b.String())
	if out == "" {
		return strings.TrimSpace(text)
	}
	return out
}
