package relevance

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText reduces imported section content to its visible text.
// Content without markup is returned with whitespace collapsed.
func PlainText(content string) string {
	if !strings.Contains(content, "<") {
		return collapse(content)
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return collapse(content)
	}
	return collapse(visibleText(doc))
}

// ExcerptText is PlainText for content that is quoted back to the model.
// Content without markup keeps its paragraphs and list lines.
func ExcerptText(content string) string {
	if strings.Contains(content, "<") {
		return PlainText(content)
	}

	var lines []string
	blank := false
	for _, line := range strings.Split(content, "\n") {
		line = collapse(line)
		if line == "" {
			blank = len(lines) > 0
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// visibleText walks text nodes, skipping scripts and styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
