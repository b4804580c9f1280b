package search

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// StripTags returns the text content of an HTML fragment with whitespace
// collapsed. SerpAPI snippets occasionally carry <b> and <em> markup.
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(buf.String()), " ")
		case html.TextToken:
			buf.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if !inlineElements[string(name)] {
				buf.WriteByte(' ')
			}
		}
	}
}

// inlineElements do not separate words
var inlineElements = map[string]bool{
	"a": true, "b": true, "i": true, "em": true, "strong": true, "span": true,
	"mark": true, "sup": true, "sub": true, "small": true, "code": true, "abbr": true,
}

// skippedElements never contribute page text
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"nav": true, "header": true, "footer": true, "aside": true, "form": true,
}

// ParagraphText parses an HTML document and returns the text of its <p>
// elements, in document order, truncated at a word boundary to maxChars.
func ParagraphText(r io.Reader, maxChars int) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var paragraphs []string
	total := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if total >= maxChars {
			return
		}
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			if n.Data == "p" {
				if text := visibleText(n); text != "" {
					paragraphs = append(paragraphs, text)
					total += len(text) + 1
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return truncateWords(strings.Join(paragraphs, " "), maxChars), nil
}

// visibleText joins the text nodes under n, skipping scripts and styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			if !inlineElements[n.Data] {
				buf.WriteByte(' ')
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(buf.String()), " ")
}

func truncateWords(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	cut := s[:maxChars]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
