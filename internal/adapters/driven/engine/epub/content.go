package epub

import (
	"strings"

	"golang.org/x/net/html"
)

// extractContent reduces section markup to plain text and the list of
// referenced images.
func extractContent(markup string) (string, []string) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", nil
	}

	var text strings.Builder
	var images []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if fields := strings.Fields(n.Data); len(fields) > 0 {
				if text.Len() > 0 {
					text.WriteString(" ")
				}
				text.WriteString(strings.Join(fields, " "))
			}
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "img", "image":
				if src := imageSrc(n); src != "" {
					images = append(images, src)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return text.String(), images
}

// imageSrc resolves an image reference. SVG cover wrappers reference
// via xlink, and the parser rewrites an <image> tag in HTML content
// into an img node that keeps the xlink attribute instead of src.
func imageSrc(n *html.Node) string {
	for _, name := range []string{"src", "xlink:href", "href"} {
		if v := attrValue(n, name); v != "" {
			return v
		}
	}
	return ""
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}
