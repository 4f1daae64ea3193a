package htmlmodule

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Script describes a single <script type="module"> element.
//
// When Src is non-empty the script refers to an external file and Src is the
// import specifier for it; otherwise Code holds the inline source.
type Script struct {
	Src  string
	Code string
}

// Inline returns true if the script has no external source.
func (s Script) Inline() bool {
	return s.Src == ""
}

// Scripts parses the given HTML and returns its module scripts in document
// order.
func Scripts(source string) ([]Script, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("error parsing html: %w", err)
	}

	var scripts []Script

	findScripts(doc, &scripts)

	return scripts, nil
}

func findScripts(n *html.Node, scripts *[]Script) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}

		switch c.DataAtom {
		case atom.Template:
			// template contents are not part of the document tree
			continue
		case atom.Script:
			if isModule(c) {
				*scripts = append(*scripts, newScript(c))

				continue
			}
		}

		findScripts(c, scripts)
	}
}

func isModule(n *html.Node) bool {
	typ, _ := attr(n, "type")

	return strings.EqualFold(typ, "module")
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}

func newScript(n *html.Node) Script {
	if src, _ := attr(n, "src"); src != "" {
		return Script{Src: normaliseSrc(src)}
	}

	var sb strings.Builder

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}

	return Script{Code: sb.String()}
}

// normaliseSrc turns a bare src value into a relative import specifier,
// leaving relative, root-relative, and absolute URLs alone.
func normaliseSrc(src string) string {
	if strings.HasPrefix(src, "/") || strings.HasPrefix(src, "./") || strings.HasPrefix(src, "../") {
		return src
	}

	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		return src
	}

	return "./" + src
}
