package htmlmodule

import (
	"fmt"
	"strconv"
	"strings"

	"vimagination.zapto.org/javascript"
	"vimagination.zapto.org/parser"
)

// virtualPrefix starts every virtual module id. No file path can begin with
// a NUL byte.
const virtualPrefix = "\x00virtual:"

// Sources maps virtual module ids to their source code.
type Sources map[string]string

// Resolve marks any id that isn't a virtual module as external.
func (s Sources) Resolve(id string) Resolution {
	_, ok := s[id]

	return Resolution{
		ID:       id,
		External: !ok,
	}
}

// Load returns the source of a virtual module.
func (s Sources) Load(id string) (string, bool) {
	src, ok := s[id]

	return src, ok
}

func (s Sources) push(src string) string {
	id := virtualPrefix + strconv.Itoa(len(s))
	s[id] = src

	return id
}

type importSpec struct {
	src      string
	reexport bool
}

func (i importSpec) String() string {
	if i.reexport {
		return "export * from " + quote(i.src) + ";"
	}

	return "import " + quote(i.src) + ";"
}

type graph struct {
	sources Sources
	entry   string
	imports []importSpec
}

// buildGraph assembles the virtual modules for a document: the document
// wrapper, one module per inline script, and an entry importing each in
// order.
func buildGraph(scripts []Script, wrapper string) (graph, error) {
	g := graph{
		sources: make(Sources, len(scripts)+2),
		imports: make([]importSpec, 0, len(scripts)),
	}

	doc := g.sources.push(wrapper + documentMeta)

	for _, s := range scripts {
		if s.Inline() {
			g.imports = append(g.imports, importSpec{src: g.sources.push(s.Code), reexport: true})
		} else {
			g.imports = append(g.imports, importSpec{src: s.Src})
		}
	}

	var entry strings.Builder

	entry.WriteString("export { default } from ")
	entry.WriteString(quote(doc))
	entry.WriteString(";\n")

	for n, i := range g.imports {
		if n > 0 {
			entry.WriteByte('\n')
		}

		entry.WriteString(i.String())
	}

	if err := checkEntry(entry.String(), g.imports); err != nil {
		return graph{}, err
	}

	g.entry = g.sources.push(entry.String())

	return g, nil
}

// checkEntry parses the entry source and confirms it holds only the document
// re-export followed by one declaration per import, in order.
func checkEntry(src string, imports []importSpec) error {
	tk := parser.NewStringTokeniser(src)

	m, err := javascript.ParseModule(&tk)
	if err != nil {
		return fmt.Errorf("error parsing entry module: %w", err)
	}

	if len(m.ModuleListItems) != len(imports)+1 {
		return fmt.Errorf("%w: expecting %d declarations, got %d", ErrInvalidEntry, len(imports)+1, len(m.ModuleListItems))
	}

	if m.ModuleListItems[0].ExportDeclaration == nil {
		return fmt.Errorf("%w: missing document export", ErrInvalidEntry)
	}

	for n, i := range imports {
		item := m.ModuleListItems[n+1]

		if i.reexport && item.ExportDeclaration == nil || !i.reexport && item.ImportDeclaration == nil {
			return fmt.Errorf("%w: declaration %d: %s", ErrInvalidEntry, n+1, i)
		}
	}

	return nil
}

// quote returns s as a single-quoted JavaScript string literal.
func quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')

	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\x00`)
		case '\u2028':
			sb.WriteString(`\u2028`)
		case '\u2029':
			sb.WriteString(`\u2029`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('\'')

	return sb.String()
}
