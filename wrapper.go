package htmlmodule

import "strings"

const (
	documentHead = "const template = document.createElement('template');\n" +
		"const moduleDocument = document.implementation.createHTMLDocument();\n" +
		"template.innerHTML = `"
	documentTail = "`;\n" +
		"moduleDocument.body.appendChild(template.content);\n" +
		"export default moduleDocument;"
	documentMeta = "\nimport.meta.document = moduleDocument;\n"
)

// escapeTemplate escapes raw so that, placed between backticks, the cooked
// value of the resulting template literal is exactly raw.
func escapeTemplate(raw string) string {
	var sb strings.Builder

	sb.Grow(len(raw) + len(raw)/16)

	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case '`':
			sb.WriteString("\\`")
		case '\r':
			sb.WriteString(`\r`)
		case '$':
			if i+1 < len(raw) && raw[i+1] == '{' {
				sb.WriteByte('\\')
			}

			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// documentModule returns the source of a module whose default export is a
// new Document holding the parsed contents of raw.
func documentModule(raw string) string {
	return documentHead + escapeTemplate(raw) + documentTail
}
