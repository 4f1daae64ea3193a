package htmlmodule

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vimagination.zapto.org/javascript"
	"vimagination.zapto.org/parser"
)

// cook evaluates the body of a template literal without substitutions,
// supporting the escapes produced by escapeTemplate.
func cook(lit string) (string, error) {
	var sb strings.Builder

	for i := 0; i < len(lit); i++ {
		switch c := lit[i]; c {
		case '`':
			return "", errors.New("unescaped backtick")
		case '$':
			if i+1 < len(lit) && lit[i+1] == '{' {
				return "", errors.New("unescaped substitution")
			}

			sb.WriteByte(c)
		case '\r':
			sb.WriteByte('\n')

			if i+1 < len(lit) && lit[i+1] == '\n' {
				i++
			}
		case '\\':
			i++

			if i == len(lit) {
				return "", errors.New("trailing backslash")
			}

			switch e := lit[i]; e {
			case '\\', '`', '$':
				sb.WriteByte(e)
			case 'r':
				sb.WriteByte('\r')
			case 'n':
				sb.WriteByte('\n')
			default:
				return "", errors.New("unexpected escape")
			}
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), nil
}

var templateInputs = []string{
	"",
	"<p>plain</p>",
	"a `backtick` here",
	"``",
	`back\slash`,
	`\` + "`",
	`\\` + "``" + `\\\`,
	"${notASubstitution}",
	"$ {spaced} $$ {",
	`\${escaped}`,
	"$",
	"line\r\nbreaks\rand\nmore",
	"<script>let s = `${a}\\n`;</script>",
	"unicode ✓ \u2028 é",
}

func TestEscapeTemplateRoundTrip(t *testing.T) {
	for _, in := range templateInputs {
		out, err := cook(escapeTemplate(in))
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, in, out)
	}
}

func TestEscapeTemplate(t *testing.T) {
	assert.Equal(t, "\\`", escapeTemplate("`"))
	assert.Equal(t, `\\`, escapeTemplate(`\`))
	assert.Equal(t, `\${x}`, escapeTemplate("${x}"))
	assert.Equal(t, `$x`, escapeTemplate("$x"))
	assert.Equal(t, `a\r`+"\n", escapeTemplate("a\r\n"))
}

func TestDocumentModuleParses(t *testing.T) {
	for _, in := range templateInputs {
		src := documentModule(in)
		tk := parser.NewStringTokeniser(src + documentMeta)

		_, err := javascript.ParseModule(&tk)
		assert.NoError(t, err, "input %q", in)
	}
}

func TestDocumentModule(t *testing.T) {
	src := documentModule("<p>hi</p>")

	assert.True(t, strings.HasPrefix(src, "const template = document.createElement('template');\n"))
	assert.Contains(t, src, "template.innerHTML = `<p>hi</p>`;\n")
	assert.Contains(t, src, "document.implementation.createHTMLDocument()")
	assert.True(t, strings.HasSuffix(src, "export default moduleDocument;"))
}
