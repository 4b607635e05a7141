package expressions

import (
	"strings"
)

// Substitute rewrites src by replacing each name token for which lookup
// reports ok with the returned text. The source is scanned exactly once, so
// replacement text is never itself scanned for names; a value that happens to
// spell another variable's name stays as written. Whitespace and all other
// tokens are copied through unchanged.
//
// The result is meant for diagnostics. Errors are lexical errors in src.
func Substitute(src string, lookup func(name string) (string, bool)) (string, error) {
	scan := lex(src)
	var b strings.Builder
	b.Grow(len(src))
	at := 0
	for {
		tok, err := scan.next()
		if err != nil {
			return "", err
		}
		if tok.kind == tokenEOF {
			break
		}
		if tok.kind != tokenIdent {
			continue
		}
		if v, ok := lookup(tok.text); ok {
			b.WriteString(src[at:tok.off])
			b.WriteString(v)
			at = tok.off + len(tok.text)
		}
	}
	b.WriteString(src[at:])
	return b.String(), nil
}
