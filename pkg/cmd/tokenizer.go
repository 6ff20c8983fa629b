package cmd

import "strings"

const quote = `"`

// Tokenize strips one leading prefix from content and splits the rest on
// whitespace runs. The first token is the alias. A token that opens a double
// quote without closing it starts a quoted argument; following tokens are
// joined to it with single spaces until one ends with a quote. The quote
// characters themselves are dropped. An unterminated quote runs to the end
// of input. A token like "x" that opens and closes on its own is kept as is.
func Tokenize(content, prefix string) (alias string, args []string) {
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil
	}

	alias = fields[0]
	quoted := false
	for _, tok := range fields[1:] {
		if quoted {
			if strings.HasSuffix(tok, quote) {
				quoted = false
				tok = strings.TrimSuffix(tok, quote)
			}
			args[len(args)-1] += " " + tok
			continue
		}
		if strings.HasPrefix(tok, quote) && !strings.HasSuffix(tok, quote) {
			quoted = true
			tok = strings.TrimPrefix(tok, quote)
		}
		args = append(args, tok)
	}
	return alias, args
}
