package expressions

// ParseOption is an option for parsing.
type ParseOption func(*parser)

// WithFuncs sets the functions formulas may call, replacing the default
// library. Names not in fns parse as variables.
func WithFuncs(fns map[string]Func) ParseOption {
	return func(p *parser) {
		p.funcs = fns
	}
}

// RequireCallBrackets makes niladic functions require brackets, so that a
// bare pi is a variable name but pi() is a call.
func RequireCallBrackets() ParseOption {
	return func(p *parser) {
		p.brackets = true
	}
}

// Shadow makes the given names parse as variables when they appear without
// brackets, even if they name niladic functions. Calls with brackets are
// unaffected.
func Shadow(names ...string) ParseOption {
	return func(p *parser) {
		if len(names) == 0 {
			return
		}
		if p.shadow == nil {
			p.shadow = make(map[string]bool, len(names))
		}
		for _, name := range names {
			p.shadow[name] = true
		}
	}
}
