package dialect

import (
	"unicode"

	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

// Builder assembles a Dialect. Construction-time composition replaces
// subclassing: a dialect is the set of options it passes here.
type Builder struct {
	d Dialect
}

// New starts a dialect definition with ANSI-ish defaults: letters and
// underscore start identifiers, digits may continue them, and double
// quotes delimit them.
func New(name string) *Builder {
	b := &Builder{d: Dialect{
		name: name,
		identStart: func(r rune) bool {
			return unicode.IsLetter(r) || r == '_'
		},
		identPart: func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
		},
		delimitedStart: func(r rune) bool { return r == '"' },
		quoteStyle:     '"',
		precOverrides:  make(map[token.Type]int),
	}}
	return b
}

// IdentifierStart replaces the identifier-start classifier.
func (b *Builder) IdentifierStart(fn func(rune) bool) *Builder {
	b.d.identStart = fn
	return b
}

// IdentifierPart replaces the identifier-continuation classifier.
func (b *Builder) IdentifierPart(fn func(rune) bool) *Builder {
	b.d.identPart = fn
	return b
}

// DelimitedBy sets which runes open a delimited identifier and which
// quote style the dialect prefers when rendering.
func (b *Builder) DelimitedBy(quotes ...rune) *Builder {
	set := make(map[rune]bool, len(quotes))
	for _, q := range quotes {
		set[q] = true
	}
	b.d.delimitedStart = func(r rune) bool { return set[r] }
	if len(quotes) > 0 {
		b.d.quoteStyle = quotes[0]
	}
	return b
}

// InsideQuotes restricts which runes may appear inside a delimited
// identifier. Unset means any rune is accepted.
func (b *Builder) InsideQuotes(fn func(rune) bool) *Builder {
	b.d.insideQuotes = fn
	return b
}

// Flags sets the capability flags.
func (b *Builder) Flags(f Flags) *Builder {
	b.d.flags = f
	return b
}

// StatementHandler installs the statement hook.
func (b *Builder) StatementHandler(h spi.StatementHandler) *Builder {
	b.d.statement = h
	return b
}

// PrefixHandler installs the prefix hook.
func (b *Builder) PrefixHandler(h spi.PrefixHandler) *Builder {
	b.d.prefix = h
	return b
}

// InfixHandler installs the infix hook.
func (b *Builder) InfixHandler(h spi.InfixHandler) *Builder {
	b.d.infix = h
	return b
}

// PrecedenceHandler installs the dynamic precedence hook.
func (b *Builder) PrecedenceHandler(h spi.PrecedenceHandler) *Builder {
	b.d.precedence = h
	return b
}

// Precedence sets a static binding-power override for one token.
func (b *Builder) Precedence(t token.Type, prec int) *Builder {
	b.d.precOverrides[t] = prec
	return b
}

// Build returns the finished dialect.
func (b *Builder) Build() *Dialect {
	d := b.d
	return &d
}
