package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/squill/pkg/dialect"
	"github.com/leapstack-labs/squill/pkg/token"
)

// Lexer turns SQL text into tokens. The dialect decides which runes
// start identifiers, which quotes delimit them, and how string
// literals escape.
type Lexer struct {
	src     []rune
	pos     int
	line    int
	col     int
	dialect *dialect.Dialect
}

// NewLexer creates a lexer over input for the given dialect.
func NewLexer(input string, d *dialect.Dialect) *Lexer {
	return &Lexer{
		src:     []rune(input),
		line:    1,
		col:     1,
		dialect: d,
	}
}

// current returns the rune under the cursor, or zero at end of input.
func (l *Lexer) current() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek returns the rune after the cursor.
func (l *Lexer) peek() rune {
	return l.peekN(1)
}

// peekN returns the rune n positions past the cursor.
func (l *Lexer) peekN(n int) rune {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

// advance consumes and returns the current rune, updating line and
// column. A \r\n pair counts as one newline; only the \n bumps the
// line counter.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) error {
	return &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Tokenize runs the lexer to completion, returning the token stream
// terminated by an EOF token.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// NextToken scans and returns the next token. Whitespace and comments
// are discarded but still advance positions.
func (l *Lexer) NextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.position()
	ch := l.current()

	if ch == 0 {
		return token.Token{Type: token.EOF, Pos: pos}, nil
	}

	switch ch {
	case '\'':
		return l.readString(pos, token.STRING)
	case '+':
		l.advance()
		return l.tok(token.PLUS, "+", pos), nil
	case '-':
		l.advance()
		if l.current() == '>' {
			l.advance()
			if l.current() == '>' {
				l.advance()
				return l.tok(token.LONG_ARROW, "->>", pos), nil
			}
			return l.tok(token.ARROW, "->", pos), nil
		}
		return l.tok(token.MINUS, "-", pos), nil
	case '*':
		l.advance()
		return l.tok(token.STAR, "*", pos), nil
	case '/':
		l.advance()
		return l.tok(token.SLASH, "/", pos), nil
	case '%':
		l.advance()
		return l.tok(token.PERCENT, "%", pos), nil
	case '^':
		l.advance()
		return l.tok(token.CARET, "^", pos), nil
	case '=':
		l.advance()
		if l.current() == '>' {
			l.advance()
			return l.tok(token.FAT_ARROW, "=>", pos), nil
		}
		return l.tok(token.EQ, "=", pos), nil
	case '<':
		l.advance()
		switch l.current() {
		case '=':
			l.advance()
			if l.current() == '>' {
				l.advance()
				return l.tok(token.SPACESHIP, "<=>", pos), nil
			}
			return l.tok(token.LE, "<=", pos), nil
		case '>':
			l.advance()
			return l.tok(token.NE, "<>", pos), nil
		case '<':
			l.advance()
			return l.tok(token.SHL, "<<", pos), nil
		case '@':
			l.advance()
			return l.tok(token.ARROW_AT, "<@", pos), nil
		}
		return l.tok(token.LT, "<", pos), nil
	case '>':
		l.advance()
		switch l.current() {
		case '=':
			l.advance()
			return l.tok(token.GE, ">=", pos), nil
		case '>':
			l.advance()
			return l.tok(token.SHR, ">>", pos), nil
		}
		return l.tok(token.GT, ">", pos), nil
	case '!':
		l.advance()
		if l.current() == '=' {
			l.advance()
			return l.tok(token.NE, "!=", pos), nil
		}
		return l.tok(token.EXCLAM, "!", pos), nil
	case '|':
		l.advance()
		switch l.current() {
		case '|':
			l.advance()
			if l.current() == '/' {
				l.advance()
				return l.tok(token.DPIPE_SLASH, "||/", pos), nil
			}
			return l.tok(token.DPIPE, "||", pos), nil
		case '/':
			l.advance()
			return l.tok(token.PIPE_SLASH, "|/", pos), nil
		}
		return l.tok(token.PIPE, "|", pos), nil
	case '&':
		l.advance()
		if l.current() == '&' {
			l.advance()
			return l.tok(token.DAMP, "&&", pos), nil
		}
		return l.tok(token.AMP, "&", pos), nil
	case '~':
		l.advance()
		return l.tok(token.TILDE, "~", pos), nil
	case '#':
		l.advance()
		if l.current() == '>' {
			l.advance()
			if l.current() == '>' {
				l.advance()
				return l.tok(token.HASH_LARROW, "#>>", pos), nil
			}
			return l.tok(token.HASH_ARROW, "#>", pos), nil
		}
		return l.tok(token.SHARP, "#", pos), nil
	case '@':
		l.advance()
		if l.current() == '>' {
			l.advance()
			return l.tok(token.AT_ARROW, "@>", pos), nil
		}
		if l.dialect.IsIdentifierStart(l.current()) {
			word := l.readWord()
			return l.tok(token.PLACEHOLDER, "@"+word, pos), nil
		}
		return l.tok(token.AT, "@", pos), nil
	case '?':
		l.advance()
		switch l.current() {
		case '|':
			l.advance()
			return l.tok(token.Q_PIPE, "?|", pos), nil
		case '&':
			l.advance()
			return l.tok(token.Q_AMP, "?&", pos), nil
		}
		return l.tok(token.PLACEHOLDER, "?", pos), nil
	case '$':
		l.advance()
		if unicode.IsDigit(l.current()) || l.dialect.IsIdentifierStart(l.current()) {
			word := l.readPlaceholderBody()
			return l.tok(token.PLACEHOLDER, "$"+word, pos), nil
		}
		return token.Token{}, l.errorf(pos, "unrecognized character '$'")
	case ':':
		l.advance()
		if l.current() == ':' {
			l.advance()
			return l.tok(token.DCOLON, "::", pos), nil
		}
		if l.dialect.IsIdentifierStart(l.current()) {
			word := l.readWord()
			return l.tok(token.PLACEHOLDER, ":"+word, pos), nil
		}
		return l.tok(token.COLON, ":", pos), nil
	case '.':
		if unicode.IsDigit(l.peek()) {
			return l.readNumber(pos)
		}
		l.advance()
		return l.tok(token.DOT, ".", pos), nil
	case ',':
		l.advance()
		return l.tok(token.COMMA, ",", pos), nil
	case ';':
		l.advance()
		return l.tok(token.SEMICOLON, ";", pos), nil
	case '(':
		l.advance()
		return l.tok(token.LPAREN, "(", pos), nil
	case ')':
		l.advance()
		return l.tok(token.RPAREN, ")", pos), nil
	case '{':
		l.advance()
		return l.tok(token.LBRACE, "{", pos), nil
	case '}':
		l.advance()
		return l.tok(token.RBRACE, "}", pos), nil
	}

	// Delimited identifiers come before the bracket punctuation so a
	// dialect that delimits with [ ] wins over the subscript token.
	if l.dialect.IsDelimitedIdentifierStart(ch) {
		return l.readDelimitedIdentifier(pos)
	}

	switch ch {
	case '[':
		l.advance()
		return l.tok(token.LBRACKET, "[", pos), nil
	case ']':
		l.advance()
		return l.tok(token.RBRACKET, "]", pos), nil
	}

	if unicode.IsDigit(ch) {
		return l.readNumberOrWord(pos)
	}

	if l.dialect.IsIdentifierStart(ch) {
		return l.readWordToken(pos)
	}

	l.advance()
	return token.Token{}, l.errorf(pos, "unrecognized character %q", ch)
}

func (l *Lexer) tok(t token.Type, lit string, pos token.Position) token.Token {
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

// skipWhitespaceAndComments discards whitespace, -- line comments and
// nested /* */ block comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		ch := l.current()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\uFEFF':
			l.advance()
		case ch == '-' && l.peek() == '-':
			for l.current() != '\n' && l.current() != 0 {
				l.advance()
			}
		case ch == '/' && l.peek() == '*':
			pos := l.position()
			l.advance()
			l.advance()
			nesting := 1
			for nesting > 0 {
				if l.current() == 0 {
					return l.errorf(pos, "unterminated block comment")
				}
				if l.current() == '*' && l.peek() == '/' {
					l.advance()
					l.advance()
					nesting--
				} else if l.current() == '/' && l.peek() == '*' {
					l.advance()
					l.advance()
					nesting++
				} else {
					l.advance()
				}
			}
		default:
			return nil
		}
	}
}

// readString reads a single-quoted string. Doubled quotes encode one
// quote; backslash escapes are honored when the dialect enables them;
// triple-quoted bodies are recognized when the dialect enables them.
func (l *Lexer) readString(pos token.Position, t token.Type) (token.Token, error) {
	triple := false
	if l.dialect.Flags().SupportsTripleQuotedString &&
		l.peek() == '\'' && l.peekN(2) == '\'' {
		triple = true
		l.advance()
		l.advance()
	}
	l.advance() // opening quote

	var sb strings.Builder
	for {
		ch := l.current()
		if ch == 0 {
			return token.Token{}, l.errorf(pos, "unterminated string literal")
		}
		if ch == '\'' {
			if triple {
				if l.peek() == '\'' && l.peekN(2) == '\'' {
					l.advance()
					l.advance()
					l.advance()
					break
				}
				sb.WriteRune(l.advance())
				continue
			}
			if l.peek() == '\'' {
				sb.WriteRune('\'')
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			break
		}
		if ch == '\\' && l.dialect.Flags().SupportsStringLiteralBackslashEscape {
			l.advance()
			esc := l.current()
			if esc == 0 {
				return token.Token{}, l.errorf(pos, "unterminated string literal")
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '0':
				sb.WriteRune('\x00')
			case '\'', '"', '\\', '%', '_':
				sb.WriteRune(esc)
			default:
				sb.WriteRune('\\')
				sb.WriteRune(esc)
			}
			l.advance()
			continue
		}
		sb.WriteRune(l.advance())
	}
	return token.Token{Type: t, Literal: sb.String(), Pos: pos}, nil
}

// readDelimitedIdentifier reads a quoted identifier. The closing
// quote pairs with the opener ("↔", `↔`, [↔]); a doubled closing
// quote encodes one literal quote.
func (l *Lexer) readDelimitedIdentifier(pos token.Position) (token.Token, error) {
	open := l.advance()
	close := open
	if open == '[' {
		close = ']'
	}

	var sb strings.Builder
	for {
		ch := l.current()
		if ch == 0 {
			return token.Token{}, l.errorf(pos, "unterminated delimited identifier")
		}
		if ch == close {
			if l.peek() == close {
				sb.WriteRune(close)
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			break
		}
		if !l.dialect.IsProperIdentifierInsideQuotes(ch) {
			return token.Token{}, l.errorf(pos, "invalid character %q in delimited identifier", ch)
		}
		sb.WriteRune(l.advance())
	}
	return token.Token{Type: token.IDENT, Literal: sb.String(), Pos: pos, Quote: open}, nil
}

// readWord consumes identifier-part runes.
func (l *Lexer) readWord() string {
	var sb strings.Builder
	for l.dialect.IsIdentifierPart(l.current()) {
		sb.WriteRune(l.advance())
	}
	return sb.String()
}

// readPlaceholderBody consumes digits or identifier-part runes after
// a $ sigil.
func (l *Lexer) readPlaceholderBody() string {
	var sb strings.Builder
	for unicode.IsDigit(l.current()) || l.dialect.IsIdentifierPart(l.current()) {
		sb.WriteRune(l.advance())
	}
	return sb.String()
}

// readWordToken reads an unquoted word and classifies it against the
// keyword table. Single-letter string prefixes (N, X, B) followed by
// a quote produce the corresponding string token.
func (l *Lexer) readWordToken(pos token.Position) (token.Token, error) {
	ch := l.current()
	if l.peek() == '\'' {
		switch ch {
		case 'N', 'n':
			l.advance()
			return l.readString(pos, token.NATIONAL_STRING)
		case 'X', 'x':
			l.advance()
			tok, err := l.readString(pos, token.HEX_STRING)
			if err != nil {
				return tok, err
			}
			for _, r := range tok.Literal {
				if !isHexDigit(r) {
					return token.Token{}, l.errorf(pos, "invalid hex string literal")
				}
			}
			return tok, nil
		case 'B', 'b':
			l.advance()
			tok, err := l.readString(pos, token.BIT_STRING)
			if err != nil {
				return tok, err
			}
			for _, r := range tok.Literal {
				if r != '0' && r != '1' {
					return token.Token{}, l.errorf(pos, "invalid bit string literal")
				}
			}
			return tok, nil
		}
	}

	word := l.readWord()
	return token.Token{Type: token.LookupIdent(word), Literal: word, Pos: pos}, nil
}

// readNumberOrWord handles tokens that begin with a digit. Dialects
// with SupportsNumericPrefix allow words like 2user; everywhere else
// the digits end at the first non-digit.
func (l *Lexer) readNumberOrWord(pos token.Position) (token.Token, error) {
	if l.dialect.Flags().SupportsNumericPrefix {
		// Scan ahead: if the digits run straight into identifier
		// characters (and not an exponent or dot), this is a word.
		i := l.pos
		for i < len(l.src) && unicode.IsDigit(l.src[i]) {
			i++
		}
		if i < len(l.src) && l.src[i] != '.' && l.src[i] != 'e' && l.src[i] != 'E' &&
			l.dialect.IsIdentifierPart(l.src[i]) {
			word := l.readWord()
			return token.Token{Type: token.IDENT, Literal: word, Pos: pos}, nil
		}
	}
	return l.readNumber(pos)
}

// readNumber reads digit+ ('.' digit*)? ([eE][+-]? digit+)? or the
// leading-dot form .digit+.
func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	var sb strings.Builder

	if l.current() == '.' {
		sb.WriteRune(l.advance())
	}
	for unicode.IsDigit(l.current()) {
		sb.WriteRune(l.advance())
	}
	if l.current() == '.' && sb.String() != "" && !strings.Contains(sb.String(), ".") {
		sb.WriteRune(l.advance())
		for unicode.IsDigit(l.current()) {
			sb.WriteRune(l.advance())
		}
	}
	if l.current() == 'e' || l.current() == 'E' {
		next := l.peek()
		switch {
		case unicode.IsDigit(next):
			sb.WriteRune(l.advance())
			for unicode.IsDigit(l.current()) {
				sb.WriteRune(l.advance())
			}
		case next == '+' || next == '-':
			if !unicode.IsDigit(l.peekN(2)) {
				return token.Token{}, l.errorf(pos, "malformed numeric literal")
			}
			sb.WriteRune(l.advance())
			sb.WriteRune(l.advance())
			for unicode.IsDigit(l.current()) {
				sb.WriteRune(l.advance())
			}
		}
		// A bare trailing e starts a following word instead.
	}
	return token.Token{Type: token.NUMBER, Literal: sb.String(), Pos: pos}, nil
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
