// Package pathtemplate tokenizes Express-style route paths ("/articles/:id")
// and rewrites them into OpenAPI path templates ("/articles/{id}").
package pathtemplate

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// TokenKind represents the type of a path token
type TokenKind int

const (
	StaticToken TokenKind = iota
	ParameterToken
)

// Token represents a single part of a route path
type Token struct {
	Kind TokenKind

	// Value is the literal text for static tokens and the parameter name for parameters
	Value string

	// Prefix is the '/' or '.' delimiter consumed in front of a parameter
	Prefix string

	// Pattern is the custom "(regex)" of a parameter, without parentheses
	Pattern string

	// Modifier is one of "?", "*", "+" or empty
	Modifier string
}

// Optional reports whether the parameter may be absent
func (t Token) Optional() bool {
	return t.Modifier == "?" || t.Modifier == "*"
}

// template is the participle grammar root
type template struct {
	Tokens []*rawToken `parser:"@@*"`
}

type rawToken struct {
	Param  *rawParam `parser:"  @@"`
	Group  *rawGroup `parser:"| @@"`
	Static *string   `parser:"| @(Static | Modifier)"`
}

type rawParam struct {
	Name     string `parser:"@Param"`
	Pattern  string `parser:"@Pattern?"`
	Modifier string `parser:"@Modifier?"`
}

type rawGroup struct {
	Pattern  string `parser:"@Pattern"`
	Modifier string `parser:"@Modifier?"`
}

// Parser tokenizes route paths
type Parser struct {
	parser *participle.Parser[template]
}

// NewParser builds the path template grammar
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Param", Pattern: `:[A-Za-z0-9_]+`},
		{Name: "Pattern", Pattern: `\((?:\\.|[^\\()])+\)`},
		{Name: "Modifier", Pattern: `[?*+]`},
		{Name: "Static", Pattern: `[^:()?*+]+`},
	})

	return &Parser{
		parser: participle.MustBuild[template](
			participle.Lexer(lex),
		),
	}
}

// Parse splits path into static and parameter tokens. A parameter takes the
// '/' or '.' directly in front of it as its prefix; unnamed "(regex)" groups
// are named by their zero-based index.
func (p *Parser) Parse(path string) ([]Token, error) {
	if path == "" {
		return nil, nil
	}

	ast, err := p.parser.ParseString("", path)
	if err != nil {
		return nil, err
	}

	var tokens []Token
	unnamed := 0
	for _, raw := range ast.Tokens {
		var param Token
		switch {
		case raw.Static != nil:
			tokens = appendStatic(tokens, *raw.Static)
			continue
		case raw.Param != nil:
			param = Token{
				Kind:     ParameterToken,
				Value:    strings.TrimPrefix(raw.Param.Name, ":"),
				Pattern:  trimGroup(raw.Param.Pattern),
				Modifier: raw.Param.Modifier,
			}
		case raw.Group != nil:
			param = Token{
				Kind:     ParameterToken,
				Value:    strconv.Itoa(unnamed),
				Pattern:  trimGroup(raw.Group.Pattern),
				Modifier: raw.Group.Modifier,
			}
			unnamed++
		}

		tokens = stealPrefix(tokens, &param)
		tokens = append(tokens, param)
	}

	return tokens, nil
}

// appendStatic merges consecutive static text into one token
func appendStatic(tokens []Token, text string) []Token {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == StaticToken {
		tokens[n-1].Value += text
		return tokens
	}
	return append(tokens, Token{Kind: StaticToken, Value: text})
}

// stealPrefix moves a trailing delimiter of the previous static token onto param
func stealPrefix(tokens []Token, param *Token) []Token {
	n := len(tokens)
	if n == 0 || tokens[n-1].Kind != StaticToken {
		return tokens
	}
	prev := tokens[n-1].Value
	if strings.HasSuffix(prev, "/") || strings.HasSuffix(prev, ".") {
		param.Prefix = prev[len(prev)-1:]
		prev = prev[:len(prev)-1]
		if prev == "" {
			return tokens[:n-1]
		}
		tokens[n-1].Value = prev
	}
	return tokens
}

func trimGroup(pattern string) string {
	return strings.TrimSuffix(strings.TrimPrefix(pattern, "("), ")")
}

// ToOpenAPI rewrites every parameter of path as prefix + "{name}"
func (p *Parser) ToOpenAPI(path string) (string, error) {
	tokens, err := p.Parse(path)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, token := range tokens {
		if token.Kind == StaticToken {
			b.WriteString(token.Value)
			continue
		}
		b.WriteString(token.Prefix)
		b.WriteString("{")
		b.WriteString(token.Value)
		b.WriteString("}")
	}
	return b.String(), nil
}

// Params returns the parameter tokens of path in order of appearance
func (p *Parser) Params(path string) ([]Token, error) {
	tokens, err := p.Parse(path)
	if err != nil {
		return nil, err
	}

	var params []Token
	for _, token := range tokens {
		if token.Kind == ParameterToken {
			params = append(params, token)
		}
	}
	return params, nil
}

// DefaultParser is shared by the package level helpers
var DefaultParser = NewParser()

// Parse tokenizes path with the default parser
func Parse(path string) ([]Token, error) {
	return DefaultParser.Parse(path)
}

// ToOpenAPI rewrites path with the default parser
func ToOpenAPI(path string) (string, error) {
	return DefaultParser.ToOpenAPI(path)
}

// Params returns the parameters of path using the default parser
func Params(path string) ([]Token, error) {
	return DefaultParser.Params(path)
}
