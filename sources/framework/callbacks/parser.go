package callbacks

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNoMatch       = errors.New("no matching pattern found")
	ErrEmptyInput    = errors.New("input is empty")
	ErrInvalidSchema = errors.New("invalid schema format")
)

// Schema is one registered payload shape: literal tokens identify the
// action, {placeholders} capture arguments.
type Schema struct {
	Name  string
	Parts []SchemaPart
}

type SchemaPart struct {
	IsArg bool
	Name  string
}

type ParseResult struct {
	Schema string
	Args   map[string]string
}

func (r *ParseResult) Get(name string) string {
	return r.Args[name]
}

// Parser matches button payloads against registered schemas. Payloads
// are machine-generated space-separated tokens, so tokenizing is plain
// field splitting.
type Parser struct {
	schemas []Schema
}

func NewParser() *Parser {
	return &Parser{
		schemas: make([]Schema, 0),
	}
}

func (p *Parser) Register(pattern string) error {
	schema, err := parseSchema(pattern)
	if err != nil {
		return fmt.Errorf("register pattern %q: %w", pattern, err)
	}
	p.schemas = append(p.schemas, schema)
	return nil
}

func (p *Parser) MustRegister(patterns ...string) *Parser {
	for _, pattern := range patterns {
		if err := p.Register(pattern); err != nil {
			panic(err)
		}
	}
	return p
}

func (p *Parser) Parse(input string) (*ParseResult, error) {
	tokens := strings.Fields(strings.TrimSpace(input))
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	for _, schema := range p.schemas {
		if result, ok := matchSchema(schema, tokens); ok {
			return result, nil
		}
	}

	return nil, ErrNoMatch
}

var argPattern = regexp.MustCompile(`^\{([a-zA-Z_][a-zA-Z0-9_]*)\}$`)

func parseSchema(pattern string) (Schema, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return Schema{}, ErrInvalidSchema
	}

	parts := strings.Fields(pattern)
	schemaParts := make([]SchemaPart, 0, len(parts))

	for _, part := range parts {
		if matches := argPattern.FindStringSubmatch(part); matches != nil {
			schemaParts = append(schemaParts, SchemaPart{
				IsArg: true,
				Name:  matches[1],
			})
		} else {
			schemaParts = append(schemaParts, SchemaPart{
				IsArg: false,
				Name:  part,
			})
		}
	}

	return Schema{
		Name:  parts[0],
		Parts: schemaParts,
	}, nil
}

func matchSchema(schema Schema, tokens []string) (*ParseResult, bool) {
	if len(tokens) != len(schema.Parts) {
		return nil, false
	}

	args := make(map[string]string)

	for i, part := range schema.Parts {
		if part.IsArg {
			args[part.Name] = tokens[i]
		} else {
			if !strings.EqualFold(tokens[i], part.Name) {
				return nil, false
			}
		}
	}

	return &ParseResult{
		Schema: schema.Name,
		Args:   args,
	}, true
}
