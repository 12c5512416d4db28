package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
		{Name: "Symbol", Pattern: `[:;,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a job file.
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'job' @Ident"`
	Version string         `parser:"@(Ident | Number)"`
	Renders []*Render      `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Render 描述一次渲染：名称用于输出文件名，条目为节点参数。
type Render struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'render' @Ident"`
	Entries []*Assignment  `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Value is one of a quoted string, a number, a #hex color or a bare identifier.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value as the string handed to the node parameters.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Params returns the entries of the render block as a name → value map.
func (r *Render) Params() map[string]string {
	params := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		params[e.Key] = e.Value.Text()
	}
	return params
}

// Validate 检查重复的 render 名称、重复的参数与颜色位数。颜色只支持 6 位或 8 位（含透明度）十六进制。
func (d *Document) Validate() error {
	seen := map[string]lexer.Position{}
	for _, r := range d.Renders {
		if prev, ok := seen[r.Name]; ok {
			return fmt.Errorf("%s: render %s 重复定义（首次定义于 %s）", r.Pos, r.Name, prev)
		}
		seen[r.Name] = r.Pos
		keys := map[string]bool{}
		for _, e := range r.Entries {
			if keys[e.Key] {
				return fmt.Errorf("%s: render %s 中参数 %s 重复", e.Pos, r.Name, e.Key)
			}
			keys[e.Key] = true
			if c := e.Value.Color; c != nil && len(*c) != 7 && len(*c) != 9 {
				return fmt.Errorf("%s: render %s 中参数 %s 的颜色 %s 需为 6 或 8 位十六进制", e.Pos, r.Name, e.Key, *c)
			}
		}
	}
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a job file from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a job file from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
