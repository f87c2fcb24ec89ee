package query

import (
	"fmt"
	"strings"
)

// typeExtensions is the compatibility contract mapping a type sugar value
// to its fixed extension list.
var typeExtensions = map[string][]string{
	"image":    {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg", ".ico", ".tiff", ".tif"},
	"video":    {".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v"},
	"document": {".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt", ".csv", ".rtf"},
	"audio":    {".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a"},
	"archive":  {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz"},
}

// filenameExpr projects the filename portion out of the items.path column,
// handling both '\' and '/' separators, lowercased for case-insensitive
// comparison.
const filenameExpr = `LOWER(SUBSTR(i.path, LENGTH(RTRIM(i.path, REPLACE(REPLACE(i.path,'\',''),'/',''))) + 1))`

// Compiler turns a CQL AST into a parameterized SQL fragment, assigning a
// fresh alias index to every tag predicate it emits.
type Compiler struct {
	nextAlias int
}

// CompileResult is the output of compiling an AST: a boolean SQL
// expression (safe to embed inside a WHERE clause) plus its ordered bind
// parameters.
type CompileResult struct {
	SQL    string
	Params []any
}

// Compile converts node into a WHERE-clause fragment and parameter list.
func Compile(node Node) (CompileResult, error) {
	c := &Compiler{}
	sql, params, err := c.compile(node)
	if err != nil {
		return CompileResult{}, err
	}
	return CompileResult{SQL: sql, Params: params}, nil
}

// BuildQuery compiles node and wraps it in the final item listing query.
func BuildQuery(node Node) (string, []any, error) {
	result, err := Compile(node)
	if err != nil {
		return "", nil, err
	}
	sqlText := fmt.Sprintf("SELECT i.* FROM items i WHERE i.is_deleted = 0 AND (%s) ORDER BY i.path ASC", result.SQL)
	return sqlText, result.Params, nil
}

func (c *Compiler) compile(node Node) (string, []any, error) {
	switch n := node.(type) {
	case *Comparison:
		return c.compileComparison(n)
	case *InExpr:
		return c.compileIn(n)
	case *And:
		return c.compileBinary(n.Left, n.Right, "AND")
	case *Or:
		return c.compileBinary(n.Left, n.Right, "OR")
	case *Not:
		inner, params, err := c.compile(n.Operand)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("NOT (%s)", inner), params, nil
	default:
		return "", nil, fmt.Errorf("query: unknown AST node %T", node)
	}
}

func (c *Compiler) compileBinary(left, right Node, joiner string) (string, []any, error) {
	leftSQL, leftParams, err := c.compile(left)
	if err != nil {
		return "", nil, err
	}
	rightSQL, rightParams, err := c.compile(right)
	if err != nil {
		return "", nil, err
	}
	sqlText := fmt.Sprintf("(%s) %s (%s)", leftSQL, joiner, rightSQL)
	return sqlText, append(leftParams, rightParams...), nil
}

func (c *Compiler) nextTagAlias() (string, string) {
	c.nextAlias++
	return fmt.Sprintf("it_%d", c.nextAlias), fmt.Sprintf("t_%d", c.nextAlias)
}

func (c *Compiler) compileComparison(n *Comparison) (string, []any, error) {
	switch n.Field {
	case FieldTag:
		return c.compileTagComparison(n.Op, n.Value.Str)
	case FieldName:
		return c.compileNameComparison(n.Op, n.Value.Str)
	case FieldSize:
		return fmt.Sprintf("COALESCE(i.size,0) %s ?", n.Op), []any{n.Value.Int}, nil
	case FieldModified:
		return fmt.Sprintf("COALESCE(i.modified_time,0) %s ?", n.Op), []any{n.Value.Int}, nil
	case FieldType:
		return c.compileTypeComparison(n.Op, n.Value.Str)
	default:
		return "", nil, fmt.Errorf("query: unhandled field %q", n.Field)
	}
}

func (c *Compiler) compileTagComparison(op Op, value string) (string, []any, error) {
	itAlias, tAlias := c.nextTagAlias()
	switch op {
	case OpEq:
		sqlText := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM item_tags %s JOIN tags %s ON %s.tag_id = %s.id WHERE %s.item_id = i.id AND %s.value = ?)",
			itAlias, tAlias, itAlias, tAlias, itAlias, tAlias)
		return sqlText, []any{value}, nil
	case OpNeq:
		sqlText := fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM item_tags %s JOIN tags %s ON %s.tag_id = %s.id WHERE %s.item_id = i.id AND %s.value = ?)",
			itAlias, tAlias, itAlias, tAlias, itAlias, tAlias)
		return sqlText, []any{value}, nil
	case OpGlob:
		pattern := globToLike(value)
		sqlText := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM item_tags %s JOIN tags %s ON %s.tag_id = %s.id WHERE %s.item_id = i.id AND %s.value LIKE ? ESCAPE '\\')",
			itAlias, tAlias, itAlias, tAlias, itAlias, tAlias)
		return sqlText, []any{pattern}, nil
	default:
		return "", nil, fmt.Errorf("query: operator %q not supported for tag", op)
	}
}

func (c *Compiler) compileNameComparison(op Op, value string) (string, []any, error) {
	switch op {
	case OpEq:
		return fmt.Sprintf("%s = LOWER(?)", filenameExpr), []any{value}, nil
	case OpNeq:
		return fmt.Sprintf("%s != LOWER(?)", filenameExpr), []any{value}, nil
	case OpGlob:
		return fmt.Sprintf("%s LIKE ? ESCAPE '\\'", filenameExpr), []any{strings.ToLower(globToLike(value))}, nil
	default:
		return "", nil, fmt.Errorf("query: operator %q not supported for name", op)
	}
}

func (c *Compiler) compileTypeComparison(op Op, value string) (string, []any, error) {
	cond, params := typeCondition(value)
	switch op {
	case OpEq:
		return cond, params, nil
	case OpNeq:
		return fmt.Sprintf("NOT (%s)", cond), params, nil
	default:
		return "", nil, fmt.Errorf("query: operator %q not supported for type", op)
	}
}

// typeCondition returns the boolean expression (and its params) for a
// single type sugar value. Unknown types collapse to the literal "0" per
// spec, so "=" matches nothing and, wrapped in NOT, "!=" matches
// everything.
func typeCondition(value string) (string, []any) {
	lower := strings.ToLower(value)
	if lower == "directory" {
		return "i.is_directory = 1", nil
	}
	exts, ok := typeExtensions[lower]
	if !ok {
		return "0", nil
	}
	parts := make([]string, len(exts))
	params := make([]any, len(exts))
	for i, ext := range exts {
		parts[i] = "LOWER(i.path) LIKE ?"
		params[i] = "%" + ext
	}
	return fmt.Sprintf("(i.is_directory = 0 AND (%s))", strings.Join(parts, " OR ")), params
}

func (c *Compiler) compileIn(n *InExpr) (string, []any, error) {
	switch n.Field {
	case FieldTag:
		itAlias, tAlias := c.nextTagAlias()
		placeholders := make([]string, len(n.Values))
		params := make([]any, len(n.Values))
		for i, v := range n.Values {
			placeholders[i] = "?"
			params[i] = v.Str
		}
		sqlText := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM item_tags %s JOIN tags %s ON %s.tag_id = %s.id WHERE %s.item_id = i.id AND %s.value IN (%s))",
			itAlias, tAlias, itAlias, tAlias, itAlias, tAlias, strings.Join(placeholders, ","))
		return sqlText, params, nil
	case FieldName:
		placeholders := make([]string, len(n.Values))
		params := make([]any, len(n.Values))
		for i, v := range n.Values {
			placeholders[i] = "LOWER(?)"
			params[i] = v.Str
		}
		return fmt.Sprintf("%s IN (%s)", filenameExpr, strings.Join(placeholders, ",")), params, nil
	case FieldType:
		var conds []string
		var params []any
		for _, v := range n.Values {
			cond, p := typeCondition(v.Str)
			conds = append(conds, cond)
			params = append(params, p...)
		}
		return fmt.Sprintf("(%s)", strings.Join(conds, " OR ")), params, nil
	default:
		return "", nil, fmt.Errorf("query: IN not supported for field %q", n.Field)
	}
}

// globToLike translates a glob pattern ('*' -> any run, '?' -> any single
// char) into a SQL LIKE pattern, escaping literal '%', '_', and '\' with
// backslash so they aren't mistaken for LIKE metacharacters.
func globToLike(glob string) string {
	var sb strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			sb.WriteByte('%')
		case '?':
			sb.WriteByte('_')
		case '%', '_', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
