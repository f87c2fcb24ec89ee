package memory

import (
	"context"
	"path"
	"strings"

	"github.com/constellation/core/internal/domain"
	"github.com/constellation/core/internal/query"
)

func (s *searchRepository) store() *Store { return (*Store)(s) }

// ByTagsAnd returns items carrying every tag in tagIDs.
func (s *searchRepository) ByTagsAnd(ctx context.Context, tagIDs []int64) ([]*domain.Item, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	st := s.store()
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*domain.Item
	for id, item := range st.items {
		if item.IsDeleted {
			continue
		}
		if hasAllTags(st.itemTags[id], tagIDs) {
			out = append(out, cloneItem(item))
		}
	}
	sortItemsByPath(out)
	return out, nil
}

// ByTagsOr returns items carrying any tag in tagIDs.
func (s *searchRepository) ByTagsOr(ctx context.Context, tagIDs []int64) ([]*domain.Item, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	st := s.store()
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*domain.Item
	for id, item := range st.items {
		if item.IsDeleted {
			continue
		}
		if hasAnyTag(st.itemTags[id], tagIDs) {
			out = append(out, cloneItem(item))
		}
	}
	sortItemsByPath(out)
	return out, nil
}

// ByFilename returns items whose path contains substr, case-insensitively.
func (s *searchRepository) ByFilename(ctx context.Context, substr string) ([]*domain.Item, error) {
	if substr == "" {
		return nil, nil
	}
	st := s.store()
	st.mu.RLock()
	defer st.mu.RUnlock()
	needle := strings.ToLower(substr)
	var out []*domain.Item
	for _, item := range st.items {
		if item.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(item.Path.String()), needle) {
			out = append(out, cloneItem(item))
		}
	}
	sortItemsByPath(out)
	return out, nil
}

// Combined mirrors the sqlite backend's branching: tags alone, filename
// alone, or both ANDed together.
func (s *searchRepository) Combined(ctx context.Context, tagIDs []int64, mode domain.SearchMode, filenameSubstr *string) ([]*domain.Item, error) {
	pattern := ""
	hasFilename := false
	if filenameSubstr != nil {
		trimmed := strings.TrimSpace(*filenameSubstr)
		if trimmed != "" {
			pattern = strings.ToLower(trimmed)
			hasFilename = true
		}
	}
	hasTags := len(tagIDs) > 0

	st := s.store()
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []*domain.Item
	for id, item := range st.items {
		if item.IsDeleted {
			continue
		}
		if hasTags {
			tagSet := st.itemTags[id]
			matches := false
			if mode == domain.SearchModeAnd {
				matches = hasAllTags(tagSet, tagIDs)
			} else {
				matches = hasAnyTag(tagSet, tagIDs)
			}
			if !matches {
				continue
			}
		}
		if hasFilename && !strings.Contains(strings.ToLower(item.Path.String()), pattern) {
			continue
		}
		out = append(out, cloneItem(item))
	}
	sortItemsByPath(out)
	return out, nil
}

// CQL evaluates expr's parsed AST directly against each in-memory item,
// since there is no SQL engine backing this store.
func (s *searchRepository) CQL(ctx context.Context, expr string) ([]*domain.Item, error) {
	node, err := query.Parse(expr)
	if err != nil {
		return nil, query.WrapError(err)
	}
	st := s.store()
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []*domain.Item
	for id, item := range st.items {
		if item.IsDeleted {
			continue
		}
		tagValues := make([]string, 0, len(st.itemTags[id]))
		for tagID := range st.itemTags[id] {
			if tag, ok := st.tags[tagID]; ok {
				tagValues = append(tagValues, tag.Value.String())
			}
		}
		if evalNode(node, item, tagValues) {
			out = append(out, cloneItem(item))
		}
	}
	sortItemsByPath(out)
	return out, nil
}

func hasAllTags(have map[int64]bool, want []int64) bool {
	if have == nil {
		return false
	}
	for _, id := range want {
		if !have[id] {
			return false
		}
	}
	return true
}

func hasAnyTag(have map[int64]bool, want []int64) bool {
	if have == nil {
		return false
	}
	for _, id := range want {
		if have[id] {
			return true
		}
	}
	return false
}

func sortItemsByPath(items []*domain.Item) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Path.String() < items[j-1].Path.String(); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// evalNode interprets a CQL AST node against one item and its tag values,
// mirroring the semantics the sqlite backend compiles to SQL.
func evalNode(node query.Node, item *domain.Item, tagValues []string) bool {
	switch n := node.(type) {
	case *query.And:
		return evalNode(n.Left, item, tagValues) && evalNode(n.Right, item, tagValues)
	case *query.Or:
		return evalNode(n.Left, item, tagValues) || evalNode(n.Right, item, tagValues)
	case *query.Not:
		return !evalNode(n.Operand, item, tagValues)
	case *query.Comparison:
		return evalComparison(n, item, tagValues)
	case *query.InExpr:
		return evalIn(n, item, tagValues)
	default:
		return false
	}
}

func evalComparison(c *query.Comparison, item *domain.Item, tagValues []string) bool {
	switch c.Field {
	case query.FieldTag:
		return evalTagOp(c.Op, c.Value.Str, tagValues)
	case query.FieldName:
		return evalStringOp(c.Op, c.Value.Str, filenameOf(item))
	case query.FieldSize:
		var size int64
		if item.Size != nil {
			size = *item.Size
		}
		return evalIntOp(c.Op, c.Value.Int, size)
	case query.FieldModified:
		var modified int64
		if item.ModifiedTime != nil {
			modified = *item.ModifiedTime
		}
		return evalIntOp(c.Op, c.Value.Int, modified)
	case query.FieldType:
		return evalTypeOp(c.Op, c.Value.Str, item)
	default:
		return false
	}
}

func evalIn(n *query.InExpr, item *domain.Item, tagValues []string) bool {
	for _, v := range n.Values {
		switch n.Field {
		case query.FieldTag:
			if evalTagOp(query.OpEq, v.Str, tagValues) {
				return true
			}
		case query.FieldName:
			if evalStringOp(query.OpEq, v.Str, filenameOf(item)) {
				return true
			}
		case query.FieldType:
			if evalTypeOp(query.OpEq, v.Str, item) {
				return true
			}
		}
	}
	return false
}

func evalTagOp(op query.Op, value string, tagValues []string) bool {
	switch op {
	case query.OpEq:
		for _, v := range tagValues {
			if v == value {
				return true
			}
		}
		return false
	case query.OpNeq:
		return !evalTagOp(query.OpEq, value, tagValues)
	case query.OpGlob:
		for _, v := range tagValues {
			if globMatch(strings.ToLower(value), strings.ToLower(v)) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func evalStringOp(op query.Op, value, actual string) bool {
	lowerActual := strings.ToLower(actual)
	lowerValue := strings.ToLower(value)
	switch op {
	case query.OpEq:
		return lowerActual == lowerValue
	case query.OpNeq:
		return lowerActual != lowerValue
	case query.OpGlob:
		return globMatch(lowerValue, lowerActual)
	default:
		return false
	}
}

func evalIntOp(op query.Op, want, actual int64) bool {
	switch op {
	case query.OpEq:
		return actual == want
	case query.OpNeq:
		return actual != want
	case query.OpLt:
		return actual < want
	case query.OpLte:
		return actual <= want
	case query.OpGt:
		return actual > want
	case query.OpGte:
		return actual >= want
	default:
		return false
	}
}

func evalTypeOp(op query.Op, value string, item *domain.Item) bool {
	matches := typeMatches(value, item)
	switch op {
	case query.OpEq:
		return matches
	case query.OpNeq:
		return !matches
	default:
		return false
	}
}

var memTypeExtensions = map[string][]string{
	"image":    {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg", ".ico", ".tiff", ".tif"},
	"video":    {".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v"},
	"document": {".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt", ".csv", ".rtf"},
	"audio":    {".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a"},
	"archive":  {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz"},
}

func typeMatches(value string, item *domain.Item) bool {
	lower := strings.ToLower(value)
	if lower == "directory" {
		return item.IsDirectory
	}
	exts, ok := memTypeExtensions[lower]
	if !ok {
		return false
	}
	if item.IsDirectory {
		return false
	}
	lowerPath := strings.ToLower(item.Path.String())
	for _, ext := range exts {
		if strings.HasSuffix(lowerPath, ext) {
			return true
		}
	}
	return false
}

func filenameOf(item *domain.Item) string {
	p := item.Path.String()
	p = strings.ReplaceAll(p, `\`, "/")
	return path.Base(p)
}

// globMatch implements the same '*'/'?' glob semantics the sqlite backend
// compiles to LIKE, case-sensitively over already-lowercased inputs.
func globMatch(pattern, s string) bool {
	return globMatchRunes([]rune(pattern), []rune(s))
}

func globMatchRunes(pattern, s []rune) bool {
	if len(pattern) == 0 {
		return len(s) == 0
	}
	switch pattern[0] {
	case '*':
		if globMatchRunes(pattern[1:], s) {
			return true
		}
		for i := range s {
			if globMatchRunes(pattern[1:], s[i+1:]) {
				return true
			}
		}
		return false
	case '?':
		if len(s) == 0 {
			return false
		}
		return globMatchRunes(pattern[1:], s[1:])
	default:
		if len(s) == 0 || s[0] != pattern[0] {
			return false
		}
		return globMatchRunes(pattern[1:], s[1:])
	}
}
