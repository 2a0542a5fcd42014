package domain

import "strings"

// categoryKeywords drives id-based categorization, checked case-insensitively
// in the fixed order coding, reasoning, speed, multimodal. Writing is never
// matched by keyword; it is the fallback.
var categoryKeywords = map[Category][]string{
	CategoryCoding:     {"coder", "code", "codestral", "devstral", "starcoder", "deepseek"},
	CategoryReasoning:  {"r1", "reason", "think", "qwq", "o1", "o3"},
	CategorySpeed:      {"flash", "mini", "tiny", "instant", "turbo", "lite", "haiku"},
	CategoryMultimodal: {"vision", "-vl", "vl-", "pixtral", "multimodal", "omni"},
}

// matchOrder is the classification order; first match decides the primary
// category.
var matchOrder = []Category{CategoryCoding, CategoryReasoning, CategorySpeed, CategoryMultimodal}

func matchesCategory(id string, c Category) bool {
	lower := strings.ToLower(id)
	for _, kw := range categoryKeywords[c] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CategorizeID returns the primary functional category for a model id.
func CategorizeID(id string) Category {
	for _, c := range matchOrder {
		if matchesCategory(id, c) {
			return c
		}
	}
	return CategoryWriting
}

// CategoriesForID returns every category a model id matches. A model can
// sit in several categories at once; writing applies only when nothing
// else matched.
func CategoriesForID(id string) []Category {
	var out []Category
	for _, c := range matchOrder {
		if matchesCategory(id, c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = append(out, CategoryWriting)
	}
	return out
}
