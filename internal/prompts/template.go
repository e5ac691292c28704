package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

// variablePattern matches template variable references like {{name}} or {{ user.name|upper }}.
var variablePattern = regexp.MustCompile(`\{\{-?\s*([a-zA-Z_][a-zA-Z0-9_.]*)\s*(?:\|[^}]*)?-?\}\}`)

// loopPattern matches names bound by {% for x in ... %} or {% for k, v in ... %}.
var loopPattern = regexp.MustCompile(`\{%-?\s*for\s+([a-zA-Z_][a-zA-Z0-9_]*)(?:\s*,\s*([a-zA-Z_][a-zA-Z0-9_]*))?\s+in\s`)

// ExtractVariables extracts variable names from template text.
// For example, "Hello {{ name }}, you have {{ count }} items" returns ["count", "name"].
// Dotted lookups like {{ book.title }} return "book.title".
func ExtractVariables(text string) []string {
	matches := variablePattern.FindAllStringSubmatch(text, -1)
	bound := map[string]bool{"forloop": true}
	for _, m := range loopPattern.FindAllStringSubmatch(text, -1) {
		for _, name := range m[1:] {
			if name != "" {
				bound[name] = true
			}
		}
	}
	seen := make(map[string]bool)
	var vars []string

	for _, match := range matches {
		if len(match) < 2 {
			continue
		}
		name := match[1]
		root, _, _ := strings.Cut(name, ".")
		if isKeyword(name) || bound[root] || seen[name] {
			continue
		}
		seen[name] = true
		vars = append(vars, name)
	}

	sort.Strings(vars)
	return vars
}

// rootVariables returns the distinct top-level names of the given variables.
func rootVariables(vars []string) []string {
	seen := make(map[string]bool, len(vars))
	out := make([]string, 0, len(vars))
	for _, v := range vars {
		root, _, _ := strings.Cut(v, ".")
		if !seen[root] {
			seen[root] = true
			out = append(out, root)
		}
	}
	return out
}

func isKeyword(name string) bool {
	switch name {
	case "true", "false", "True", "False", "None", "nil":
		return true
	}
	return false
}

// HashText returns a SHA256 hash of the text for change detection.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
