// Package repository holds helpers shared by the store implementations.
package repository

import "strings"

// LikeEscape is the escape character used with ContainsPattern
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a lower-cased LIKE pattern matching term as a
// literal substring. Use it with `ESCAPE '\'`.
func ContainsPattern(term string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(term)) + "%"
}

// ContainsFold reports whether text contains term, folding both with Unicode
// lower-casing. Stores whose SQL LOWER only folds ASCII filter with it.
func ContainsFold(text, term string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}
