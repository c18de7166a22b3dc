package tfidf

import "regexp"
import "strings"

// tokens are runs of two or more letters, digits or underscores; combining
// marks separate tokens
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and splits it into tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
