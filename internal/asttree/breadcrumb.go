package asttree

import "strings"

// Breadcrumb renders the ancestry of node from the root down as
// "main.py > module > function_definition", using each row's short kind.
func Breadcrumb(node *DisplayNode) string {
	if node == nil {
		return ""
	}
	var kinds []string
	for n := node; n != nil; n = n.Parent {
		kinds = append(kinds, n.Kind)
	}
	for i, j := 0, len(kinds)-1; i < j; i, j = i+1, j-1 {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	}
	return strings.Join(kinds, " > ")
}
