package domain

import "strings"

// classAliases rewrites legacy class labels to their current names.
// Renamed classes keep producing the old label in scraped submissions
// and in historical audit partitions.
var classAliases = map[string]string{
	"Class 10 PCMMB": "Class 10 Science",
}

// Normalize maps a class name from any external source to its canonical
// current name. Unknown names pass through trimmed.
func Normalize(className string) string {
	name := strings.TrimSpace(className)
	if canonical, ok := classAliases[name]; ok {
		return canonical
	}
	return name
}
