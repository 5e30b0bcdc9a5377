package formula

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// stringCollator provides locale-aware ordering for the string leg of the
// comparison law (spec §4.1 rule 4: "strings by locale-aware collation").
// language.Und (undetermined) gives Unicode default collation, which is
// the sensible default absent an embedder-supplied locale.
var stringCollator = collate.New(language.Und)

// collatedCompare orders two strings using the package collator, falling
// back to nothing else: collate.Compare already returns -1/0/1.
func collatedCompare(a, b string) int {
	return stringCollator.CompareString(a, b)
}
