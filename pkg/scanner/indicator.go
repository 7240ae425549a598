package scanner

import "strings"

// Indicator is the text the worm writes into the description of the
// repositories it creates under a compromised account.
const Indicator = "Sha1-Hulud: The Second Coming."

// Predicate decides whether a repository description marks its owner as compromised.
type Predicate func(description string) bool

// ContainsIndicator reports whether description contains Indicator. The match
// is a literal, case-sensitive substring test.
func ContainsIndicator(description string) bool {
	return strings.Contains(description, Indicator)
}
