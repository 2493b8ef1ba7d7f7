package googlebooks

import "strings"

// isbnNoise lists the formatting characters users and providers sprinkle
// into identifiers. Comparisons are done on the stripped form only.
var isbnNoise = strings.NewReplacer(" ", "", "-", "", "_", "", ".", "")

// NormalizeISBN strips spaces, hyphens, underscores and periods so that
// "978-0-13-110362-7" and "9780131103627" compare equal. No digit or
// checksum validation is performed.
func NormalizeISBN(raw string) string {
	return isbnNoise.Replace(raw)
}

// isbn13Type is the identifier type marker for 13-digit ISBNs in
// industryIdentifiers entries.
const isbn13Type = "ISBN_13"

// SelectISBN picks the canonical identifier out of a volume's industry
// identifiers: the first ISBN_13 entry wins, otherwise the first entry of
// any type. Returns false for an empty list.
func SelectISBN(identifiers []IndustryIdentifier) (string, bool) {
	for _, id := range identifiers {
		if id.Type == isbn13Type {
			return id.Identifier, true
		}
	}
	if len(identifiers) > 0 {
		return identifiers[0].Identifier, true
	}
	return "", false
}
