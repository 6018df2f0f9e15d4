package keyword

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Marker precedence: transactional outranks commercial outranks the
// informational default. A keyword like "best place to buy" therefore
// classifies as transactional even though it carries a commercial marker.
var (
	transactionalMarkers = []string{
		"buy", "order", "purchase", "cheap", "price", "coupon", "discount", "deal", "shop",
	}
	commercialMarkers = []string{
		"best", "top", "review", "compare", "comparison", "vs", "alternative",
	}
)

// classifyIntent applies the marker heuristic to a keyword. This is a
// heuristic, not a classifier with accuracy guarantees.
func classifyIntent(keyword string) IntentType {
	normalized := normalizeKeyword(keyword)
	for _, marker := range transactionalMarkers {
		if containsWord(normalized, marker) {
			return IntentTransactional
		}
	}
	for _, marker := range commercialMarkers {
		if containsWord(normalized, marker) {
			return IntentCommercial
		}
	}
	return IntentInformational
}

// parseIntent maps a provider-supplied intent label, falling back to the
// heuristic when the label is absent or unknown.
func parseIntent(label, keyword string) IntentType {
	switch IntentType(strings.ToUpper(label)) {
	case IntentInformational:
		return IntentInformational
	case IntentCommercial:
		return IntentCommercial
	case IntentTransactional:
		return IntentTransactional
	}
	return classifyIntent(keyword)
}

// normalizeKeyword produces the canonical form used for marker matching and
// deduplication: NFKC-folded, lower-cased, whitespace-collapsed.
func normalizeKeyword(keyword string) string {
	folded := norm.NFKC.String(keyword)
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// containsWord matches marker as a whole word so "price" does not match
// inside "apprentice".
func containsWord(text, word string) bool {
	for _, field := range strings.Fields(text) {
		if field == word {
			return true
		}
	}
	return false
}
