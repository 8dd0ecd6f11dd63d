package assembler

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	pricePattern       = regexp.MustCompile(`(\d+(?:\s?\d{3})*,\d+)`)
	ratingPattern      = regexp.MustCompile(`Avis:\s*([\d,.]+)`)
	totalCountPattern  = regexp.MustCompile(`Nombre total d'avis:\s*(\d+)`)
	reductionPattern   = regexp.MustCompile(`(\d+)\s*%\s*de réduction`)
	lowestPriceTag     = "Prix le plus bas"
	priceLabelPrefixes = []string{"Prix"}
)

// ParsePrice extracts a dot-decimal price from the screen-reader price text,
// which follows the "Prix 12,50 €" label convention with a comma decimal
// separator. Absence or parse failure yields 0.0, never an error.
func ParsePrice(text string) float64 {
	text = strings.TrimSpace(text)
	labeled := false
	for _, prefix := range priceLabelPrefixes {
		if strings.HasPrefix(text, prefix) {
			labeled = true
			break
		}
	}
	if !labeled {
		return 0.0
	}
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return 0.0
	}
	normalized := strings.NewReplacer(",", ".", " ", "", " ", "").Replace(m[1])
	price, err := strconv.ParseFloat(normalized, 64)
	if err != nil || price < 0 {
		return 0.0
	}
	return price
}

// ParseRating extracts the star rating from the review-summary accessible
// label ("Avis: 4,4 sur 5 étoiles. ..."). Absence defaults to 0.0 and values
// are clamped to the 0..5 scale.
func ParseRating(label string) float64 {
	m := ratingPattern.FindStringSubmatch(label)
	if m == nil {
		return 0.0
	}
	rating, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0.0
	}
	if rating < 0 {
		return 0.0
	}
	if rating > 5 {
		return 5.0
	}
	return rating
}

// ParseReviewCount reads the review count from the dedicated "(123)" label,
// falling back to the "Nombre total d'avis: N" phrase inside the same
// accessible label. Both default to 0 on absence.
func ParseReviewCount(countText, ratingLabel string) int {
	trimmed := strings.Trim(strings.TrimSpace(countText), "()")
	if trimmed != "" {
		if count, err := strconv.Atoi(trimmed); err == nil && count >= 0 {
			return count
		}
	}
	m := totalCountPattern.FindStringSubmatch(ratingLabel)
	if m == nil {
		return 0
	}
	count, err := strconv.Atoi(m[1])
	if err != nil || count < 0 {
		return 0
	}
	return count
}
