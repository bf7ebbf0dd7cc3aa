package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingNumber matches the numeric token at the start of strings like
// "70 m²", "70,5 m²" or "3 hab.".
var leadingNumber = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)`)

// parsePrice converts a scraped price string to integer euros.
// Currency symbols, spaces and locale separators are stripped, so
// "90.000€" and "60.000 €" parse to 90000 and 60000. Only dot-grouped
// integer euro amounts are guaranteed; a decimal part would be folded
// into the digits.
func parsePrice(s string) (int64, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)

	if digits == "" {
		return 0, fmt.Errorf("unparseable price %q", s)
	}

	price, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", s, err)
	}
	return price, nil
}

// parseArea extracts the leading numeric token from a string like "70 m²",
// rounded to the nearest square meter. Missing or unparseable input yields
// nil, never an error.
func parseArea(s *string) *int64 {
	f := leadingFloat(s)
	if f == nil {
		return nil
	}
	area := int64(math.Round(*f))
	return &area
}

// parseBedrooms extracts the leading count from a string like "3 hab.".
// Missing or unparseable input yields nil, never an error.
func parseBedrooms(s *string) *int64 {
	f := leadingFloat(s)
	if f == nil {
		return nil
	}
	bedrooms := int64(*f)
	return &bedrooms
}

func leadingFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	match := leadingNumber.FindStringSubmatch(strings.TrimSpace(*s))
	if match == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &f
}
