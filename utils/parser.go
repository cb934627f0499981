package utils

import (
	"regexp"
	"strings"
)

var spaceRegex = regexp.MustCompile(`\s+`)

// CleanPriceText normalizes a scraped price string for display: collapses
// runs of whitespace (listing pages love newlines inside price spans) and
// trims the result. The price stays a display string; it is never parsed
// as currency.
func CleanPriceText(priceText string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(priceText, " "))
}

// extRegex matches a conventional image file extension at the end of a URL path.
var extRegex = regexp.MustCompile(`\.(?:jpe?g|png|gif|webp|avif)$`)

// ImageExtFromPath derives the file extension for a cached asset from the
// normalized image URL's path. Falls back to ".jpg" when the path carries
// no recognizable extension, which some CDNs omit.
func ImageExtFromPath(urlPath string) string {
	lower := strings.ToLower(urlPath)
	if ext := extRegex.FindString(lower); ext != "" {
		return ext
	}
	return ".jpg"
}
