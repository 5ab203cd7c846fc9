package variants

import (
	"fmt"
	"regexp"
	"strings"
)

var descriptionPattern = regexp.MustCompile(`^(.*?)(?: \(Size: ([^)]+)\))?(?: \(Color: ([^)]+)\))?$`)

// BuildProductDescription renders the canonical human-readable line for a
// resolved cart item, e.g. `Shirt (Size: M) (Color: Red)`. Empty size or
// color segments are omitted.
func BuildProductDescription(name, size, color string) string {
	var b strings.Builder
	b.WriteString(name)
	if size != "" {
		fmt.Fprintf(&b, " (Size: %s)", size)
	}
	if color != "" {
		fmt.Fprintf(&b, " (Color: %s)", color)
	}
	return b.String()
}

// ParseProductDescription is the inverse of BuildProductDescription.
func ParseProductDescription(description string) (name, size, color string) {
	match := descriptionPattern.FindStringSubmatch(description)
	if match == nil {
		return description, "", ""
	}
	return match[1], match[2], match[3]
}
