package domain

import "strings"

var platformDisplayNames = map[string]string{
	"PC":         "PC",
	"Win32":      "Windows",
	"Xbox360":    "Xbox 360",
	"XboxOne":    "Xbox One",
	"XboxSeries": "Xbox Series X|S",
	"PS3":        "PlayStation 3",
	"PS4":        "PlayStation 4",
	"PS5":        "PlayStation 5",
	"PSVITA":     "PlayStation Vita",
}

// FormatPlatformLabel maps an internal platform token to its display name.
// Unknown tokens are returned unchanged.
func FormatPlatformLabel(token string) string {
	if name, ok := platformDisplayNames[token]; ok {
		return name
	}
	return token
}

func FormatPlatformLabels(tokens []string) []string {
	names := make([]string, 0, len(tokens))
	for _, token := range tokens {
		names = append(names, FormatPlatformLabel(token))
	}
	return names
}

// SplitPlatformLabels splits a comma separated platform field, trimming each entry and
// dropping empty and repeated ones. First appearance decides the order.
func SplitPlatformLabels(raw string) []string {
	labels := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}
