package cluster

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	fallbackLabel         = "Nearby orders"
	fallbackNoCoordsLabel = "Orders without location"
)

// plusCodePattern matches Open Location Codes like "8QJF+6X" that some
// delivery addresses start with - useless as a human-facing label
var plusCodePattern = regexp.MustCompile(`^[23456789CFGHJMPQRVWXcfghjmpqrvwx]{2,8}\+[23456789CFGHJMPQRVWXcfghjmpqrvwx]{2,}$`)

// numericTokenPattern matches tokens that are just building/house numbers
var numericTokenPattern = regexp.MustCompile(`^[\d\s/#-]+$`)

// baseLabel derives a short place name from a cluster's first order.
// Address texts look like "12, Changzamtog, Thimphu" - the second surviving
// token (a neighborhood or locality) is usually more distinctive than the
// first, which tends to be a building number or a narrow street name.
func baseLabel(c Cluster) string {
	if c.NoCoords {
		return fallbackNoCoordsLabel
	}

	var tokens []string
	for _, t := range strings.Split(c.Members[0].Address, ",") {
		t = strings.TrimSpace(t)
		if t == "" || numericTokenPattern.MatchString(t) || plusCodePattern.MatchString(t) {
			continue
		}
		tokens = append(tokens, t)
	}

	switch {
	case len(tokens) >= 2:
		return tokens[1]
	case len(tokens) == 1:
		return tokens[0]
	default:
		return fallbackLabel
	}
}

// applyUniqueLabels assigns each cluster its base label and disambiguates
// duplicates with " #2", " #3", ... suffixes. The UI treats the label as a
// de-facto identifier, so uniqueness across the whole result set is a hard
// requirement. Clusters must already be in final display order.
func applyUniqueLabels(clusters []Cluster) []Cluster {
	seen := make(map[string]int)
	for i := range clusters {
		base := baseLabel(clusters[i])
		seen[base]++
		if seen[base] == 1 {
			clusters[i].Label = base
		} else {
			clusters[i].Label = fmt.Sprintf("%s #%d", base, seen[base])
		}
	}
	return clusters
}
