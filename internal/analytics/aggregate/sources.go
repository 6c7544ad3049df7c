package aggregate

import (
	"sort"
	"strings"
)

var interactionLabels = map[string]string{
	"pdf_download":    "Download PDF",
	"contact_request": "Formulaire Contact",
	"quote_request":   "Demande Devis",
	"phone_call":      "Appel Téléphonique",
	"email_sent":      "Email Envoyé",
}

// LeadSourceLabel names an interaction type for the dashboard. Unknown types
// are shown as they are.
func LeadSourceLabel(interactionType string) string {
	if label, ok := interactionLabels[interactionType]; ok {
		return label
	}
	return interactionType
}

// LeadSources labels interaction counts, merging types that share a label,
// sorted by descending count then label.
func LeadSources(counts []TypeCount) []SourceCount {
	merged := make(map[string]int, len(counts))
	for _, c := range counts {
		source := c.Type
		if source == "" {
			source = "other"
		}
		merged[LeadSourceLabel(source)] += c.Count
	}
	return sortedSources(merged)
}

// Traffic source labels.
const (
	TrafficDirect    = "Direct"
	TrafficGoogle    = "Google"
	TrafficFacebook  = "Facebook"
	TrafficLinkedIn  = "LinkedIn"
	TrafficTwitter   = "Twitter"
	TrafficInstagram = "Instagram"
	TrafficOther     = "Autre site"
)

var referrerRules = []struct {
	needle string
	label  string
}{
	{"google", TrafficGoogle},
	{"facebook", TrafficFacebook},
	{"linkedin", TrafficLinkedIn},
	{"twitter", TrafficTwitter},
	{"instagram", TrafficInstagram},
}

// CategorizeReferrer maps a raw referrer to a traffic source. The first
// matching rule wins; empty or "direct" referrers are Direct.
func CategorizeReferrer(referrer string) string {
	if referrer == "" || referrer == "direct" {
		return TrafficDirect
	}
	for _, rule := range referrerRules {
		if strings.Contains(referrer, rule.needle) {
			return rule.label
		}
	}
	return TrafficOther
}

// TrafficSources counts visits per categorized referrer.
func TrafficSources(visits []Visit) []SourceCount {
	counts := make(map[string]int)
	for _, v := range visits {
		counts[CategorizeReferrer(v.Referrer)]++
	}
	return sortedSources(counts)
}

func sortedSources(counts map[string]int) []SourceCount {
	out := make([]SourceCount, 0, len(counts))
	for source, n := range counts {
		out = append(out, SourceCount{Source: source, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}
