package webhook

import (
	"net/url"
	"strings"
)

// Kommo delivers bulk lead notifications as a flat form encoding with
// bracketed indexed keys:
//
//	leads[add][0][id]=501&leads[add][0][price]=250000&leads[add][1][id]=502
//
// The decoder works from the raw body rather than a parsed url.Values map so
// index discovery preserves the order keys appear in on the wire.

type formPair struct {
	key   string
	value string
}

// parseForm splits a urlencoded body into ordered key/value pairs.
// Pairs that fail percent-decoding are dropped.
func parseForm(body string) []formPair {
	var pairs []formPair
	for _, part := range strings.Split(body, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		pairs = append(pairs, formPair{key: key, value: value})
	}
	return pairs
}

// DecodeChangeSet decodes a raw notification body into the four typed
// change-set sections. Decoding never fails: missing optional fields stay
// empty, and an index with no decodable fields still yields a record.
func DecodeChangeSet(body string) ChangeSet {
	pairs := parseForm(body)
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, ok := values[p.key]; !ok {
			values[p.key] = p.value
		}
	}

	return ChangeSet{
		Added:         decodeSection(pairs, values, "add"),
		Updated:       decodeSection(pairs, values, "update"),
		Deleted:       decodeSection(pairs, values, "delete"),
		StatusChanged: decodeSection(pairs, values, "status"),
	}
}

// decodeSection collects the section's indices in first-seen order and fills
// one LeadEvent per index from the static field table.
func decodeSection(pairs []formPair, values map[string]string, section string) []LeadEvent {
	prefix := "leads[" + section + "]["

	var indices []string
	seen := make(map[string]bool)
	for _, p := range pairs {
		if !strings.HasPrefix(p.key, prefix) {
			continue
		}
		index, _, ok := strings.Cut(p.key[len(prefix):], "]")
		if !ok || seen[index] {
			continue
		}
		seen[index] = true
		indices = append(indices, index)
	}

	var events []LeadEvent
	for _, index := range indices {
		event := LeadEvent{
			// nested custom-field content is deliberately not decoded
			CustomFields: []CustomField{},
		}
		for _, binding := range event.bindings() {
			if value, ok := values[prefix+index+"]["+binding.name+"]"]; ok {
				*binding.dst = value
			}
		}
		events = append(events, event)
	}
	return events
}
