package categorize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseRules loads a caller-supplied ruleset from JSON text: an object
// mapping category name to an array of keywords (a bare string counts
// as a one-keyword array). Keywords are lowercased on load and JSON key
// order is preserved so categorization stays deterministic.
//
// A config that cannot be parsed, or that normalizes to zero
// categories, falls back to the default ruleset; the returned error
// tells the caller to warn, not to abort.
func ParseRules(data []byte) (Ruleset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	open, err := dec.Token()
	if err != nil {
		return DefaultRuleset(), fmt.Errorf("invalid category config: %w", err)
	}
	if delim, ok := open.(json.Delim); !ok || delim != '{' {
		return DefaultRuleset(), fmt.Errorf("category config must be a JSON object")
	}

	var rules Ruleset
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return DefaultRuleset(), fmt.Errorf("invalid category config: %w", err)
		}
		name, ok := key.(string)
		if !ok {
			return DefaultRuleset(), fmt.Errorf("invalid category config: non-string key")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return DefaultRuleset(), fmt.Errorf("invalid category config: %w", err)
		}

		keywords := parseKeywords(value)
		if len(keywords) == 0 {
			continue
		}
		rules = append(rules, Rule{Name: name, Keywords: keywords})
	}

	if len(rules) == 0 {
		return DefaultRuleset(), fmt.Errorf("category config defines no usable categories")
	}

	return rules, nil
}

func parseKeywords(value json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(value, &single); err == nil {
		if single = strings.ToLower(strings.TrimSpace(single)); single != "" {
			return []string{single}
		}
		return nil
	}

	var list []any
	if err := json.Unmarshal(value, &list); err != nil {
		return nil
	}

	var keywords []string
	for _, entry := range list {
		if kw, ok := entry.(string); ok {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}
	return keywords
}
