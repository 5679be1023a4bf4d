// Package resolver maps free-text owner strings produced by transcript
// extraction onto canonical identities in the user directory. Matching is
// rule-based string and token comparison, ordered from most to least certain
// so that identities sharing a first name do not produce false positives.
package resolver

import (
	"strings"

	"github.com/trackteam/action-tracker/internal/domain/entities"
)

// Resolve matches a raw owner string against a directory snapshot and
// returns the canonical identity. The boolean is false when no entry
// matched; failure to match is a normal outcome, not an error. contextText
// is the surrounding transcript, accepted for parity with the extraction
// flow; the current rules do not consult it.
//
// The stages run in strict priority order, first match wins:
//
//  1. strip a parenthetical role hint, e.g. "John (Engineering)"
//  2. exact full-name match (case-insensitive)
//  3. order-independent token-set match, role hint breaking ties
//  4. first-name prefix + role-hint overlap
//  5. exact email match when the input contains '@'
//  6. substring match narrowed by equal first tokens
//
// Resolve never mutates the directory and is safe for concurrent use.
func Resolve(rawName, contextText string, directory []entities.User) (entities.User, bool) {
	rawName = strings.TrimSpace(rawName)
	if rawName == "" || rawName == entities.UnassignedOwner {
		return entities.User{}, false
	}

	rawName, roleHint := splitRoleHint(rawName)
	lowered := strings.ToLower(strings.TrimSpace(rawName))
	if lowered == "" {
		return entities.User{}, false
	}

	// Stage 2: exact full-name match.
	for i := range directory {
		if strings.ToLower(strings.TrimSpace(directory[i].Name)) == lowered {
			return directory[i], true
		}
	}

	rawTokens := strings.Fields(rawName)

	// Stage 3: token-set match for multi-token names.
	if len(rawTokens) > 1 {
		var ties []entities.User
		for i := range directory {
			if sameTokenSet(rawTokens, strings.Fields(directory[i].Name)) {
				ties = append(ties, directory[i])
			}
		}
		if len(ties) > 0 {
			if roleHint != "" {
				for i := range ties {
					if roleOverlaps(roleHint, ties[i].Role) {
						return ties[i], true
					}
				}
			}
			// No hint or no role overlap: first tie in directory order.
			return ties[0], true
		}
	}

	// Stage 4: first name + role hint.
	if roleHint != "" && len(rawTokens) > 1 {
		firstName := strings.ToLower(rawTokens[0])
		for i := range directory {
			name := strings.ToLower(strings.TrimSpace(directory[i].Name))
			if strings.HasPrefix(name, firstName) && roleOverlaps(roleHint, directory[i].Role) {
				return directory[i], true
			}
		}
	}

	// Stage 5: email match.
	if strings.Contains(rawName, "@") {
		for i := range directory {
			if strings.ToLower(directory[i].Email) == lowered {
				return directory[i], true
			}
		}
	}

	// Stage 6: partial match, last resort. Containment either direction,
	// accepted only when the first name tokens agree exactly.
	for i := range directory {
		name := strings.ToLower(strings.TrimSpace(directory[i].Name))
		if name == "" {
			continue
		}
		if strings.Contains(name, lowered) || strings.Contains(lowered, name) {
			if firstToken(lowered) == firstToken(name) {
				return directory[i], true
			}
		}
	}

	return entities.User{}, false
}

// splitRoleHint extracts a parenthetical hint from a raw owner string.
// "John Smith (Engineering)" yields ("John Smith", "engineering"). The hint
// is lower-cased; the name keeps its original casing for later tokenizing.
func splitRoleHint(raw string) (name, hint string) {
	open := strings.Index(raw, "(")
	close := strings.Index(raw, ")")
	if open == -1 || close == -1 || close < open {
		return raw, ""
	}
	hint = strings.ToLower(strings.TrimSpace(raw[open+1 : close]))
	name = strings.TrimSpace(raw[:open])
	return name, hint
}

// sameTokenSet reports whether two names consist of the same tokens
// regardless of order, e.g. "Smith John" matches "John Smith".
func sameTokenSet(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for _, ta := range a {
		found := false
		for _, tb := range b {
			if strings.EqualFold(ta, tb) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// roleOverlaps reports whether the hint and the directory role reference
// each other as substrings, e.g. hint "engineering" overlaps role
// "Engineer" and vice versa.
func roleOverlaps(hint string, role entities.UserRole) bool {
	r := strings.ToLower(string(role))
	if hint == "" || r == "" {
		return false
	}
	return strings.Contains(r, hint) || strings.Contains(hint, r)
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
