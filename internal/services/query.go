package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arkhambot/arkhambot/internal/models"
)

// qualifierRE captures a trailing parenthesized suffix on a search token.
var qualifierRE = regexp.MustCompile(`\((.+?)\)$`)

// Qualifier is a level constraint parsed off a search token: any upgraded
// printing ("(u)") or one exact level ("(2)").
type Qualifier struct {
	AnyUpgraded bool
	Level       int
}

// Match reports whether a card satisfies the qualifier for the given base
// string. The predicate is self-contained: it re-checks that the card's
// display name contains base case-insensitively, because the resolver also
// applies it standalone to exact-name and fuzzy candidate sets whose names
// were matched through normalization rather than raw containment.
func (q *Qualifier) Match(card *models.Card, base string) bool {
	if !strings.Contains(strings.ToLower(card.Name), base) {
		return false
	}
	if q.AnyUpgraded {
		return card.XP > 0
	}
	return card.XP == q.Level
}

// ParseQuery splits a raw search token into its base string and an optional
// level qualifier:
//
//	"Shrivelling (3)" -> "shrivelling", exact level 3
//	"Shrivelling (u)" -> "shrivelling", any upgraded
//	"Shrivelling"     -> "shrivelling", no qualifier
//	"Machete (taboo)" -> "machete (taboo)", no qualifier
//
// Base is trimmed and lower-cased. A trailing parenthetical that is neither
// u/U nor an integer is not a qualifier: it applies no filter and stays part
// of base.
func ParseQuery(token string) (string, *Qualifier) {
	trimmed := strings.TrimSpace(token)
	m := qualifierRE.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return strings.ToLower(trimmed), nil
	}

	level := strings.TrimSpace(trimmed[m[2]:m[3]])
	if strings.EqualFold(level, "u") {
		return strings.ToLower(strings.TrimSpace(trimmed[:m[0]])), &Qualifier{AnyUpgraded: true}
	}
	if n, err := strconv.Atoi(level); err == nil {
		return strings.ToLower(strings.TrimSpace(trimmed[:m[0]])), &Qualifier{Level: n}
	}

	return strings.ToLower(trimmed), nil
}
