package tasktree

import (
	"fmt"
	"strings"
)

// Tier is the priority grade of a folder. The zero value is TierUnrated.
type Tier uint8

const (
	TierUnrated Tier = iota
	TierS
	TierA
	TierB
	TierC
	TierD
	TierF
)

// Tiers lists the rated tiers from highest to lowest.
var Tiers = []Tier{TierS, TierA, TierB, TierC, TierD, TierF}

var tierLabels = map[Tier]string{
	TierUnrated: "",
	TierS:       "S",
	TierA:       "A",
	TierB:       "B",
	TierC:       "C",
	TierD:       "D",
	TierF:       "F",
}

// The three-level Priority/Medium/Later scheme maps onto A/B/C.
var tierAliases = map[string]Tier{
	"s":        TierS,
	"a":        TierA,
	"b":        TierB,
	"c":        TierC,
	"d":        TierD,
	"f":        TierF,
	"priority": TierA,
	"high":     TierA,
	"medium":   TierB,
	"later":    TierC,
	"low":      TierC,
}

// String returns the tier letter, or "unrated".
func (t Tier) String() string {
	if t == TierUnrated {
		return "unrated"
	}
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

// Rated reports whether the tier is one of the graded tiers.
func (t Tier) Rated() bool {
	return t != TierUnrated && t <= TierF
}

// ParseTier accepts tier letters (any case), the three-level names, and
// "", "unrated", "none" or "unsorted" for TierUnrated.
func ParseTier(value string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	switch key {
	case "", "unrated", "none", "unsorted", "-":
		return TierUnrated, nil
	}
	if tier, ok := tierAliases[key]; ok {
		return tier, nil
	}
	return TierUnrated, fmt.Errorf("unknown tier %q", value)
}

// MarshalText encodes the tier as its letter; unrated encodes as "".
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Rated() && t != TierUnrated {
		return nil, fmt.Errorf("invalid tier %d", uint8(t))
	}
	return []byte(tierLabels[t]), nil
}

// UnmarshalText decodes any value accepted by ParseTier.
func (t *Tier) UnmarshalText(data []byte) error {
	parsed, err := ParseTier(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
