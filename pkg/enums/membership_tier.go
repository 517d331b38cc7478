package enums

import "fmt"

// MembershipTier maps to the membership_tier_enum enum in Postgres.
type MembershipTier string

const (
	MembershipTierBronze MembershipTier = "bronze"
	MembershipTierSilver MembershipTier = "silver"
	MembershipTierGold   MembershipTier = "gold"
)

var validMembershipTiers = []MembershipTier{
	MembershipTierBronze,
	MembershipTierSilver,
	MembershipTierGold,
}

// IsValid reports whether the value matches the canonical membership tier enum.
func (t MembershipTier) IsValid() bool {
	for _, candidate := range validMembershipTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseMembershipTier converts raw input into MembershipTier.
func ParseMembershipTier(value string) (MembershipTier, error) {
	for _, candidate := range validMembershipTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid membership tier %q", value)
}
