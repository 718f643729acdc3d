package storage

// Tier identifies which area the store treats as primary.
type Tier int

const (
	// TierFallback is the always-available area.
	TierFallback Tier = iota
	// TierDurable is the preferred area, used when its probe succeeds.
	TierDurable
)

// String returns the label shown to users for the tier.
func (t Tier) String() string {
	switch t {
	case TierDurable:
		return "Sync"
	default:
		return "Local"
	}
}
