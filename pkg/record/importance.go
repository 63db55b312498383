package record

// Importance is the ordinal 1-5 scale driving eviction priority and
// compression eligibility.
type Importance int

const (
	ImportanceMinimal  Importance = 1
	ImportanceLow      Importance = 2
	ImportanceMedium   Importance = 3
	ImportanceHigh     Importance = 4
	ImportanceCritical Importance = 5
)

// Score returns the numeric weight of the importance level.
func (i Importance) Score() int {
	return int(i)
}

func (i Importance) String() string {
	switch i {
	case ImportanceMinimal:
		return "minimal"
	case ImportanceLow:
		return "low"
	case ImportanceMedium:
		return "medium"
	case ImportanceHigh:
		return "high"
	case ImportanceCritical:
		return "critical"
	default:
		return "unknown"
	}
}
