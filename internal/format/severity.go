package format

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	SeveritySevere Severity = "severe"
)

// ImpactSeverity buckets a price impact percentage.
func ImpactSeverity(impact float64) Severity {
	switch {
	case impact < 1:
		return SeverityLow
	case impact < 3:
		return SeverityMedium
	case impact < 5:
		return SeverityHigh
	default:
		return SeveritySevere
	}
}

type AprTier string

const (
	AprExceptional AprTier = "exceptional"
	AprHigh        AprTier = "high"
	AprGood        AprTier = "good"
	AprNormal      AprTier = "normal"
)

func AprTierOf(apr float64) AprTier {
	switch {
	case apr >= 100:
		return AprExceptional
	case apr >= 50:
		return AprHigh
	case apr >= 20:
		return AprGood
	default:
		return AprNormal
	}
}
