package coverage

// BadgeTone is a semantic styling hint for a coverage badge.
type BadgeTone string

const (
	ToneSuccess BadgeTone = "success"
	ToneDanger  BadgeTone = "danger"
	ToneWarning BadgeTone = "warning"
)

// Badge is a labelled count shown next to an absence.
type Badge struct {
	Label string    `json:"label"`
	Count int       `json:"count"`
	Tone  BadgeTone `json:"tone"`
}

// BuildCoverageBadges emits Covered, Uncovered and Partial badges in that order, omitting
// categories with a zero count.
func BuildCoverageBadges(counts CoverageCounts) []Badge {
	badges := make([]Badge, 0, 3)
	if counts.FullyCovered > 0 {
		badges = append(badges, Badge{Label: "Covered", Count: counts.FullyCovered, Tone: ToneSuccess})
	}
	if counts.Uncovered > 0 {
		badges = append(badges, Badge{Label: "Uncovered", Count: counts.Uncovered, Tone: ToneDanger})
	}
	if counts.PartiallyCovered > 0 {
		badges = append(badges, Badge{Label: "Partial", Count: counts.PartiallyCovered, Tone: ToneWarning})
	}
	return badges
}

// AbsenceCoverage is the headline coverage of an absence.
type AbsenceCoverage struct {
	Status CoverageStatus `json:"status"`
	CoverageCounts
	Badges []Badge `json:"badges"`
}

// ClassifyAbsence derives an absence's headline status and badges from raw counts.
func ClassifyAbsence(counts CoverageCounts) AbsenceCoverage {
	return AbsenceCoverage{
		Status:         GetCoverageStatus(counts),
		CoverageCounts: counts,
		Badges:         BuildCoverageBadges(counts),
	}
}
