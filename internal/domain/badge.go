package domain

// Badge is an achievement earned once a progress metric reaches a threshold.
type Badge struct {
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Metric      string `json:"metric"      yaml:"metric"`
	Threshold   int    `json:"threshold"   yaml:"threshold"`
}

// Completed reports whether p meets the badge threshold.
func (b Badge) Completed(p *Progress) bool {
	return p.Metric(b.Metric) >= b.Threshold
}

// EvaluateBadges returns the badges in defs that p now satisfies and has not
// yet earned, in definition order. Persisting the awards is up to the caller.
func EvaluateBadges(p *Progress, defs []Badge) []Badge {
	var earned []Badge
	for _, b := range defs {
		if !p.HasBadge(b.Name) && b.Completed(p) {
			earned = append(earned, b)
		}
	}
	return earned
}
