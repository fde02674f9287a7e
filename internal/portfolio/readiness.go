package portfolio

import "math"

// Counts 汇总计算完成度所需的数量。Achievements 与 Certificates 仅用于展示。
type Counts struct {
	ProfileComplete bool `json:"profile_complete"`
	Skills          int  `json:"skills"`
	Education       int  `json:"education"`
	Projects        int  `json:"projects"`
	Achievements    int  `json:"achievements"`
	Certificates    int  `json:"certificates"`
}

const componentWeight = 25.0

// ComputeReadiness 返回 0-100 的简历完成度。
func ComputeReadiness(c Counts) int {
	var score float64
	if c.ProfileComplete {
		score += componentWeight
	}
	score += capped(c.Skills, 5) * componentWeight
	score += capped(c.Education, 2) * componentWeight
	score += capped(c.Projects, 3) * componentWeight

	n := int(math.Round(score))
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	}
	return n
}

func capped(n, limit int) float64 {
	if n <= 0 {
		return 0
	}
	if n > limit {
		n = limit
	}
	return float64(n) / float64(limit)
}
