package portfolio

import (
	"math"
	"strings"
)

// SectionMap 是公开主页各区块的最终可见性。
type SectionMap struct {
	About        bool `json:"about"`
	Skills       bool `json:"skills"`
	Education    bool `json:"education"`
	Achievements bool `json:"achievements"`
	Projects     bool `json:"projects"`
	Certificates bool `json:"certificates"`
}

// DefaultSections 是未设置时的默认可见性。
func DefaultSections() SectionMap {
	return SectionMap{
		About:        true,
		Skills:       true,
		Education:    true,
		Achievements: true,
		Projects:     true,
		Certificates: false,
	}
}

// ResolveVisibleSections 用存储的部分设置覆盖默认值。
// 已知 key 的值按真值语义转换，未知 key 忽略。
func ResolveVisibleSections(stored map[string]any) SectionMap {
	out := DefaultSections()
	fields := map[string]*bool{
		"about":        &out.About,
		"skills":       &out.Skills,
		"education":    &out.Education,
		"achievements": &out.Achievements,
		"projects":     &out.Projects,
		"certificates": &out.Certificates,
	}
	for key, v := range stored {
		if dst, ok := fields[key]; ok {
			*dst = truthy(v)
		}
	}
	return out
}

// ToMap 返回用于持久化的完整映射。
func (s SectionMap) ToMap() map[string]any {
	return map[string]any{
		"about":        s.About,
		"skills":       s.Skills,
		"education":    s.Education,
		"achievements": s.Achievements,
		"projects":     s.Projects,
		"certificates": s.Certificates,
	}
}

// truthy 对 JSON 解码得到的值做真值判断。
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	case uint:
		return t != 0
	case uint64:
		return t != 0
	default:
		return true
	}
}

// ProfileComplete 要求姓名与简介都不为空。
func ProfileComplete(fullName, bio string) bool {
	return strings.TrimSpace(fullName) != "" && strings.TrimSpace(bio) != ""
}
