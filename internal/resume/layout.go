package resume

import (
	"sort"
	"strings"
)

// Section 标识简历中的一个区块。
type Section string

const (
	SectionSummary      Section = "summary"
	SectionSkills       Section = "skills"
	SectionEducation    Section = "education"
	SectionProjects     Section = "projects"
	SectionAchievements Section = "achievements"
)

// Column 标识区块所在的栏位。
type Column string

const (
	ColumnMain    Column = "main"
	ColumnSidebar Column = "sidebar"
	ColumnHeader  Column = "header"
	ColumnLeft    Column = "left"
	ColumnRight   Column = "right"
)

// LayoutClass 是预览使用的版式类别。
type LayoutClass string

const (
	LayoutSingle  LayoutClass = "single"
	LayoutSidebar LayoutClass = "sidebar"
	LayoutTwoCol  LayoutClass = "two-col"
)

type slot struct {
	section Section
	column  Column
}

// placements 是 Render 与 Preview 共用的区块排布表，顺序即输出顺序。
var placements = map[Template][]slot{
	Professional: {
		{SectionSummary, ColumnMain},
		{SectionSkills, ColumnMain},
		{SectionProjects, ColumnMain},
		{SectionEducation, ColumnMain},
		{SectionAchievements, ColumnMain},
	},
	Modern: {
		{SectionSkills, ColumnSidebar},
		{SectionSummary, ColumnMain},
		{SectionProjects, ColumnMain},
		{SectionEducation, ColumnMain},
		{SectionAchievements, ColumnMain},
	},
	Minimal: {
		{SectionSummary, ColumnMain},
		{SectionEducation, ColumnMain},
		{SectionProjects, ColumnMain},
		{SectionSkills, ColumnMain},
		{SectionAchievements, ColumnMain},
	},
	Creative: {
		{SectionSummary, ColumnHeader},
		{SectionSkills, ColumnLeft},
		{SectionEducation, ColumnLeft},
		{SectionProjects, ColumnRight},
		{SectionAchievements, ColumnRight},
	},
}

var layoutClasses = map[Template]LayoutClass{
	Professional: LayoutSingle,
	Modern:       LayoutSidebar,
	Minimal:      LayoutSingle,
	Creative:     LayoutTwoCol,
}

var sectionTitles = map[Section]string{
	SectionSummary:      "Summary",
	SectionSkills:       "Skills",
	SectionEducation:    "Education",
	SectionProjects:     "Projects",
	SectionAchievements: "Achievements",
}

// Title 返回区块标题。
func (s Section) Title() string { return sectionTitles[s] }

// Layout 描述某个模板在给定数据下的结构，供交互式预览使用。
// Fallback 表示请求的 key 未登记，已回退到 Professional。
type Layout struct {
	Template Template    `json:"template"`
	Class    LayoutClass `json:"class"`
	Fallback bool        `json:"fallback"`
	Sections []Placement `json:"sections"`
}

// Placement 描述一个实际输出的区块。
type Placement struct {
	Section    Section `json:"section"`
	Column     Column  `json:"column"`
	Title      string  `json:"title"`
	ItemCount  int     `json:"item_count"`
	Emphasized bool    `json:"emphasized"`
}

// Preview 返回与 Render 一致的版式描述，不生成完整文档。
func Preview(templateKey string, rec Record) Layout {
	tpl := Resolve(templateKey)
	return Layout{
		Template: tpl,
		Class:    layoutClasses[tpl],
		Fallback: strings.TrimSpace(templateKey) != "" && !IsKnown(templateKey),
		Sections: plan(tpl, rec),
	}
}

// plan 按排布表过滤掉空区块。
func plan(tpl Template, rec Record) []Placement {
	out := make([]Placement, 0, len(placements[tpl]))
	for _, s := range placements[tpl] {
		n := itemCount(s.section, rec)
		if n == 0 {
			continue
		}
		out = append(out, Placement{
			Section:    s.section,
			Column:     s.column,
			Title:      s.section.Title(),
			ItemCount:  n,
			Emphasized: s.section == SectionProjects && hasFeatured(rec.Projects),
		})
	}
	return out
}

// itemCount 为 0 表示该区块不输出。
func itemCount(s Section, rec Record) int {
	switch s {
	case SectionSummary:
		if strings.TrimSpace(rec.Profile.Bio) == "" {
			return 0
		}
		return 1
	case SectionSkills:
		return len(rec.Skills)
	case SectionEducation:
		return len(rec.Education)
	case SectionProjects:
		return len(rec.Projects)
	case SectionAchievements:
		return len(rec.Achievements)
	}
	return 0
}

// IncludesSection 报告区块在当前数据下是否会被输出。
func IncludesSection(s Section, rec Record) bool {
	return itemCount(s, rec) > 0
}

func hasFeatured(projects []Project) bool {
	for _, p := range projects {
		if p.IsFeatured {
			return true
		}
	}
	return false
}

// SortProjects 返回按精选优先排序的副本，其余保持原有顺序。
func SortProjects(projects []Project) []Project {
	out := make([]Project, len(projects))
	copy(out, projects)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsFeatured && !out[j].IsFeatured
	})
	return out
}

// ProficiencyDots 把熟练度映射到 5 点刻度。
func ProficiencyDots(level string) int {
	switch normalizeLevel(level) {
	case "expert":
		return 5
	case "advanced":
		return 4
	case "intermediate":
		return 3
	default:
		return 2
	}
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
