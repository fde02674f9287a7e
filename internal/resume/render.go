package resume

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// documents 在包初始化时解析，每个标准版式一套模板。
var documents = func() map[Template]*template.Template {
	out := make(map[Template]*template.Template, len(Templates))
	for _, tpl := range Templates {
		out[tpl] = template.Must(template.ParseFS(templateFS,
			"templates/base.tmpl",
			"templates/sections.tmpl",
			"templates/"+string(tpl)+".tmpl",
		))
	}
	return out
}()

// Render 生成自包含的 HTML 简历文档。相同输入总是得到逐字节相同的输出。
func Render(templateKey string, rec Record) (string, error) {
	return render(Resolve(templateKey), rec, false)
}

// RenderPrintable 与 Render 相同，但文档加载后自动打开打印对话框，打印结束后关闭窗口。
func RenderPrintable(templateKey string, rec Record) (string, error) {
	return render(Resolve(templateKey), rec, true)
}

func render(tpl Template, rec Record, printable bool) (string, error) {
	doc := buildDocument(tpl, rec, printable)

	var buf bytes.Buffer
	if err := documents[tpl].ExecuteTemplate(&buf, "document", doc); err != nil {
		return "", fmt.Errorf("execute %s template: %w", tpl, err)
	}
	return buf.String(), nil
}

type documentView struct {
	Template  Template
	Title     string
	Profile   Profile
	Contact   []contactItem
	Main      []sectionView
	Sidebar   []sectionView
	Header    []sectionView
	Left      []sectionView
	Right     []sectionView
	Printable bool
}

type contactItem struct {
	Label string
	Text  string
	Href  string
}

type sectionView struct {
	Placement
	Summary      string
	Skills       []skillView
	SkillGroups  []skillGroupView
	Education    []educationView
	Projects     []projectView
	Achievements []Achievement
}

type skillView struct {
	Name     string
	Level    string
	Category string
	Dots     []bool
}

type skillGroupView struct {
	Label  string
	Skills []skillView
}

type educationView struct {
	Education
	Period string
}

type projectView struct {
	Project
	Period string
	Chips  bool
}

func buildDocument(tpl Template, rec Record, printable bool) documentView {
	doc := documentView{
		Template:  tpl,
		Title:     documentTitle(rec.Profile.FullName),
		Profile:   rec.Profile,
		Contact:   contactItems(rec.Profile),
		Printable: printable,
	}

	for _, p := range plan(tpl, rec) {
		view := buildSection(tpl, p, rec)
		switch p.Column {
		case ColumnSidebar:
			doc.Sidebar = append(doc.Sidebar, view)
		case ColumnHeader:
			doc.Header = append(doc.Header, view)
		case ColumnLeft:
			doc.Left = append(doc.Left, view)
		case ColumnRight:
			doc.Right = append(doc.Right, view)
		default:
			doc.Main = append(doc.Main, view)
		}
	}
	return doc
}

func buildSection(tpl Template, p Placement, rec Record) sectionView {
	view := sectionView{Placement: p}
	switch p.Section {
	case SectionSummary:
		view.Summary = strings.TrimSpace(rec.Profile.Bio)
	case SectionSkills:
		if tpl == Creative {
			view.SkillGroups = groupSkills(rec.Skills)
		} else {
			view.Skills = skillViews(rec.Skills, tpl == Modern)
		}
	case SectionEducation:
		for _, e := range rec.Education {
			view.Education = append(view.Education, educationView{Education: e, Period: period(e.StartDate, e.EndDate)})
		}
	case SectionProjects:
		for _, pr := range SortProjects(rec.Projects) {
			view.Projects = append(view.Projects, projectView{
				Project: pr,
				Period:  projectPeriod(pr.StartDate, pr.EndDate),
				Chips:   tpl == Creative,
			})
		}
	case SectionAchievements:
		view.Achievements = rec.Achievements
	}
	return view
}

func skillViews(skills []Skill, dots bool) []skillView {
	out := make([]skillView, 0, len(skills))
	for _, s := range skills {
		v := skillView{Name: s.Name, Level: levelLabel(s.ProficiencyLevel), Category: s.Category}
		if dots {
			n := ProficiencyDots(s.ProficiencyLevel)
			v.Dots = make([]bool, 5)
			for i := range v.Dots {
				v.Dots[i] = i < n
			}
		}
		out = append(out, v)
	}
	return out
}

var levelOrder = []string{"expert", "advanced", "intermediate", "beginner"}

// groupSkills 按熟练度分组：已知等级按固定顺序，其余等级按字母序排在后面。
func groupSkills(skills []Skill) []skillGroupView {
	byLevel := make(map[string][]skillView)
	for _, s := range skills {
		level := normalizeLevel(s.ProficiencyLevel)
		if level == "" {
			level = "intermediate"
		}
		byLevel[level] = append(byLevel[level], skillView{Name: s.Name, Level: levelLabel(level), Category: s.Category})
	}

	order := make([]string, 0, len(byLevel))
	known := make(map[string]bool, len(levelOrder))
	for _, l := range levelOrder {
		known[l] = true
		if _, ok := byLevel[l]; ok {
			order = append(order, l)
		}
	}
	var rest []string
	for l := range byLevel {
		if !known[l] {
			rest = append(rest, l)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	out := make([]skillGroupView, 0, len(order))
	for _, l := range order {
		out = append(out, skillGroupView{Label: levelLabel(l), Skills: byLevel[l]})
	}
	return out
}

func levelLabel(level string) string {
	l := normalizeLevel(level)
	if l == "" {
		return ""
	}
	return strings.ToUpper(l[:1]) + l[1:]
}

func period(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return ""
	}
	if end == "" {
		end = "Present"
	}
	if start == "" {
		return end
	}
	return start + " - " + end
}

// projectPeriod 与 period 不同，缺少结束日期时不显示 Present。
func projectPeriod(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

func documentTitle(fullName string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name + " - Resume"
	}
	return "Resume"
}

func contactItems(p Profile) []contactItem {
	var out []contactItem
	if v := strings.TrimSpace(p.Email); v != "" {
		out = append(out, contactItem{Label: "Email", Text: v, Href: "mailto:" + v})
	}
	if v := strings.TrimSpace(p.Phone); v != "" {
		out = append(out, contactItem{Label: "Phone", Text: v})
	}
	if v := strings.TrimSpace(p.Location); v != "" {
		out = append(out, contactItem{Label: "Location", Text: v})
	}
	if v := strings.TrimSpace(p.LinkedinURL); v != "" {
		out = append(out, contactItem{Label: "LinkedIn", Text: v, Href: v})
	}
	if v := strings.TrimSpace(p.GithubURL); v != "" {
		out = append(out, contactItem{Label: "GitHub", Text: v, Href: v})
	}
	if v := strings.TrimSpace(p.PortfolioURL); v != "" {
		out = append(out, contactItem{Label: "Portfolio", Text: v, Href: v})
	}
	return out
}

// DownloadFilename 返回下载文件名：姓名中的空白替换为下划线，缺省为 resume。
func DownloadFilename(fullName string) string {
	name := strings.Join(strings.Fields(fullName), "_")
	if name == "" {
		name = "resume"
	}
	return name + "_Resume.html"
}
