package resume

import "strings"

// Template 是四种标准简历版式之一。
type Template string

const (
	Professional Template = "professional"
	Modern       Template = "modern"
	Minimal      Template = "minimal"
	Creative     Template = "creative"
)

// Templates 按目录展示顺序列出标准版式。
var Templates = []Template{Professional, Modern, Minimal, Creative}

// aliases 将历史模板 key 映射到标准版式。
var aliases = map[string]Template{
	"minimal-corporate":    Professional,
	"modern-creative":      Modern,
	"elegant-professional": Minimal,
	"compact-technical":    Creative,
}

// Aliases 返回历史 key 到标准版式的映射副本。
func Aliases() map[string]Template {
	out := make(map[string]Template, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// Resolve 把任意模板 key 解析为标准版式，未知 key 回退到 Professional。
func Resolve(key string) Template {
	k := strings.ToLower(strings.TrimSpace(key))
	switch t := Template(k); t {
	case Professional, Modern, Minimal, Creative:
		return t
	}
	if t, ok := aliases[k]; ok {
		return t
	}
	return Professional
}

// IsKnown 报告 key 是否为标准版式或已登记的别名。
func IsKnown(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	switch Template(k) {
	case Professional, Modern, Minimal, Creative:
		return true
	}
	_, ok := aliases[k]
	return ok
}

func (t Template) String() string { return string(t) }

// DisplayName 返回目录中展示的名称。
func (t Template) DisplayName() string {
	switch t {
	case Modern:
		return "Modern"
	case Minimal:
		return "Minimal"
	case Creative:
		return "Creative"
	default:
		return "Professional"
	}
}

// Description 返回版式的简短说明。
func (t Template) Description() string {
	switch t {
	case Modern:
		return "Two-column layout with a sidebar and skill proficiency dots."
	case Minimal:
		return "Single column with generous whitespace and no borders."
	case Creative:
		return "Dark header band, grouped skills and technology chips."
	default:
		return "Single-column, serif headings, friendly to applicant tracking systems."
	}
}
