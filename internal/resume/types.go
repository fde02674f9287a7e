package resume

// Record 是渲染简历所需的完整数据快照，同时作为 GeneratedResume.Content 持久化。
// 日期字段由调用方格式化为字符串传入，引擎不做本地化处理。
type Record struct {
	Profile      Profile       `json:"profile"`
	Skills       []Skill       `json:"skills"`
	Education    []Education   `json:"education"`
	Projects     []Project     `json:"projects"`
	Achievements []Achievement `json:"achievements"`
}

// Profile 中任意字段都可能为空。
type Profile struct {
	FullName     string `json:"full_name"`
	Bio          string `json:"bio"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	LinkedinURL  string `json:"linkedin_url"`
	GithubURL    string `json:"github_url"`
	PortfolioURL string `json:"portfolio_url"`
	AvatarURL    string `json:"avatar_url"`
}

// Skill 表示一项技能。
type Skill struct {
	Name             string `json:"name"`
	ProficiencyLevel string `json:"proficiency_level"`
	Category         string `json:"category,omitempty"`
}

// Education 的 EndDate 为空表示至今。
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Grade        string `json:"grade,omitempty"`
}

// Project 表示一个项目经历。
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	ProjectURL   string   `json:"project_url,omitempty"`
	GithubURL    string   `json:"github_url,omitempty"`
	IsFeatured   bool     `json:"is_featured"`
}

// Achievement 表示一项成就或奖项。
type Achievement struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Issuer       string `json:"issuer,omitempty"`
	DateAchieved string `json:"date_achieved,omitempty"`
}
