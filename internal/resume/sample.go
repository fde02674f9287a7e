package resume

// SampleRecord 是模板目录缩略图使用的示例数据，覆盖全部区块。
func SampleRecord() Record {
	return Record{
		Profile: Profile{
			FullName:    "Alex Morgan",
			Bio:         "Final-year computer science student focused on backend systems and developer tooling.",
			Email:       "alex.morgan@example.com",
			Phone:       "+1 555 0100",
			Location:    "Toronto, Canada",
			LinkedinURL: "https://linkedin.com/in/alexmorgan",
			GithubURL:   "https://github.com/alexmorgan",
		},
		Skills: []Skill{
			{Name: "Go", ProficiencyLevel: "expert", Category: "Languages"},
			{Name: "PostgreSQL", ProficiencyLevel: "advanced", Category: "Databases"},
			{Name: "TypeScript", ProficiencyLevel: "advanced", Category: "Languages"},
			{Name: "Docker", ProficiencyLevel: "intermediate", Category: "Tooling"},
			{Name: "Kubernetes", ProficiencyLevel: "beginner", Category: "Tooling"},
		},
		Education: []Education{
			{Institution: "University of Toronto", Degree: "BSc", FieldOfStudy: "Computer Science", StartDate: "Sep 2021", Grade: "GPA 3.8"},
			{Institution: "Northview Secondary School", Degree: "High School Diploma", StartDate: "Sep 2017", EndDate: "Jun 2021"},
		},
		Projects: []Project{
			{
				Title:        "Campus Events API",
				Description:  "Event discovery service used by 3,000 students each term.",
				Technologies: []string{"Go", "PostgreSQL", "Redis"},
				StartDate:    "Jan 2024",
				EndDate:      "Apr 2024",
				GithubURL:    "https://github.com/alexmorgan/campus-events",
				IsFeatured:   true,
			},
			{
				Title:        "Study Buddy",
				Description:  "Matches classmates into study groups by timetable overlap.",
				Technologies: []string{"TypeScript", "React"},
				StartDate:    "Sep 2023",
			},
		},
		Achievements: []Achievement{
			{Title: "Dean's List", Issuer: "University of Toronto", DateAchieved: "May 2024"},
			{Title: "Hackathon Winner", Description: "Best developer tool at HackTO.", Issuer: "HackTO", DateAchieved: "Nov 2023"},
		},
	}
}
