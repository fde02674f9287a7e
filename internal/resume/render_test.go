package resume

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRecord() Record {
	return Record{
		Profile: Profile{
			FullName:    "Ada Lovelace",
			Bio:         "Engineering student who enjoys compilers and distributed systems.",
			Email:       "ada@example.com",
			Phone:       "+44 20 7946 0000",
			Location:    "London",
			LinkedinURL: "https://linkedin.com/in/ada",
			GithubURL:   "https://github.com/ada",
		},
		Skills: []Skill{
			{Name: "Go", ProficiencyLevel: "expert"},
			{Name: "SQL", ProficiencyLevel: "advanced"},
			{Name: "Docker", ProficiencyLevel: "intermediate"},
			{Name: "Figma", ProficiencyLevel: "beginner"},
		},
		Education: []Education{
			{Institution: "University of London", Degree: "BSc", FieldOfStudy: "Computer Science", StartDate: "2022-09-01", Grade: "First"},
			{Institution: "City College", Degree: "A-Levels", StartDate: "2020-09-01", EndDate: "2022-06-30"},
		},
		Projects: []Project{
			{Title: "Analytical Engine Emulator", Description: "Cycle-accurate emulator.", Technologies: []string{"Go", "WebAssembly"}},
			{Title: "Campus Notes", Description: "Shared lecture notes.", Technologies: []string{"TypeScript", "Postgres"}, IsFeatured: true, ProjectURL: "https://notes.example.com"},
		},
		Achievements: []Achievement{
			{Title: "Dean's List", Issuer: "University of London", DateAchieved: "2023-06-01"},
		},
	}
}

var sectionAttr = regexp.MustCompile(`data-section="([a-z]+)" data-column="([a-z]+)"`)

func heading(title string) string {
	return `<h2 class="section-title">` + title + `</h2>`
}

func TestRenderIncludesEachSectionHeadingOnce(t *testing.T) {
	rec := fixtureRecord()
	for _, tpl := range Templates {
		t.Run(string(tpl), func(t *testing.T) {
			out, err := Render(string(tpl), rec)
			require.NoError(t, err)

			for _, title := range []string{"Summary", "Skills", "Education", "Projects", "Achievements"} {
				assert.Equal(t, 1, strings.Count(out, heading(title)), "heading %s", title)
			}
			assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
			assert.Contains(t, out, "fonts.googleapis.com")
			assert.NotContains(t, out, "window.print()")
		})
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	rec := fixtureRecord()
	rec.Profile.Bio = "   "
	rec.Skills = nil
	rec.Achievements = []Achievement{}

	for _, tpl := range Templates {
		t.Run(string(tpl), func(t *testing.T) {
			out, err := Render(string(tpl), rec)
			require.NoError(t, err)

			assert.NotContains(t, out, heading("Summary"))
			assert.NotContains(t, out, heading("Skills"))
			assert.NotContains(t, out, heading("Achievements"))
			assert.Equal(t, 1, strings.Count(out, heading("Education")))
			assert.Equal(t, 1, strings.Count(out, heading("Projects")))
		})
	}
}

func TestRenderEmptyRecord(t *testing.T) {
	out, err := Render("professional", Record{})
	require.NoError(t, err)
	assert.Empty(t, sectionAttr.FindAllString(out, -1))
	assert.Contains(t, out, "<title>Resume</title>")
}

func TestRenderIsDeterministic(t *testing.T) {
	rec := fixtureRecord()
	for _, tpl := range Templates {
		first, err := Render(string(tpl), rec)
		require.NoError(t, err)
		second, err := Render(string(tpl), rec)
		require.NoError(t, err)
		assert.Equal(t, first, second, "template %s", tpl)
	}
}

func TestRenderAliasesAndFallback(t *testing.T) {
	rec := fixtureRecord()
	for alias, canonical := range Aliases() {
		got, err := Render(alias, rec)
		require.NoError(t, err)
		want, err := Render(string(canonical), rec)
		require.NoError(t, err)
		assert.Equal(t, want, got, "alias %s", alias)
	}

	unknown, err := Render("does-not-exist", rec)
	require.NoError(t, err)
	professional, err := Render("professional", rec)
	require.NoError(t, err)
	assert.Equal(t, professional, unknown)
}

func TestRenderPrintableAddsPrintTrigger(t *testing.T) {
	out, err := RenderPrintable("modern", fixtureRecord())
	require.NoError(t, err)
	assert.Contains(t, out, "window.onload = function () { window.print(); };")
	assert.Contains(t, out, "window.onafterprint = function () { window.close(); };")
}

func TestRenderModernProficiencyDots(t *testing.T) {
	out, err := Render("modern", fixtureRecord())
	require.NoError(t, err)
	// expert 5 + advanced 4 + intermediate 3 + beginner 2
	assert.Equal(t, 14, strings.Count(out, `class="dot filled"`))
	assert.Equal(t, 20-14, strings.Count(out, `class="dot"`))
}

func TestRenderCreativeGroupsSkillsAndChips(t *testing.T) {
	rec := fixtureRecord()
	rec.Skills = append(rec.Skills, Skill{Name: "Rust", ProficiencyLevel: "Expert"}, Skill{Name: "Juggling", ProficiencyLevel: "hobby"})

	out, err := Render("creative", rec)
	require.NoError(t, err)

	labels := regexp.MustCompile(`<h3 class="skill-group-label">([A-Za-z]+)</h3>`).FindAllStringSubmatch(out, -1)
	var got []string
	for _, m := range labels {
		got = append(got, m[1])
	}
	assert.Equal(t, []string{"Expert", "Advanced", "Intermediate", "Beginner", "Hobby"}, got)
	assert.Contains(t, out, `<li class="chip">WebAssembly</li>`)
}

func TestRenderFeaturedProjectsFirst(t *testing.T) {
	for _, tpl := range Templates {
		out, err := Render(string(tpl), fixtureRecord())
		require.NoError(t, err)
		featured := strings.Index(out, "Campus Notes")
		other := strings.Index(out, "Analytical Engine Emulator")
		require.NotEqual(t, -1, featured)
		require.NotEqual(t, -1, other)
		assert.Less(t, featured, other, "template %s", tpl)
		assert.Contains(t, out, `class="entry project featured"`)
	}
}

func TestRenderEscapesUserContent(t *testing.T) {
	rec := fixtureRecord()
	rec.Profile.FullName = `<script>alert("x")</script>`
	out, err := Render("minimal", rec)
	require.NoError(t, err)
	assert.NotContains(t, out, `<script>alert("x")</script>`)
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderEducationPeriod(t *testing.T) {
	out, err := Render("professional", fixtureRecord())
	require.NoError(t, err)
	assert.Contains(t, out, "2022-09-01 - Present")
	assert.Contains(t, out, "2020-09-01 - 2022-06-30")
}

func TestDownloadFilename(t *testing.T) {
	cases := map[string]string{
		"Ada Lovelace":       "Ada_Lovelace_Resume.html",
		"  Grace  M Hopper ": "Grace_M_Hopper_Resume.html",
		"":                   "resume_Resume.html",
		"   ":                "resume_Resume.html",
	}
	for in, want := range cases {
		assert.Equal(t, want, DownloadFilename(in), "input %q", in)
	}
}
