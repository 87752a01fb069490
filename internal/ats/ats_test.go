package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = []Rule{
	{From: "node.js", To: "nodejs"},
	{From: "ci/cd", To: "cicd"},
	{From: "c++", To: "cplusplus"},
	{From: "c#", To: "csharp"},
	{From: ".net", To: "dotnet"},
}

func testMap() *KeywordMap {
	return NewKeywordMap(1, testRules, []KeywordEntry{
		{ID: "python", Variants: []string{"python"}},
		{ID: "sql", Variants: []string{"sql"}},
		{ID: "aws", Variants: []string{"aws", "amazon web services"}, Display: "AWS"},
		{ID: "leadership", Variants: []string{"leadership", "team lead"}},
		{ID: "nodejs", Variants: []string{"nodejs", "node"}, Display: "Node.js"},
		{ID: "docker", Variants: []string{"docker"}, Suggestion: "Containerized services with Docker"},
		{ID: "cicd", Variants: []string{"cicd"}},
		{ID: "cplusplus", Variants: []string{"cplusplus"}, Display: "C++"},
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lower-cases", "Python AND SQL", "python and sql"},
		{"node", "Node.js developer", "nodejs developer"},
		{"cicd", "CI/CD pipelines", "cicd pipelines"},
		{"cpp and csharp", "C++, C# and .NET", "cplusplus, csharp and dotnet"},
		{"asp.net", "ASP.NET MVC", "aspdotnet mvc"},
		{"no tokenization", "python,sql;aws", "python,sql;aws"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in, testRules))
		})
	}
}

func TestNormalizeRuleOrderMatters(t *testing.T) {
	specificFirst := []Rule{{From: "node.js", To: "nodejs"}, {From: ".js", To: "javascript"}}
	genericFirst := []Rule{{From: ".js", To: "javascript"}, {From: "node.js", To: "nodejs"}}

	assert.Equal(t, "nodejs", Normalize("Node.js", specificFirst))
	assert.Equal(t, "nodejavascript", Normalize("Node.js", genericFirst))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Senior Node.js engineer with CI/CD, C++ and C# on .NET",
		"ASP.NET, node.js.net, c++#",
		"Python, AWS, Leadership",
		"ci/c.net",
		"CI/C.NET and ci/cci/c.net",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in, testRules)
		assert.Equal(t, once, Normalize(once, testRules), "input %q", in)
	}
}

func TestNormalizeRulesCompletingEarlierPatterns(t *testing.T) {
	// ".net" rewrites to "dotnet", which completes the earlier "ci/cd" pattern
	assert.Equal(t, "cicdotnet", Normalize("ci/c.net", testRules))
	assert.Equal(t, "cicdotnet", Normalize("cicdotnet", testRules))
}

func TestMatchScenario(t *testing.T) {
	km := testMap()
	result := Match(
		km.Normalize("I know Python and SQL"),
		km.Normalize("Looking for Python, AWS, and Leadership skills"),
		km,
	)

	assert.Equal(t, []string{"aws", "leadership", "python"}, result.Required)
	assert.Equal(t, []string{"python"}, result.Found)
	assert.Equal(t, []string{"aws", "leadership"}, result.Missing)
	assert.Equal(t, 33, result.Score)
}

func TestMatchSynonym(t *testing.T) {
	km := testMap()
	result := Match(km.Normalize("Built APIs with Node"), km.Normalize("Must know Node.js"), km)

	assert.Equal(t, []string{"nodejs"}, result.Found)
	assert.Empty(t, result.Missing)
	assert.Equal(t, 100, result.Score)
}

func TestMatchNoRequirements(t *testing.T) {
	km := testMap()

	for _, tc := range []struct{ resume, jd string }{
		{"Python developer", ""},
		{"", ""},
		{"Python developer", "We value curiosity"},
	} {
		result := Match(km.Normalize(tc.resume), km.Normalize(tc.jd), km)
		assert.Empty(t, result.Required)
		assert.Equal(t, 100, result.Score)
	}
}

func TestMatchRequiredCountedOnce(t *testing.T) {
	km := testMap()
	result := Match("", km.Normalize("AWS, Amazon Web Services, aws"), km)

	assert.Equal(t, []string{"aws"}, result.Required)
	assert.Equal(t, 0, result.Score)
}

func TestMatchPartitionInvariant(t *testing.T) {
	km := testMap()
	pairs := []struct{ resume, jd string }{
		{"python sql docker", "python aws docker leadership node.js c++"},
		{"", "python"},
		{"team lead, C++ and CI/CD", "leadership c++ ci/cd sql"},
	}

	for _, p := range pairs {
		r := Match(km.Normalize(p.resume), km.Normalize(p.jd), km)
		union := append(append([]string{}, r.Found...), r.Missing...)
		assert.ElementsMatch(t, r.Required, union)
		for _, f := range r.Found {
			assert.NotContains(t, r.Missing, f)
		}
		assert.GreaterOrEqual(t, r.Score, 0)
		assert.LessOrEqual(t, r.Score, 100)
		assert.Equal(t, Score(len(r.Found), len(r.Required)), r.Score)
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 100, Score(0, 0))
	assert.Equal(t, 33, Score(1, 3))
	assert.Equal(t, 67, Score(2, 3))
	assert.Equal(t, 12, Score(1, 8))
	assert.Equal(t, 38, Score(3, 8))
	assert.Equal(t, 0, Score(0, 4))
	assert.Equal(t, 100, Score(4, 4))
}

func TestRecommendationBands(t *testing.T) {
	missing := []string{"AWS", "Docker", "Kubernetes", "Leadership", "SQL", "Terraform"}

	tests := []struct {
		score    int
		prefix   string
		named    int
		excluded string
	}{
		{100, "Excellent match", 0, "AWS"},
		{90, "Excellent match", 0, "AWS"},
		{89, "Good match", 3, "Leadership"},
		{70, "Good match", 3, "Leadership"},
		{69, "Moderate match", 3, "Leadership"},
		{50, "Moderate match", 3, "Leadership"},
		{49, "Significant gaps", 5, "Terraform"},
		{0, "Significant gaps", 5, "Terraform"},
	}

	for _, tt := range tests {
		got := Recommendation(missing, tt.score)
		assert.True(t, strings.HasPrefix(got, tt.prefix), "score %d: %q", tt.score, got)
		for _, skill := range missing[:tt.named] {
			assert.Contains(t, got, skill, "score %d", tt.score)
		}
		assert.NotContains(t, got, tt.excluded, "score %d", tt.score)
	}
}

func TestRecommendationWithoutMissing(t *testing.T) {
	got := Recommendation(nil, 60)
	assert.True(t, strings.HasPrefix(got, "Moderate match"))
}

func TestClassifyHeader(t *testing.T) {
	tests := []struct {
		line    string
		want    Section
		matched bool
	}{
		{"SUMMARY", SectionSummary, true},
		{"Career Objective", SectionSummary, true},
		{"Technical Skills", SectionSkills, true},
		{"Core Competencies", SectionSkills, true},
		{"Work History", SectionExperience, true},
		{"Professional Experience", SectionExperience, true},
		{"Education", SectionEducation, true},
		{"Academic Qualifications", SectionEducation, true},
		{"Projects", SectionOther, true},
		// summary is listed before experience, so it wins
		{"Professional Summary", SectionSummary, true},
		// skills is listed before experience
		{"Skills & Experience", SectionSkills, true},
		{"John Doe", "", false},
		{"", "", false},
		{"Over ten years of experience building distributed payment systems at scale", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ClassifyHeader(tt.line, DefaultHeaderThreshold)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyHeaderThresholdIsExclusive(t *testing.T) {
	line := "education" + strings.Repeat("x", 41) // 50 characters
	_, ok := ClassifyHeader(line, 50)
	assert.False(t, ok)

	_, ok = ClassifyHeader(line[:49], 50)
	assert.True(t, ok)
}

const sampleResume = `Jane Doe
jane@example.com | 555-0100

Summary
Backend engineer who enjoys building reliable APIs.

Skills
Python, SQL, Git

Experience
Acme Corp - Software Engineer
- Built data pipelines in Python

Education
B.Sc. Computer Science, State University
`

func TestClassifySections(t *testing.T) {
	rs := ClassifySections(sampleResume, SectionOptions{})

	assert.Equal(t, []string{"Jane Doe", "jane@example.com | 555-0100"}, rs.Lines(SectionHeader))
	assert.Equal(t, []string{"Summary", "Backend engineer who enjoys building reliable APIs."}, rs.Lines(SectionSummary))
	assert.Equal(t, []string{"Backend engineer who enjoys building reliable APIs."}, rs.Body(SectionSummary))
	assert.Equal(t, []string{"Python, SQL, Git"}, rs.Body(SectionSkills))
	assert.Equal(t, []string{"Acme Corp - Software Engineer", "- Built data pipelines in Python"}, rs.Body(SectionExperience))
	assert.Equal(t, []string{"B.Sc. Computer Science, State University"}, rs.Body(SectionEducation))
	assert.Equal(t, 0, rs.Len(SectionOther))
}

func TestClassifySectionsLineCap(t *testing.T) {
	rs := ClassifySections("Name\nSkills\nPython\nGo\nRust", SectionOptions{MaxLines: 3})

	assert.Equal(t, []string{"Name"}, rs.Lines(SectionHeader))
	assert.Equal(t, []string{"Skills", "Python"}, rs.Lines(SectionSkills))
}

func TestClassifySectionsCRLF(t *testing.T) {
	rs := ClassifySections("Name\r\nEducation\r\nMIT\r\n", SectionOptions{})
	assert.Equal(t, []string{"MIT"}, rs.Body(SectionEducation))
}

func TestSynthesize(t *testing.T) {
	km := testMap()
	doc := Synthesize(SynthesisInput{
		Resume:  sampleResume,
		Found:   []string{"python"},
		Missing: []string{"aws", "docker", "leadership"},
	}, km, DefaultOptions())

	text := doc.String()
	require.NotEmpty(t, doc.Lines)
	assert.Equal(t, "Jane Doe", doc.Lines[0])
	assert.Equal(t, "jane@example.com | 555-0100", doc.Lines[1])
	assert.Equal(t, "", doc.Lines[2])
	assert.Equal(t, HeadingSummary, doc.Lines[3])
	assert.Equal(t,
		"Backend engineer who enjoys building reliable APIs. Additional expertise in AWS, Docker and Leadership.",
		doc.Lines[4])

	assert.Contains(t, text, HeadingSkills+"\nPython • AWS • Docker • Leadership\nPython, SQL, Git\n")
	assert.Contains(t, text, HeadingExperience+"\nAcme Corp - Software Engineer\n- Built data pipelines in Python\n")
	assert.Contains(t, text, HeadingEducation+"\nB.Sc. Computer Science, State University\n")
	assert.Contains(t, text, HeadingNotes)
	assert.Contains(t, text, "✓ Match Score: 25%")
	assert.Contains(t, text, "✓ Keywords Matched: 1")
	assert.Contains(t, text, "• Containerized services with Docker")
	assert.Contains(t, text, "• Proficient in AWS")
	assert.Contains(t, text, "• Proficient in Leadership")

	// the original section headers are replaced, not repeated
	assert.NotContains(t, doc.Lines, "Summary")
	assert.NotContains(t, doc.Lines, "Experience")
}

func TestSynthesizeSkipsSkillsAlreadyInSummary(t *testing.T) {
	km := testMap()
	doc := Synthesize(SynthesisInput{
		Resume:  "Name\nProfile\nEngineer comfortable with AWS tooling\n",
		Missing: []string{"aws", "sql"},
	}, km, DefaultOptions())

	assert.Contains(t, doc.Lines, "Engineer comfortable with AWS tooling Additional expertise in Sql.")
}

func TestSynthesizeCapsSummaryAndNotes(t *testing.T) {
	km := testMap()
	missing := []string{"aws", "cicd", "cplusplus", "docker", "leadership", "nodejs", "sql"}
	doc := Synthesize(SynthesisInput{Resume: "Name", Missing: missing}, km, DefaultOptions())

	assert.Contains(t, doc.Lines, "Additional expertise in AWS, Cicd and C++.")
	assert.Contains(t, doc.Lines, "AWS • Cicd • C++ • Docker • Leadership")

	bullets := 0
	for _, l := range doc.Lines {
		if strings.HasPrefix(l, Bullet+" ") {
			bullets++
		}
	}
	assert.Equal(t, 5, bullets)
}

func TestSynthesizeHeaderCapAndName(t *testing.T) {
	km := testMap()
	opts := DefaultOptions()

	doc := Synthesize(SynthesisInput{Resume: "a\nb\nc\nd\ne\nf\ng"}, km, opts)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", ""}, doc.Lines[:6])

	doc = Synthesize(SynthesisInput{Resume: "Summary\nGreat engineer", Name: "Jane Doe"}, km, opts)
	assert.Equal(t, "Jane Doe", doc.Lines[0])
}

func TestSynthesizeAllFound(t *testing.T) {
	km := testMap()
	doc := Synthesize(SynthesisInput{Resume: "Name\nSkills\nPython", Found: []string{"python"}}, km, DefaultOptions())

	text := doc.String()
	assert.Contains(t, text, "✓ Match Score: 100%")
	assert.NotContains(t, text, "Recommended additions")
	assert.NotContains(t, text, HeadingSummary)
}

func TestOptimize(t *testing.T) {
	km := testMap()
	result := Optimize(Input{
		Resume:         "I know Python and SQL",
		JobDescription: "Looking for Python, AWS, and Leadership skills",
	}, km, DefaultOptions())

	assert.Equal(t, 33, result.Match.Score)
	assert.Equal(t, []string{"python"}, result.Match.Found)
	assert.Equal(t, []string{"aws", "leadership"}, result.Match.Missing)
	assert.Equal(t, "Significant gaps found. Focus on adding: AWS, Leadership.", result.Recommendation)
	assert.Contains(t, result.Document.String(), HeadingNotes)
}

func TestOptimizeEmptyJobDescription(t *testing.T) {
	result := Optimize(Input{Resume: "Python developer"}, testMap(), DefaultOptions())

	assert.Equal(t, 100, result.Match.Score)
	assert.Empty(t, result.Match.Required)
	assert.True(t, strings.HasPrefix(result.Recommendation, "Excellent match"))
}

func TestKeywordMapDisplayName(t *testing.T) {
	km := testMap()
	assert.Equal(t, "AWS", km.DisplayName("aws"))
	assert.Equal(t, "Python", km.DisplayName("python"))
	assert.Equal(t, "Project Management", km.DisplayName("project management"))

	s, ok := km.Suggestion("docker")
	assert.True(t, ok)
	assert.Equal(t, "Containerized services with Docker", s)
	_, ok = km.Suggestion("python")
	assert.False(t, ok)
	assert.Equal(t, "Proficient in Python", SuggestionFor("python", km))
}
