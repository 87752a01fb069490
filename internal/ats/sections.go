package ats

import (
	"strings"
	"unicode/utf8"
)

// Section names a logical part of a resume.
type Section string

const (
	SectionHeader     Section = "header"
	SectionSummary    Section = "summary"
	SectionSkills     Section = "skills"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionOther      Section = "other"
)

// SectionOrder lists sections in document order.
var SectionOrder = []Section{
	SectionHeader,
	SectionSummary,
	SectionSkills,
	SectionExperience,
	SectionEducation,
	SectionOther,
}

// Listed in precedence order: when a line matches several groups the first wins.
var sectionKeywords = []struct {
	section  Section
	keywords []string
}{
	{SectionSummary, []string{"summary", "objective", "profile"}},
	{SectionSkills, []string{"skills", "technical", "competencies", "technologies"}},
	{SectionExperience, []string{"experience", "employment", "work history", "professional"}},
	{SectionEducation, []string{"education", "academic", "qualification"}},
	{SectionOther, []string{"projects", "certifications", "certificates", "awards", "volunteer", "publications", "interests"}},
}

const (
	DefaultMaxLines        = 50
	DefaultHeaderThreshold = 50
)

// SectionOptions bounds the classifier.
type SectionOptions struct {
	// MaxLines is how many source lines are scanned.
	MaxLines int
	// HeaderThreshold is the exclusive upper bound, in characters, for a header line.
	HeaderThreshold int
}

// Line is a non-blank resume line and whether it switched the active section.
type Line struct {
	Text   string
	Header bool
}

// ResumeSections is the classified resume. Each line sits in exactly one section.
type ResumeSections struct {
	lines map[Section][]Line
}

// Lines returns every line classified into s, header lines included.
func (rs ResumeSections) Lines(s Section) []string {
	src := rs.lines[s]
	out := make([]string, 0, len(src))
	for _, l := range src {
		out = append(out, l.Text)
	}
	return out
}

// Body returns the lines of s without the header lines that opened it.
func (rs ResumeSections) Body(s Section) []string {
	src := rs.lines[s]
	out := make([]string, 0, len(src))
	for _, l := range src {
		if !l.Header {
			out = append(out, l.Text)
		}
	}
	return out
}

// Len returns the number of lines in s.
func (rs ResumeSections) Len(s Section) int {
	return len(rs.lines[s])
}

// ClassifyHeader reports which section line opens, if it looks like a section header.
func ClassifyHeader(line string, threshold int) (Section, bool) {
	if threshold <= 0 {
		threshold = DefaultHeaderThreshold
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || utf8.RuneCountInString(trimmed) >= threshold {
		return "", false
	}

	lower := strings.ToLower(trimmed)
	for _, group := range sectionKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.section, true
			}
		}
	}
	return "", false
}

// ClassifySections splits a raw resume into sections, scanning at most
// opts.MaxLines lines. Classification starts in the header section.
func ClassifySections(resume string, opts SectionOptions) ResumeSections {
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	rs := ResumeSections{lines: make(map[Section][]Line, len(SectionOrder))}
	current := SectionHeader

	for i, raw := range splitLines(resume) {
		if i >= maxLines {
			break
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}

		section, isHeader := ClassifyHeader(text, opts.HeaderThreshold)
		if isHeader {
			current = section
		}
		rs.lines[current] = append(rs.lines[current], Line{Text: text, Header: isHeader})
	}
	return rs
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
