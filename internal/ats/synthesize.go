package ats

import (
	"fmt"
	"strings"
)

// Headings used in the optimized document.
const (
	HeadingSummary    = "PROFESSIONAL SUMMARY"
	HeadingSkills     = "KEY TECHNICAL SKILLS"
	HeadingExperience = "PROFESSIONAL EXPERIENCE"
	HeadingEducation  = "EDUCATION"
	HeadingOther      = "ADDITIONAL INFORMATION"
	HeadingNotes      = "ATS OPTIMIZATION NOTES"

	Bullet     = "•"
	StatusMark = "✓"
)

var notesRule = strings.Repeat("=", 50)

// Options tunes classification and assembly of the optimized document.
type Options struct {
	Sections SectionOptions
	// HeaderLines caps how many header lines are carried over.
	HeaderLines int
	// SummaryMissing caps the missing skills named in the summary sentence.
	SummaryMissing int
	// SkillsMissing caps the missing skills appended to the skills block.
	SkillsMissing int
	// NotesMissing caps the recommendations listed in the notes report.
	NotesMissing int
}

// DefaultOptions returns the stock assembly settings.
func DefaultOptions() Options {
	return Options{
		Sections: SectionOptions{
			MaxLines:        DefaultMaxLines,
			HeaderThreshold: DefaultHeaderThreshold,
		},
		HeaderLines:    5,
		SummaryMissing: 3,
		SkillsMissing:  5,
		NotesMissing:   5,
	}
}

// Document is the line-oriented optimized resume.
type Document struct {
	Lines []string
}

func (d Document) String() string {
	return strings.Join(d.Lines, "\n")
}

// SynthesisInput carries what Synthesize needs from the request and the match.
type SynthesisInput struct {
	Resume  string
	Name    string
	Found   []string
	Missing []string
}

// Synthesize rebuilds the resume into ATS-friendly sections, weaves missing
// skills into the summary and skills blocks and appends an optimization report.
func Synthesize(in SynthesisInput, km *KeywordMap, opts Options) Document {
	sections := ClassifySections(in.Resume, opts.Sections)
	var lines []string

	header := sections.Lines(SectionHeader)
	if len(header) == 0 && strings.TrimSpace(in.Name) != "" {
		header = []string{strings.TrimSpace(in.Name)}
	}
	lines = append(lines, topN(header, opts.HeaderLines)...)
	lines = append(lines, "")

	lines = appendSummary(lines, sections.Body(SectionSummary), in.Missing, km, opts.SummaryMissing)
	lines = appendSkills(lines, sections.Body(SectionSkills), in.Found, in.Missing, km, opts.SkillsMissing)
	lines = appendBlock(lines, HeadingExperience, sections.Body(SectionExperience))
	lines = appendBlock(lines, HeadingEducation, sections.Body(SectionEducation))
	lines = appendBlock(lines, HeadingOther, sections.Body(SectionOther))
	lines = appendNotes(lines, in.Found, in.Missing, km, opts.NotesMissing)

	return Document{Lines: lines}
}

func appendSummary(lines, body, missing []string, km *KeywordMap, limit int) []string {
	text := strings.Join(body, " ")
	lower := strings.ToLower(text)

	var add []string
	for _, id := range missing {
		if len(add) >= limit {
			break
		}
		name := km.DisplayName(id)
		if strings.Contains(lower, id) || strings.Contains(lower, strings.ToLower(name)) {
			continue
		}
		add = append(add, name)
	}

	if len(add) > 0 {
		sentence := fmt.Sprintf("Additional expertise in %s.", joinNatural(add))
		if text == "" {
			text = sentence
		} else {
			text += " " + sentence
		}
	}
	if text == "" {
		return lines
	}
	return append(lines, HeadingSummary, text, "")
}

func appendSkills(lines, body, found, missing []string, km *KeywordMap, limit int) []string {
	skills := km.DisplayNames(found)
	skills = append(skills, km.DisplayNames(topN(missing, limit))...)
	if len(skills) == 0 && len(body) == 0 {
		return lines
	}

	lines = append(lines, HeadingSkills)
	if len(skills) > 0 {
		lines = append(lines, strings.Join(skills, " "+Bullet+" "))
	}
	lines = append(lines, body...)
	return append(lines, "")
}

func appendBlock(lines []string, heading string, body []string) []string {
	if len(body) == 0 {
		return lines
	}
	lines = append(lines, heading)
	lines = append(lines, body...)
	return append(lines, "")
}

func appendNotes(lines, found, missing []string, km *KeywordMap, limit int) []string {
	lines = append(lines,
		notesRule,
		HeadingNotes,
		notesRule,
		fmt.Sprintf("%s Match Score: %d%%", StatusMark, Score(len(found), len(found)+len(missing))),
		fmt.Sprintf("%s Keywords Matched: %d", StatusMark, len(found)),
	)

	top := topN(missing, limit)
	if len(top) == 0 {
		return lines
	}

	lines = append(lines, "", "Recommended additions:")
	for _, id := range top {
		lines = append(lines, Bullet+" "+SuggestionFor(id, km))
	}
	return lines
}

// SuggestionFor returns the configured suggestion for a skill or a generic one.
func SuggestionFor(id string, km *KeywordMap) string {
	if s, ok := km.Suggestion(id); ok {
		return s
	}
	return "Proficient in " + km.DisplayName(id)
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
