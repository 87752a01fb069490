package ats

// Input is one resume/job-description pair to optimize.
type Input struct {
	Resume         string
	JobDescription string
	Name           string
}

// Result is everything the optimizer derives from an Input.
type Result struct {
	Match          MatchResult
	Recommendation string
	Document       Document
}

// Optimize normalizes both texts with the map's rules, matches skills,
// synthesizes the optimized resume and picks the recommendation.
func Optimize(in Input, km *KeywordMap, opts Options) Result {
	match := Match(km.Normalize(in.Resume), km.Normalize(in.JobDescription), km)

	doc := Synthesize(SynthesisInput{
		Resume:  in.Resume,
		Name:    in.Name,
		Found:   match.Found,
		Missing: match.Missing,
	}, km, opts)

	return Result{
		Match:          match,
		Recommendation: Recommendation(km.DisplayNames(match.Missing), match.Score),
		Document:       doc,
	}
}
