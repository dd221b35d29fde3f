package match

import (
	"cmp"
	"slices"

	"github.com/hbollon/go-edlib"
)

// DefaultThreshold is the minimum similarity for a name to be suggested.
const DefaultThreshold = 0.75

// Candidate is a known name with its similarity to the query.
type Candidate struct {
	Name  string
	Score float64 // 0-1, higher is better

	// SamePackage is true when the candidate lives in the query's package.
	SamePackage bool
}

// CandidateList is a list of candidates, best first.
type CandidateList []Candidate

// Names returns the candidate names in rank order.
func (cl CandidateList) Names() []string {
	out := make([]string, len(cl))
	for i, c := range cl {
		out[i] = c.Name
	}

	return out
}

// Similarity scores two names between 0 and 1 using Jaro-Winkler on the raw
// and normalized forms, keeping the better result.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	if a == "" || b == "" {
		return 0.0
	}

	raw := jaroWinkler(a, b)

	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return raw
	}

	if na == nb {
		// only separators or case differ
		return max(raw, 0.99)
	}

	return max(raw, jaroWinkler(na, nb))
}

func jaroWinkler(a, b string) float64 {
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}

	return float64(score)
}

// Suggest ranks pool against query and returns at most limit candidates
// scoring at least threshold. Ties are broken by same-package first, then
// by edit distance, then by name.
func Suggest(query string, pool []string, threshold float64, limit int) CandidateList {
	if query == "" || limit <= 0 {
		return nil
	}

	pkg := PackageOf(query)

	var out CandidateList

	for _, name := range pool {
		if name == query {
			continue
		}

		score := Similarity(query, name)
		if score < threshold {
			continue
		}

		out = append(out, Candidate{
			Name:        name,
			Score:       score,
			SamePackage: PackageOf(name) == pkg,
		})
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		if a.SamePackage != b.SamePackage {
			if a.SamePackage {
				return -1
			}

			return 1
		}

		da := edlib.LevenshteinDistance(query, a.Name)
		db := edlib.LevenshteinDistance(query, b.Name)

		if c := cmp.Compare(da, db); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}
