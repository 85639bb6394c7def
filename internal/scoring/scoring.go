// Package scoring computes ESG scores with the percentile rank method.
//
// Every answered question is an index. A company's index score is its rank
// among all companies reporting that index in the same year:
//
//	(companies with a worse value + companies with the same value / 2) / companies with a value
//
// Index scores are combined into pillar scores using index weights normalised
// by the weight sum of the indexes the company answered in that pillar, and
// pillar scores are combined into the ESG score using the pillar weights.
package scoring

import (
	"sort"
	"strconv"

	"esgboard/internal/catalog"
	"esgboard/internal/config"
	"esgboard/internal/dto"
	"esgboard/internal/models"
)

// Index describes how one question contributes to its pillar.
type Index struct {
	Code           string
	Type           dto.QuestionType
	Pillar         catalog.Pillar
	Weight         float64
	HigherIsBetter bool
}

// Indexes derives the scored indexes from the question bank. Questions of the
// general pillar or of unknown sections are not scored.
func Indexes(cat *catalog.Catalog, questions []models.Question) map[string]Index {
	out := make(map[string]Index, len(questions))
	for _, q := range questions {
		sec, ok := cat.Section(q.Section)
		if !ok || sec.Pillar == catalog.General || q.Weight <= 0 {
			continue
		}
		out[q.Code] = Index{
			Code:           q.Code,
			Type:           q.Type,
			Pillar:         sec.Pillar,
			Weight:         q.Weight,
			HigherIsBetter: q.HigherIsBetter,
		}
	}
	return out
}

// Value maps a stored answer to a comparable number. Boolean "1" (yes) ranks
// above "2" (no); choice answers rank by option index.
func Value(t dto.QuestionType, stored string) (float64, bool) {
	switch t {
	case dto.TypeBoolean:
		switch stored {
		case "1":
			return 1, true
		case "2":
			return 0, true
		}
		return 0, false
	case dto.TypeChoice, dto.TypeNumeric:
		v, err := strconv.ParseFloat(stored, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

type companyYear struct {
	user uint
	year int
}

// Compute scores every company-year found in answers. Answers of unscored
// questions and unparsable values are ignored.
func Compute(indexes map[string]Index, answers []models.Answer, weights config.PillarWeights) []models.Score {
	type key struct {
		year int
		code string
	}
	values := make(map[key]map[uint]float64)
	for _, a := range answers {
		idx, ok := indexes[a.QuestionCode]
		if !ok || a.Value == nil || a.TargetType != models.NoTarget {
			continue
		}
		v, ok := Value(idx.Type, *a.Value)
		if !ok {
			continue
		}
		k := key{a.Year, a.QuestionCode}
		if values[k] == nil {
			values[k] = make(map[uint]float64)
		}
		values[k][a.UserID] = v
	}

	// weighted sums per company-year and pillar
	type acc struct{ weighted, weights float64 }
	pillars := make(map[companyYear]map[catalog.Pillar]*acc)
	for k, byUser := range values {
		idx := indexes[k.code]
		all := make([]float64, 0, len(byUser))
		for _, v := range byUser {
			all = append(all, v)
		}
		for user, v := range byUser {
			score := PercentileRank(v, all, idx.HigherIsBetter)
			cy := companyYear{user, k.year}
			if pillars[cy] == nil {
				pillars[cy] = make(map[catalog.Pillar]*acc)
			}
			a := pillars[cy][idx.Pillar]
			if a == nil {
				a = &acc{}
				pillars[cy][idx.Pillar] = a
			}
			a.weighted += score * idx.Weight
			a.weights += idx.Weight
		}
	}

	pillarScore := func(m map[catalog.Pillar]*acc, p catalog.Pillar) float64 {
		a := m[p]
		if a == nil || a.weights == 0 {
			return 0
		}
		return a.weighted / a.weights
	}

	out := make([]models.Score, 0, len(pillars))
	for cy, m := range pillars {
		s := models.Score{
			UserID:        cy.user,
			Year:          cy.year,
			Environmental: pillarScore(m, catalog.Environment),
			Social:        pillarScore(m, catalog.Social),
			Governance:    pillarScore(m, catalog.Governance),
		}
		s.ESG = Combine(s.Environmental, s.Social, s.Governance, weights)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// PercentileRank ranks v among all reported values, including v itself.
func PercentileRank(v float64, all []float64, higherIsBetter bool) float64 {
	if len(all) == 0 {
		return 0
	}
	var worse, same int
	for _, o := range all {
		switch {
		case o == v:
			same++
		case higherIsBetter && o < v, !higherIsBetter && o > v:
			worse++
		}
	}
	return (float64(worse) + float64(same)/2) / float64(len(all))
}

// Combine weights the pillar scores into the ESG score. Weights are
// normalised so they need not sum to one.
func Combine(environmental, social, governance float64, w config.PillarWeights) float64 {
	total := w.Environment + w.Social + w.Governance
	if total == 0 {
		return 0
	}
	return (environmental*w.Environment + social*w.Social + governance*w.Governance) / total
}
