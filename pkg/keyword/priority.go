package keyword

import (
	"fmt"
	"sort"

	"github.com/kotechile/trend-analisys-sub006/pkg/api"
)

// Weights is the caller-supplied priority weight vector. Weights need not
// sum to 1; they only have to be non-negative.
type Weights struct {
	CPC    float64 `json:"cpc_weight"`
	Volume float64 `json:"volume_weight"`
	Trend  float64 `json:"trend_weight"`
}

// Validate rejects negative weights before scoring begins.
func (w Weights) Validate() error {
	if w.CPC < 0 || w.Volume < 0 || w.Trend < 0 {
		return api.NewError(api.KindValidationError,
			fmt.Sprintf("priority weights must be non-negative, got cpc=%v volume=%v trend=%v",
				w.CPC, w.Volume, w.Trend))
	}
	return nil
}

// midScale is the constant contribution of a dimension whose values do not
// vary across the input set; it keeps degenerate normalization away from
// division by zero.
const midScale = 50.0

// Prioritize scores and ranks the records under the given weights. It is a
// pure function of its inputs: the argument slice is not mutated, scores
// are deterministic, and ranks are the permutation 1..N ordered by score
// descending with ties broken by higher volume then keyword text.
//
// Each dimension is min-max normalized onto [0,100] across the input set;
// the weighted sum is divided by the weight total so the score stays in
// [0,100] for any non-negative weight vector.
func Prioritize(records []Record, w Weights) ([]Record, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Record{}, nil
	}

	cpcScale := newMinMaxScale(records, func(r Record) float64 { return r.CPC })
	volumeScale := newMinMaxScale(records, func(r Record) float64 { return float64(r.SearchVolume) })
	trendScale := newMinMaxScale(records, func(r Record) float64 { return r.TrendPercentage })

	out := make([]Record, len(records))
	copy(out, records)

	weightTotal := w.CPC + w.Volume + w.Trend
	for i := range out {
		if weightTotal == 0 {
			out[i].PriorityScore = 0
			continue
		}
		weighted := w.CPC*cpcScale.normalize(out[i].CPC) +
			w.Volume*volumeScale.normalize(float64(out[i].SearchVolume)) +
			w.Trend*trendScale.normalize(out[i].TrendPercentage)
		out[i].PriorityScore = weighted / weightTotal
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriorityScore != out[j].PriorityScore {
			return out[i].PriorityScore > out[j].PriorityScore
		}
		if out[i].SearchVolume != out[j].SearchVolume {
			return out[i].SearchVolume > out[j].SearchVolume
		}
		return out[i].Keyword < out[j].Keyword
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// minMaxScale normalizes one dimension onto [0,100] using the input set's
// own range. A zero-range dimension contributes the constant mid-value.
type minMaxScale struct {
	min, max float64
}

func newMinMaxScale(records []Record, value func(Record) float64) minMaxScale {
	scale := minMaxScale{min: value(records[0]), max: value(records[0])}
	for _, r := range records[1:] {
		v := value(r)
		if v < scale.min {
			scale.min = v
		}
		if v > scale.max {
			scale.max = v
		}
	}
	return scale
}

func (s minMaxScale) normalize(v float64) float64 {
	if s.max == s.min {
		return midScale
	}
	return (v - s.min) / (s.max - s.min) * 100
}
