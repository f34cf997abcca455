package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/communitypulse/pulse/schema"
)

// Merge reconciles a secondary series into a primary one for the same
// metric family.
//
// When a calibration period is given, a per-metric additive offset is
// learned from the two series' values at that period and applied to every
// secondary value before use. Primary fields holding the sentinel "unknown"
// (nil or zero, since these counters are never legitimately negative) are
// filled from the calibrated secondary; already-populated primary fields are
// never overwritten, even when the secondary disagrees. Filled entries get
// the secondary's source appended to their detail tag so full provenance
// stays reconstructable.
//
// The returned report counts fills per metric and lists every period where
// the two sources diverge beyond the thresholds; the divergence table is
// diagnostic only.
func Merge(primary, secondary []schema.DataPoint, metrics []schema.Metric, calibration string, divergeAbs int, divergePct float64) ([]schema.DataPoint, *schema.MergeReport, error) {
	secondaryByDate := make(map[string]schema.DataPoint, len(secondary))
	for _, p := range secondary {
		secondaryByDate[p.Date] = p
	}

	report := &schema.MergeReport{
		Offset: make(map[schema.Metric]int),
		Fills:  make(map[schema.Metric]int),
	}

	if calibration != "" {
		if err := learnOffsets(report, primary, secondaryByDate, metrics, calibration); err != nil {
			return nil, nil, err
		}
	}

	out := make([]schema.DataPoint, 0, len(primary))
	for _, entry := range primary {
		patched := entry.Clone()
		sec, ok := secondaryByDate[entry.Date]
		if !ok {
			out = append(out, patched)
			continue
		}

		filled := false
		for _, metric := range metrics {
			sv := sec.Get(metric)
			if sv == nil {
				continue
			}
			calibrated := *sv + report.Offset[metric]

			pv := patched.Get(metric)
			if pv == nil || *pv == 0 {
				v := calibrated
				patched.Set(metric, &v)
				report.Fills[metric]++
				filled = true
				continue
			}

			absDiff := *pv - calibrated
			if absDiff < 0 {
				absDiff = -absDiff
			}
			pctDiff := 0.0
			if *pv != 0 {
				pctDiff = float64(absDiff) / math.Abs(float64(*pv)) * 100
			}
			if absDiff >= divergeAbs || pctDiff >= divergePct {
				report.Divergences = append(report.Divergences, schema.DivergenceRow{
					Period:     entry.Date,
					Metric:     metric,
					Primary:    *pv,
					Calibrated: calibrated,
					AbsDiff:    absDiff,
					PctDiff:    pctDiff,
				})
			}
		}

		if filled {
			patched.SourceDetail = appendProvenance(patched.SourceDetail, secondaryName(sec))
		}
		out = append(out, patched)
	}

	return out, report, nil
}

// learnOffsets computes the per-metric additive correction from the single
// trusted calibration period. Both series must carry a value there; the
// merge is aborted otherwise rather than silently proceeding uncalibrated.
func learnOffsets(report *schema.MergeReport, primary []schema.DataPoint, secondaryByDate map[string]schema.DataPoint, metrics []schema.Metric, calibration string) error {
	var anchor *schema.DataPoint
	for i := range primary {
		if primary[i].Date == calibration {
			anchor = &primary[i]
			break
		}
	}
	if anchor == nil {
		return fmt.Errorf("calibration period %s not present in primary series", calibration)
	}
	sec, ok := secondaryByDate[calibration]
	if !ok {
		return fmt.Errorf("calibration period %s not present in secondary series", calibration)
	}

	learned := false
	for _, metric := range metrics {
		pv := anchor.Get(metric)
		sv := sec.Get(metric)
		if pv == nil || sv == nil || *pv == 0 {
			continue
		}
		report.Offset[metric] = *pv - *sv
		learned = true
	}
	if !learned {
		return fmt.Errorf("calibration period %s has no overlapping trusted values", calibration)
	}
	return nil
}

// appendProvenance appends a "+name" marker to a detail tag exactly once.
func appendProvenance(detail, name string) string {
	marker := "+" + name
	if strings.Contains(detail, marker) {
		return detail
	}
	return detail + marker
}

// secondaryName picks the provenance name recorded for filled fields.
func secondaryName(p schema.DataPoint) string {
	if p.Source != "" {
		return p.Source
	}
	return "secondary"
}
