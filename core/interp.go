package core

import (
	"fmt"
	"math"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

// Interpolate fills the gaps between known anchor points with linear
// estimates, producing a dense monthly series. Anchors must be ordered
// ascending by month key. Interior points carry the "interpolated"
// provenance tag so the dashboard can distinguish estimated from observed
// data. When either endpoint of a metric is nil, the interior values for
// that metric stay nil rather than being invented.
func Interpolate(anchors []schema.DataPoint, metrics []schema.Metric) ([]schema.DataPoint, error) {
	if len(anchors) == 0 {
		return nil, nil
	}

	out := make([]schema.DataPoint, 0, len(anchors))
	for i := 0; i < len(anchors)-1; i++ {
		cur := anchors[i]
		next := anchors[i+1]

		gap, err := contract.MonthsBetween(cur.Date, next.Date)
		if err != nil {
			return nil, err
		}
		if gap <= 0 {
			return nil, fmt.Errorf("anchors must be strictly ascending: %s followed by %s", cur.Date, next.Date)
		}

		out = append(out, cur.Clone())
		for m := 1; m < gap; m++ {
			key, err := contract.AddMonthKey(cur.Date, m)
			if err != nil {
				return nil, err
			}
			point := schema.DataPoint{Date: key, Source: schema.SourceInterpolated}
			ratio := float64(m) / float64(gap)
			for _, metric := range metrics {
				a := cur.Get(metric)
				b := next.Get(metric)
				if a == nil || b == nil {
					continue
				}
				v := int(math.Round(float64(*a) + float64(*b-*a)*ratio))
				point.Set(metric, &v)
			}
			out = append(out, point)
		}
	}
	out = append(out, anchors[len(anchors)-1].Clone())
	return out, nil
}
