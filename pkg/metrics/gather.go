package metrics

import (
	"fmt"
)

// CounterValue sums the counter family name (fully qualified) across series
// whose labels include every pair in match.
func CounterValue(name string, match map[string]string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrGather, err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if !hasLabels(metric.GetLabel(), match) {
				continue
			}
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
			}
		}
	}
	return total, nil
}

type labelPair interface {
	GetName() string
	GetValue() string
}

func hasLabels[L labelPair](labels []L, match map[string]string) bool {
	for k, v := range match {
		found := false
		for _, l := range labels {
			if l.GetName() == k && l.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
