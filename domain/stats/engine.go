package stats

import (
	"fieldbook/domain/record"
	"fieldbook/domain/schema"

	mstats "github.com/montanaflynn/stats"
)

// Summary is the set of descriptive statistics computed for one numeric
// field across a record set. Variance is population variance (divide by n,
// not n-1); this is a fixed design choice and changing it would break
// parity with existing exports.
type Summary struct {
	Count             int     `json:"count"`
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	Variance          float64 `json:"variance"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// Compute derives per-numeric-field summaries from a snapshot of record
// data. It is a pure function: repeated invocation with unchanged inputs
// yields identical output, and record order never matters.
//
// Values that are missing, non-numeric, or non-finite are silently
// excluded rather than reported as errors; a field with no usable values
// at all is omitted from the result entirely, which callers must read as
// "no numeric data available" rather than all-zero statistics.
func Compute(fields []schema.FieldDescriptor, datas []record.Data) map[string]Summary {
	summaries := make(map[string]Summary)

	for _, field := range fields {
		if field.Type != schema.FieldTypeNumber {
			continue
		}
		values := collectValues(field.Name, datas)
		if len(values) == 0 {
			continue
		}
		summaries[field.Name] = summarize(values)
	}

	return summaries
}

// collectValues extracts the usable numeric values for one field.
func collectValues(name string, datas []record.Data) []float64 {
	var values []float64
	for _, data := range datas {
		val, ok := data[name]
		if !ok {
			continue
		}
		n, ok := val.Float()
		if !ok {
			continue
		}
		values = append(values, n)
	}
	return values
}

func summarize(values []float64) Summary {
	data := mstats.Float64Data(values)

	// The value set is non-empty by construction, so none of these can
	// fail; errors are still swallowed the way the library intends.
	mean, _ := mstats.Mean(data)
	median, _ := mstats.Median(data)
	min, _ := mstats.Min(data)
	max, _ := mstats.Max(data)
	variance, _ := mstats.PopulationVariance(data)
	stdDev, _ := mstats.StandardDeviationPopulation(data)

	return Summary{
		Count:             len(values),
		Mean:              mean,
		Median:            median,
		Min:               min,
		Max:               max,
		Variance:          variance,
		StandardDeviation: stdDev,
	}
}
