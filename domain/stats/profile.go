package stats

import (
	"fieldbook/domain/record"
	"fieldbook/domain/schema"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minNormalitySample is the smallest sample the Jarque-Bera test is run
// on; below it the asymptotic chi-squared approximation is meaningless.
const minNormalitySample = 8

// Profile extends Summary with distribution shape and quality metrics for
// one numeric field. Exclusion and omission rules match Compute.
type Profile struct {
	Count        int     `json:"count"`
	MissingRatio float64 `json:"missing_ratio"`
	Q25          float64 `json:"q25"`
	Q75          float64 `json:"q75"`
	IQR          float64 `json:"iqr"`
	Skewness     float64 `json:"skewness"`
	Kurtosis     float64 `json:"kurtosis"`
	OutlierCount int     `json:"outlier_count"`
	JarqueBeraP  float64 `json:"jarque_bera_p"`
	IsNormal     bool    `json:"is_normal"`
}

// ComputeProfiles derives per-numeric-field distribution profiles from a
// snapshot of record data.
func ComputeProfiles(fields []schema.FieldDescriptor, datas []record.Data) map[string]Profile {
	profiles := make(map[string]Profile)

	for _, field := range fields {
		if field.Type != schema.FieldTypeNumber {
			continue
		}
		values := collectValues(field.Name, datas)
		if len(values) == 0 {
			continue
		}
		profiles[field.Name] = profile(values, len(datas))
	}

	return profiles
}

func profile(values []float64, total int) Profile {
	data := mstats.Float64Data(values)

	q25, _ := mstats.Percentile(data, 25)
	q75, _ := mstats.Percentile(data, 75)
	iqr := q75 - q25

	p := Profile{
		Count: len(values),
		Q25:   q25,
		Q75:   q75,
		IQR:   iqr,
	}
	if total > 0 {
		p.MissingRatio = float64(total-len(values)) / float64(total)
	}

	// IQR fence outliers
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr
	for _, v := range values {
		if v < lower || v > upper {
			p.OutlierCount++
		}
	}

	variance := stat.Variance(values, nil)
	if len(values) >= minNormalitySample && variance > 0 {
		p.Skewness = stat.Skew(values, nil)
		p.Kurtosis = stat.ExKurtosis(values, nil)
		p.JarqueBeraP, p.IsNormal = jarqueBera(len(values), p.Skewness, p.Kurtosis)
	} else {
		// Too small or degenerate to call non-normal.
		p.JarqueBeraP = 1
		p.IsNormal = true
	}

	return p
}

// jarqueBera tests normality from sample skewness and excess kurtosis,
// with the statistic referred to a chi-squared distribution with two
// degrees of freedom.
func jarqueBera(n int, skew, exKurtosis float64) (pValue float64, isNormal bool) {
	jb := float64(n) / 6.0 * (skew*skew + exKurtosis*exKurtosis/4.0)
	chi2 := distuv.ChiSquared{K: 2}
	pValue = 1 - chi2.CDF(jb)
	return pValue, pValue > 0.05
}
