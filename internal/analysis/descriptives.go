package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"gocalib/domain/study"
)

// GroupDescriptives summarizes one group's distribution on a dependent
// variable. SD is the Bessel-corrected sample standard deviation; SD and SE
// are NaN when undefined (n < 2 and n == 0 respectively).
type GroupDescriptives struct {
	Group string  `json:"group"`
	N     int     `json:"n"`
	Mean  float64 `json:"mean"`
	SD    float64 `json:"sd"`
	SE    float64 `json:"se"`
}

// Descriptives partitions rows by group label and computes n, mean, sd and
// se per group, in the order the labels are given.
func Descriptives(rows []study.Row, dv string, groups []string) []GroupDescriptives {
	result := make([]GroupDescriptives, 0, len(groups))
	for _, group := range groups {
		values := groupValues(rows, dv, group)
		result = append(result, describeGroup(group, values))
	}
	return result
}

func describeGroup(group string, values []float64) GroupDescriptives {
	desc := GroupDescriptives{
		Group: group,
		N:     len(values),
		Mean:  math.NaN(),
		SD:    math.NaN(),
		SE:    math.NaN(),
	}

	if len(values) == 0 {
		return desc
	}

	if m, err := stats.Mean(values); err == nil {
		desc.Mean = m
	}
	if len(values) >= 2 {
		if sd, err := stats.StandardDeviationSample(values); err == nil {
			desc.SD = sd
			desc.SE = sd / math.Sqrt(float64(len(values)))
		}
	}
	return desc
}

// ColumnProfile is a compact distribution profile for one summary column.
type ColumnProfile struct {
	Column  string  `json:"column"`
	N       int     `json:"n"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	SD      float64 `json:"sd"`
	Min     float64 `json:"min"`
	P25     float64 `json:"p25"`
	Median  float64 `json:"median"`
	P75     float64 `json:"p75"`
	Max     float64 `json:"max"`
}

// DescribeColumns profiles each named summary column over all rows,
// regardless of group. Undefined statistics are NaN.
func DescribeColumns(rows []study.Row, columns []string) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(columns))

	for _, column := range columns {
		var values []float64
		missing := 0
		for i := range rows {
			if v, ok := rows[i].SummaryValue(column); ok {
				values = append(values, v)
			} else {
				missing++
			}
		}
		profiles = append(profiles, profileColumn(column, values, missing))
	}
	return profiles
}

func profileColumn(column string, values []float64, missing int) ColumnProfile {
	profile := ColumnProfile{
		Column:  column,
		N:       len(values),
		Missing: missing,
		Mean:    math.NaN(),
		SD:      math.NaN(),
		Min:     math.NaN(),
		P25:     math.NaN(),
		Median:  math.NaN(),
		P75:     math.NaN(),
		Max:     math.NaN(),
	}

	if len(values) == 0 {
		return profile
	}

	if m, err := stats.Mean(values); err == nil {
		profile.Mean = m
	}
	if sd, err := stats.StandardDeviationSample(values); err == nil && len(values) >= 2 {
		profile.SD = sd
	}
	if min, err := stats.Min(values); err == nil {
		profile.Min = min
	}
	if q1, err := stats.Percentile(values, 25); err == nil {
		profile.P25 = q1
	}
	if med, err := stats.Median(values); err == nil {
		profile.Median = med
	}
	if q3, err := stats.Percentile(values, 75); err == nil {
		profile.P75 = q3
	}
	if max, err := stats.Max(values); err == nil {
		profile.Max = max
	}
	return profile
}
