package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Analyzer computes statistics over an immutable set of records.
// Filter methods return new Analyzers, so pipelines of filters can be
// chained without mutating the original.
type Analyzer struct {
	records []Record
}

// NewAnalyzer creates an analyzer over a copy of records.
func NewAnalyzer(records []Record) *Analyzer {
	rs := make([]Record, len(records))
	copy(rs, records)
	return &Analyzer{records: rs}
}

// Records returns an independent copy of the analyzed records.
func (a *Analyzer) Records() []Record {
	rs := make([]Record, len(a.records))
	copy(rs, a.records)
	return rs
}

// Count returns the number of records.
func (a *Analyzer) Count() int {
	return len(a.records)
}

// TotalRevenue returns the sum of all transaction amounts.
func (a *Analyzer) TotalRevenue() float64 {
	var total float64
	for _, r := range a.records {
		total += r.Total()
	}
	return total
}

// TotalQuantity returns the sum of all quantities sold.
func (a *Analyzer) TotalQuantity() int {
	var total int
	for _, r := range a.records {
		total += r.Quantity
	}
	return total
}

// Mean returns the mean transaction amount, or 0 with no records.
func (a *Analyzer) Mean() float64 {
	if len(a.records) == 0 {
		return 0
	}
	return stat.Mean(a.amounts(), nil)
}

// Median returns the median transaction amount.
func (a *Analyzer) Median() float64 {
	return a.Percentile(50)
}

// Variance returns the population variance of transaction amounts.
func (a *Analyzer) Variance() float64 {
	n := len(a.records)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 0
	}
	_, sample := stat.MeanVariance(a.amounts(), nil)
	return sample * float64(n-1) / float64(n)
}

// StdDev returns the population standard deviation of amounts.
func (a *Analyzer) StdDev() float64 {
	return math.Sqrt(a.Variance())
}

// Percentile returns the p-th percentile (0-100) of transaction
// amounts using linear interpolation, or 0 when out of range or empty.
func (a *Analyzer) Percentile(p float64) float64 {
	n := len(a.records)
	if n == 0 || p < 0 || p > 100 {
		return 0
	}
	amounts := a.sortedAmounts()

	idx := (p / 100) * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper > n-1 {
		upper = n - 1
	}
	weight := idx - float64(lower)
	return amounts[lower]*(1-weight) + amounts[upper]*weight
}

// Quartiles holds the quartile summary of transaction amounts.
type Quartiles struct {
	Q1  float64 `json:"q1"`
	Q2  float64 `json:"q2"`
	Q3  float64 `json:"q3"`
	IQR float64 `json:"iqr"`
}

// Quartiles returns Q1, Q2 (median), Q3, and the interquartile range.
func (a *Analyzer) Quartiles() Quartiles {
	q1 := a.Percentile(25)
	q3 := a.Percentile(75)
	return Quartiles{
		Q1:  q1,
		Q2:  a.Percentile(50),
		Q3:  q3,
		IQR: q3 - q1,
	}
}

// CoefficientOfVariation returns StdDev/Mean as a percentage, or 0
// when the mean is 0.
func (a *Analyzer) CoefficientOfVariation() float64 {
	mean := a.Mean()
	if mean == 0 {
		return 0
	}
	return a.StdDev() / mean * 100
}

// MinTransaction returns the record with the smallest amount.
func (a *Analyzer) MinTransaction() (Record, bool) {
	return a.extremeTransaction(func(candidate, best float64) bool {
		return candidate < best
	})
}

// MaxTransaction returns the record with the largest amount.
func (a *Analyzer) MaxTransaction() (Record, bool) {
	return a.extremeTransaction(func(candidate, best float64) bool {
		return candidate > best
	})
}

func (a *Analyzer) extremeTransaction(better func(candidate, best float64) bool) (Record, bool) {
	if len(a.records) == 0 {
		return Record{}, false
	}
	best := a.records[0]
	for _, r := range a.records[1:] {
		if better(r.Total(), best.Total()) {
			best = r
		}
	}
	return best, true
}

// Filter returns a new Analyzer over records matching the predicate.
func (a *Analyzer) Filter(predicate func(Record) bool) *Analyzer {
	var out []Record
	for _, r := range a.records {
		if predicate(r) {
			out = append(out, r)
		}
	}
	return &Analyzer{records: out}
}

// ByCategory filters to records in the given category.
func (a *Analyzer) ByCategory(category string) *Analyzer {
	return a.Filter(func(r Record) bool { return r.Category == category })
}

// ByRegion filters to records in the given region.
func (a *Analyzer) ByRegion(region string) *Analyzer {
	return a.Filter(func(r Record) bool { return r.Region == region })
}

// BySalesperson filters to records for the given salesperson.
func (a *Analyzer) BySalesperson(name string) *Analyzer {
	return a.Filter(func(r Record) bool { return r.Salesperson == name })
}

// ByDateRange filters to records with start <= date <= end.
func (a *Analyzer) ByDateRange(start, end time.Time) *Analyzer {
	return a.Filter(func(r Record) bool {
		return !r.Date.Before(start) && !r.Date.After(end)
	})
}

// ByMinAmount filters to records with amount >= threshold.
func (a *Analyzer) ByMinAmount(threshold float64) *Analyzer {
	return a.Filter(func(r Record) bool { return r.Total() >= threshold })
}

// GroupBy partitions records by the given key function.
func (a *Analyzer) GroupBy(key func(Record) string) map[string][]Record {
	groups := make(map[string][]Record)
	for _, r := range a.records {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}

// RevenueByCategory sums amounts per category.
func (a *Analyzer) RevenueByCategory() map[string]float64 {
	return a.revenueBy(func(r Record) string { return r.Category })
}

// RevenueByRegion sums amounts per region.
func (a *Analyzer) RevenueByRegion() map[string]float64 {
	return a.revenueBy(func(r Record) string { return r.Region })
}

// RevenueBySalesperson sums amounts per salesperson.
func (a *Analyzer) RevenueBySalesperson() map[string]float64 {
	return a.revenueBy(func(r Record) string { return r.Salesperson })
}

func (a *Analyzer) revenueBy(key func(Record) string) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range a.records {
		out[key(r)] += r.Total()
	}
	return out
}

// QuantityByProduct sums quantities per product.
func (a *Analyzer) QuantityByProduct() map[string]int {
	out := make(map[string]int)
	for _, r := range a.records {
		out[r.Product] += r.Quantity
	}
	return out
}

// AverageByCategory returns the mean transaction amount per category.
func (a *Analyzer) AverageByCategory() map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range a.records {
		sums[r.Category] += r.Total()
		counts[r.Category]++
	}
	out := make(map[string]float64, len(sums))
	for k, sum := range sums {
		out[k] = sum / float64(counts[k])
	}
	return out
}

// CountByRegion counts records per region.
func (a *Analyzer) CountByRegion() map[string]int {
	out := make(map[string]int)
	for _, r := range a.records {
		out[r.Region]++
	}
	return out
}

// Categories returns the sorted unique categories.
func (a *Analyzer) Categories() []string {
	return a.uniqueBy(func(r Record) string { return r.Category })
}

// Regions returns the sorted unique regions.
func (a *Analyzer) Regions() []string {
	return a.uniqueBy(func(r Record) string { return r.Region })
}

// Products returns the sorted unique product names.
func (a *Analyzer) Products() []string {
	return a.uniqueBy(func(r Record) string { return r.Product })
}

// Salespersons returns the sorted unique salesperson names.
func (a *Analyzer) Salespersons() []string {
	return a.uniqueBy(func(r Record) string { return r.Salesperson })
}

func (a *Analyzer) uniqueBy(key func(Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range a.records {
		k := key(r)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// NamedRevenue is a name/revenue pair for top-N rankings.
type NamedRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// TopProductsByRevenue returns the n products with the highest revenue,
// descending.
func (a *Analyzer) TopProductsByRevenue(n int) []NamedRevenue {
	return topRevenue(a.revenueBy(func(r Record) string { return r.Product }), n)
}

// TopSalespersonsByRevenue returns the n salespersons with the highest
// revenue, descending.
func (a *Analyzer) TopSalespersonsByRevenue(n int) []NamedRevenue {
	return topRevenue(a.RevenueBySalesperson(), n)
}

func topRevenue(revenue map[string]float64, n int) []NamedRevenue {
	out := make([]NamedRevenue, 0, len(revenue))
	for name, rev := range revenue {
		out = append(out, NamedRevenue{Name: name, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// TopTransactions returns the n records with the largest amounts,
// descending.
func (a *Analyzer) TopTransactions(n int) []Record {
	out := a.Records()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Total() > out[j].Total()
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Summary is a one-shot statistical report over the record set.
type Summary struct {
	Count         int       `json:"count"`
	TotalRevenue  float64   `json:"total_revenue"`
	TotalQuantity int       `json:"total_quantity"`
	Mean          float64   `json:"mean"`
	Median        float64   `json:"median"`
	StdDev        float64   `json:"std_dev"`
	Quartiles     Quartiles `json:"quartiles"`
	Categories    []string  `json:"categories"`
	Regions       []string  `json:"regions"`
}

// Summary computes the full report.
func (a *Analyzer) Summary() Summary {
	return Summary{
		Count:         a.Count(),
		TotalRevenue:  a.TotalRevenue(),
		TotalQuantity: a.TotalQuantity(),
		Mean:          a.Mean(),
		Median:        a.Median(),
		StdDev:        a.StdDev(),
		Quartiles:     a.Quartiles(),
		Categories:    a.Categories(),
		Regions:       a.Regions(),
	}
}

func (a *Analyzer) amounts() []float64 {
	out := make([]float64, len(a.records))
	for i, r := range a.records {
		out[i] = r.Total()
	}
	return out
}

func (a *Analyzer) sortedAmounts() []float64 {
	out := a.amounts()
	sort.Float64s(out)
	return out
}
