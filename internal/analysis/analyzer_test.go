package analysis

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flumeio/flume/internal/pipeline"
	"github.com/flumeio/flume/internal/queue"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// fixture amounts are 10, 20, 30, 40.
func fixture() []Record {
	return []Record{
		{TransactionID: "T1", Date: day(1), Product: "Mouse", Category: "Electronics", Quantity: 1, UnitPrice: 10, Region: "North", Salesperson: "Alice"},
		{TransactionID: "T2", Date: day(2), Product: "Keyboard", Category: "Electronics", Quantity: 2, UnitPrice: 10, Region: "South", Salesperson: "Bob"},
		{TransactionID: "T3", Date: day(3), Product: "Desk", Category: "Furniture", Quantity: 3, UnitPrice: 10, Region: "North", Salesperson: "Alice"},
		{TransactionID: "T4", Date: day(4), Product: "Chair", Category: "Furniture", Quantity: 4, UnitPrice: 10, Region: "East", Salesperson: "Carol"},
	}
}

func TestAnalyzerStatistics(t *testing.T) {
	a := NewAnalyzer(fixture())

	assert.Equal(t, 4, a.Count())
	assert.InDelta(t, 100.0, a.TotalRevenue(), 1e-9)
	assert.Equal(t, 10, a.TotalQuantity())
	assert.InDelta(t, 25.0, a.Mean(), 1e-9)
	assert.InDelta(t, 25.0, a.Median(), 1e-9)
	assert.InDelta(t, 125.0, a.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(125.0), a.StdDev(), 1e-9)

	q := a.Quartiles()
	assert.InDelta(t, 17.5, q.Q1, 1e-9)
	assert.InDelta(t, 25.0, q.Q2, 1e-9)
	assert.InDelta(t, 32.5, q.Q3, 1e-9)
	assert.InDelta(t, 15.0, q.IQR, 1e-9)

	assert.InDelta(t, math.Sqrt(125.0)/25.0*100, a.CoefficientOfVariation(), 1e-9)

	minRec, ok := a.MinTransaction()
	require.True(t, ok)
	assert.Equal(t, "T1", minRec.TransactionID)
	maxRec, ok := a.MaxTransaction()
	require.True(t, ok)
	assert.Equal(t, "T4", maxRec.TransactionID)

	t.Run("percentile bounds", func(t *testing.T) {
		assert.InDelta(t, 10.0, a.Percentile(0), 1e-9)
		assert.InDelta(t, 40.0, a.Percentile(100), 1e-9)
		assert.Equal(t, 0.0, a.Percentile(-1))
		assert.Equal(t, 0.0, a.Percentile(101))
	})
}

func TestAnalyzerEmpty(t *testing.T) {
	a := NewAnalyzer(nil)

	assert.Equal(t, 0, a.Count())
	assert.Equal(t, 0.0, a.Mean())
	assert.Equal(t, 0.0, a.Median())
	assert.Equal(t, 0.0, a.Variance())
	assert.Equal(t, 0.0, a.StdDev())
	assert.Equal(t, 0.0, a.CoefficientOfVariation())

	_, ok := a.MinTransaction()
	assert.False(t, ok)
	_, ok = a.MaxTransaction()
	assert.False(t, ok)
}

func TestAnalyzerFilters(t *testing.T) {
	a := NewAnalyzer(fixture())

	t.Run("by category", func(t *testing.T) {
		electronics := a.ByCategory("Electronics")
		assert.Equal(t, 2, electronics.Count())
		assert.InDelta(t, 30.0, electronics.TotalRevenue(), 1e-9)
		// Original analyzer is untouched.
		assert.Equal(t, 4, a.Count())
	})

	t.Run("by region", func(t *testing.T) {
		assert.Equal(t, 2, a.ByRegion("North").Count())
		assert.Equal(t, 0, a.ByRegion("West").Count())
	})

	t.Run("by salesperson", func(t *testing.T) {
		assert.Equal(t, 2, a.BySalesperson("Alice").Count())
	})

	t.Run("by date range is inclusive", func(t *testing.T) {
		assert.Equal(t, 2, a.ByDateRange(day(2), day(3)).Count())
		assert.Equal(t, 4, a.ByDateRange(day(1), day(4)).Count())
	})

	t.Run("by min amount", func(t *testing.T) {
		assert.Equal(t, 2, a.ByMinAmount(30).Count())
	})

	t.Run("chained filters", func(t *testing.T) {
		got := a.ByCategory("Furniture").ByRegion("North")
		assert.Equal(t, 1, got.Count())
	})
}

func TestAnalyzerGroupings(t *testing.T) {
	a := NewAnalyzer(fixture())

	assert.Equal(t, map[string]float64{"Electronics": 30, "Furniture": 70}, a.RevenueByCategory())
	assert.Equal(t, map[string]float64{"North": 40, "South": 20, "East": 40}, a.RevenueByRegion())
	assert.Equal(t, map[string]float64{"Alice": 40, "Bob": 20, "Carol": 40}, a.RevenueBySalesperson())
	assert.Equal(t, map[string]int{"Mouse": 1, "Keyboard": 2, "Desk": 3, "Chair": 4}, a.QuantityByProduct())
	assert.Equal(t, map[string]float64{"Electronics": 15, "Furniture": 35}, a.AverageByCategory())
	assert.Equal(t, map[string]int{"North": 2, "South": 1, "East": 1}, a.CountByRegion())

	assert.Equal(t, []string{"Electronics", "Furniture"}, a.Categories())
	assert.Equal(t, []string{"East", "North", "South"}, a.Regions())
	assert.Equal(t, []string{"Chair", "Desk", "Keyboard", "Mouse"}, a.Products())
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, a.Salespersons())

	groups := a.GroupBy(func(r Record) string { return r.Category })
	assert.Len(t, groups["Electronics"], 2)
	assert.Len(t, groups["Furniture"], 2)
}

func TestAnalyzerTopN(t *testing.T) {
	a := NewAnalyzer(fixture())

	top := a.TopProductsByRevenue(2)
	require.Len(t, top, 2)
	assert.Equal(t, NamedRevenue{Name: "Chair", Revenue: 40}, top[0])
	assert.Equal(t, NamedRevenue{Name: "Desk", Revenue: 30}, top[1])

	sellers := a.TopSalespersonsByRevenue(5)
	require.Len(t, sellers, 3)
	// Ties break alphabetically for a stable ranking.
	assert.Equal(t, "Alice", sellers[0].Name)
	assert.Equal(t, "Carol", sellers[1].Name)

	tx := a.TopTransactions(3)
	require.Len(t, tx, 3)
	assert.Equal(t, "T4", tx[0].TransactionID)
	assert.Equal(t, "T3", tx[1].TransactionID)
}

func TestAnalyzerSummary(t *testing.T) {
	s := NewAnalyzer(fixture()).Summary()
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 100.0, s.TotalRevenue, 1e-9)
	assert.Equal(t, 10, s.TotalQuantity)
	assert.InDelta(t, 25.0, s.Median, 1e-9)
	assert.Equal(t, []string{"Electronics", "Furniture"}, s.Categories)
}

func TestRecordsThroughPipeline(t *testing.T) {
	// Records stream from CSV through the bounded queue into a shared
	// sink, then the collected items are analyzed.
	src, err := StreamReader(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	q := queue.MustNew[Record](2)
	sink := pipeline.NewCollector[Record]()

	producer := pipeline.NewProducer(q, src)
	consumer := pipeline.NewConsumer[Record](q, sink,
		pipeline.WithPollTimeout[Record](20*time.Millisecond),
	)

	runner := pipeline.NewRunner(q,
		[]*pipeline.Producer[Record]{producer},
		[]*pipeline.Consumer[Record]{consumer},
	)
	result := runner.Run(t.Context())

	require.NoError(t, src.Err())
	assert.Equal(t, uint64(4), result.Produced)
	assert.Equal(t, uint64(4), result.Consumed)

	a := NewAnalyzer(sink.Items())
	assert.Equal(t, 4, a.Count())
	assert.InDelta(t, 2400.0+450.5+125.0+600.0, a.TotalRevenue(), 1e-9)
}
