package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/trendlens/internal/analytics"
	"github.com/soltixdb/trendlens/internal/models"
)

func rec(country string, date, value interface{}) models.Record {
	r := models.Record{Date: date, Value: value}
	if country != "" {
		r.Country = &models.EntityRef{Value: country}
	}
	return r
}

func dataset(records ...models.Record) *models.IndicatorDataset {
	return &models.IndicatorDataset{
		Indicator: "GDP",
		Data:      models.DataPayload{Data: records},
	}
}

func TestExtract_GroupsAndSorts(t *testing.T) {
	ds := dataset(
		rec("B", "2002", 3.0),
		rec("A", "2001", 20.0),
		rec("B", "2000", 1.0),
		rec("A", "2000", 10.0),
		rec("B", "2001", 2.0),
	)

	set := Extract(ds, "")

	assert.Equal(t, []string{"B", "A"}, set.Entities())

	b, ok := set.Get("B")
	require.True(t, ok)
	assert.Equal(t, []int{2000, 2001, 2002}, b.Periods())
	assert.Equal(t, []float64{1, 2, 3}, b.Values())

	a, _ := set.Get("A")
	assert.Equal(t, []int{2000, 2001}, a.Periods())
}

func TestExtract_SkipsMalformedRecords(t *testing.T) {
	ds := dataset(
		rec("", "2000", 1.0),
		rec("A", nil, 1.0),
		rec("A", "2000", nil),
		rec("A", "20x0", 1.0),
		rec("A", "2001", "abc"),
		rec("A", "2002", true),
		rec("A", "2003", "4.5"),
		rec("A", float64(2004), 5.0),
	)

	set, stats := ExtractWithStats(ds, "")

	a, ok := set.Get("A")
	require.True(t, ok)
	assert.Equal(t, analytics.TimeSeriesData{
		{Period: 2003, Value: 4.5},
		{Period: 2004, Value: 5.0},
	}, a)
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 2, stats.Used)
	assert.Equal(t, 6, stats.Dropped)
}

func TestExtract_ZeroValueIsKept(t *testing.T) {
	set := Extract(dataset(rec("A", "2000", 0.0)), "")
	a, ok := set.Get("A")
	require.True(t, ok)
	assert.Equal(t, 0.0, a[0].Value)
}

func TestExtract_Filter(t *testing.T) {
	ds := dataset(
		rec("A", "2000", 1.0),
		rec("B", "2000", 2.0),
		rec("A", "2001", 3.0),
	)

	set := Extract(ds, "A")
	assert.Equal(t, []string{"A"}, set.Entities())

	set = Extract(ds, "Nowhere")
	assert.Equal(t, 0, set.Len())
}

func TestExtract_EmptyDataset(t *testing.T) {
	assert.Equal(t, 0, Extract(dataset(), "").Len())
	assert.Equal(t, 0, Extract(nil, "").Len())
}

func TestExtract_DuplicatePeriodsKeepInsertionOrder(t *testing.T) {
	ds := dataset(
		rec("A", "2001", 9.0),
		rec("A", "2000", 1.0),
		rec("A", "2000", 2.0),
		rec("A", "2000", 3.0),
	)

	a, _ := Extract(ds, "").Get("A")
	assert.Equal(t, []float64{1, 2, 3, 9}, a.Values())
}

func TestExtract_Idempotent(t *testing.T) {
	ds := dataset(
		rec("A", "2002", 3.0),
		rec("A", "2000", 1.0),
		rec("A", "2000", 5.0),
		rec("A", "2001", 2.0),
	)

	first, _ := Extract(ds, "").Get("A")
	second, _ := Extract(ds, "").Get("A")
	assert.Equal(t, first, second)
}

func TestSeriesSet_Each(t *testing.T) {
	set := NewSeriesSet()
	set.Append("x", analytics.TimeSeriesPoint{Period: 1, Value: 1})
	set.Append("y", analytics.TimeSeriesPoint{Period: 1, Value: 2})
	set.Append("x", analytics.TimeSeriesPoint{Period: 2, Value: 3})

	var seen []string
	set.Each(func(entity string, ts analytics.TimeSeriesData) {
		seen = append(seen, entity)
	})
	assert.Equal(t, []string{"x", "y"}, seen)
	x, _ := set.Get("x")
	assert.Len(t, x, 2)
}
