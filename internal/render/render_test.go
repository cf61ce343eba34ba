package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ore/internal/core"
)

func testPlan(t *testing.T) *core.Plan {
	t.Helper()
	s, err := core.NewSchedule(nil, []float64{0, 2, 7.5, 7.5, 7.5})
	require.NoError(t, err)
	p, err := core.Allocate(s, core.Weights{0.6, 0.4}, 0.5, core.StrategyProportional)
	require.NoError(t, err)
	return p
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, testPlan(t), Options{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7) // header, separator, five days

	assert.Equal(t, []string{"Day", "Input", "60", "%", "40", "%"}, strings.Fields(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "---"))
	assert.Equal(t, []string{"monday", "0.0", "0.0", "0.0"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"tuesday", "2.0", "1.0", "1.0"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"wednesday", "7.5", "4.5", "3.0"}, strings.Fields(lines[4]))
}

func TestTableWithSumAndDelta(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, testPlan(t), Options{Sum: true, ShowActualPercent: true}))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 10) // + Sum, Actual %, Delta rows

	assert.Equal(t, []string{"Sum", "24.5", "14.5", "10.0", "24.5"}, strings.Fields(lines[7]))
	assert.Equal(t, []string{"Actual", "%", "59.2%", "40.8%"}, strings.Fields(lines[8]))
	assert.Equal(t, []string{"Delta", "-", "-0.2", "+0.2"}, strings.Fields(lines[9]))
}

func TestTableRemainderRow(t *testing.T) {
	s, err := core.NewSchedule(nil, []float64{0, 2, 7.5, 7.5, 7.5})
	require.NoError(t, err)
	p, err := core.Allocate(s, core.Weights{0.5, 0.3, 0.1}, 0.25, core.StrategyOptimal)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, p, Options{ShowRemainder: true}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	last := strings.Fields(lines[len(lines)-1])
	assert.Equal(t, []string{"Remainder", "2.50"}, last)
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, testPlan(t), Options{Sum: true}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, []string{"Day", "Total", "60 %", "40 %"}, records[0])
	assert.Equal(t, []string{"wednesday", "7.5", "4.5", "3.0"}, records[3])
	assert.Equal(t, []string{"Sum", "24.5", "14.5", "10.0"}, records[6])
}

func TestJSON(t *testing.T) {
	p := testPlan(t)
	p.Normalized = true

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, p))

	var got Payload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, got.Days)
	assert.Equal(t, "proportional", got.Algorithm)
	assert.True(t, got.Normalized)
	assert.InDelta(t, 14.5, got.AllocatedCategoryTotals[0], 1e-9)
	require.Contains(t, got.Allocations, "tuesday")
	assert.Equal(t, []float64{1.0, 1.0}, got.Allocations["tuesday"].Categories)
	assert.InDelta(t, 0, got.RemainderHours, 1e-9)
}
