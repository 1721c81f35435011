package generator

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koba/xcellab/internal/config"
	"github.com/koba/xcellab/internal/schema"
)

func presetTypes() []interface{} {
	return []interface{}{
		schema.DatasetStudent,
		schema.DatasetSchoolFees,
		schema.DatasetReportCard,
		schema.DatasetPayroll,
		schema.DatasetSales,
		schema.DatasetHospital,
		schema.DatasetBanking,
	}
}

func genMessy() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(),
	).Map(func(v []interface{}) config.MessyConfig {
		return config.MessyConfig{
			ExtraSpaces:    v[0].(bool),
			MixedCasing:    v[1].(bool),
			WrongTypes:     v[2].(bool),
			InvalidFormats: v[3].(bool),
		}
	})
}

func TestProperty_RangedNumbersStayInBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("non-null values of ranged number columns lie in [min,max]", prop.ForAll(
		func(lo, width int, missing float64) bool {
			col := schema.Column{Name: "n", Type: schema.TypeNumber, Range: &schema.Range{Min: lo, Max: lo + width}}
			g := New()
			for i := 0; i < 50; i++ {
				v := g.GenerateValue(col, config.MessyConfig{MissingPct: missing})
				if v == nil {
					continue
				}
				n, ok := v.(int)
				if !ok || n < lo || n > lo+width {
					return false
				}
			}
			return true
		},
		gen.IntRange(-1000, 100000),
		gen.IntRange(0, 500),
		gen.Float64Range(0, 100),
	))

	properties.Property("ranged subject mark and currency columns lie in [min,max]", prop.ForAll(
		func(typ schema.ColumnType, lo, width int) bool {
			col := schema.Column{Name: "v", Type: typ, Range: &schema.Range{Min: lo, Max: lo + width}}
			g := New()
			for i := 0; i < 50; i++ {
				var f float64
				switch v := g.GenerateValue(col, config.MessyConfig{}).(type) {
				case int:
					f = float64(v)
				case float64:
					f = v
				default:
					return false
				}
				if f < float64(lo) || f > float64(lo+width) {
					return false
				}
			}
			return true
		},
		gen.OneConstOf(schema.TypeSubjectMark, schema.TypeCurrency),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

func TestProperty_MissingPctExtremes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("missing 0 yields no null base values, missing 100 yields only nulls", prop.ForAll(
		func(dt schema.DatasetType, rowCount int, messy config.MessyConfig) bool {
			cols := schema.PresetColumns(dt)
			derived := schema.DerivedColumns(dt)

			messy.MissingPct = 0
			for _, row := range GenerateDataset(rowCount, cols, messy, dt) {
				for _, col := range cols {
					if row[col.Name] == nil {
						return false
					}
				}
			}

			messy.MissingPct = 100
			for _, row := range GenerateDataset(rowCount, cols, messy, dt) {
				for _, col := range cols {
					if isDerived(col.Name, derived) {
						continue
					}
					if row[col.Name] != nil {
						return false
					}
				}
				for _, name := range derived {
					if row[name] == nil {
						return false
					}
				}
			}
			return true
		},
		gen.OneConstOf(presetTypes()...),
		gen.IntRange(1, 40),
		genMessy(),
	))

	properties.TestingRun(t)
}

func TestProperty_DuplicateCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	cols := schema.PresetColumns(schema.DatasetSales)

	properties.Property("duplicate 0 keeps the row count exact", prop.ForAll(
		func(rowCount int) bool {
			rows := GenerateDataset(rowCount, cols, config.MessyConfig{}, schema.DatasetSales)
			return len(rows) == rowCount
		},
		gen.IntRange(0, 300),
	))

	properties.Property("duplicates append floor(r*d/100) copies of generated rows", prop.ForAll(
		func(rowCount int, dup float64) bool {
			messy := config.MessyConfig{DuplicatePct: dup, MissingPct: 10}
			rows := GenerateDataset(rowCount, cols, messy, schema.DatasetSales)

			want := rowCount + int(math.Floor(float64(rowCount)*dup/100))
			if len(rows) != want {
				return false
			}
			for _, extra := range rows[rowCount:] {
				if !containsRow(rows[:rowCount], extra) {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 300),
		gen.Float64Range(0.01, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_ReportCardArithmetic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	cols := schema.PresetColumns(schema.DatasetReportCard)

	properties.Property("total, percentage and result follow the marks", prop.ForAll(
		func(missing float64, messy config.MessyConfig) bool {
			messy.MissingPct = missing
			for _, row := range GenerateDataset(30, cols, messy, schema.DatasetReportCard) {
				total := toNumber(row[schema.ColMaths], 0) + toNumber(row[schema.ColScience], 0) + toNumber(row[schema.ColEnglish], 0)
				pct := total / 300 * 100

				if row[schema.ColTotal] != normalizeNumber(total) {
					return false
				}
				if row[schema.ColPercentage] != fmt.Sprintf("%.2f%%", pct) {
					return false
				}
				if (row[schema.ColResult] == "PASS") != (pct >= 35) {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 100),
		genMessy(),
	))

	properties.TestingRun(t)
}

func TestProperty_PayrollChain(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("HRA, DA, gross, tax and net follow the base salary", prop.ForAll(
		func(base int) bool {
			row := schema.Row{schema.ColBaseSalary: base}
			payrollRule(row, nil)

			b := float64(base)
			hra := math.Round(0.4 * b)
			da := math.Round(0.1 * b)
			gross := b + hra + da
			tax := math.Round(0.1 * gross)

			return row[schema.ColHRA] == fmt.Sprintf("%.0f", hra) &&
				row[schema.ColDA] == fmt.Sprintf("%.0f", da) &&
				row[schema.ColGrossSalary] == normalizeNumber(gross) &&
				row[schema.ColTax] == fmt.Sprintf("%.0f", tax) &&
				row[schema.ColNetPayable] == normalizeNumber(gross-tax)
		},
		gen.IntRange(15000, 80000),
	))

	properties.TestingRun(t)
}

func TestStudentPresetCleanRun(t *testing.T) {
	cols := schema.PresetColumns(schema.DatasetStudent)
	rows := GenerateDataset(100, cols, config.MessyConfig{}, schema.DatasetStudent)
	require.Len(t, rows, 100)

	for _, row := range rows {
		require.Len(t, row, 5)
		for _, col := range cols {
			require.NotNil(t, row[col.Name], col.Name)
		}

		id, ok := row["ID"].(int)
		require.True(t, ok)
		assert.True(t, id >= 1 && id <= 1000)

		class, ok := row["Class"].(int)
		require.True(t, ok)
		assert.True(t, class >= 1 && class <= 12)

		assert.Contains(t, names, row["Full Name"])
		assert.Contains(t, cities, row["City"])

		email, ok := row["Email"].(string)
		require.True(t, ok)
		assert.True(t, strings.HasSuffix(email, "@example.com"))
		assert.Equal(t, strings.ToLower(email), email)
		assert.NotContains(t, email, " ")
	}
}

func TestSchoolFeesDataset(t *testing.T) {
	cols := schema.PresetColumns(schema.DatasetSchoolFees)
	rows := GenerateDataset(200, cols, config.MessyConfig{MissingPct: 20, ExtraSpaces: true, MixedCasing: true}, schema.DatasetSchoolFees)

	fees := map[interface{}]int{"Railways": 1500, "Non-Railways": 3500}
	for _, row := range rows {
		want, ok := fees[row[schema.ColStudentType]]
		if !ok {
			want = 2500
		}
		assert.Equal(t, want, row[schema.ColFeeAmount])
		assert.Contains(t, []string{"Paid", "Pending"}, row[schema.ColStatus])
	}
}

func TestDuplicatesNeedTwoRows(t *testing.T) {
	cols := schema.PresetColumns(schema.DatasetStudent)
	rows := GenerateDataset(1, cols, config.MessyConfig{DuplicatePct: 100}, schema.DatasetStudent)
	assert.Len(t, rows, 1)

	rows = GenerateDataset(2, cols, config.MessyConfig{DuplicatePct: 100}, schema.DatasetStudent)
	assert.Len(t, rows, 4)

	rows = GenerateDataset(0, cols, config.MessyConfig{DuplicatePct: 50}, schema.DatasetStudent)
	assert.Empty(t, rows)

	assert.Equal(t, 0, DuplicateCount(9, 10))
	assert.Equal(t, 1, DuplicateCount(10, 10))
	assert.Equal(t, 15, DuplicateCount(100, 15))
}

func TestDuplicatesAreShallowCopies(t *testing.T) {
	cols := schema.PresetColumns(schema.DatasetStudent)
	g := New(WithSource(&seqSource{floats: []float64{0.5}, ints: []int{0}}))
	rows := g.GenerateDataset(2, cols, config.MessyConfig{DuplicatePct: 50}, schema.DatasetStudent)
	require.Len(t, rows, 3)
	assert.Equal(t, rows[0], rows[2])

	rows[2]["City"] = "Nowhere"
	assert.NotEqual(t, "Nowhere", rows[0]["City"])
}

func TestBuild(t *testing.T) {
	g := New()
	ds, err := g.Build(context.Background(), config.GeneratorConfig{
		Type:     schema.DatasetPayroll,
		RowCount: 20,
		Messy:    config.MessyConfig{DuplicatePct: 10},
		Format:   config.FormatCSV,
	})
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 22)
	assert.Equal(t, schema.OrderedColumns(schema.PresetColumns(schema.DatasetPayroll), schema.DatasetPayroll), ds.Columns)
	assert.Equal(t, schema.PracticeTasks(schema.DatasetPayroll), ds.Tasks)
	for _, row := range ds.Rows {
		assert.Len(t, row, len(ds.Columns))
	}

	custom := []schema.Column{
		{Name: "Customer", Type: schema.TypeText},
		{Name: "Joined", Type: schema.TypeDate},
	}
	ds, err = g.Build(context.Background(), config.GeneratorConfig{Type: schema.DatasetCustom, Columns: custom, RowCount: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"Customer", "Joined"}, ds.Columns)
	assert.Len(t, ds.Rows, 5)

	_, err = g.Build(context.Background(), config.GeneratorConfig{Type: schema.DatasetCustom, RowCount: 5})
	assert.Error(t, err)
}

func TestBuildRejectsNonFinitePercentages(t *testing.T) {
	for _, messy := range []config.MessyConfig{
		{DuplicatePct: math.NaN()},
		{DuplicatePct: math.Inf(1)},
		{MissingPct: math.NaN()},
		{MissingPct: math.Inf(-1)},
	} {
		_, err := New().Build(context.Background(), config.GeneratorConfig{
			Type:     schema.DatasetStudent,
			RowCount: 10,
			Messy:    messy,
		})
		assert.Error(t, err, "%+v", messy)
	}

	assert.Equal(t, 0, DuplicateCount(10, math.NaN()))
	rows := GenerateDataset(10, schema.PresetColumns(schema.DatasetStudent), config.MessyConfig{DuplicatePct: math.NaN()}, schema.DatasetStudent)
	assert.Len(t, rows, 10)
}

func TestBuildHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Build(ctx, config.GeneratorConfig{Type: schema.DatasetStudent, RowCount: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func isDerived(name string, derived []string) bool {
	for _, d := range derived {
		if d == name {
			return true
		}
	}
	return false
}

func containsRow(rows []schema.Row, target schema.Row) bool {
	for _, r := range rows {
		if reflect.DeepEqual(r, target) {
			return true
		}
	}
	return false
}
