package generator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/koba/xcellab/internal/schema"
)

// Rule adds derived columns to an assembled row in place
type Rule func(row schema.Row, src Source)

// rules maps a dataset type to its derived-column rule.
// Types without an entry pass through unchanged.
var rules = map[schema.DatasetType]Rule{
	schema.DatasetSchoolFees: schoolFeesRule,
	schema.DatasetReportCard: reportCardRule,
	schema.DatasetPayroll:    payrollRule,
}

// RuleFor returns the derived-column rule of a dataset type, or nil
func RuleFor(t schema.DatasetType) Rule {
	return rules[t]
}

// ApplyRules runs the dataset type's rule on row, if it has one
func (g *Generator) ApplyRules(t schema.DatasetType, row schema.Row) {
	if rule := RuleFor(t); rule != nil {
		rule(row, g.src)
	}
}

const paidProbability = 0.7

func schoolFeesRule(row schema.Row, src Source) {
	switch row[schema.ColStudentType] {
	case "Railways":
		row[schema.ColFeeAmount] = 1500
	case "Non-Railways":
		row[schema.ColFeeAmount] = 3500
	default:
		row[schema.ColFeeAmount] = 2500
	}

	if src.Float64() < paidProbability {
		row[schema.ColStatus] = "Paid"
	} else {
		row[schema.ColStatus] = "Pending"
	}
}

// maxMarks is the sum of the three subject maxima
const maxMarks = 300

func reportCardRule(row schema.Row, _ Source) {
	maths := toNumber(row[schema.ColMaths], 0)
	science := toNumber(row[schema.ColScience], 0)
	english := toNumber(row[schema.ColEnglish], 0)

	total := maths + science + english
	percentage := total / maxMarks * 100

	row[schema.ColTotal] = normalizeNumber(total)
	row[schema.ColPercentage] = fmt.Sprintf("%.2f%%", percentage)
	row[schema.ColGrade] = grade(percentage)
	if percentage >= 35 {
		row[schema.ColResult] = "PASS"
	} else {
		row[schema.ColResult] = "FAIL"
	}
	row[schema.ColRemarks] = remarks(percentage)
}

func grade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 75:
		return "A"
	case percentage >= 60:
		return "B"
	case percentage >= 35:
		return "C"
	default:
		return "F"
	}
}

func remarks(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent"
	case percentage >= 35:
		return "Good Effort"
	default:
		return "Needs Improvement"
	}
}

const defaultBaseSalary = 20000

// payrollRule writes the salary breakdown. HRA, DA and Tax are stored as
// rounded display strings; Gross and Net are computed from the values just
// written, as a spreadsheet formula chain would.
func payrollRule(row schema.Row, _ Source) {
	base := toNumber(row[schema.ColBaseSalary], defaultBaseSalary)

	row[schema.ColHRA] = roundString(base * 0.4)
	row[schema.ColDA] = roundString(base * 0.1)

	gross := base + toNumber(row[schema.ColHRA], 0) + toNumber(row[schema.ColDA], 0)
	row[schema.ColGrossSalary] = normalizeNumber(gross)

	row[schema.ColTax] = roundString(gross * 0.1)
	row[schema.ColNetPayable] = normalizeNumber(gross - toNumber(row[schema.ColTax], 0))
}

// roundString rounds half away from zero and formats without decimals
func roundString(f float64) string {
	return strconv.FormatFloat(math.Round(f), 'f', 0, 64)
}
