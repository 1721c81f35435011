package schema

import (
	"fmt"
	"strings"
)

// DatasetType selects a preset schema and the derived-column rules applied to it
type DatasetType string

const (
	DatasetStudent    DatasetType = "STUDENT"
	DatasetSchoolFees DatasetType = "SCHOOL_FEES"
	DatasetReportCard DatasetType = "REPORT_CARD"
	DatasetAttendance DatasetType = "ATTENDANCE"
	DatasetCompany    DatasetType = "COMPANY"
	DatasetPayroll    DatasetType = "PAYROLL"
	DatasetSales      DatasetType = "SALES"
	DatasetInventory  DatasetType = "INVENTORY"
	DatasetHospital   DatasetType = "HOSPITAL"
	DatasetBanking    DatasetType = "BANKING"
	DatasetCustom     DatasetType = "CUSTOM"
)

// DatasetTypes lists every dataset type in display order
var DatasetTypes = []DatasetType{
	DatasetStudent,
	DatasetSchoolFees,
	DatasetReportCard,
	DatasetAttendance,
	DatasetCompany,
	DatasetPayroll,
	DatasetSales,
	DatasetInventory,
	DatasetHospital,
	DatasetBanking,
	DatasetCustom,
}

// ParseDatasetType resolves a dataset type name such as "report-card" or "PAYROLL"
func ParseDatasetType(s string) (DatasetType, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, t := range DatasetTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown dataset type: %s", s)
}

// Derived column names
const (
	ColFeeAmount   = "Fee Amount"
	ColStatus      = "Status"
	ColTotal       = "Total"
	ColPercentage  = "Percentage"
	ColGrade       = "Grade"
	ColResult      = "Result"
	ColRemarks     = "Remarks"
	ColHRA         = "HRA"
	ColDA          = "DA"
	ColGrossSalary = "Gross Salary"
	ColTax         = "Tax"
	ColNetPayable  = "Net Payable"
)

// Source column names read by the derived-column rules
const (
	ColStudentType = "Student Type"
	ColMaths       = "Maths"
	ColScience     = "Science"
	ColEnglish     = "English"
	ColBaseSalary  = "Base Salary"
)

var (
	Departments = []string{"HR", "Finance", "Engineering", "Marketing", "Sales", "Operations"}
	Products    = []string{"Laptop Pro", "Wireless Mouse", "Mechanical Keyboard", "4K Monitor", "USB-C Hub", "Ergonomic Chair"}
	Hospitals   = []string{"City General", "Metro Health", "Sunrise Clinic", "Unity Hospital"}
	Months      = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
)

// PresetColumns returns the built-in schema for a dataset type.
// Types without a preset, including CUSTOM, return an empty schema.
func PresetColumns(t DatasetType) []Column {
	switch t {
	case DatasetStudent:
		return []Column{
			{Name: "ID", Type: TypeNumber},
			{Name: "Full Name", Type: TypeText},
			{Name: "Class", Type: TypeNumber, Range: &Range{Min: 1, Max: 12}},
			{Name: "City", Type: TypeCity},
			{Name: "Email", Type: TypeEmail},
		}
	case DatasetSchoolFees:
		return []Column{
			{Name: "Admission No", Type: TypeNumber},
			{Name: "Student Name", Type: TypeText},
			{Name: ColStudentType, Type: TypeCategory, Options: []string{"Railways", "Non-Railways", "Staff"}},
			{Name: ColFeeAmount, Type: TypeNumber},
			{Name: "Month", Type: TypeCategory, Options: Months},
		}
	case DatasetReportCard:
		return []Column{
			{Name: "Roll No", Type: TypeNumber},
			{Name: "Student Name", Type: TypeText},
			{Name: ColMaths, Type: TypeSubjectMark},
			{Name: ColScience, Type: TypeSubjectMark},
			{Name: ColEnglish, Type: TypeSubjectMark},
		}
	case DatasetSales:
		return []Column{
			{Name: "Order ID", Type: TypeNumber},
			{Name: "Product", Type: TypeCategory, Options: Products},
			{Name: "Region", Type: TypeCity},
			{Name: "Qty", Type: TypeNumber, Range: &Range{Min: 1, Max: 20}},
			{Name: "Unit Price", Type: TypeCurrency},
			{Name: "Order Date", Type: TypeDate},
		}
	case DatasetPayroll:
		return []Column{
			{Name: "Emp ID", Type: TypeNumber},
			{Name: "Name", Type: TypeText},
			{Name: "Department", Type: TypeCategory, Options: Departments},
			{Name: ColBaseSalary, Type: TypeNumber, Range: &Range{Min: 15000, Max: 80000}},
		}
	case DatasetHospital:
		return []Column{
			{Name: "Patient ID", Type: TypeNumber},
			{Name: "Patient Name", Type: TypeText},
			{Name: "Age", Type: TypeNumber, Range: &Range{Min: 1, Max: 95}},
			{Name: "Hospital", Type: TypeCategory, Options: Hospitals},
			{Name: "Admit Date", Type: TypeDate},
		}
	case DatasetBanking:
		return []Column{
			{Name: "Trans ID", Type: TypeNumber},
			{Name: "Account No", Type: TypeNumber, Range: &Range{Min: 100000, Max: 999999}},
			{Name: "Type", Type: TypeCategory, Options: []string{"Credit", "Debit"}},
			{Name: "Amount", Type: TypeCurrency},
			{Name: "Date", Type: TypeDate},
		}
	default:
		return []Column{}
	}
}

// DerivedColumns returns the names the post-processing rules add for a dataset type
func DerivedColumns(t DatasetType) []string {
	switch t {
	case DatasetSchoolFees:
		return []string{ColFeeAmount, ColStatus}
	case DatasetReportCard:
		return []string{ColTotal, ColPercentage, ColGrade, ColResult, ColRemarks}
	case DatasetPayroll:
		return []string{ColHRA, ColDA, ColGrossSalary, ColTax, ColNetPayable}
	default:
		return nil
	}
}

// OrderedColumns returns the header order for a dataset: declared columns first,
// then derived columns that the schema does not already declare.
func OrderedColumns(columns []Column, t DatasetType) []string {
	names := make([]string, 0, len(columns)+5)
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		names = append(names, col.Name)
		seen[col.Name] = true
	}
	for _, name := range DerivedColumns(t) {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// PracticeTasks returns the practice questions shipped with a dataset type
func PracticeTasks(t DatasetType) []string {
	switch t {
	case DatasetSales:
		return []string{
			"1. Find total sales by Region using a Pivot Table.",
			"2. Calculate 'Total Revenue' (Qty * Unit Price) for each order.",
			"3. Which product has the highest sales quantity?",
			"4. Create a month-wise sales trend chart.",
		}
	case DatasetReportCard:
		return []string{
			"1. Calculate 'Percentage' and 'Grade' using IF conditions.",
			"2. Count how many students failed (Percentage < 35).",
			"3. Find the student with the highest marks in Maths.",
			"4. Create a Bar Chart for student performance.",
		}
	case DatasetSchoolFees:
		return []string{
			"1. Calculate total pending fees for 'Non-Railways' students.",
			"2. Use VLOOKUP to find a student's Fee Status by Admission No.",
			"3. Highlight all 'Pending' statuses in Red using Conditional Formatting.",
			"4. Group data by Month to see collection trends.",
		}
	case DatasetPayroll:
		return []string{
			"1. Calculate HRA (40% of Base) and Gross Salary.",
			"2. Calculate Net Payable after 10% tax deduction.",
			"3. Find total payroll cost for the 'Engineering' department.",
			"4. Sort employees by Net Payable (Highest to Lowest).",
		}
	default:
		return []string{
			"1. Clean the data: Remove duplicate rows.",
			"2. Fix text casing and trim extra spaces from names.",
			"3. Identify and fill missing values in the dataset.",
			"4. Create a meaningful summary using a Pivot Table.",
		}
	}
}
