package query

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// DefaultTable is the reinsurance table every statement targets unless overridden.
const DefaultTable = "fsi_ri_group_input_detail"

const (
	minGeneralValue = 10000
	maxGeneralValue = 20000

	minRate = 0.3
	maxRate = 0.8
)

// Category selects the value-generation policy for a group of columns.
type Category int

const (
	General Category = iota
	Rate
	Transaction
	Acquisition
	Input
)

var categoryNames = [...]string{
	General:     "general",
	Rate:        "rate",
	Transaction: "transaction",
	Acquisition: "acquisition",
	Input:       "input",
}

func (c Category) String() string {
	if c < General || c > Input {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories returns the categories in the order statements are emitted.
func Categories() []Category {
	return []Category{General, Rate, Transaction, Acquisition, Input}
}

// ColumnSet holds the column names of each category, in spreadsheet order.
type ColumnSet struct {
	General     []string `json:"general"`
	Rate        []string `json:"rate"`
	Transaction []string `json:"transaction"`
	Acquisition []string `json:"acquisition"`
	Input       []string `json:"input"`
}

// For returns the columns of the given category.
func (s ColumnSet) For(c Category) []string {
	switch c {
	case General:
		return s.General
	case Rate:
		return s.Rate
	case Transaction:
		return s.Transaction
	case Acquisition:
		return s.Acquisition
	case Input:
		return s.Input
	}
	return nil
}

// Empty reports whether no category has any column.
func (s ColumnSet) Empty() bool {
	for _, c := range Categories() {
		if len(s.For(c)) > 0 {
			return false
		}
	}
	return true
}

// Params are the filter values substituted into the WHERE clause.
type Params struct {
	Date      string
	GroupCode string
}

// Statement is one generated UPDATE.
type Statement struct {
	Category  Category
	GroupCode string
	SQL       string
}

// ValueSource supplies random numbers. *rand.Rand satisfies it.
type ValueSource interface {
	IntN(n int) int
	Float64() float64
}

type globalSource struct{}

func (globalSource) IntN(n int) int   { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// Builder renders UPDATE statements for fsi_ri_group_input_detail-shaped tables.
type Builder struct {
	Table  string
	Values ValueSource
}

// NewBuilder returns a builder backed by the unseeded global generator.
func NewBuilder(table string) *Builder {
	return &Builder{Table: table, Values: globalSource{}}
}

// Build renders the UPDATE for one category of columns.
// Dates and group codes are interpolated as-is.
func (b *Builder) Build(c Category, columns []string, p Params) Statement {
	assignments := make([]string, 0, len(columns))
	for _, col := range columns {
		assignments = append(assignments, col+" = "+b.value(c))
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table())
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assignments, ", "))
	sb.WriteString(" WHERE ")
	sb.WriteString(WhereClause(p))
	sb.WriteString(";")

	return Statement{Category: c, GroupCode: p.GroupCode, SQL: sb.String()}
}

// BuildAll renders one statement per category in emission order.
func (b *Builder) BuildAll(set ColumnSet, p Params) []Statement {
	stmts := make([]Statement, 0, len(categoryNames))
	for _, c := range Categories() {
		stmts = append(stmts, b.Build(c, set.For(c), p))
	}
	return stmts
}

// WhereClause returns the filter shared by every statement.
func WhereClause(p Params) string {
	return fmt.Sprintf("fic_mis_date = TO_DATE('%s', 'DD-MON-YYYY') AND v_ri_group_code = '%s'", p.Date, p.GroupCode)
}

func (b *Builder) table() string {
	if b.Table == "" {
		return DefaultTable
	}
	return b.Table
}

func (b *Builder) source() ValueSource {
	if b.Values == nil {
		return globalSource{}
	}
	return b.Values
}

func (b *Builder) value(c Category) string {
	switch c {
	case General:
		n := minGeneralValue + b.source().IntN(maxGeneralValue-minGeneralValue+1)
		return strconv.Itoa(n)
	case Rate:
		r := minRate + b.source().Float64()*(maxRate-minRate)
		return strconv.FormatFloat(math.Round(r*100)/100, 'f', -1, 64)
	default:
		return "0"
	}
}
