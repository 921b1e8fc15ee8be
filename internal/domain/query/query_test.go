package query

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	n int
	f float64
}

func (s fixedSource) IntN(int) int     { return s.n }
func (s fixedSource) Float64() float64 { return s.f }

var params = Params{Date: "31-DEC-2024", GroupCode: "G1"}

const where = " WHERE fic_mis_date = TO_DATE('31-DEC-2024', 'DD-MON-YYYY') AND v_ri_group_code = 'G1';"

// assignments splits "UPDATE t SET a = 1, b = 2 WHERE ..." into its SET pairs.
func assignments(t *testing.T, sql string) [][2]string {
	t.Helper()
	setIdx := strings.Index(sql, " SET ")
	whereIdx := strings.Index(sql, " WHERE ")
	require.True(t, setIdx > 0 && whereIdx > setIdx, "malformed statement: %s", sql)

	body := sql[setIdx+len(" SET ") : whereIdx]
	if body == "" {
		return nil
	}
	var out [][2]string
	for _, part := range strings.Split(body, ", ") {
		kv := strings.SplitN(part, " = ", 2)
		require.Len(t, kv, 2)
		out = append(out, [2]string{kv[0], kv[1]})
	}
	return out
}

func TestBuildGeneral(t *testing.T) {
	b := &Builder{Values: rand.New(rand.NewPCG(1, 2))}
	stmt := b.Build(General, []string{"a", "b"}, params)

	assert.Equal(t, General, stmt.Category)
	assert.Equal(t, "G1", stmt.GroupCode)
	assert.Regexp(t, regexp.MustCompile(`^UPDATE fsi_ri_group_input_detail SET a = \d{5}, b = \d{5} WHERE`), stmt.SQL)
	assert.True(t, strings.HasSuffix(stmt.SQL, where))

	pairs := assignments(t, stmt.SQL)
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		v, err := strconv.Atoi(p[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 10000)
		assert.LessOrEqual(t, v, 20000)
	}
}

func TestBuildGeneralBounds(t *testing.T) {
	lo := (&Builder{Values: fixedSource{n: 0}}).Build(General, []string{"x"}, params)
	assert.Equal(t, "UPDATE fsi_ri_group_input_detail SET x = 10000"+where, lo.SQL)

	hi := (&Builder{Values: fixedSource{n: 10000}}).Build(General, []string{"x"}, params)
	assert.Equal(t, "UPDATE fsi_ri_group_input_detail SET x = 20000"+where, hi.SQL)
}

func TestBuildRate(t *testing.T) {
	b := &Builder{Values: rand.New(rand.NewPCG(7, 7))}
	cols := []string{"r1", "r2", "r3", "r4", "r5", "r6"}
	stmt := b.Build(Rate, cols, params)

	pairs := assignments(t, stmt.SQL)
	require.Len(t, pairs, len(cols))
	twoDecimals := regexp.MustCompile(`^0(\.\d{1,2})?$`)
	for i, p := range pairs {
		assert.Equal(t, cols[i], p[0])
		assert.Regexp(t, twoDecimals, p[1])
		v, err := strconv.ParseFloat(p[1], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.3)
		assert.LessOrEqual(t, v, 0.8)
	}
}

func TestBuildRateFormatting(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{0, "0.3"},
		{0.4, "0.5"},
		{0.3, "0.45"},
		{0.999999, "0.8"},
	}
	for _, tt := range tests {
		stmt := (&Builder{Values: fixedSource{f: tt.f}}).Build(Rate, []string{"r"}, params)
		assert.Equal(t, "UPDATE fsi_ri_group_input_detail SET r = "+tt.want+where, stmt.SQL)
	}
}

func TestBuildZeroCategories(t *testing.T) {
	b := NewBuilder("")
	cols := []string{"t1", "t2", "t3"}
	for _, c := range []Category{Transaction, Acquisition, Input} {
		stmt := b.Build(c, cols, params)
		assert.Equal(t, "UPDATE fsi_ri_group_input_detail SET t1 = 0, t2 = 0, t3 = 0"+where, stmt.SQL, c.String())
	}
}

func TestBuildCustomTable(t *testing.T) {
	stmt := NewBuilder("ri_stage").Build(Input, []string{"c"}, params)
	assert.True(t, strings.HasPrefix(stmt.SQL, "UPDATE ri_stage SET c = 0 WHERE"))
}

func TestBuildInterpolatesVerbatim(t *testing.T) {
	p := Params{Date: "1-jan-2025", GroupCode: "O'BRIEN"}
	stmt := NewBuilder("").Build(Transaction, []string{"c"}, p)
	assert.Contains(t, stmt.SQL, "TO_DATE('1-jan-2025', 'DD-MON-YYYY') AND v_ri_group_code = 'O'BRIEN';")
}

func TestBuildNoColumns(t *testing.T) {
	stmt := NewBuilder("").Build(Acquisition, nil, params)
	assert.Equal(t, "UPDATE fsi_ri_group_input_detail SET "+where, stmt.SQL)
}

func TestBuildAll(t *testing.T) {
	set := ColumnSet{
		General:     []string{"g"},
		Rate:        []string{"r"},
		Transaction: []string{"t"},
		Acquisition: []string{"a"},
		Input:       []string{"i"},
	}
	stmts := NewBuilder("").BuildAll(set, params)
	require.Len(t, stmts, 5)
	for i, c := range Categories() {
		assert.Equal(t, c, stmts[i].Category)
		assert.Contains(t, stmts[i].SQL, "SET "+set.For(c)[0]+" = ")
	}
}

func TestColumnSetEmpty(t *testing.T) {
	assert.True(t, ColumnSet{}.Empty())
	assert.False(t, ColumnSet{Input: []string{"x"}}.Empty())
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "general", General.String())
	assert.Equal(t, "input", Input.String())
	assert.Equal(t, "category(9)", Category(9).String())
}
