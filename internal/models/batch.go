package models

import (
	"strings"
	"time"

	"ri_query/internal/domain/query"
)

// DefaultArtifactName is the file name offered for downloads and written by the CLI.
const DefaultArtifactName = "ri_update_queries.txt"

// Statement is a generated UPDATE together with what it was generated for.
type Statement struct {
	Category  string `json:"category"`
	GroupCode string `json:"group_code"`
	SQL       string `json:"sql"`
}

// Batch is the output of one run: five statements per group code, in order.
type Batch struct {
	Date        string      `json:"fic_mis_date"`
	GroupCodes  []string    `json:"group_codes"`
	Statements  []Statement `json:"statements"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// NewBatch creates an empty batch for the given parameters.
func NewBatch(date string, codes []string) *Batch {
	return &Batch{
		Date:        date,
		GroupCodes:  codes,
		Statements:  make([]Statement, 0, len(codes)*len(query.Categories())),
		GeneratedAt: time.Now().UTC(),
	}
}

// Append adds generated statements to the batch.
func (b *Batch) Append(stmts ...query.Statement) {
	for _, s := range stmts {
		b.Statements = append(b.Statements, Statement{
			Category:  s.Category.String(),
			GroupCode: s.GroupCode,
			SQL:       s.SQL,
		})
	}
}

// Len returns the number of statements.
func (b *Batch) Len() int {
	return len(b.Statements)
}

// SQL returns the statements in generation order.
func (b *Batch) SQL() []string {
	out := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		out[i] = s.SQL
	}
	return out
}

// Text renders the artifact: one statement per line, separated by a blank line.
func (b *Batch) Text() string {
	if b.Len() == 0 {
		return ""
	}
	return strings.Join(b.SQL(), "\n\n") + "\n"
}
