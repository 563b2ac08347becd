package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/engine/parser"
)

const fullScript = `
// Identify patients with documented sepsis and an elevated lactate.
phenotype "Sepsis with elevated lactate" version "2";

description "Sepsis plus lactate above threshold";
datamodel OMOP version "5.3";

include ClarityCore version "1.0" called Clarity;

codesystem SNOMED: "http://snomed.info/sct";

termset SepsisTerms: ["sepsis", "septic shock", "septicemia"];
termset LactateTerms: ["lactate", "lactic acid"];

documentset ProviderNotes:
    Clarity.createReportTagList(["Physician", "Nurse", "Discharge summary"]);

cohort SepsisAdmits: "registry:sepsis-admissions";

context Patient;

/* task defines run first, expression defines join them */
define hasSepsis:
    Clarity.ProviderAssertion({
        termset: [SepsisTerms],
        documentset: [ProviderNotes]
    });

define LactateValue:
    Clarity.ValueExtraction({
        termset: [LactateTerms],
        cohort: SepsisAdmits,
        minimum_value: 0,
        maximum_value: 30
    });

define highLactate:
    where LactateValue.value >= 2.0;

define final SepticWithHighLactate:
    where hasSepsis AND highLactate;

limit 100;
debug;
`

func TestParseFullScript(t *testing.T) {
	prog, err := parser.Parse(fullScript)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 16)

	phen, ok := prog.Statements[0].(parser.PhenotypeStmt)
	require.True(t, ok)
	require.Equal(t, "Sepsis with elevated lactate", phen.Name)
	require.Equal(t, "2", phen.Version)

	inc, ok := prog.Statements[3].(parser.IncludeStmt)
	require.True(t, ok)
	require.Equal(t, "ClarityCore", inc.Path)
	require.Equal(t, "Clarity", inc.Alias)

	ts, ok := prog.Statements[5].(parser.TermSetStmt)
	require.True(t, ok)
	require.Equal(t, "SepsisTerms", ts.Name)
	require.Equal(t, []string{"sepsis", "septic shock", "septicemia"}, ts.Terms)

	ds, ok := prog.Statements[7].(parser.DocumentSetStmt)
	require.True(t, ok)
	require.Equal(t, "Clarity.createReportTagList", ds.Call.Name)
	require.Len(t, ds.Call.Positional, 1)
	require.Equal(t, parser.ArgList, ds.Call.Positional[0].Kind)

	coh, ok := prog.Statements[8].(parser.CohortStmt)
	require.True(t, ok)
	require.Equal(t, "registry:sepsis-admissions", coh.Ref)

	def, ok := prog.Statements[10].(parser.DefineStmt)
	require.True(t, ok)
	require.Equal(t, "hasSepsis", def.Name)
	require.False(t, def.Final)
	require.Equal(t, "Clarity.ProviderAssertion", def.Call.Name)
	require.Equal(t, []string{"termset", "documentset"}, def.Call.ObjectKeys)

	vx, ok := prog.Statements[11].(parser.DefineStmt)
	require.True(t, ok)
	require.Equal(t, domain.NumberValue(30), vx.Call.Object["maximum_value"].Literal)

	final, ok := prog.Statements[13].(parser.DefineStmt)
	require.True(t, ok)
	require.True(t, final.Final)
	bin, ok := final.Where.(*domain.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, domain.OpAnd, bin.Op)

	lim, ok := prog.Statements[14].(parser.LimitStmt)
	require.True(t, ok)
	require.Equal(t, 100, lim.N)
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog, err := parser.Parse(`define x: where a OR b AND NOT c;`)
	require.NoError(t, err)

	def := prog.Statements[0].(parser.DefineStmt)
	or, ok := def.Where.(*domain.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, domain.OpOr, or.Op)

	and, ok := or.Right.(*domain.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, domain.OpAnd, and.Op)

	not, ok := and.Right.(*domain.NotExpr)
	require.True(t, ok)
	ref, ok := not.Operand.(*domain.RefExpr)
	require.True(t, ok)
	require.Equal(t, "c", ref.Define)
}

func TestParseMemberReference(t *testing.T) {
	prog, err := parser.Parse(`define x: where Temp.value > 100.4;`)
	require.NoError(t, err)

	def := prog.Statements[0].(parser.DefineStmt)
	cmp := def.Where.(*domain.BinaryExpr)
	require.Equal(t, domain.OpGT, cmp.Op)

	ref := cmp.Left.(*domain.RefExpr)
	require.Equal(t, "Temp", ref.Define)
	require.Equal(t, "value", ref.Member)

	lit := cmp.Right.(*domain.LiteralExpr)
	require.Equal(t, domain.NumberValue(100.4), lit.Value)
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	prog, err := parser.Parse(`define x: where (a OR b) AND c;`)
	require.NoError(t, err)

	def := prog.Statements[0].(parser.DefineStmt)
	and := def.Where.(*domain.BinaryExpr)
	require.Equal(t, domain.OpAnd, and.Op)
	or := and.Left.(*domain.BinaryExpr)
	require.Equal(t, domain.OpOr, or.Op)
}

func TestParseKeywordsAreCaseInsensitive(t *testing.T) {
	prog, err := parser.Parse(`DEFINE Final x: WHERE a AND b;`)
	require.NoError(t, err)
	def := prog.Statements[0].(parser.DefineStmt)
	require.True(t, def.Final)
	require.Equal(t, "x", def.Name)
}

func TestParseMissingColonFails(t *testing.T) {
	_, err := parser.Parse("termset Fever\n  [\"fever\"];")
	require.ErrorIs(t, err, domain.ErrSyntax)
}

func TestParseUnclosedBlockComment(t *testing.T) {
	_, err := parser.Parse(`phenotype "x"; /* never closed`)
	require.ErrorIs(t, err, domain.ErrSyntax)
}

func TestParseUnterminatedString(t *testing.T) {
	_, err := parser.Parse(`phenotype "unterminated;`)
	require.ErrorIs(t, err, domain.ErrSyntax)
}

func TestParseDuplicateObjectKey(t *testing.T) {
	_, err := parser.Parse(`define x: T.Run({a: 1, a: 2});`)
	require.ErrorIs(t, err, domain.ErrSyntax)
}

func TestParseChainedComparisonRejected(t *testing.T) {
	_, err := parser.Parse(`define x: where 1 < a < 3;`)
	require.ErrorIs(t, err, domain.ErrSyntax)
}

func TestParseNegativeLimitRejected(t *testing.T) {
	_, err := parser.Parse(`limit -5;`)
	require.ErrorIs(t, err, domain.ErrSyntax)
}

func TestParseEqualityOperatorForms(t *testing.T) {
	for _, src := range []string{
		`define x: where a == 1;`,
		`define x: where a = 1;`,
	} {
		prog, err := parser.Parse(src)
		require.NoError(t, err)
		def := prog.Statements[0].(parser.DefineStmt)
		cmp := def.Where.(*domain.BinaryExpr)
		require.Equal(t, domain.OpEQ, cmp.Op)
	}
}

func TestParseStringEscapes(t *testing.T) {
	prog, err := parser.Parse(`termset T: ["line\nbreak", "tab\there"];`)
	require.NoError(t, err)
	ts := prog.Statements[0].(parser.TermSetStmt)
	require.Equal(t, []string{"line\nbreak", "tab\there"}, ts.Terms)
}
