package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/lint"
	"github.com/framelint/framelint/pkg/lint/rules"
	"github.com/framelint/framelint/pkg/parser"
)

// lintSrc runs the full catalog over a source snippet, honoring inline
// suppression markers.
func lintSrc(t *testing.T, src string) []lint.Diagnostic {
	t.Helper()
	root, err := parser.New().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	sup := parser.ScanSuppressions([]byte(src))
	engine := lint.NewEngine(rules.All(), nil, nil)
	diags, err := engine.Run(context.Background(), root, sup.Suppresses)
	require.NoError(t, err)
	return diags
}

// lintSrcTable runs the catalog with a project-tuned classification
// table, the way framelint.yaml sentinel and accessor entries land.
func lintSrcTable(t *testing.T, src string, table *dataflow.Table) []lint.Diagnostic {
	t.Helper()
	root, err := parser.New().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	engine := lint.NewEngine(rules.All(), nil, table)
	diags, err := engine.Run(context.Background(), root, nil)
	require.NoError(t, err)
	return diags
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, len(diags))
	for i, d := range diags {
		ids[i] = d.RuleID
	}
	return ids
}

func TestAttributeAccess(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "column as attribute",
			src:  "df = read_csv(\"x.csv\")\ny = df.amount\n",
			want: true,
		},
		{
			name: "reserved attribute",
			src:  "df = read_csv(\"x.csv\")\nn = df.shape\n",
			want: false,
		},
		{
			name: "method call",
			src:  "df = read_csv(\"x.csv\")\ndf = df.head(5)\n",
			want: false,
		},
		{
			name: "attribute on untracked name",
			src:  "y = obj.amount\n",
			want: false,
		},
		{
			name: "attributes inside arithmetic",
			src:  "df = read_csv(\"x.csv\")\ntotal = df.price * df.qty\n",
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRule(t, lintSrc(t, tt.src), "FS01", tt.want)
		})
	}
}

func TestAttributeAccess_Fix(t *testing.T) {
	diags := lintSrc(t, "df = read_csv(\"x.csv\")\ny = df.amount\n")
	require.NotEmpty(t, diags)
	assert.Equal(t, `df["amount"]`, diags[0].Fix)
}

func TestInplaceMutation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "inplace true",
			src:  "df = read_csv(\"x.csv\")\ndf.fillna(0, inplace=True)\n",
			want: true,
		},
		{
			name: "discarded result",
			src:  "df = read_csv(\"x.csv\")\ndf.dropna()\n",
			want: true,
		},
		{
			name: "reassigned result",
			src:  "df = read_csv(\"x.csv\")\ndf = df.dropna()\n",
			want: false,
		},
		{
			name: "inplace false",
			src:  "df = read_csv(\"x.csv\")\ndf = df.fillna(0, inplace=False)\n",
			want: false,
		},
		{
			name: "discarded call on untracked name",
			src:  "thing.dropna()\n",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRule(t, lintSrc(t, tt.src), "FS02", tt.want)
		})
	}
}

func TestBooleanMask(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "bare mask on same frame",
			src:  "df = read_csv(\"x.csv\")\ndf = df[[\"age\"]]\nadults = df[df[\"age\"] >= 18]\n",
			want: true,
		},
		{
			name: "mask through loc",
			src:  "df = read_csv(\"x.csv\")\ndf = df[[\"age\"]]\nadults = df.loc[df[\"age\"] >= 18]\n",
			want: false,
		},
		{
			name: "reversed comparison",
			src:  "df = read_csv(\"x.csv\")\ndf = df[[\"age\"]]\nadults = df[18 <= df[\"age\"]]\n",
			want: true,
		},
		{
			name: "mask from another frame",
			src:  "df = read_csv(\"x.csv\")\ndf = df[[\"age\"]]\nother = read_csv(\"y.csv\")\nother = other[[\"age\"]]\nadults = df[other[\"age\"] >= 18]\n",
			want: false,
		},
		{
			name: "precomputed mask variable",
			src:  "df = read_csv(\"x.csv\")\ndf = df[[\"age\"]]\nadults = df[mask]\n",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRule(t, lintSrc(t, tt.src), "FS03", tt.want)
		})
	}
}

func TestBooleanMask_RowAccessorsTableDriven(t *testing.T) {
	src := "df = read_csv(\"x.csv\")\ndf = df[[\"age\"]]\npicked = df.rows[df[\"age\"] >= 18]\n"

	// An attribute the table does not list is no row accessor; the mask
	// still reaches the frame bare.
	assertRule(t, lintSrc(t, src), "FS03", true)

	table := dataflow.DefaultTable()
	table.RowAccessors["rows"] = true
	table.ReservedAttrs["rows"] = true
	assertRule(t, lintSrcTable(t, src, table), "FS03", false)
}

func TestUnpinnedSchema(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "unpinned frame as call argument",
			src:  "df = read_csv(\"x.csv\")\nprocess(df)\n",
			want: true,
		},
		{
			name: "pinned before use",
			src:  "df = read_csv(\"x.csv\")\ndf = df[[\"id\", \"amount\"]]\nprocess(df)\n",
			want: false,
		},
		{
			name: "unpinned column read",
			src:  "df = read_csv(\"x.csv\")\nx = df[\"amount\"]\n",
			want: true,
		},
		{
			name: "project read wrapper counts as a source",
			src:  "x = read_source()\ny = x['col']\n",
			want: true,
		},
		{
			name: "column write is not a read",
			src:  "df = read_csv(\"x.csv\")\ndf[\"amount\"] = compute()\n",
			want: false,
		},
		{
			name: "unpinned return value",
			src:  "def load():\n    df = read_csv(\"x.csv\")\n    return df\n",
			want: true,
		},
		{
			name: "unpinned merge input",
			src:  "a = read_csv(\"a.csv\")\nz = a.merge(b, how=\"left\", on=\"id\", validate=\"1:1\")\n",
			want: true,
		},
		{
			name: "parameter frames are not unpinned",
			src:  "def process(df):\n    helper(df)\n",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRule(t, lintSrc(t, tt.src), "FS04", tt.want)
		})
	}
}

func TestUnpinnedSchema_SingleFindingPerUse(t *testing.T) {
	diags := lintSrc(t, "x = read_source()\ny = x['col']\n")
	require.Len(t, diags, 1)
	assert.Equal(t, "FS04", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, `"x"`)
	assert.Equal(t, 2, diags[0].Span.Start.Line)
}

func TestUnpinnedSchema_UseBeforePinStillReported(t *testing.T) {
	src := `df = read_csv("x.csv")
x = df["amount"]
df = df[["amount"]]
y = df["amount"]
`
	diags := lintSrc(t, src)
	require.Len(t, diags, 1)
	assert.Equal(t, "FS04", diags[0].RuleID)
	assert.Equal(t, 2, diags[0].Span.Start.Line)
}

func TestMergeContract(t *testing.T) {
	// Every missing argument is its own finding.
	diags := lintSrc(t, "z = a.merge(b)\n")
	require.Len(t, diags, 3)
	messages := ""
	for _, d := range diags {
		assert.Equal(t, "FS05", d.RuleID)
		assert.Equal(t, lint.SeverityError, d.Severity)
		messages += d.Message + "\n"
	}
	assert.Contains(t, messages, `"how"`)
	assert.Contains(t, messages, `"on"`)
	assert.Contains(t, messages, `"validate"`)

	diags = lintSrc(t, "z = a.merge(b, how=\"left\", on=\"id\")\n")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `"validate"`)

	assert.Empty(t, lintSrc(t, "z = a.merge(b, how=\"left\", on=\"id\", validate=\"m:1\")\n"))

	// Top-level merge counts too; non-merge calls never do.
	assertRule(t, lintSrc(t, "z = merge(a, b)\n"), "FS05", true)
	assertRule(t, lintSrc(t, "z = a.concat(b)\n"), "FS05", false)
}

func TestFillerValue(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "zero filler",
			src:  "df = read_csv(\"x.csv\")\ndf[\"discount\"] = 0\n",
			want: true,
		},
		{
			name: "empty string filler",
			src:  "df = read_csv(\"x.csv\")\ndf[\"note\"] = \"\"\n",
			want: true,
		},
		{
			name: "sentinel",
			src:  "df = read_csv(\"x.csv\")\ndf[\"discount\"] = NA\n",
			want: false,
		},
		{
			name: "real value",
			src:  "df = read_csv(\"x.csv\")\ndf[\"discount\"] = 42\n",
			want: false,
		},
		{
			name: "filler on untracked name",
			src:  "thing[\"discount\"] = 0\n",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRule(t, lintSrc(t, tt.src), "FS06", tt.want)
		})
	}
}

func TestFillerValue_DeclaredLiteralSentinel(t *testing.T) {
	src := "df = read_csv(\"x.csv\")\ndf = df[[\"discount\"]]\ndf[\"discount\"] = 0\n"
	assertRule(t, lintSrc(t, src), "FS06", true)

	// A project that declares 0 as its missing-value spelling silences
	// the filler finding for exactly that literal.
	table := dataflow.DefaultTable()
	table.SentinelNames["0"] = true
	diags := lintSrcTable(t, src, table)
	assertRule(t, diags, "FS06", false)
	assertRule(t, lintSrcTable(t, "df = read_csv(\"x.csv\")\ndf = df[[\"note\"]]\ndf[\"note\"] = \"\"\n", table), "FS06", true)
}

func TestParamMutation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "mutates and returns",
			src: `def add_total(df):
    df["total"] = df["price"] * df["qty"]
    return df
`,
			want: true,
		},
		{
			name: "mutates without returning",
			src: `def add_total(df):
    df["total"] = df["price"] * df["qty"]
`,
			want: false,
		},
		{
			name: "copies first",
			src: `def add_total(df):
    out = df.copy()
    out["total"] = out["price"]
    return out
`,
			want: false,
		},
		{
			name: "rebinds the parameter first",
			src: `def narrow(df):
    df = df[["a", "b"]]
    df["c"] = NA
    return df
`,
			want: false,
		},
		{
			name: "non-frame parameter",
			src: `def tag(record):
    record["total"] = 1
    return record
`,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRule(t, lintSrc(t, tt.src), "FS07", tt.want)
		})
	}
}

func TestBranchMergeIsConservative(t *testing.T) {
	// A pin on one path only does not survive the merge, but the frame
	// fact itself is also gone, so no rule fires afterwards either.
	oneArm := `df = read_csv("x.csv")
if flag:
    df = df[["a"]]
process(df)
`
	assertRule(t, lintSrc(t, oneArm), "FS04", false)

	// Pinned on every path keeps the fact.
	bothArms := `df = read_csv("x.csv")
if flag:
    df = df[["a"]]
else:
    df = df[["a"]]
process(df)
y = df.amount
`
	diags := lintSrc(t, bothArms)
	assertRule(t, diags, "FS04", false)
	assertRule(t, diags, "FS01", true)

	// Unpinned on one path is unpinned at the join.
	unpinnedArm := `df = read_csv("x.csv")
df = df[["a"]]
if flag:
    df = read_csv("y.csv")
process(df)
`
	assertRule(t, lintSrc(t, unpinnedArm), "FS04", false)
}

func TestInlineSuppression(t *testing.T) {
	src := `df = read_csv("x.csv")
df.fillna(0, inplace=True)  # framelint: disable=FS02
y = df.amount  # framelint: disable
process(df)
`
	diags := lintSrc(t, src)
	require.Len(t, diags, 1)
	assert.Equal(t, "FS04", diags[0].RuleID)
	assert.Equal(t, 4, diags[0].Span.Start.Line)
}

func TestAll_CatalogShape(t *testing.T) {
	catalog := rules.All()
	assert.Equal(t, 7, catalog.Len())

	listed := catalog.Rules()
	for i, want := range []string{"FS01", "FS02", "FS03", "FS04", "FS05", "FS06", "FS07"} {
		assert.Equal(t, want, listed[i].ID)
		assert.NotEmpty(t, listed[i].Name)
		assert.NotEmpty(t, listed[i].Description)
		assert.NotEmpty(t, listed[i].Rationale)
		assert.NotEmpty(t, listed[i].BadExample)
		assert.NotEmpty(t, listed[i].GoodExample)
	}
}

func assertRule(t *testing.T, diags []lint.Diagnostic, ruleID string, want bool) {
	t.Helper()
	found := false
	for _, d := range diags {
		if d.RuleID == ruleID {
			found = true
		}
	}
	if want {
		assert.True(t, found, "expected %s, got %v", ruleID, ruleIDs(diags))
	} else {
		assert.False(t, found, "unexpected %s in %v", ruleID, ruleIDs(diags))
	}
}
