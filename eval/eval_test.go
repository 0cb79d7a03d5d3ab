package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/nodetree/ir"
	"github.com/stretchr/testify/require"
)

const testDoc = `{"name": "svc", "ports": [80, 443, 8080], "meta": {"team": "core", "tier": 2}}`

func mustJSON(t *testing.T, s string) *ir.Node {
	t.Helper()
	y, err := ir.FromJSON([]byte(s))
	require.NoError(t, err)
	return y
}

func TestEval(t *testing.T) {
	t.Setenv("NODETREE_TEST_VAR", "from-env")
	doc := mustJSON(t, testDoc)
	tests := []struct {
		src  string
		env  Env
		want string
	}{
		{src: `doc.name`, want: `"svc"`},
		{src: `len(doc.ports)`, want: `3`},
		{src: `filter(doc.ports, # > 100)`, want: `[443,8080]`},
		{src: `doc.meta.tier * factor`, env: Env{"factor": 10}, want: `20`},
		{src: `getpath("$.meta.team") + "-" + suffix`, env: Env{"suffix": "x"}, want: `"core-x"`},
		{src: `haspath("$.meta.owner")`, want: `false`},
		{src: `haspath("$.ports[2]")`, want: `true`},
		{src: `whereami()`, want: `"$"`},
		{src: `getenv("NODETREE_TEST_VAR")`, want: `"from-env"`},
		{src: `{"n": doc.name, "l": [1, nil]}`, want: `{"l":[1,null],"n":"svc"}`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Eval(doc, tt.src, tt.env)
			require.NoError(t, err)
			d, err := ir.ToJSON(got)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(d))
		})
	}
}

func TestEvalErrors(t *testing.T) {
	doc := mustJSON(t, testDoc)
	for _, src := range []string{`doc.name +`, `getpath("no-dollar")`, `doc.name / 2`} {
		_, err := Eval(doc, src, nil)
		require.Error(t, err, src)
	}
	_, err := Eval(ir.NewCall(ir.Ident("f")), `1`, nil)
	require.ErrorIs(t, err, ir.ErrNotJSON)
}

func TestSelect(t *testing.T) {
	doc := mustJSON(t, testDoc)
	tests := []struct {
		pred string
		want []string
	}{
		{pred: `kind == "Number" && it > 100`, want: []string{"$.ports[1]", "$.ports[2]"}},
		{pred: `kind == "String"`, want: []string{"$.name", "$.meta.team"}},
		{pred: `path == "$.meta"`, want: []string{"$.meta"}},
		{pred: `whereami() == "$"`, want: []string{"$"}},
		{pred: `false`},
	}
	for _, tt := range tests {
		t.Run(tt.pred, func(t *testing.T) {
			paths, err := Select(doc, tt.pred, nil)
			require.NoError(t, err)
			var got []string
			for _, p := range paths {
				got = append(got, p.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Select(%q) (-want +got):\n%s", tt.pred, diff)
			}
		})
	}
	_, err := Select(doc, `1 + 1`, nil)
	require.Error(t, err)
}

func TestSelectCalls(t *testing.T) {
	doc := ir.Array(ir.NewCall(ir.Ident("jsx"), ir.FromString("div"), ir.Object()), ir.FromInt(1))
	paths, err := Select(doc, `kind == "Call" || it == "div"`, nil)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.Equal(t, "$[0]", paths[0].String())
	require.Equal(t, "$[0][1]", paths[1].String())
}

func TestExpand(t *testing.T) {
	doc := ir.Object(
		ir.KV("greeting", ir.Template([]string{"hello ", "!"}, ir.Ident("who"))),
		ir.KV("sum", ir.Template([]string{"", " items"}, ir.FromString("len(items) + 1"))),
		ir.KV("lit", ir.Template([]string{"n=", ""}, ir.FromInt(3))),
		ir.KV("ref", ir.Template([]string{"", ""}, ir.FromString(`getpath("$.plain")`))),
		ir.KV("plain", ir.FromString("p")),
	)
	got, err := Expand(doc, Env{"who": "world", "items": []int{1, 2}})
	require.NoError(t, err)
	d, err := ir.ToJSON(got)
	require.NoError(t, err)
	require.Equal(t, `{"greeting":"hello world!","sum":"3 items","lit":"n=3","ref":"p","plain":"p"}`, string(d))
	require.Equal(t, ir.TemplateType, doc.Get("greeting").Type)

	_, err = Expand(ir.Template([]string{"", ""}, ir.FromString("1 +")), nil)
	require.Error(t, err)
}
