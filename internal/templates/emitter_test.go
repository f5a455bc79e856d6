package templates

import (
	goparser "go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/extractgen/internal/annotations"
	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/parser"
	"github.com/toyz/extractgen/internal/strategy"
)

// emit runs the declaration pipeline on a single declaration
func emit(t *testing.T, source string) *models.GeneratedImplementation {
	t.Helper()

	pkg, err := parser.NewParser().ParseSource("handlers.go", "package handlers\n\n"+source)
	require.NoError(t, err)
	require.Len(t, pkg.Declarations, 1)
	decl := pkg.Declarations[0]

	config, diags := annotations.NewParser().Parse(decl)
	require.Empty(t, diags)

	validated, diags := strategy.NewValidator().Validate(decl, config, parser.Inspect(decl))
	require.Empty(t, diags)

	impl, err := NewEmitter().Emit(validated, strategy.NewSelector().Select(validated))
	require.NoError(t, err)
	return impl
}

// assertInOrder checks that each fragment occurs after the previous one
func assertInOrder(t *testing.T, source string, fragments ...string) {
	t.Helper()
	offset := 0
	for _, fragment := range fragments {
		idx := strings.Index(source[offset:], fragment)
		if idx < 0 {
			t.Fatalf("%q not found after offset %d in:\n%s", fragment, offset, source)
		}
		offset += idx + len(fragment)
	}
}

func assertParses(t *testing.T, impl *models.GeneratedImplementation) {
	t.Helper()
	src := "package handlers\n\n" + impl.Source
	_, err := goparser.ParseFile(token.NewFileSet(), "gen.go", src, 0)
	require.NoError(t, err, src)
}

func TestEmitDirect(t *testing.T) {
	impl := emit(t, `
//extract::derive
type Pair struct {
	A A
	B B
}`)

	assert.Equal(t, "Pair", impl.TypeName)
	assert.IsType(t, &models.DirectStrategy{}, impl.Strategy)
	assertParses(t, impl)
	assertInOrder(t, impl.Source,
		"func (x *Pair) Extract(ctx context.Context, r *http.Request, state any) error {",
		"var out Pair",
		"if err := extract.Into(ctx, r, state, &out.A); err != nil {",
		`return extract.FieldRejection("Pair", "A", err)`,
		"if err := extract.Into(ctx, r, state, &out.B); err != nil {",
		`return extract.FieldRejection("Pair", "B", err)`,
		"*x = out",
		"return nil",
		"var _ extract.Extractor = (*Pair)(nil)",
	)
	assert.NotContains(t, impl.Source, "extract.Converter")
}

func TestEmitDirectFieldKinds(t *testing.T) {
	impl := emit(t, `
//extract::derive
type CreateUser struct {
	*Session
	ID extract.RequestID
	//extract::field -Via=extract.Json
	Body Payload
	User *Account
}`)

	assertParses(t, impl)
	assertInOrder(t, impl.Source,
		"out.Session = new(Session)",
		"extract.Into(ctx, r, state, out.Session)",
		`extract.FieldRejection("CreateUser", "Session", err)`,
		"extract.Into(ctx, r, state, &out.ID)",
		"var via2 extract.Json[Payload]",
		"extract.Into(ctx, r, state, &via2)",
		`extract.FieldRejection("CreateUser", "Body", err)`,
		"out.Body = via2.Inner()",
		"out.User = new(Account)",
		"extract.Into(ctx, r, state, out.User)",
		"*x = out",
	)
}

func TestEmitFieldOverridesWithSimilarNames(t *testing.T) {
	impl := emit(t, `
//extract::derive
type Both struct {
	//extract::field -Via=extract.Query
	body Params
	//extract::field -Via=extract.Json
	Body Params
}`)

	assertParses(t, impl)
	assertInOrder(t, impl.Source,
		"var via0 extract.Query[Params]",
		"out.body = via0.Inner()",
		"var via1 extract.Json[Params]",
		"out.Body = via1.Inner()",
	)

	// every local is declared once
	for _, local := range []string{"var via0 ", "var via1 "} {
		if n := strings.Count(impl.Source, local); n != 1 {
			t.Errorf("%q declared %d times:\n%s", local, n, impl.Source)
		}
	}
}

func TestEmitNewtype(t *testing.T) {
	impl := emit(t, `
//extract::derive
type Token extract.Bearer`)

	assertParses(t, impl)
	assert.NotContains(t, impl.Source, "var out")
	assertInOrder(t, impl.Source,
		"func (x *Token) Extract(",
		"var inner extract.Bearer",
		"extract.Into(ctx, r, state, &inner)",
		`extract.FieldRejection("Token", "", err)`,
		"*x = Token(inner)",
		"var _ extract.Extractor = (*Token)(nil)",
	)
}

func TestEmitDelegated(t *testing.T) {
	impl := emit(t, `
//extract::derive -Via=extract.Json[T]
type Extractor[T any] struct {
	Value T
}`)

	assert.IsType(t, &models.DelegatedStrategy{}, impl.Strategy)
	assertParses(t, impl)
	assertInOrder(t, impl.Source,
		"func (x *Extractor[T]) Extract(ctx context.Context, r *http.Request, state any) error {",
		"var via extract.Json[T]",
		"if err := extract.Into(ctx, r, state, &via); err != nil {",
		"return err",
		"var out Extractor[T]",
		"if err := out.FromVia(via); err != nil {",
		`return extract.ConversionRejection("Extractor", err)`,
		"*x = out",
		"return nil",
	)
	assert.NotContains(t, impl.Source, "var _ extract.Extractor", "generic receivers get no assertion")
}

func TestEmitDelegatedWithConvert(t *testing.T) {
	impl := emit(t, `
//extract::derive -Via=extract.Json[Page[T]] -Convert=fromPage
type Listing[T any] struct {
	Items []T
}`)

	assertParses(t, impl)
	assertInOrder(t, impl.Source,
		"var via extract.Json[Page[T]]",
		"out, err := fromPage[T](via)",
		"if err != nil {",
		`return extract.ConversionRejection("Listing", err)`,
		"*x = out",
	)
	assert.NotContains(t, impl.Source, "FromVia")
}

func TestEmitDelegatedPointerVia(t *testing.T) {
	impl := emit(t, `
//extract::derive -Via=*forms.Login
type Login struct {
	User string
}`)

	assertParses(t, impl)
	assertInOrder(t, impl.Source,
		"via := new(forms.Login)",
		"extract.Into(ctx, r, state, via)",
		"var out Login",
		"out.FromVia(via)",
		"*x = out",
		"var _ extract.Extractor = (*Login)(nil)",
		"var _ extract.Converter[*forms.Login] = (*Login)(nil)",
	)
}

func TestEmitCustomRejection(t *testing.T) {
	direct := emit(t, `
//extract::derive -Rejection=apiError
type Pair struct {
	A A
}`)
	assert.Contains(t, direct.Source, `return extract.RejectAs[apiError](extract.FieldRejection("Pair", "A", err))`)

	delegated := emit(t, `
//extract::derive -Via=extract.Json[Body] -Rejection=errs.API
type Wrapped struct {
	Body Body
}`)
	assertInOrder(t, delegated.Source,
		"return extract.RejectAs[errs.API](err)",
		`return extract.RejectAs[errs.API](extract.ConversionRejection("Wrapped", err))`,
	)
}

func TestEmitSkipsBlankFields(t *testing.T) {
	impl := emit(t, `
//extract::derive
type Padded struct {
	_ struct{}
	A A
}`)

	assertParses(t, impl)
	assert.NotContains(t, impl.Source, "out._")
	assert.Contains(t, impl.Source, "&out.A")
}

func TestEmitIsDeterministic(t *testing.T) {
	source := `
//extract::derive
type Pair struct {
	A A
	B *B
}`
	assert.Equal(t, emit(t, source).Source, emit(t, source).Source)
}
