package resolve

import (
	"strings"
	"sync"
	"testing"

	"github.com/beevik/etree"

	"github.com/dotpages/clrdoc/internal/descriptor"
	"github.com/dotpages/clrdoc/internal/xmldoc"
)

const testDoc = `<?xml version="1.0"?>
<doc>
  <assembly><name>Acme.Widgets</name></assembly>
  <members>
    <member name="T:Acme.Widgets.Widget">
      <summary>See <see cref="T:Acme.Widgets.GetWidgetCommand"/> for retrieval.</summary>
    </member>
    <member name="T:Acme.Widgets.GetWidgetCommand">
      <summary>Retrieves widgets.</summary>
    </member>
    <member name="M:N.C.Foo(System.Int32,System.Int32[])">
      <summary>Adds two numbers</summary>
    </member>
    <member name="T:Acme.Widgets.Labeled">
      <summary>Use <see cref="T:Acme.Widgets.Widget">the widget type</see> here.</summary>
    </member>
    <member name="T:Acme.Widgets.External">
      <summary>Wraps a <see cref="T:Other.Lib.Thing"/>.</summary>
    </member>
    <member name="T:Acme.Widgets.Deep">
      <summary><para>Nested <see cref="T:Acme.Widgets.Widget"/> ref.</para></summary>
    </member>
  </members>
</doc>`

func mustStore(t *testing.T) *xmldoc.Store {
	t.Helper()
	store, err := xmldoc.Parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return store
}

// fakeResolver resolves one command and one type.
type fakeResolver struct{}

func (fakeResolver) CommandName(id string) (string, bool) {
	if id == "T:Acme.Widgets.GetWidgetCommand" {
		return "Get-Widget", true
	}
	return "", false
}

func (fakeResolver) TypeName(id string) (string, bool) {
	if id == "T:Acme.Widgets.Widget" {
		return "Widget", true
	}
	return "", false
}

func summaryText(t *testing.T, frag *etree.Element) string {
	t.Helper()
	if frag == nil {
		t.Fatal("nil fragment")
	}
	summary := frag.SelectElement("summary")
	if summary == nil {
		t.Fatal("fragment has no summary")
	}
	var b strings.Builder
	flattenText(summary, &b)
	return b.String()
}

func flattenText(el *etree.Element, b *strings.Builder) {
	for _, tok := range el.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			b.WriteString(v.Data)
		case *etree.Element:
			flattenText(v, b)
		}
	}
}

func TestRewriterCollapsesCrossReferences(t *testing.T) {
	t.Parallel()

	rw := NewRewriter(StoreLookup{Store: mustStore(t)}, fakeResolver{})

	tests := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "command_renders_verb_noun",
			id:   "T:Acme.Widgets.Widget",
			want: "See Get-Widget for retrieval.",
		},
		{
			name: "literal_text_wins",
			id:   "T:Acme.Widgets.Labeled",
			want: "Use the widget type here.",
		},
		{
			name: "unknown_type_falls_back_to_last_segment",
			id:   "T:Acme.Widgets.External",
			want: "Wraps a Thing.",
		},
		{
			name: "markers_inside_nested_elements",
			id:   "T:Acme.Widgets.Deep",
			want: "Nested Widget ref.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, err := rw.Comments(Target{ID: tt.id})
			if err != nil {
				t.Fatalf("Comments: %v", err)
			}
			if got := summaryText(t, frag); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriterResolvedTypeName(t *testing.T) {
	t.Parallel()

	store := mustStore(t)
	doc := `<member name="x"><summary><see cref="T:Acme.Widgets.Widget"/></summary></member>`
	el := etree.NewDocument()
	if err := el.ReadFromString(doc); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}

	rw := NewRewriter(StoreLookup{Store: store}, fakeResolver{})
	rw.rewrite(el.Root())

	var b strings.Builder
	flattenText(el.Root(), &b)
	if got := b.String(); got != "Widget" {
		t.Errorf("got %q, want %q", got, "Widget")
	}
}

func TestFallbackDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cref string
		want string
	}{
		{"T:System.String", "String"},
		{"M:N.C.Foo(System.Int32)", "Foo"},
		{"T:Widget", "Widget"},
		{"Widget", "Widget"},
		{"N.C.Widget", "Widget"},
	}
	for _, tt := range tests {
		t.Run(tt.cref, func(t *testing.T) {
			if got := fallbackDisplay(tt.cref); got != tt.want {
				t.Errorf("fallbackDisplay(%q) = %q, want %q", tt.cref, got, tt.want)
			}
		})
	}
}

// countingLookup counts how many times each identifier reaches it.
type countingLookup struct {
	next Lookup

	mu    sync.Mutex
	calls map[string]int
}

func (c *countingLookup) Comments(t Target) (*etree.Element, error) {
	c.mu.Lock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[t.ID]++
	c.mu.Unlock()
	return c.next.Comments(t)
}

func (c *countingLookup) count(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[id]
}

func TestCacheComputesOnce(t *testing.T) {
	t.Parallel()

	counting := &countingLookup{next: StoreLookup{Store: mustStore(t)}}
	cache := NewCache(counting, 16)

	target := Target{ID: "M:N.C.Foo(System.Int32,System.Int32[])"}
	for i := 0; i < 5; i++ {
		frag, err := cache.Comments(target)
		if err != nil {
			t.Fatalf("Comments: %v", err)
		}
		if got := summaryText(t, frag); got != "Adds two numbers" {
			t.Errorf("got %q, want %q", got, "Adds two numbers")
		}
	}
	if n := counting.count(target.ID); n != 1 {
		t.Errorf("inner lookup called %d times, want 1", n)
	}

	// Misses are memoized too.
	missing := Target{ID: "T:Not.There"}
	for i := 0; i < 3; i++ {
		if frag, err := cache.Comments(missing); err != nil || frag != nil {
			t.Fatalf("Comments(missing) = %v, %v", frag, err)
		}
	}
	if n := counting.count(missing.ID); n != 1 {
		t.Errorf("inner lookup called %d times for miss, want 1", n)
	}
}

func TestCacheReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	cache := NewCache(StoreLookup{Store: mustStore(t)}, 16)
	target := Target{ID: "M:N.C.Foo(System.Int32,System.Int32[])"}

	first, err := cache.Comments(target)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	first.SelectElement("summary").SetText("mutated")

	second, err := cache.Comments(target)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if got := summaryText(t, second); got != "Adds two numbers" {
		t.Errorf("cached fragment corrupted by caller mutation: %q", got)
	}
}

func TestReporterFiresOncePerMissingIdentifier(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		reports []Target
	)
	report := func(target Target) {
		mu.Lock()
		reports = append(reports, target)
		mu.Unlock()
	}

	pipeline := NewPipeline(StoreLookup{Store: mustStore(t)}, fakeResolver{}, 16, report)

	present := Target{ID: "T:Acme.Widgets.Widget", Subject: "type Widget"}
	missing := Target{ID: "T:Acme.Widgets.Gone", Subject: "type Gone"}
	other := Target{ID: "P:Acme.Widgets.Widget.Size", Subject: "property Size"}

	for i := 0; i < 3; i++ {
		if _, err := pipeline.Comments(present); err != nil {
			t.Fatalf("Comments: %v", err)
		}
		if frag, err := pipeline.Comments(missing); err != nil || frag != nil {
			t.Fatalf("Comments(missing) = %v, %v", frag, err)
		}
	}
	if _, err := pipeline.Comments(other); err != nil {
		t.Fatalf("Comments: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2: %v", len(reports), reports)
	}
	if reports[0].ID != missing.ID || reports[0].Subject != "type Gone" {
		t.Errorf("unexpected first report: %+v", reports[0])
	}
	if reports[1].ID != other.ID {
		t.Errorf("unexpected second report: %+v", reports[1])
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	store := mustStore(t)
	pipeline := NewPipeline(StoreLookup{Store: store}, NewTableResolver(nil, store), 16, nil)

	m := descriptor.MethodRef{
		Owner: descriptor.TypeRef{
			Namespace: "N",
			TypeName:  descriptor.TypeName{Name: "C"},
		},
		Name: "Foo",
		Params: []descriptor.Type{
			descriptor.Named{FullName: "System.Int32"},
			descriptor.Array{Elem: descriptor.Named{FullName: "System.Int32"}, Rank: 1},
		},
	}
	target, err := TargetFor(m, "method Foo")
	if err != nil {
		t.Fatalf("TargetFor: %v", err)
	}
	if target.ID != "M:N.C.Foo(System.Int32,System.Int32[])" {
		t.Fatalf("unexpected identifier %q", target.ID)
	}

	frag, err := pipeline.Comments(target)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if got := summaryText(t, frag); got != "Adds two numbers" {
		t.Errorf("got %q, want %q", got, "Adds two numbers")
	}
}

func TestStoreSetLookupFirstHitWins(t *testing.T) {
	t.Parallel()

	a, err := xmldoc.Parse([]byte(`<doc><assembly><name>A</name></assembly><members><member name="T:X"><summary>from A</summary></member></members></doc>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := xmldoc.Parse([]byte(`<doc><assembly><name>B</name></assembly><members><member name="T:X"><summary>from B</summary></member><member name="T:Y"><summary>only B</summary></member></members></doc>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	set := StoreSetLookup{Stores: []*xmldoc.Store{a, b}}

	frag, err := set.Comments(Target{ID: "T:X"})
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if got := summaryText(t, frag); got != "from A" {
		t.Errorf("got %q, want %q", got, "from A")
	}

	frag, err = set.Comments(Target{ID: "T:Y"})
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if got := summaryText(t, frag); got != "only B" {
		t.Errorf("got %q, want %q", got, "only B")
	}

	if frag, err := set.Comments(Target{ID: "T:Z"}); err != nil || frag != nil {
		t.Errorf("Comments(T:Z) = %v, %v, want nil, nil", frag, err)
	}
}
