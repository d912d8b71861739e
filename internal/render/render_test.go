package render

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func parseMember(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}
	return doc.Root()
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "summary_paragraph",
			xml:  `<member><summary>  A   widget. </summary></member>`,
			want: "A widget.\n",
		},
		{
			name: "summary_and_params",
			xml: `<member>
				<summary>Resizes.</summary>
				<param name="size">The new size.</param>
				<returns>The old size.</returns>
			</member>`,
			want: "Resizes.\n\n- `size`: The new size.\n\nReturns: The old size.\n",
		},
		{
			name: "inline_code",
			xml:  `<member><summary>Pass <c>null</c> to reset <paramref name="size"/>.</summary></member>`,
			want: "Pass `null` to reset `size`.\n",
		},
		{
			name: "para_breaks",
			xml:  `<member><summary><para>First.</para><para>Second.</para></summary></member>`,
			want: "First.\n\nSecond.\n",
		},
		{
			name: "code_block",
			xml: `<member><code>
    var w = new Widget();
    w.Resize(2);
</code></member>`,
			want: "```\nvar w = new Widget();\nw.Resize(2);\n```\n",
		},
		{
			name: "raw_cross_reference_falls_back",
			xml:  `<member><summary>See <see cref="T:N.Widget"/>.</summary></member>`,
			want: "See Widget.\n",
		},
		{
			name: "bullet_list",
			xml: `<member><list type="bullet">
				<item><description>first</description></item>
				<item><term>second</term><description>with term</description></item>
			</list></member>`,
			want: "- first\n- **second**: with term\n",
		},
		{
			name: "exception",
			xml:  `<member><exception cref="T:System.ArgumentNullException">when name is null</exception></member>`,
			want: "Throws `ArgumentNullException`: when name is null\n",
		},
		{
			name: "empty_member",
			xml:  `<member></member>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Markdown(parseMember(t, tt.xml)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	el := parseMember(t, `<summary>
		A   widget
		with  wrapped   text.
	</summary>`)
	if got, want := Text(el), "A widget with wrapped text."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHTML(t *testing.T) {
	t.Parallel()

	el := parseMember(t, `<member><summary>Pass <c>null</c> to reset.</summary></member>`)
	html := HTML(el)
	if !strings.Contains(html, "<code>null</code>") {
		t.Errorf("expected inline code in HTML output, got %q", html)
	}

	if got := HTML(parseMember(t, `<member></member>`)); got != "" {
		t.Errorf("empty member rendered %q", got)
	}
}
