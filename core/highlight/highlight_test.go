package highlight

import (
	"regexp"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func plain(markup string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(markup, ""))
}

func TestHighlightPreservesText(t *testing.T) {
	h := Default()
	inputs := []string{
		"Lemma plus_0 : forall n, n + 0 = n.",
		"Proof.\n  intros n. induction n; simpl; auto.\nQed.",
		"Check (fun x => x < 2 && true).",
		`Definition s := "a ""quoted"" string".`,
		"(* comment *) Print nat.\n",
		"Notation \"x ++ y\" := (app x y).",
	}
	for _, in := range inputs {
		out := h.Highlight(in)
		if got := plain(out); got != in {
			t.Errorf("Highlight(%q) loses text:\n  got  %q\n  from %q", in, got, out)
		}
	}
}

func TestHighlightEmitsClasses(t *testing.T) {
	out := Default().Highlight("Theorem t : True.")
	if !strings.Contains(out, `<span class="`) {
		t.Errorf("no classes in %q", out)
	}
}

func TestHighlightEscapes(t *testing.T) {
	out := Default().Highlight("Check (1 < 2).")
	if strings.Contains(out, "< 2") {
		t.Errorf("unescaped markup: %q", out)
	}
	if !strings.Contains(out, "&lt;") {
		t.Errorf("missing &lt; in %q", out)
	}
}

func TestHighlightEmpty(t *testing.T) {
	if got := Default().Highlight(""); got != "" {
		t.Errorf("Highlight(\"\") = %q", got)
	}
}

func TestCSS(t *testing.T) {
	css := Default().CSS()
	if !strings.Contains(css, "."+ContainerClass) {
		t.Errorf("stylesheet not scoped under .%s:\n%s", ContainerClass, css)
	}
	if New("no-such-style").CSS() == "" {
		t.Error("unknown style should fall back, not produce empty CSS")
	}
}
