package checker

import (
	"strings"
	"testing"
)

// headDoc builds a document from explicit head markup and an empty body.
func headDoc(head string) string {
	return "<!DOCTYPE html>\n<html lang=\"en\">\n<head>" + head + "</head>\n<body></body>\n</html>"
}

// noindexMeta suppresses the indexed-page requirements in head fixtures.
const noindexMeta = `<meta name="robots" content="noindex">`

func TestCheckCharset(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		head     string
		expected []string
	}{
		{
			name: "charset attribute utf-8",
			head: `<meta charset="utf-8">` + noindexMeta + `<title>X</title>`,
		},
		{
			name: "charset attribute case-insensitive",
			head: `<meta charset="UTF-8">` + noindexMeta + `<title>X</title>`,
		},
		{
			name: "http-equiv content-type",
			head: `<meta http-equiv="Content-Type" content="text/html; charset=utf-8">` + noindexMeta + `<title>X</title>`,
		},
		{
			name: "http-equiv without space",
			head: `<meta http-equiv="Content-Type" content="text/html;charset=utf-8">` + noindexMeta + `<title>X</title>`,
		},
		{
			name:     "wrong charset value",
			head:     `<meta charset="latin-1">` + noindexMeta + `<title>X</title>`,
			expected: []string{"charset"},
		},
		{
			name:     "wrong content-type value",
			head:     `<meta http-equiv="Content-Type" content="text/html; charset=latin-1">` + noindexMeta + `<title>X</title>`,
			expected: []string{"charset"},
		},
		{
			name:     "no declaration at all",
			head:     noindexMeta + `<title>X</title>`,
			expected: []string{"charset"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			path := writeDoc(t, dir, "page.html", headDoc(tc.head))
			rep := runCheck(t, siteConfig(dir), path)
			for _, want := range tc.expected {
				if countType(rep, want) == 0 {
					t.Errorf("expected %s finding, got %v", want, typesOf(rep))
				}
			}
			if len(tc.expected) == 0 && countType(rep, "charset") != 0 {
				t.Errorf("unexpected charset finding: %v", typesOf(rep))
			}
		})
	}
}

func TestHeadStructureRules(t *testing.T) {
	t.Parallel()

	t.Run("missing lang", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeDoc(t, dir, "page.html",
			"<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\">"+noindexMeta+
				"<title>X</title></head>\n<body></body>\n</html>")
		rep := runCheck(t, siteConfig(dir), path)
		if countType(rep, "missing_lang") != 1 {
			t.Errorf("expected missing_lang, got %v", typesOf(rep))
		}
	})

	t.Run("first child not meta", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeDoc(t, dir, "page.html",
			headDoc(`<title>X</title><meta charset="utf-8">`+noindexMeta))
		rep := runCheck(t, siteConfig(dir), path)
		if countType(rep, "head_first_child") != 1 {
			t.Errorf("expected head_first_child, got %v", typesOf(rep))
		}
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeDoc(t, dir, "page.html",
			headDoc(`<meta charset="utf-8">`+noindexMeta))
		rep := runCheck(t, siteConfig(dir), path)
		if countType(rep, "missing_title") != 1 {
			t.Errorf("expected missing_title, got %v", typesOf(rep))
		}
	})

	t.Run("unexpected head item", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeDoc(t, dir, "page.html",
			headDoc(`<meta charset="utf-8">`+noindexMeta+`<title>X</title><template></template>`))
		rep := runCheck(t, siteConfig(dir), path)
		if countType(rep, "head_unexpected_item") != 1 {
			t.Fatalf("expected head_unexpected_item, got %v", typesOf(rep))
		}
		found := false
		for _, f := range rep.Findings {
			if f.Type == "head_unexpected_item" && strings.Contains(f.Message, "<template>") {
				found = true
			}
		}
		if !found {
			t.Error("message should name the offending tag")
		}
	})

	t.Run("style without type", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeDoc(t, dir, "page.html",
			headDoc(`<meta charset="utf-8">`+noindexMeta+`<title>X</title><style>p{}</style>`))
		rep := runCheck(t, siteConfig(dir), path)
		if countType(rep, "style_missing_type") != 1 {
			t.Errorf("expected style_missing_type, got %v", typesOf(rep))
		}
	})
}

func TestHeadLinkRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "style.css", "p{}")

	testCases := []struct {
		name     string
		link     string
		expected []string
	}{
		{"complete stylesheet", `<link rel="stylesheet" type="text/css" href="style.css">`, nil},
		{"stylesheet without type", `<link rel="stylesheet" href="style.css">`, []string{"stylesheet_missing_type"}},
		{"link without rel", `<link type="text/css" href="style.css">`, []string{"link_missing_rel"}},
		{"link without href", `<link rel="stylesheet" type="text/css">`, []string{"link_missing_href"}},
		{"broken stylesheet", `<link rel="stylesheet" type="text/css" href="nope.css">`, []string{"broken_link"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeDoc(t, dir, strings.ReplaceAll(tc.name, " ", "_")+".html",
				headDoc(`<meta charset="utf-8">`+noindexMeta+`<title>X</title>`+tc.link))
			rep := runCheck(t, siteConfig(dir), path)
			got := typesOf(rep)
			if len(tc.expected) == 0 {
				if len(got) != 0 {
					t.Errorf("expected no findings, got %v", got)
				}
				return
			}
			for _, want := range tc.expected {
				if countType(rep, want) == 0 {
					t.Errorf("expected %s, got %v", want, got)
				}
			}
		})
	}
}

// TestBaseHref verifies the <base> element moves relative resolution and
// that unsupported forms fail fast.
func TestBaseHref(t *testing.T) {
	t.Parallel()

	t.Run("dot-relative base moves resolution", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeDoc(t, root, "assets/pic.png", "x")
		// The document sits at the root but declares ./assets as its base,
		// so a bare pic.png reference resolves inside assets/.
		path := writeDoc(t, root, "page.html",
			"<!DOCTYPE html>\n<html lang=\"en\">\n<head><meta charset=\"utf-8\">"+
				noindexMeta+"<title>X</title><base href=\"./assets\"></head>\n"+
				`<body><img src="pic.png" type="image/png" alt="pic"></body></html>`)
		rep := runCheck(t, siteConfig(root), path)
		if countType(rep, "broken_link") != 0 {
			t.Errorf("base-relative image should resolve, got %v", typesOf(rep))
		}
	})

	t.Run("absolute base fails fast", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeDoc(t, root, "page.html",
			headDoc(`<meta charset="utf-8">`+noindexMeta+
				`<title>X</title><base href="https://example.com/">`))
		_, err := New(siteConfig(root)).CheckDocument(path)
		if err == nil {
			t.Fatal("expected an error for a non-relative base")
		}
		if !strings.Contains(err.Error(), "base") {
			t.Errorf("error should mention the base element: %v", err)
		}
	})
}
