package checker

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// analyticsTag builds a head script element loading an analytics build.
func analyticsTag(file, extra string) string {
	return `<script src="/assets/` + file + `" type="text/javascript" ` + extra + `></script>`
}

// indexedDoc builds a document without the noindex opt-out, with the given
// head extras and body.
func indexedDoc(headExtra, body string) string {
	return "<!DOCTYPE html>\n<html lang=\"en\">\n<head><meta charset=\"utf-8\"><title>X</title>" +
		headExtra + "</head>\n<body>" + body + "</body>\n</html>"
}

const breadcrumbScript = `<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList","itemListElement":[]}</script>`

// writeAnalyticsAsset creates the analytics file an analyticsTag references.
func writeAnalyticsAsset(t *testing.T, root, file string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, "assets"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "assets", file), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyticsRules(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		file     string
		extra    string
		expected []string
	}{
		{
			name:  "conforming analytics",
			file:  "analytics-v4.min.js",
			extra: "async",
		},
		{
			name:     "not minified",
			file:     "analytics-v4.js",
			extra:    "async",
			expected: []string{"analytics_not_minified"},
		},
		{
			name:     "old version",
			file:     "analytics-v3.min.js",
			extra:    "async",
			expected: []string{"analytics_version"},
		},
		{
			name:     "missing async",
			file:     "analytics-v4.min.js",
			extra:    "",
			expected: []string{"analytics_missing_async"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			writeAnalyticsAsset(t, root, tc.file)
			path := writeDoc(t, root, "page.html",
				indexedDoc(analyticsTag(tc.file, tc.extra)+breadcrumbScript, ""))
			rep := runCheck(t, siteConfig(root), path)
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

// TestIndexedPageRequirements verifies indexable pages must carry analytics
// and BreadcrumbList structured data, and that noindex lifts both.
func TestIndexedPageRequirements(t *testing.T) {
	t.Parallel()

	t.Run("bare indexed page", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeDoc(t, root, "page.html", indexedDoc("", ""))
		rep := runCheck(t, siteConfig(root), path)
		if countType(rep, "no_analytics") != 1 || countType(rep, "no_breadcrumb_list") != 1 {
			t.Errorf("expected no_analytics and no_breadcrumb_list, got %v", typesOf(rep))
		}
	})

	t.Run("noindex suppresses both", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeDoc(t, root, "page.html", quietDoc("Page", ""))
		rep := runCheck(t, siteConfig(root), path)
		if len(rep.Findings) != 0 {
			t.Errorf("expected no findings, got %v", typesOf(rep))
		}
	})

	t.Run("breadcrumb counted from json-ld", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeAnalyticsAsset(t, root, "analytics-v4.min.js")
		path := writeDoc(t, root, "page.html",
			indexedDoc(analyticsTag("analytics-v4.min.js", "async")+breadcrumbScript, ""))
		rep := runCheck(t, siteConfig(root), path)
		if len(rep.Findings) != 0 {
			t.Errorf("expected no findings, got %v", typesOf(rep))
		}
		if rep.ScriptTypes["BreadcrumbList"] != 1 {
			t.Errorf("ScriptTypes = %v", rep.ScriptTypes)
		}
	})
}

func TestHideNavBootstrap(t *testing.T) {
	t.Parallel()

	exact := `<script>` + hideNavBootstrap + `</script>`

	t.Run("exact form in head accepted", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeDoc(t, root, "page.html",
			headDoc(`<meta charset="utf-8">`+noindexMeta+`<title>X</title>`+exact))
		rep := runCheck(t, siteConfig(root), path)
		if len(rep.Findings) != 0 {
			t.Errorf("expected no findings, got %v", typesOf(rep))
		}
	})

	t.Run("variant form flagged", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		variant := `<script>if(parent===window){document.documentElement.className="hide_nav"}</script>`
		path := writeDoc(t, root, "page.html",
			headDoc(`<meta charset="utf-8">`+noindexMeta+`<title>X</title>`+variant))
		rep := runCheck(t, siteConfig(root), path)
		if countType(rep, "hide_nav_mismatch") != 1 {
			t.Errorf("expected hide_nav_mismatch, got %v", typesOf(rep))
		}
	})

	t.Run("bootstrap in body flagged", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeDoc(t, root, "page.html", quietDoc("Page", exact))
		rep := runCheck(t, siteConfig(root), path)
		if countType(rep, "hide_nav_in_body") != 1 {
			t.Errorf("expected hide_nav_in_body, got %v", typesOf(rep))
		}
		// Misplaced, it is an ordinary body script and the type rules apply.
		if countType(rep, "script_missing_type") != 1 {
			t.Errorf("expected script_missing_type as well, got %v", typesOf(rep))
		}
	})

	t.Run("bootstrap in body with type gets only the placement warning", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		typed := `<script type="text/javascript">` + hideNavBootstrap + `</script>`
		path := writeDoc(t, root, "page.html", quietDoc("Page", typed))
		rep := runCheck(t, siteConfig(root), path)
		if got := typesOf(rep); !reflect.DeepEqual(got, []string{"hide_nav_in_body"}) {
			t.Errorf("expected only hide_nav_in_body, got %v", got)
		}
	})
}

func TestScriptTypeRules(t *testing.T) {
	t.Parallel()

	t.Run("missing type", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeDoc(t, root, "page.html", quietDoc("Page", `<script>var x=1;</script>`))
		rep := runCheck(t, siteConfig(root), path)
		if countType(rep, "script_missing_type") != 1 {
			t.Errorf("expected script_missing_type, got %v", typesOf(rep))
		}
	})

	t.Run("unexpected type", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeDoc(t, root, "page.html",
			quietDoc("Page", `<script type="module">var x=1;</script>`))
		rep := runCheck(t, siteConfig(root), path)
		if countType(rep, "script_unexpected_type") != 1 {
			t.Errorf("expected script_unexpected_type, got %v", typesOf(rep))
		}
	})

	t.Run("malformed json-ld terminates", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeDoc(t, root, "page.html",
			quietDoc("Page", `<script type="application/ld+json">{not json</script>`))
		_, err := New(siteConfig(root)).CheckDocument(path)
		if err == nil {
			t.Fatal("expected an error for malformed structured data")
		}
		if !strings.Contains(err.Error(), "structured data") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestMediaRules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, f := range []string{"clip.mp4", "clip.oga", "poster.png"} {
		if err := os.WriteFile(filepath.Join(root, f), []byte{1}, 0600); err != nil {
			t.Fatal(err)
		}
	}

	testCases := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name: "direct src with type",
			body: `<audio src="clip.oga" type="audio/ogg" controls></audio>`,
		},
		{
			name:     "direct src without type",
			body:     `<audio src="clip.oga" controls></audio>`,
			expected: []string{"media_missing_type"},
		},
		{
			name: "sources with types and poster",
			body: `<video poster="poster.png" controls><source src="clip.mp4" type="video/mp4"></video>`,
		},
		{
			name:     "source without type",
			body:     `<video controls><source src="clip.mp4"></video>`,
			expected: []string{"media_missing_type"},
		},
		{
			name:     "broken source",
			body:     `<video controls><source src="gone.mp4" type="video/mp4"></video>`,
			expected: []string{"broken_link"},
		},
		{
			name:     "broken poster",
			body:     `<video poster="gone.png" controls><source src="clip.mp4" type="video/mp4"></video>`,
			expected: []string{"broken_link"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeDoc(t, root, strings.ReplaceAll(tc.name, " ", "_")+".html",
				quietDoc("Page", tc.body))
			rep := runCheck(t, siteConfig(root), path)
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
