package docpipe

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/pkg/dbopen"

	"github.com/hazyhaar/odfhtml/odfcontent"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(dbopen.OpenMemory(t))
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return c
}

func TestCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c := testCache(t)

	if _, ok, err := c.Get(ctx, "missing", ""); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	doc := &Document{Title: "T", HTML: "<p>x</p>", RawText: "x", Digest: "abc"}
	if err := c.Put(ctx, "", doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(ctx, "abc", "")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.HTML != doc.HTML || got.Title != doc.Title {
		t.Errorf("got %+v", got)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 1 || stats.Hits != 1 {
		t.Errorf("stats = %+v, want 1 entry 1 hit", stats)
	}
}

func TestCache_PutReplaces(t *testing.T) {
	ctx := context.Background()
	c := testCache(t)

	c.Put(ctx, "", &Document{HTML: "old", Digest: "d"})
	if err := c.Put(ctx, "", &Document{HTML: "new", Digest: "d"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _, _ := c.Get(ctx, "d", "")
	if got.HTML != "new" {
		t.Errorf("HTML = %q, want new", got.HTML)
	}
	stats, _ := c.Stats(ctx)
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1", stats.Entries)
	}
}

func TestCache_OptionsSeparateEntries(t *testing.T) {
	ctx := context.Background()
	c := testCache(t)

	c.Put(ctx, "sanitize=false", &Document{HTML: "raw", Digest: "d"})
	c.Put(ctx, "sanitize=true", &Document{HTML: "clean", Digest: "d"})

	if _, ok, _ := c.Get(ctx, "d", "markdown=true"); ok {
		t.Error("hit for options never stored")
	}
	got, ok, err := c.Get(ctx, "d", "sanitize=true")
	if err != nil || !ok || got.HTML != "clean" {
		t.Errorf("Get(sanitize=true) = %+v, %v, %v", got, ok, err)
	}
	stats, _ := c.Stats(ctx)
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
}

func TestCache_PutEmptyDigest(t *testing.T) {
	if err := testCache(t).Put(context.Background(), "", &Document{}); err == nil {
		t.Fatal("expected error for empty digest")
	}
}

func TestCache_Purge(t *testing.T) {
	ctx := context.Background()
	c := testCache(t)
	c.Put(ctx, "", &Document{Digest: "a"})
	c.Put(ctx, "", &Document{Digest: "b"})

	n, err := c.Purge(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d, want 2", n)
	}

	c.Put(ctx, "", &Document{Digest: "c"})
	if n, _ := c.Purge(ctx, time.Now().Add(-time.Hour)); n != 0 {
		t.Errorf("purged %d fresh entries, want 0", n)
	}
}

func TestPipeline_CacheHit(t *testing.T) {
	// WHAT: a second conversion of identical content is served from the cache.
	// WHY: repeated uploads of the same document must not re-run the engine.
	ctx := context.Background()
	c := testCache(t)
	pipe := New(Config{})
	pipe.SetCache(c)

	data := []byte(textContent(reportBody))
	first, err := pipe.ExtractBytes(ctx, data)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := pipe.ExtractBytes(ctx, data)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Digest != second.Digest || first.HTML != second.HTML {
		t.Errorf("cached document differs: %+v vs %+v", first, second)
	}

	stats, _ := c.Stats(ctx)
	if stats.Entries != 1 || stats.Hits != 1 {
		t.Errorf("stats = %+v, want 1 entry 1 hit", stats)
	}
}

func TestPipeline_CacheRespectsOptions(t *testing.T) {
	// WHAT: pipelines sharing one cache with different settings never serve
	// each other's documents.
	// WHY: a lenient or unsanitised result must not leak into a strict or
	// sanitising pipeline for the same content.
	ctx := context.Background()
	c := testCache(t)

	loose := New(Config{LenientHeadings: true})
	loose.SetCache(c)
	strict := New(Config{Sanitize: true})
	strict.SetCache(c)

	badLevel := []byte(textContent(`<text:h text:outline-level="two">T</text:h>`))
	if _, err := loose.ExtractBytes(ctx, badLevel); err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if _, err := strict.ExtractBytes(ctx, badLevel); !errors.Is(err, odfcontent.ErrMalformedInput) {
		t.Errorf("strict after lenient: err = %v, want ErrMalformedInput", err)
	}

	link := []byte(textContent(`<text:p><text:a xlink:href="javascript:alert(1)">bad</text:a></text:p>`))
	raw, err := loose.ExtractBytes(ctx, link)
	if err != nil {
		t.Fatalf("unsanitised: %v", err)
	}
	if !strings.Contains(raw.HTML, "javascript") {
		t.Fatalf("unsanitised HTML lost the link: %q", raw.HTML)
	}
	clean, err := strict.ExtractBytes(ctx, link)
	if err != nil {
		t.Fatalf("sanitised: %v", err)
	}
	if strings.Contains(clean.HTML, "javascript") {
		t.Errorf("sanitising pipeline served cached raw HTML: %q", clean.HTML)
	}
	if clean.Digest != raw.Digest {
		t.Errorf("digest depends on options: %s vs %s", clean.Digest, raw.Digest)
	}

	withMD := New(Config{Markdown: true})
	withMD.SetCache(c)
	md, err := withMD.ExtractBytes(ctx, link)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if md.Markdown == "" {
		t.Error("markdown pipeline served a cached document without Markdown")
	}
}

func TestOpenCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.db")
	c, err := OpenCache(path)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer c.Close()

	if err := c.Put(context.Background(), "", &Document{Digest: "x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
}
