package transcache_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ZaguanLabs/transcache"
	"github.com/ZaguanLabs/transcache/cache"
	"github.com/ZaguanLabs/transcache/processor"
	"github.com/ZaguanLabs/transcache/provider"
)

// Benchmarks for performance validation

func BenchmarkPartitions_Lookup(b *testing.B) {
	p := cache.NewPartitions(0)
	pair := cache.NewPairKey("en", "fr")
	p.Upsert(pair, "hello", "bonjour")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Lookup(pair, "hello")
	}
}

func BenchmarkPartitions_Upsert(b *testing.B) {
	p := cache.NewPartitions(0)
	pair := cache.NewPairKey("en", "fr")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Upsert(pair, "hello", "bonjour")
	}
}

func BenchmarkHTMLProcessor_Extract_Medium(b *testing.B) {
	proc := processor.NewHTMLProcessor()
	html := `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<nav><a href="/">Home</a><a href="/about">About</a></nav>
	<main>
		<h1>Welcome to Our Site</h1>
		<p>This is a paragraph with some text.</p>
		<ul>
			<li>Item one</li>
			<li>Item two</li>
		</ul>
	</main>
</body>
</html>`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Extract(html)
	}
}

func BenchmarkCoordinator_Cached(b *testing.B) {
	store := cache.NewFileStore(b.TempDir() + "/cache.json")
	p := provider.NewMockProvider()
	c := transcache.NewCoordinator(store, transcache.NewBatchTranslator(p, transcache.WithSleeper(noSleep)))

	texts := make([]string, 50)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}
	in := transcache.Batch(texts...)
	ctx := context.Background()

	// Warm cache (50 texts, 5 batches).
	c.Translate(ctx, in, "en", "es")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Translate(ctx, in, "en", "es")
	}
}

func BenchmarkGetDirection(b *testing.B) {
	for i := 0; i < b.N; i++ {
		transcache.GetDirection("ar-SA")
	}
}
