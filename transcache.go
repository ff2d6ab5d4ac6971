// Package transcache translates text through an external provider and
// memoizes every result in a persistent cache partitioned by language pair.
//
// A Coordinator consults the cache, sends only the misses to a
// BatchTranslator (fixed-size batches, a pause between batches, untranslated
// passthrough when a batch fails), puts the results back in input order and
// persists the new entries once per request.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/transcache"
//	    "github.com/ZaguanLabs/transcache/cache"
//	    "github.com/ZaguanLabs/transcache/provider"
//	)
//
//	func main() {
//	    store := cache.NewFileStore("translation_cache.json")
//	    store.Load(context.Background())
//
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    c := transcache.NewCoordinator(store, transcache.NewBatchTranslator(p))
//
//	    result, err := c.Translate(context.Background(),
//	        transcache.Batch("hello", "world"), "en", "fr")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Items[0].Translated) // bonjour
//	}
package transcache
