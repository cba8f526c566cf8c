// hebvocab-lookup - fuzzy search over a generated vocabulary file.
// Usage: hebvocab-lookup [options] <query>
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"hebvocab/internal/config"
	"hebvocab/internal/schema"
	"hebvocab/internal/similarity"

	"github.com/spf13/pflag"
)

func main() {
	cfg, _, err := config.Load(config.PathFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags
	pflag.String("config", "", "Path to config.toml")
	vocabulary := pflag.StringP("vocabulary", "V", cfg.Vocabulary.Output, "Vocabulary JSON file")
	maxDistance := pflag.IntP("distance", "n", 2, "Maximum edit distance")
	limit := pflag.IntP("limit", "l", 10, "Maximum results to show")
	gloss := pflag.BoolP("gloss", "g", false, "Search English glosses instead of transliterations")
	jsonOutput := pflag.BoolP("json", "j", false, "Output as JSON")

	pflag.Parse()

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hebvocab-lookup [options] <query>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		pflag.PrintDefaults()
		os.Exit(1)
	}
	query := pflag.Arg(0)

	var doc schema.Vocabulary
	if err := schema.LoadJSON(*vocabulary, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load vocabulary: %v\n", err)
		os.Exit(1)
	}
	if len(doc.Words) == 0 {
		fmt.Fprintf(os.Stderr, "No words found in %s\n", *vocabulary)
		os.Exit(1)
	}

	index := similarity.NewIndex(doc.Words)

	var results []similarity.Result
	if *gloss {
		results = index.SearchGloss(query)
	} else {
		results = index.Lookup(query, *maxDistance)
	}

	if *limit > 0 && len(results) > *limit {
		results = results[:*limit]
	}

	if *jsonOutput {
		output := struct {
			Query   string              `json:"query"`
			MaxDist int                 `json:"max_distance"`
			Count   int                 `json:"count"`
			Results []similarity.Result `json:"results"`
		}{
			Query:   query,
			MaxDist: *maxDistance,
			Count:   len(results),
			Results: results,
		}
		if output.Results == nil {
			output.Results = []similarity.Result{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(results) == 0 {
		fmt.Printf("No matches found for %q within distance %d\n", query, *maxDistance)
		return
	}

	fmt.Printf("Matches for %q in %d words (max distance: %d):\n\n", query, index.Len(), *maxDistance)
	for _, r := range results {
		w := r.Record
		fmt.Printf("  %-7s %-12s %-16s %s (tier %d, distance %d)\n",
			w.ID, w.Hebrew, w.Transliteration, w.Gloss, w.Tier, r.Distance)
	}
	fmt.Printf("\n%d result(s) found\n", len(results))
}
