package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/kalder-cloud/reagent/internal/config"
	corpusrepo "github.com/kalder-cloud/reagent/internal/repository/corpus"
	retrievaluc "github.com/kalder-cloud/reagent/internal/usecase/retrieval"
)

// reagent-search queries the local corpus directly, without the agent loop
// or a running server. Useful for inspecting what the retriever would return.
func main() {
	var (
		k   = flag.Int("k", retrievaluc.DefaultTopK, "number of results")
		dir = flag.String("corpus", "", "corpus directory (default: config corpus.dir)")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: reagent-search [-k N] [-corpus DIR] <query>")
		os.Exit(2)
	}
	query := flag.Arg(0)

	corpusDir := *dir
	if corpusDir == "" {
		cfg, err := config.Load(config.GetEnv())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		corpusDir = cfg.Corpus.Dir
	}

	docs, path, err := corpusrepo.Load(corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "corpus: %s (%d documents)\n", path, len(docs))

	results := retrievaluc.New(docs).Search(context.Background(), query, *k)

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode results: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
