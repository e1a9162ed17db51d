// Command vaultseek is a minimal console front-end over the search
// library: it indexes a directory tree once at startup, then reads
// queries from stdin (or a single query from the command line) and
// prints matching paths. Flag shape modeled on cmd/zoekt/main.go.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/SNisin/VaultSeek/internal/bigram"
	"github.com/SNisin/VaultSeek/internal/importer"
	"github.com/SNisin/VaultSeek/internal/query"
	"github.com/SNisin/VaultSeek/internal/search"
	"github.com/SNisin/VaultSeek/internal/tree"
	"github.com/SNisin/VaultSeek/internal/vlog"
)

func main() {
	root := flag.String("root", ".", "directory to index")
	ignore := flag.String("ignore", "", "comma-separated doublestar glob patterns to skip while indexing")
	limit := flag.Int("limit", 50, "maximum number of results to print")
	sortBy := flag.String("sort", "", "sort field: filename, size, modified, created")
	desc := flag.Bool("desc", false, "sort descending instead of ascending")
	structured := flag.Bool("q", false, "treat the query as the structured DSL instead of a plain substring search")
	verbose := flag.Bool("v", false, "enable debug logging")

	flag.Usage = func() {
		name := os.Args[0]
		fmt.Fprintf(os.Stderr, "Usage:\n\n  %s [options] [QUERY]\n"+
			"for example\n\n  %s -root ~/Documents report\n\n"+
			"If QUERY is omitted, queries are read one per line from stdin.\n\n", name, name)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		os.Setenv("VAULTSEEK_LOG_LEVEL", "debug")
	}
	sync := vlog.Init()
	defer sync()
	log := vlog.Get()

	t := tree.New()
	var ignorePatterns []string
	if *ignore != "" {
		ignorePatterns = strings.Split(*ignore, ",")
	}
	n, err := importer.Walk(t, *root, importer.Options{Ignore: ignorePatterns, Logger: log})
	if err != nil {
		log.Fatal("indexing failed", zap.Error(err))
	}
	log.Info("indexed directory", zap.String("root", *root), zap.Int("elements", n))

	bi, err := bigram.Build(t)
	if err != nil {
		log.Fatal("building bigram index failed", zap.Error(err))
	}
	searcher := search.NewSearcher(t, bi)

	field, order := parseSort(*sortBy, *desc)

	if args := flag.Args(); len(args) > 0 {
		runQuery(t, bi, searcher, strings.Join(args, " "), *structured, field, order, *limit)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			continue
		}
		runQuery(t, bi, searcher, q, *structured, field, order, *limit)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		log.Error("reading stdin", zap.Error(err))
	}
}

func parseSort(name string, desc bool) (search.SortField, search.SortOrder) {
	order := search.Ascending
	if desc {
		order = search.Descending
	}
	switch strings.ToLower(name) {
	case "filename":
		return search.SortFilename, order
	case "size":
		return search.SortSize, order
	case "modified":
		return search.SortModified, order
	case "created":
		return search.SortCreated, order
	default:
		return search.SortNone, order
	}
}

func runQuery(t *tree.FileTree, bi *bigram.Index, s *search.Searcher, raw string, structured bool, field search.SortField, order search.SortOrder, limit int) {
	var results []uint64
	if structured {
		q := query.Parse(raw)
		matches, err := search.Evaluate(t, bi, q)
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrapf(err, "evaluating query %q", raw))
			return
		}
		results = s.Sort(matches, field, order)
	} else {
		results = s.Search(raw, field, order)
	}

	for i, idx := range results {
		if i >= limit {
			fmt.Printf("... %d more\n", len(results)-limit)
			break
		}
		printResult(t, idx)
	}
}

func printResult(t *tree.FileTree, idx uint64) {
	name := t.FilenameOf(int(idx))
	e, _ := t.Get(int(idx))
	path := t.FullPath(e.Parent)
	full := name
	if path != "" {
		full = path + `\` + name
	}

	var sizeStr, modStr string
	if e.Size != nil {
		sizeStr = strconv.FormatInt(*e.Size, 10)
	}
	if e.Modified != nil {
		modStr = time.Unix(*e.Modified, 0).Format(time.RFC3339)
	}
	fmt.Printf("%s\t%s\t%s\n", full, sizeStr, modStr)
}
