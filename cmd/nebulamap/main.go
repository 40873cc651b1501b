// Command nebulamap generates Nebula Graph nGQL statements from a JSON
// document and a YAML mapping file, writing one statement per line to
// stdout.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nebulamap/nebulamap"
	"github.com/nebulamap/nebulamap/graph"
	"github.com/nebulamap/nebulamap/maperr"
	"github.com/nebulamap/nebulamap/mapping"
)

var (
	batchSize  int
	schemaOnly bool
	indexes    bool
	cleanup    bool
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "nebulamap <mapping.yaml> <input.json>",
		Short: "Generate Nebula Graph statements from JSON data",
		Long: `nebulamap reads a YAML mapping file and a JSON document and emits the
nGQL statements that create the schema and insert the data: CREATE TAG and
CREATE EDGE statements first, then batched INSERT statements.

With --indexes or --cleanup the input document is not read: --indexes emits
the index statements for the mapping's indexable properties, --cleanup the
DROP statements undoing the mapping's schema.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().IntVar(&batchSize, "batch-size", graph.DefaultBatchSize, "records per INSERT statement")
	root.Flags().BoolVar(&schemaOnly, "schema-only", false, "emit schema DDL statements only")
	root.Flags().BoolVar(&indexes, "indexes", false, "emit index statements for indexable properties")
	root.Flags().BoolVar(&cleanup, "cleanup", false, "emit DROP statements for the mapping's schema")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")

	if err := root.Execute(); err != nil {
		if kind := maperr.KindOf(err); kind != "" {
			fmt.Fprintf(os.Stderr, "nebulamap: %s error: %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "nebulamap: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	pipeline := nebulamap.New(
		nebulamap.WithLogger(logger),
		nebulamap.WithBatchSize(batchSize),
		nebulamap.WithSchemaOnly(schemaOnly),
	)

	if cleanup {
		m, err := mapping.Load(args[0])
		if err != nil {
			return err
		}
		return emit(pipeline.Cleanup(m))
	}

	if indexes {
		m, err := mapping.Load(args[0])
		if err != nil {
			return err
		}
		statements, err := pipeline.Indexes(m)
		if err != nil {
			return err
		}
		return emit(statements)
	}

	if len(args) < 2 && !schemaOnly {
		return fmt.Errorf("an input JSON file is required unless --schema-only or --cleanup is set")
	}

	if schemaOnly && len(args) < 2 {
		m, err := mapping.Load(args[0])
		if err != nil {
			return err
		}
		statements, err := pipeline.Generate(m, nil)
		if err != nil {
			return err
		}
		return emit(statements)
	}

	statements, err := pipeline.Run(args[0], args[1])
	if err != nil {
		return err
	}
	return emit(statements)
}

func emit(statements []string) error {
	for _, stmt := range statements {
		if _, err := fmt.Fprintln(os.Stdout, stmt); err != nil {
			return err
		}
	}
	return nil
}
