package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hullbreach/internal/layout"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check structures documents",
	Long: `Parse and validate structures documents (YAML or JSON). Each file is
checked against the document schema, then every layout is parsed into a
grid. Layout errors report the structure and row.

Examples:
  hullbreach validate scenarios/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the structures document JSON schema",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(layout.SchemaSource())
	},
}

func runValidate(_ *cobra.Command, args []string) error {
	loader := layout.NewLoader("", logger)
	failed := 0
	for _, path := range args {
		doc, err := loader.LoadFile(path)
		if err == nil {
			err = doc.Validate()
		}
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s\n      %s\n", path, describeLayoutError(err))
			continue
		}
		fmt.Printf("ok    %s (%s, %d structures)\n", path, doc.ID, len(doc.Structures))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents invalid", failed, len(args))
	}
	return nil
}

// describeLayoutError adds the layout position when err carries one.
func describeLayoutError(err error) string {
	var le *structure.LayoutError
	if errors.As(err, &le) {
		return fmt.Sprintf("%v (row %d)", err, le.Row)
	}
	return err.Error()
}
