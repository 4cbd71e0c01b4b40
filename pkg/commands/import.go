package commands

import (
	"fmt"
	"os"
)

// HandleImportCommand processes -import: merges templates from a JSON file.
func HandleImportCommand(env Env, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	defer f.Close()

	report, err := env.Templates.Import(f)
	if err != nil {
		return err
	}

	env.printf("Imported %d template(s) from %s\n", len(report.Added), filename)
	for _, t := range report.Skipped {
		env.printf("  skipped %q (%s): a template with that title and category exists\n", t.Title, t.Category)
	}
	return nil
}
