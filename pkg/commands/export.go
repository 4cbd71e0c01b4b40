package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// HandleExportCommand processes -export: writes the user templates as JSON.
func HandleExportCommand(env Env, filename string) error {
	var buf bytes.Buffer
	if err := env.Templates.ExportUserTemplates(&buf); err != nil {
		return err
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := renameio.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	n := 0
	for _, t := range env.Templates.All() {
		if !t.IsBuiltin {
			n++
		}
	}
	env.printf("Exported %d template(s) to %s\n", n, filename)
	return nil
}
