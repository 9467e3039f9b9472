package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/player"
)

// ProfileSchema describes the persisted player profile document.
func ProfileSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(player.Profile))
	schema.Title = "Gift Storm Player Profile"
	schema.Description = "Meta-progression state saved per player"
	return schema
}

// CatalogSchema describes catalog.yml.
func CatalogSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(new(catalog.File))
	schema.Title = "Gift Storm Catalog"
	schema.Description = "Balance data for upgrades, equipment, enemies, levels and shop products"
	return schema
}

// Schemas maps schema file names to their documents.
func Schemas() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"profile.schema.json": ProfileSchema(),
		"catalog.schema.json": CatalogSchema(),
	}
}

// WriteSchemas writes every schema into dir and returns the written paths.
func WriteSchemas(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create schema directory: %w", err)
	}
	var out []string
	for name, schema := range Schemas() {
		path := filepath.Join(dir, name)
		if err := writeSchema(path, schema); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
