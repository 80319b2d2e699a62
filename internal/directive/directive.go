package directive

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"simreport/internal/reduce"
)

// #region raw

// raw mirrors one report entry as it appears in config, before reduction
// resolution. Save policy and format stay unvalidated here: they are checked
// at first use by the pipeline.
type raw struct {
	Type        string `yaml:"type" json:"type"`
	VarName     string `yaml:"varname" json:"varname"`
	Function    string `yaml:"function" json:"function"`
	Scale       string `yaml:"scale" json:"scale"`
	IDs         int    `yaml:"ids" json:"ids"`
	Split       bool   `yaml:"split" json:"split"`
	Format      string `yaml:"format" json:"format"`
	Save        string `yaml:"save" json:"save"`
	InitialOnly bool   `yaml:"initial_only" json:"initial_only"`
}

func (r raw) build(name string) (Directive, error) {
	red, err := reduce.Resolve(r.Function)
	if err != nil {
		return Directive{}, &ConfigError{Directive: name, Field: "function", Msg: err.Error()}
	}
	return Directive{
		Name:        name,
		EntityType:  r.Type,
		VarName:     r.VarName,
		Reduction:   red,
		GroupScale:  r.Scale,
		GroupCount:  r.IDs,
		Split:       r.Split,
		Format:      Format(r.Format),
		Save:        SavePolicy(r.Save),
		InitialOnly: r.InitialOnly,
	}, nil
}

// #endregion raw

// #region yaml-load

// Load reads a YAML report config from disk.
func Load(path string) ([]Directive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes the top-level report mapping, preserving the declared
// directive order. Order matters only for output file write order, but a
// config author reading the export log expects it to follow the file.
func Parse(data []byte) ([]Directive, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse config: top level must be a mapping")
	}

	var report *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "report" {
			report = root.Content[i+1]
			break
		}
	}
	if report == nil {
		return nil, nil
	}
	if report.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse config: report must be a mapping")
	}

	table := make([]Directive, 0, len(report.Content)/2)
	for i := 0; i+1 < len(report.Content); i += 2 {
		name := report.Content[i].Value
		var r raw
		if err := report.Content[i+1].Decode(&r); err != nil {
			return nil, fmt.Errorf("parse directive %q: %w", name, err)
		}
		d, err := r.build(name)
		if err != nil {
			return nil, err
		}
		table = append(table, d)
	}
	return table, nil
}

// #endregion yaml-load

// #region from-map

// FromMap builds the table from an already-parsed nested mapping, for hosts
// that own config parsing themselves. Go maps carry no declared order, so
// names are sorted to keep write order deterministic.
func FromMap(report map[string]any) ([]Directive, error) {
	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	table := make([]Directive, 0, len(names))
	for _, name := range names {
		fields, ok := report[name].(map[string]any)
		if !ok {
			return nil, &ConfigError{Directive: name, Msg: fmt.Sprintf("entry must be a mapping, got %T", report[name])}
		}
		r := raw{
			Type:        stringField(fields, "type"),
			VarName:     stringField(fields, "varname"),
			Function:    stringField(fields, "function"),
			Scale:       stringField(fields, "scale"),
			IDs:         intField(fields, "ids"),
			Split:       boolField(fields, "split"),
			Format:      stringField(fields, "format"),
			Save:        stringField(fields, "save"),
			InitialOnly: boolField(fields, "initial_only"),
		}
		d, err := r.build(name)
		if err != nil {
			return nil, err
		}
		table = append(table, d)
	}
	return table, nil
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// #endregion from-map
