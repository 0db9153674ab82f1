package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flipforge/dealshield/internal/model"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// resultFile is the on-disk form of an analyzed deal: the result and the
// export meta captured when it was produced.
type resultFile struct {
	Result *model.AnalyzeResult `json:"result"`
	Meta   model.ExportMeta     `json:"meta"`
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readDoc decodes a JSON or YAML file into dst. YAML is routed through JSON
// so custom JSON decoding on dst still applies.
func readDoc(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if isYAMLPath(path) {
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return eris.Wrapf(err, "parse yaml %s", path)
		}
		if data, err = json.Marshal(tree); err != nil {
			return eris.Wrapf(err, "convert yaml %s", path)
		}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}

// writeDoc encodes v as JSON or YAML. YAML keys follow the JSON tags.
func writeDoc(w io.Writer, v any, format string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal json")
	}
	if format != formatYAML {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return eris.Wrap(err, "convert to yaml")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return eris.Wrap(err, "marshal yaml")
	}
	return enc.Close()
}

// saveDoc writes v to path, picking YAML by extension.
func saveDoc(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	format := formatJSON
	if isYAMLPath(path) {
		format = formatYAML
	}
	if err := writeDoc(f, v, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadResult reads a result file. A bare result without the meta envelope is
// accepted too.
func loadResult(path string) (*resultFile, error) {
	var rf resultFile
	if err := readDoc(path, &rf); err != nil {
		return nil, err
	}
	if rf.Result != nil {
		return &rf, nil
	}

	var bare model.AnalyzeResult
	if err := readDoc(path, &bare); err != nil {
		return nil, err
	}
	return &resultFile{Result: &bare}, nil
}

// parseSets parses repeated field=value edits. An empty value clears the
// field.
func parseSets(sets []string) (map[string]*float64, error) {
	out := make(map[string]*float64, len(sets))
	for _, s := range sets {
		name, raw, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, eris.Errorf("--set %q: expected field=value", s)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			out[name] = nil
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "--set %s", name)
		}
		out[name] = &v
	}
	return out, nil
}

// financing resolves the export financing assumptions from config and any
// flag overrides on cmd.
func financing(cmd *cobra.Command) model.Financing {
	fin := cfg.Defaults.Financing()
	f := cmd.Flags()
	if f.Changed("holding-months") {
		fin.HoldingMonths, _ = f.GetInt("holding-months")
	}
	if f.Changed("interest-rate") {
		fin.AnnualInterestRate, _ = f.GetFloat64("interest-rate")
	}
	if f.Changed("ltc") {
		fin.LoanToCostPct, _ = f.GetFloat64("ltc")
	}
	return fin
}

// addFinancingFlags registers the flags read by financing.
func addFinancingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("address", "", "property address to use on exports when the draft has none")
	f.Int("holding-months", 0, "holding months shown on exports (default from config)")
	f.Float64("interest-rate", 0, "annual interest rate % shown on exports (default from config)")
	f.Float64("ltc", 0, "loan-to-cost % shown on exports (default from config)")
}
