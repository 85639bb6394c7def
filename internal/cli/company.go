package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"esgboard/internal/dto"
)

// Company info is edited as YAML with the same field names the API uses.

func newCompanyCommand(app *App) *cobra.Command {
	company := &cobra.Command{
		Use:   "company",
		Short: "Print the company profile as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.client.CompanyInfo(cmd.Context())
			if err != nil {
				return err
			}
			return writeYAML(app, info)
		},
	}

	var file string
	update := &cobra.Command{
		Use:   "update",
		Short: "Replace the company profile from a YAML file",
		Long: `Replaces the overall information, sites and products of the company with
the content of a YAML file in the format printed by "esgctl company".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			info, err := readCompanyYAML(data)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			saved, err := app.client.UpdateCompanyInfo(cmd.Context(), info)
			if err != nil {
				return err
			}
			return writeYAML(app, saved)
		},
	}
	update.Flags().StringVarP(&file, "file", "f", "", "YAML file with the company profile")
	_ = update.MarkFlagRequired("file")
	company.AddCommand(update)
	return company
}

func writeYAML(app *App, info dto.CompanyInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	// json.Number keeps integers and large revenues out of exponent form.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(app.Out)
	enc.SetIndent(2)
	if err := enc.Encode(plainNumbers(doc)); err != nil {
		return err
	}
	return enc.Close()
}

// plainNumbers replaces json.Number values, which yaml.v3 writes as quoted
// strings, with int64 or float64.
func plainNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = plainNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = plainNumbers(e)
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}

func readCompanyYAML(data []byte) (dto.CompanyInfo, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return dto.CompanyInfo{}, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return dto.CompanyInfo{}, err
	}
	var info dto.CompanyInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return dto.CompanyInfo{}, err
	}
	if info.OverallInfor.CompanyName == "" {
		return dto.CompanyInfo{}, fmt.Errorf("overallInfor.companyName is required")
	}
	return info, nil
}
