package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/format"
	"github.com/rpattn/portaldata/internal/proteinarray"
)

// splitList turns a comma separated flag into a trimmed list. An unset flag
// is nil so the facade applies no restriction.
func splitList(cmd *cobra.Command, name, raw string) []string {
	return splitFlag(cmd, name, raw, true)
}

// splitExactList keeps each value as typed; case ids become column names.
func splitExactList(cmd *cobra.Command, name, raw string) []string {
	return splitFlag(cmd, name, raw, false)
}

func splitFlag(cmd *cobra.Command, name, raw string, trim bool) []string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trim {
			part = strings.TrimSpace(part)
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newProteinArrayCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "protein-array",
		Aliases: []string{"rppa"},
		Short:   "Export protein array descriptors and matrices",
	}
	cmd.AddCommand(newProteinArrayInfoCmd(c), newProteinArrayDataCmd(c))
	return cmd
}

func newProteinArrayInfoCmd(c *cli) *cobra.Command {
	var genes, arrayType, formatName, out string
	cmd := &cobra.Command{
		Use:   "info <study-id>",
		Short: "List the protein arrays of a study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format.ParseFormat(formatName)
			if err != nil {
				return err
			}
			svc, closeRepos, err := c.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepos()

			arrays, unresolved, err := svc.ProteinArrays.Info(cmd.Context(), proteinarray.InfoRequest{
				StudyID: args[0],
				Genes:   splitList(cmd, "genes", genes),
				Type:    arrayType,
			})
			if err != nil {
				return err
			}
			if len(unresolved) > 0 {
				c.logger.Warn("genes not found", zap.Strings("tokens", unresolved))
			}

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			if f == format.FormatXLSX {
				_, err = format.WriteInfoXLSX(w, arrays, "protein_array_info")
			} else {
				_, err = format.WriteInfoTSV(w, arrays)
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&genes, "genes", "", "comma separated gene symbols or Entrez ids")
	cmd.Flags().StringVar(&arrayType, "type", "", "array type, e.g. phosphorylation")
	cmd.Flags().StringVar(&formatName, "format", "tsv", "output format (tsv or xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}

func newProteinArrayDataCmd(c *cli) *cobra.Command {
	var arrays, genes, arrayType, cases, formatName, out string
	var arrayInfo bool
	cmd := &cobra.Command{
		Use:   "data <study-id>",
		Short: "Export the abundance matrix of a study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format.ParseFormat(formatName)
			if err != nil {
				return err
			}
			svc, closeRepos, err := c.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepos()

			table, bundle, err := svc.ProteinArrays.Matrix(cmd.Context(), proteinarray.DataRequest{
				StudyID:          args[0],
				ArrayIDs:         splitList(cmd, "arrays", arrays),
				Genes:            splitList(cmd, "genes", genes),
				Type:             arrayType,
				CaseIDs:          splitExactList(cmd, "cases", cases),
				IncludeArrayInfo: arrayInfo,
			})
			if err != nil {
				return err
			}
			if len(bundle.Unresolved) > 0 {
				c.logger.Warn("genes not found", zap.Strings("tokens", bundle.Unresolved))
			}

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			var written int64
			if f == format.FormatXLSX {
				written, err = format.WriteMatrixXLSX(w, table, "protein_array_data")
			} else {
				written, err = format.WriteMatrixTSV(w, table)
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("failed to write matrix: %w", err)
			}
			c.logger.Info("matrix exported",
				zap.String("study_id", args[0]),
				zap.Int("rows", len(table.Rows)),
				zap.Int("columns", len(table.Columns)),
				zap.Int64("bytes", written),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&arrays, "arrays", "", "comma separated array ids")
	cmd.Flags().StringVar(&genes, "genes", "", "comma separated gene symbols or Entrez ids")
	cmd.Flags().StringVar(&arrayType, "type", "", "array type, e.g. phosphorylation")
	cmd.Flags().StringVar(&cases, "cases", "", "comma separated case ids fixing the columns")
	cmd.Flags().BoolVar(&arrayInfo, "array-info", false, "add TYPE, GENE and RESIDUE columns")
	cmd.Flags().StringVar(&formatName, "format", "tsv", "output format (tsv or xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}
