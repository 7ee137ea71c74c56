package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varscope/evf/internal/filter"
)

func newApplyCmd(verbose *bool) *cobra.Command {
	var snpModel, indelModel string

	cmd := &cobra.Command{
		Use:   "apply <input-vcf>",
		Short: "Apply trained SNP and indel models to a VCF",
		Long: `Apply rewrites the FILTER column of a single-sample VCF: records the
matching model predicts to be false positives are tagged EVF_SNP or EVF_IND,
all others are set to ".". The output is written to <stem>.filter.vcf in the
working directory. Input ending in .gz is decompressed transparently.`,
		Example: `  evf apply --snp-model SNP.filter.model.json --indel-model INDEL.filter.model.json calls.vcf
  evf apply --snp-model snp.json --indel-model indel.json calls.vcf.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applier, err := filter.LoadApplier(snpModel, indelModel)
			if err != nil {
				return err
			}
			applier.SetLogger(newLogger(*verbose))

			out, err := applier.Run(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&snpModel, "snp-model", "", "Model artifact for SNP records (required)")
	cmd.Flags().StringVar(&indelModel, "indel-model", "", "Model artifact for indel records (required)")
	cmd.MarkFlagRequired("snp-model")
	cmd.MarkFlagRequired("indel-model")

	return cmd
}
