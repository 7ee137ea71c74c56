package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/varscope/evf/internal/features"
	"github.com/varscope/evf/internal/filter"
	"github.com/varscope/evf/internal/model"
)

func newTrainCmd(verbose *bool) *cobra.Command {
	var (
		truePos  string
		falsePos string
		vtype    string
		out      string
		tableOut string
		njobs    int
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a SNP or indel filtering model from labeled call sets",
		Long: `Train fits a gradient-boosted tree classifier on feature tables built
from paired true-positive and false-positive VCFs (e.g. from VCFeval).
Multiple pairs may be given as comma-separated lists of equal length; pairs
are processed in parallel. The trained model is written as a JSON artifact,
by default <TYPE>.filter.model.json.`,
		Example: `  evf train --true-pos tp.vcf --false-pos fp.vcf --type SNP
  evf train --true-pos tp1.vcf,tp2.vcf --false-pos fp1.vcf,fp2.vcf --type INDEL --njobs 8
  evf train --true-pos tp.vcf --false-pos fp.vcf --type SNP --table-out features.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, err := features.ParseVariantType(vtype)
			if err != nil {
				return &model.ConfigError{Message: err.Error()}
			}

			jobs := njobs
			if jobs <= 0 {
				jobs = viper.GetInt("train.njobs")
			}

			trainer := filter.NewTrainer()
			trainer.SetLogger(newLogger(*verbose))

			outPath, err := trainer.Run(filter.TrainOptions{
				TruePos:  truePos,
				FalsePos: falsePos,
				Type:     vt,
				Out:      out,
				Jobs:     jobs,
				TableOut: tableOut,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&truePos, "true-pos", "", "True-positive VCF path or comma-separated list (required)")
	cmd.Flags().StringVar(&falsePos, "false-pos", "", "False-positive VCF path or comma-separated list (required)")
	cmd.Flags().StringVar(&vtype, "type", "", "Variant type to train: SNP or INDEL (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Model output path (default <TYPE>.filter.model.json)")
	cmd.Flags().StringVar(&tableOut, "table-out", "", "Export the labeled training table to a DuckDB database")
	cmd.Flags().IntVarP(&njobs, "njobs", "n", 0, "Worker and classifier thread count (default from config, 2)")
	cmd.MarkFlagRequired("true-pos")
	cmd.MarkFlagRequired("false-pos")
	cmd.MarkFlagRequired("type")

	return cmd
}
