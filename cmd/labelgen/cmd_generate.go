package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"labelgen/internal/labels"
)

var (
	labelFields  labels.Fields
	bulkQuantity int
)

// generateCmd creates one label
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single label",
	Long: `Allocates the next serial number, stores the label and prints it.

Example:
  labelgen generate --wood Oak --length 7in --weight 10g --bracelet Cord --wrap Single`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

// bulkCmd creates N labels with consecutive serials
var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Generate a batch of labels with consecutive serial numbers",
	Long: `Stores N labels sharing the same attributes. Either all N are written or none.

Example:
  labelgen bulk -n 25 --wood Oak --length 7in --weight 10g --bracelet Cord --wrap Single`,
	Args: cobra.NoArgs,
	RunE: runBulk,
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, bulkCmd} {
		c.Flags().StringVar(&labelFields.Wood, "wood", "", "Wood type")
		c.Flags().StringVar(&labelFields.Length, "length", "", "Length")
		c.Flags().StringVar(&labelFields.Weight, "weight", "", "Weight")
		c.Flags().StringVar(&labelFields.Bracelet, "bracelet", "", "Bracelet type")
		c.Flags().StringVar(&labelFields.Wrap, "wrap", "", "Wrap type")
	}
	bulkCmd.Flags().IntVarP(&bulkQuantity, "quantity", "n", 0, "Number of labels (required)")
	_ = bulkCmd.MarkFlagRequired("quantity")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	app, st, err := openApp()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := app.GenerateSingle(ctx, labelFields)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), app.Summary(rec))
	return nil
}

func runBulk(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	app, st, err := openApp()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := app.GenerateBulk(ctx, labelFields, bulkQuantity)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, labels.BulkMessage(len(records)))
	fmt.Fprintf(out, "Serials: %s .. %s\n", records[0].SerialNumber, records[len(records)-1].SerialNumber)
	return nil
}
