// Package validate handles standalone validation commands
package validate

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Furkanturan8/rent-receipt-matcher/cmd/common"
	"github.com/Furkanturan8/rent-receipt-matcher/cmd/root"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/snapshot"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one receipt without creating a transaction record",
	Long: `Validate runs a receipt through normalization, matching and the business
rules, then reports only the validation outcome. Useful for checking
receipts before committing them to a batch.`,
	Run: validateFunc,
}

var expectedAmount string

func init() {
	Cmd.Flags().StringVar(&expectedAmount, "expected-amount", "", "Expected payment amount to validate against")
}

func validateFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Validate command called")
	root.Log.Infof("Input receipt file: %s", root.SharedFlags.Input)

	if root.SharedFlags.Input == "" {
		root.Log.Fatal("An input receipt file is required (--input)")
	}

	processor, err := common.BuildProcessor(root.AppConfig, root.SharedFlags.Snapshot, root.Log)
	if err != nil {
		root.Log.Fatalf("Error building pipeline: %v", err)
	}

	if expectedAmount != "" {
		expected, err := decimal.NewFromString(expectedAmount)
		if err != nil {
			root.Log.Fatalf("Invalid expected amount %q: %v", expectedAmount, err)
		}
		processor = processor.WithExpectedAmount(expected)
	}

	raw, err := snapshot.LoadReceiptFields(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error reading receipt: %v", err)
	}

	result, err := processor.Process(raw)
	if err != nil {
		root.Log.Fatalf("Error processing receipt: %v", err)
	}

	if err := common.WriteJSON(root.SharedFlags.Output, result.Validation); err != nil {
		root.Log.Fatalf("Error writing result: %v", err)
	}

	if !result.Validation.IsValid {
		root.Log.Warnf("Validation failed with %d error(s)", len(result.Validation.Errors))
		return
	}
	root.Log.Info("Validation passed")
}
