// Package match handles single-receipt matching commands
package match

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Furkanturan8/rent-receipt-matcher/cmd/common"
	"github.com/Furkanturan8/rent-receipt-matcher/cmd/root"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/snapshot"
)

// Cmd represents the match command
var Cmd = &cobra.Command{
	Use:   "match",
	Short: "Match one receipt against the candidate snapshot",
	Long: `Match reads the raw OCR fields of a single receipt from a JSON file,
runs the full pipeline and writes the outcome as JSON.`,
	Run: matchFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.ExpectedAmount, "expected-amount", "", "Expected payment amount to validate against")
}

func matchFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Match command called")
	root.Log.Infof("Input receipt file: %s", root.SharedFlags.Input)
	root.Log.Infof("Snapshot directory: %s", root.SharedFlags.Snapshot)

	if root.SharedFlags.Input == "" {
		root.Log.Fatal("An input receipt file is required (--input)")
	}

	processor, err := common.BuildProcessor(root.AppConfig, root.SharedFlags.Snapshot, root.Log)
	if err != nil {
		root.Log.Fatalf("Error building pipeline: %v", err)
	}

	if root.ExpectedAmount != "" {
		expected, err := decimal.NewFromString(root.ExpectedAmount)
		if err != nil {
			root.Log.Fatalf("Invalid expected amount %q: %v", root.ExpectedAmount, err)
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

	if err := common.WriteJSON(root.SharedFlags.Output, result); err != nil {
		root.Log.Fatalf("Error writing result: %v", err)
	}

	root.Log.Infof("Receipt processed: %s with confidence %.1f", result.Match.Status, result.Match.Confidence)
}
