// Package batch handles batch receipt processing commands
package batch

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Furkanturan8/rent-receipt-matcher/cmd/common"
	"github.com/Furkanturan8/rent-receipt-matcher/cmd/root"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/logging"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/pipeline"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/snapshot"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Process a batch of receipts",
	Long: `Batch reads a JSON array of raw receipt field maps, runs every receipt
through the pipeline concurrently and writes the outcomes as JSON.
One failing receipt does not abort the batch.`,
	Run: batchFunc,
}

// batchOutcome is the per-receipt entry of the batch output document.
type batchOutcome struct {
	Result pipeline.Result `json:"result"`
	Error  string          `json:"error,omitempty"`
}

func batchFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Batch command called")
	root.Log.Infof("Input batch file: %s", root.SharedFlags.Input)
	root.Log.Infof("Snapshot directory: %s", root.SharedFlags.Snapshot)

	if root.SharedFlags.Input == "" {
		root.Log.Fatal("An input batch file is required (--input)")
	}

	processor, err := common.BuildProcessor(root.AppConfig, root.SharedFlags.Snapshot, root.Log)
	if err != nil {
		root.Log.Fatalf("Error building pipeline: %v", err)
	}

	receipts, err := snapshot.LoadReceiptBatch(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error reading batch: %v", err)
	}

	runner := pipeline.NewBatchProcessor(processor, logging.NewLogrusAdapterFromLogger(root.Log))
	results, errs := runner.ProcessAll(context.Background(), receipts)

	outcomes := make([]batchOutcome, len(results))
	counts := map[models.MatchStatus]int{}
	failed := 0
	for i, result := range results {
		outcomes[i].Result = result
		if errs[i] != nil {
			outcomes[i].Error = errs[i].Error()
			failed++
			continue
		}
		counts[result.Match.Status]++
	}

	if err := common.WriteJSON(root.SharedFlags.Output, outcomes); err != nil {
		root.Log.Fatalf("Error writing results: %v", err)
	}

	root.Log.Infof("Batch completed: %d receipts, %d matched, %d for review, %d rejected, %d failed",
		len(receipts), counts[models.StatusMatched], counts[models.StatusManualReview], counts[models.StatusRejected], failed)
}
