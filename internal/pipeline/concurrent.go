package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/logging"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// sequentialCutoff is the batch size below which the worker pool is not
// worth its overhead.
const sequentialCutoff = 100

// BatchProcessor runs many receipts through a Processor, in parallel for
// large batches. Result order always mirrors input order.
type BatchProcessor struct {
	processor   *Processor
	logger      logging.Logger
	workerCount int
}

// NewBatchProcessor creates a batch runner over an existing Processor.
func NewBatchProcessor(processor *Processor, logger logging.Logger) *BatchProcessor {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &BatchProcessor{
		processor:   processor,
		logger:      logger,
		workerCount: runtime.NumCPU(),
	}
}

// ProcessAll runs every receipt through the pipeline. One receipt failing
// does not abort the batch; its Result carries a zero value and the error
// is returned in the parallel errs slice.
func (bp *BatchProcessor) ProcessAll(ctx context.Context, receipts []models.RawReceiptFields) ([]Result, []error) {
	if len(receipts) < sequentialCutoff {
		return bp.processSequential(ctx, receipts)
	}
	return bp.processConcurrent(ctx, receipts)
}

func (bp *BatchProcessor) processSequential(ctx context.Context, receipts []models.RawReceiptFields) ([]Result, []error) {
	results := make([]Result, len(receipts))
	errs := make([]error, len(receipts))

	for i, raw := range receipts {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		results[i], errs[i] = bp.processor.Process(raw)
	}
	return results, errs
}

type indexedReceipt struct {
	index int
	raw   models.RawReceiptFields
}

type indexedResult struct {
	index  int
	result Result
	err    error
}

func (bp *BatchProcessor) processConcurrent(ctx context.Context, receipts []models.RawReceiptFields) ([]Result, []error) {
	workChan := make(chan indexedReceipt, bp.workerCount)
	resultChan := make(chan indexedResult, len(receipts))

	var wg sync.WaitGroup
	for i := 0; i < bp.workerCount; i++ {
		wg.Add(1)
		go bp.worker(ctx, &wg, workChan, resultChan)
	}

	go func() {
		defer close(workChan)
		for i, raw := range receipts {
			select {
			case workChan <- indexedReceipt{index: i, raw: raw}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result, len(receipts))
	errs := make([]error, len(receipts))
	filled := make([]bool, len(receipts))
	for item := range resultChan {
		results[item.index] = item.result
		errs[item.index] = item.err
		filled[item.index] = true
	}

	// Receipts the workers never picked up after a cancellation must not
	// look like successfully processed zero values.
	if err := ctx.Err(); err != nil {
		for i := range errs {
			if !filled[i] {
				errs[i] = err
			}
		}
	}

	bp.logger.Debug("batch processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(receipts)},
		logging.Field{Key: logging.FieldWorkers, Value: bp.workerCount})

	return results, errs
}

func (bp *BatchProcessor) worker(ctx context.Context, wg *sync.WaitGroup, workChan <-chan indexedReceipt, resultChan chan<- indexedResult) {
	defer wg.Done()

	for {
		select {
		case work, ok := <-workChan:
			if !ok {
				return
			}
			result, err := bp.processor.Process(work.raw)
			select {
			case resultChan <- indexedResult{index: work.index, result: result, err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
