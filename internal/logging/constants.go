package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldReceipt       = "receipt"
	FieldCriterion     = "criterion"
	FieldScore         = "score"
	FieldConfidence    = "confidence"
	FieldStatus        = "status"
	FieldOwnerID       = "owner_id"
	FieldCustomerID    = "customer_id"
	FieldPropertyID    = "property_id"
	FieldContractID    = "contract_id"
	FieldTransactionID = "transaction_id"
	FieldReason        = "reason"
	FieldError         = "error"
	FieldCount         = "count"
	FieldWorkers       = "workers"
	FieldInputFile     = "input_file"
	FieldSnapshotDir   = "snapshot_dir"
)
