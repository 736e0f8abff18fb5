// Package snapshot loads the point-in-time candidate data the matcher
// runs against. Candidate entities come from CSV exports of the backend;
// receipts come as JSON documents of raw OCR fields.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/logging"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// File names expected inside a snapshot directory.
const (
	OwnersFile     = "owners.csv"
	CustomersFile  = "customers.csv"
	PropertiesFile = "properties.csv"
	ContractsFile  = "contracts.csv"
)

const contractDateLayout = "2006-01-02"

// contractRow is the CSV projection of a rental contract. Dates travel as
// strings and are parsed into the model after unmarshalling.
type contractRow struct {
	ID          int64  `csv:"id"`
	PropertyID  int64  `csv:"property_id"`
	TenantID    int64  `csv:"tenant_id"`
	MonthlyRent string `csv:"monthly_rent"`
	PaymentDay  int    `csv:"payment_day"`
	StartDate   string `csv:"start_date"`
	EndDate     string `csv:"end_date"`
	Status      string `csv:"status"`
}

// Loader reads candidate snapshots from disk.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a snapshot Loader.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Loader{logger: logger}
}

// Load reads all candidate files from dir into a Snapshot. A missing
// contracts file yields an empty contract list; the other three files are
// required.
func (l *Loader) Load(dir string) (models.Snapshot, error) {
	var snap models.Snapshot

	if err := readCSV(filepath.Join(dir, OwnersFile), &snap.Owners); err != nil {
		return snap, fmt.Errorf("loading owners: %w", err)
	}
	if err := readCSV(filepath.Join(dir, CustomersFile), &snap.Customers); err != nil {
		return snap, fmt.Errorf("loading customers: %w", err)
	}
	if err := readCSV(filepath.Join(dir, PropertiesFile), &snap.Properties); err != nil {
		return snap, fmt.Errorf("loading properties: %w", err)
	}

	contracts, err := l.loadContracts(filepath.Join(dir, ContractsFile))
	if err != nil {
		return snap, fmt.Errorf("loading contracts: %w", err)
	}
	snap.Contracts = contracts

	l.logger.Info("snapshot loaded",
		logging.Field{Key: logging.FieldSnapshotDir, Value: dir},
		logging.Field{Key: "owners", Value: len(snap.Owners)},
		logging.Field{Key: "customers", Value: len(snap.Customers)},
		logging.Field{Key: "properties", Value: len(snap.Properties)},
		logging.Field{Key: "contracts", Value: len(snap.Contracts)})

	return snap, nil
}

func (l *Loader) loadContracts(path string) ([]models.RentalContract, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		l.logger.Warn("contracts file missing, contract checks will report errors",
			logging.Field{Key: logging.FieldInputFile, Value: path})
		return nil, nil
	}

	var rows []contractRow
	if err := readCSV(path, &rows); err != nil {
		return nil, err
	}

	contracts := make([]models.RentalContract, 0, len(rows))
	for _, row := range rows {
		contract, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("contract %d: %w", row.ID, err)
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

func (r contractRow) toModel() (models.RentalContract, error) {
	contract := models.RentalContract{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		TenantID:   r.TenantID,
		PaymentDay: r.PaymentDay,
		Status:     r.Status,
	}

	if r.MonthlyRent != "" {
		rent, err := decimal.NewFromString(r.MonthlyRent)
		if err != nil {
			return contract, fmt.Errorf("monthly_rent: %w", err)
		}
		contract.MonthlyRent = rent
	}
	if r.StartDate != "" {
		start, err := time.Parse(contractDateLayout, r.StartDate)
		if err != nil {
			return contract, fmt.Errorf("start_date: %w", err)
		}
		contract.StartDate = start
	}
	if r.EndDate != "" {
		end, err := time.Parse(contractDateLayout, r.EndDate)
		if err != nil {
			return contract, fmt.Errorf("end_date: %w", err)
		}
		contract.EndDate = end
	}
	return contract, nil
}

func readCSV(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gocsv.UnmarshalFile(file, out)
}

// LoadReceiptFields reads a single receipt's raw OCR fields from a JSON
// document mapping field names to extracted strings.
func LoadReceiptFields(path string) (models.RawReceiptFields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fields models.RawReceiptFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing receipt %s: %w", path, err)
	}
	return fields, nil
}

// LoadReceiptBatch reads a JSON array of raw receipt field maps.
func LoadReceiptBatch(path string) ([]models.RawReceiptFields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batch []models.RawReceiptFields
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing receipt batch %s: %w", path, err)
	}
	return batch, nil
}
