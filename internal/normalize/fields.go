package normalize

import (
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// Fields canonicalizes a full raw receipt field map in one pass. Missing
// and unparseable values degrade to empty/zero canonical values; the
// HasAmount/HasDate flags let downstream stages distinguish "not
// extracted" from "extracted as zero".
func Fields(raw models.RawReceiptFields) models.NormalizedFields {
	norm := models.NormalizedFields{
		SenderName:   Name(raw.Get(models.FieldSenderName)),
		SenderIBAN:   IBAN(raw.Get(models.FieldSenderIBAN)),
		ReceiverName: Name(raw.Get(models.FieldReceiverName)),
		ReceiverIBAN: IBAN(raw.Get(models.FieldReceiverIBAN)),
		Description:  Name(raw.Get(models.FieldDescription)),
	}

	if v := raw.Get(models.FieldAmountText); v != "" {
		if amount, err := Amount(v); err == nil {
			norm.Amount = amount
			norm.HasAmount = true
		}
	}
	if v := raw.Get(models.FieldTransactionDate); v != "" {
		if date, err := Date(v); err == nil {
			norm.Date = date
			norm.HasDate = true
		}
	}
	return norm
}
