package importer

// FeeRow is one line of a fee definition file.
type FeeRow struct {
	ID        string `csv:"id"`
	Code      string `csv:"code"`
	Name      string `csv:"name"`
	Amount    string `csv:"amount"`
	FeeType   string `csv:"fee_type"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
	Active    string `csv:"active"`
}

// HouseholdRow is one line of a household file.
type HouseholdRow struct {
	ID              string `csv:"id"`
	ApartmentNumber string `csv:"apartment_number"`
	HeadResidentID  string `csv:"head_resident_id"`
	Active          string `csv:"active"`
}

// PaymentRow is one line of a payment file. Period is empty on legacy
// exports.
type PaymentRow struct {
	ID          string `csv:"id"`
	FeeID       string `csv:"fee_id"`
	HouseholdID string `csv:"household_id"`
	Amount      string `csv:"amount"`
	Status      string `csv:"status"`
	PaymentDate string `csv:"payment_date"`
	Period      string `csv:"period"`
	Method      string `csv:"method"`
	Note        string `csv:"note"`
}
