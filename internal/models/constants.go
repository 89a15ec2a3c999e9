package models

// Fee types. The set is open: stores may carry other tags and they pass
// through the engine unchanged.
const (
	FeeTypeMandatory    FeeType = "mandatory"
	FeeTypeVoluntary    FeeType = "voluntary"
	FeeTypeContribution FeeType = "contribution"
	FeeTypeParking      FeeType = "parking"
)

// Payment statuses
const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// Payment methods commonly recorded by the collection workflow
const (
	MethodCash     = "cash"
	MethodTransfer = "bank_transfer"
	MethodCard     = "card"
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
