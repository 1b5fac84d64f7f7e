// Package edi parses segmented flat-file purchase order documents into a
// normalized in-memory model and checks the model's structural invariants.
//
// Parsing happens in two passes: Tokenize splits raw text into segments
// using configurable delimiters, and BuildDocument walks the segment
// sequence once to assemble a Document. ValidateStructure then verifies the
// trailer-declared totals against the parsed content. Business semantics
// (prices, party identities) are left to later pipeline stages.
package edi

import "github.com/shopspring/decimal"

// Document is a fully parsed purchase order.
type Document struct {
	Interchange InterchangeHeader `json:"interchange"`
	Group       GroupHeader       `json:"group"`

	// Transaction header fields from the BEG segment.
	Purpose  string `json:"purpose"`
	POType   string `json:"po_type"`
	PONumber string `json:"po_number"`
	PODate   string `json:"po_date"`

	References []Reference    `json:"references,omitempty"`
	Parties    []Party        `json:"parties,omitempty"`
	LineItems  []LineItem     `json:"line_items"`
	Summary    Summary        `json:"summary"`
	Control    ControlNumbers `json:"control"`

	// SegmentIDs records every segment identifier in document order,
	// including unrecognized ones, for envelope ordering checks.
	SegmentIDs []string `json:"segment_ids"`
}

// InterchangeHeader carries the ISA envelope fields.
type InterchangeHeader struct {
	AuthorizationInfo string `json:"authorization_info"`
	SecurityInfo      string `json:"security_info"`
	SenderID          string `json:"sender_id"`
	ReceiverID        string `json:"receiver_id"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	ControlNumber     string `json:"control_number"`
	AckRequested      string `json:"ack_requested"`
	UsageIndicator    string `json:"usage_indicator"`
}

// GroupHeader carries the GS functional group fields.
type GroupHeader struct {
	FunctionalCode    string `json:"functional_code"`
	SenderCode        string `json:"sender_code"`
	ReceiverCode      string `json:"receiver_code"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	ControlNumber     string `json:"control_number"`
	ResponsibleAgency string `json:"responsible_agency"`
	Version           string `json:"version"`
}

// Reference is one REF entry, a qualifier code paired with a value.
type Reference struct {
	Qualifier string `json:"qualifier"`
	Value     string `json:"value"`
}

// Party is one name/address loop. Role is the entity identifier code from
// the loop-start segment (for example BY, ST, or VN); address fields
// accumulate from N3 and N4 segments inside the loop.
type Party struct {
	Role         string   `json:"role"`
	Name         string   `json:"name"`
	IDQualifier  string   `json:"id_qualifier,omitempty"`
	ID           string   `json:"id,omitempty"`
	AddressLines []string `json:"address_lines,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	PostalCode   string   `json:"postal_code,omitempty"`
}

// LineItem is one baseline item loop. Quantity and UnitPrice are decimal
// so that downstream totals carry no binary floating point drift.
type LineItem struct {
	LineNumber         int             `json:"line_number"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitOfMeasure      string          `json:"unit_of_measure"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	ProductIDQualifier string          `json:"product_id_qualifier,omitempty"`
	ProductID          string          `json:"product_id"`
	Description        string          `json:"description,omitempty"`
}

// Summary carries the CTT trailer's declared totals. HashTotal is nil when
// the trailer omits the optional hash element.
type Summary struct {
	LineItemCount int  `json:"line_item_count"`
	HashTotal     *int `json:"hash_total,omitempty"`
}

// ControlNumbers carries the SE, GE, and IEA trailer values as written.
type ControlNumbers struct {
	SegmentCount          string `json:"segment_count"`
	TransactionSetControl string `json:"transaction_set_control"`
	GroupTransactionCount string `json:"group_transaction_count"`
	GroupControl          string `json:"group_control"`
	InterchangeGroupCount string `json:"interchange_group_count"`
	InterchangeControl    string `json:"interchange_control"`
}
