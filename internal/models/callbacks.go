package models

// Inbound callback payloads delivered by the gateway.

// MpesaValidationResponse is the C2B validation callback body.
type MpesaValidationResponse struct {
	TransactionType   string `json:"TransactionType"`
	TransID           string `json:"TransID"`
	TransTime         string `json:"TransTime"`
	TransAmount       string `json:"TransAmount"`
	BusinessShortCode string `json:"BusinessShortCode"`
	BillRefNumber     string `json:"BillRefNumber"`
	InvoiceNumber     string `json:"InvoiceNumber"`
	OrgAccountBalance string `json:"OrgAccountBalance"`
	ThirdPartyTransID string `json:"ThirdPartyTransID"`
	Msisdn            string `json:"MSISDN"`
	FirstName         string `json:"FirstName"`
	MiddleName        string `json:"MiddleName"`
	LastName          string `json:"LastName"`
}

// B2CTransactionAsyncResponse is the asynchronous B2C result callback.
type B2CTransactionAsyncResponse struct {
	Result Result `json:"Result"`
}

type Result struct {
	ResultType               int              `json:"ResultType"`
	ResultCode               int              `json:"ResultCode"`
	ResultDesc               string           `json:"ResultDesc"`
	OriginatorConversationID string           `json:"OriginatorConversationID"`
	ConversationID           string           `json:"ConversationID"`
	TransactionID            string           `json:"TransactionID"`
	ResultParameters         ResultParameters `json:"ResultParameters"`
	ReferenceData            ReferenceData    `json:"ReferenceData"`
}

type ResultParameters struct {
	ResultParameter []ResultParameterItem `json:"ResultParameter"`
}

type ResultParameterItem struct {
	Key   string      `json:"Key"`
	Value interface{} `json:"Value"`
}

type ReferenceData struct {
	ReferenceItem ReferenceItem `json:"ReferenceItem"`
}

type ReferenceItem struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// AcknowledgeResponse is the fixed body returned to the gateway for every
// callback delivery, whether or not reconciliation found a match. The
// gateway retries deliveries that are not acknowledged.
type AcknowledgeResponse struct {
	Message string `json:"message"`
}

// Acknowledge returns the canonical success acknowledgement.
func Acknowledge() *AcknowledgeResponse {
	return &AcknowledgeResponse{Message: "success"}
}
