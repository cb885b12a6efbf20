package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction types recorded against an entry.
const (
	TransactionTypeC2B = "C2B"
	TransactionTypeB2C = "B2C"
)

// Entry is the persisted record of one payment attempt, collection (C2B)
// or disbursement (B2C). It is created once at submission time with no
// result code and no transaction id; the reconciler fills those in when
// the gateway's asynchronous callback arrives.
type Entry struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TransactionType          string             `bson:"transaction_type" json:"transaction_type"`
	BillRefNumber            string             `bson:"bill_ref_number,omitempty" json:"bill_ref_number,omitempty"`
	Amount                   string             `bson:"amount" json:"amount"`
	Msisdn                   string             `bson:"msisdn" json:"msisdn"`
	OriginatorConversationID string             `bson:"originator_conversation_id" json:"originator_conversation_id"`
	ConversationID           string             `bson:"conversation_id" json:"conversation_id"`
	TransactionID            string             `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	ResultCode               string             `bson:"result_code,omitempty" json:"result_code,omitempty"`
	RawCallbackPayload       string             `bson:"raw_callback_payload,omitempty" json:"raw_callback_payload,omitempty"`
	EntryDate                time.Time          `bson:"entry_date" json:"entry_date"`
}
