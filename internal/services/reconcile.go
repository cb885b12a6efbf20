package services

import (
	"context"
	"log"
	"strconv"

	"github.com/tbros/daraja-gobackend/internal/models"
)

// HandleValidation reconciles a C2B validation callback with the entry
// that was created at simulation time, matched by bill reference number.
// The gateway always receives a success acknowledgement: a correlation
// miss is logged, never surfaced, otherwise the gateway would retry the
// delivery indefinitely.
func (s *DarajaService) HandleValidation(ctx context.Context, payload *models.MpesaValidationResponse, raw []byte) *models.AcknowledgeResponse {
	entry, err := s.store.FindByBillRefNumber(ctx, payload.BillRefNumber)
	if err != nil {
		log.Printf("Failed to look up entry for BillRefNumber %s: %v", payload.BillRefNumber, err)
		return models.Acknowledge()
	}
	if entry == nil {
		log.Printf("Entry not found for BillRefNumber %s", payload.BillRefNumber)
		return models.Acknowledge()
	}

	entry.ResultCode = "0"
	entry.TransactionID = payload.TransID
	entry.RawCallbackPayload = string(raw)
	if err := s.store.Save(ctx, entry); err != nil {
		log.Printf("Failed to update entry for BillRefNumber %s: %v", payload.BillRefNumber, err)
	}
	return models.Acknowledge()
}

// HandleB2CResult reconciles an asynchronous B2C result callback with the
// entry created at submission time, matched by either conversation
// identifier. Repeated deliveries overwrite the same entry; last write
// wins.
func (s *DarajaService) HandleB2CResult(ctx context.Context, payload *models.B2CTransactionAsyncResponse, raw []byte) *models.AcknowledgeResponse {
	result := payload.Result
	log.Printf("Received B2C result: ConversationID=%s OriginatorConversationID=%s ResultCode=%d",
		result.ConversationID, result.OriginatorConversationID, result.ResultCode)

	entry, err := s.store.FindByConversationID(ctx, result.ConversationID, result.OriginatorConversationID)
	if err != nil {
		log.Printf("Failed to look up entry for ConversationID %s: %v", result.ConversationID, err)
		return models.Acknowledge()
	}
	if entry == nil {
		log.Printf("Entry not found for ConversationID %s or OriginatorConversationID %s",
			result.ConversationID, result.OriginatorConversationID)
		return models.Acknowledge()
	}

	entry.ResultCode = strconv.Itoa(result.ResultCode)
	entry.TransactionID = result.TransactionID
	entry.RawCallbackPayload = string(raw)
	if err := s.store.Save(ctx, entry); err != nil {
		log.Printf("Failed to update entry for ConversationID %s: %v", result.ConversationID, err)
	}
	return models.Acknowledge()
}
