package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tbros/daraja-gobackend/internal/models"
	"github.com/tbros/daraja-gobackend/internal/services"
)

type MpesaHandler struct {
	service *services.DarajaService
}

func NewMpesaHandler(service *services.DarajaService) *MpesaHandler {
	return &MpesaHandler{service: service}
}

// GetAccessToken exposes token acquisition for diagnostics.
func (h *MpesaHandler) GetAccessToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.AccessToken(r.Context())
	if err != nil {
		log.Printf("Failed to acquire access token: %v", err)
		http.Error(w, `{"error":"gateway unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// RegisterURL registers the validation and confirmation callback URLs
// with the gateway.
func (h *MpesaHandler) RegisterURL(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.RegisterURL(r.Context())
	if err != nil {
		log.Printf("Failed to register callback URLs: %v", err)
		http.Error(w, `{"error":"gateway unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// SimulateC2B submits a simulated collection.
func (h *MpesaHandler) SimulateC2B(w http.ResponseWriter, r *http.Request) {
	var req models.SimulateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if !validAmount(req.Amount) {
		http.Error(w, `{"error":"Amount must be a positive number"}`, http.StatusBadRequest)
		return
	}
	if req.Msisdn == "" || req.BillRefNumber == "" {
		http.Error(w, `{"error":"Msisdn and BillRefNumber are required"}`, http.StatusBadRequest)
		return
	}

	response, err := h.service.SimulateC2B(r.Context(), &req)
	if err != nil {
		log.Printf("Failed to simulate C2B transaction: %v", err)
		http.Error(w, `{"error":"gateway unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// PerformB2C submits a disbursement.
func (h *MpesaHandler) PerformB2C(w http.ResponseWriter, r *http.Request) {
	var req models.InternalB2CTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if !validAmount(req.Amount) {
		http.Error(w, `{"error":"Amount must be a positive number"}`, http.StatusBadRequest)
		return
	}
	if req.PartyB == "" {
		http.Error(w, `{"error":"PartyB is required"}`, http.StatusBadRequest)
		return
	}

	response, err := h.service.PerformB2C(r.Context(), &req)
	if err != nil {
		log.Printf("Failed to perform B2C transaction: %v", err)
		http.Error(w, `{"error":"gateway unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// CheckAccountBalance queries the merchant account balance.
func (h *MpesaHandler) CheckAccountBalance(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.CheckAccountBalance(r.Context())
	if err != nil {
		log.Printf("Failed to check account balance: %v", err)
		http.Error(w, `{"error":"gateway unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// TransactionStatus queries the outcome of a submitted transaction.
func (h *MpesaHandler) TransactionStatus(w http.ResponseWriter, r *http.Request) {
	var req models.InternalTransactionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.TransactionID == "" {
		http.Error(w, `{"error":"TransactionID is required"}`, http.StatusBadRequest)
		return
	}

	response, err := h.service.TransactionStatus(r.Context(), &req)
	if err != nil {
		log.Printf("Failed to query transaction status: %v", err)
		http.Error(w, `{"error":"gateway unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// StkPush initiates a push payment on the customer's device.
func (h *MpesaHandler) StkPush(w http.ResponseWriter, r *http.Request) {
	var req models.InternalStkPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if !validAmount(req.Amount) {
		http.Error(w, `{"error":"Amount must be a positive number"}`, http.StatusBadRequest)
		return
	}
	if req.PhoneNumber == "" {
		http.Error(w, `{"error":"PhoneNumber is required"}`, http.StatusBadRequest)
		return
	}

	response, err := h.service.StkPush(r.Context(), &req)
	if err != nil {
		log.Printf("Failed to initiate STK push: %v", err)
		http.Error(w, `{"error":"gateway unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// LNMQuery checks the status of a push payment.
func (h *MpesaHandler) LNMQuery(w http.ResponseWriter, r *http.Request) {
	var req models.InternalLNMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.CheckoutRequestID == "" {
		http.Error(w, `{"error":"CheckoutRequestID is required"}`, http.StatusBadRequest)
		return
	}

	response, err := h.service.LNMQuery(r.Context(), &req)
	if err != nil {
		log.Printf("Failed to query STK push status: %v", err)
		http.Error(w, `{"error":"gateway unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// GetTransaction fetches a reconciled entry by its gateway transaction id.
func (h *MpesaHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["transactionID"]
	entry, err := h.service.FindTransaction(r.Context(), transactionID)
	if err != nil {
		log.Printf("Failed to fetch transaction %s: %v", transactionID, err)
		http.Error(w, `{"error":"Failed to fetch transaction"}`, http.StatusInternalServerError)
		return
	}
	if entry == nil {
		http.Error(w, `{"error":"transaction not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Validation receives the C2B validation callback from the gateway. The
// response is always the fixed acknowledgement, even when no matching
// entry exists.
func (h *MpesaHandler) Validation(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Failed to read validation callback body: %v", err)
		writeJSON(w, http.StatusOK, models.Acknowledge())
		return
	}

	var payload models.MpesaValidationResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("Failed to decode validation callback: %v", err)
		writeJSON(w, http.StatusOK, models.Acknowledge())
		return
	}

	writeJSON(w, http.StatusOK, h.service.HandleValidation(r.Context(), &payload, raw))
}

// B2CResult receives the asynchronous B2C result callback.
func (h *MpesaHandler) B2CResult(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Failed to read B2C result callback body: %v", err)
		writeJSON(w, http.StatusOK, models.Acknowledge())
		return
	}

	var payload models.B2CTransactionAsyncResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("Failed to decode B2C result callback: %v", err)
		writeJSON(w, http.StatusOK, models.Acknowledge())
		return
	}

	writeJSON(w, http.StatusOK, h.service.HandleB2CResult(r.Context(), &payload, raw))
}

// QueueTimeout acknowledges B2C queue timeout notifications. The body is
// not processed; it is logged so unhandled deliveries stay visible.
func (h *MpesaHandler) QueueTimeout(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	log.Printf("Unhandled B2C queue timeout notification: %s", string(raw))
	writeJSON(w, http.StatusOK, models.Acknowledge())
}

// StkResult acknowledges STK push result callbacks. The body is not
// processed; it is logged so unhandled deliveries stay visible.
func (h *MpesaHandler) StkResult(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	log.Printf("Unhandled STK push result: %s", string(raw))
	writeJSON(w, http.StatusOK, models.Acknowledge())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func validAmount(amount string) bool {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return false
	}
	return value.IsPositive()
}
