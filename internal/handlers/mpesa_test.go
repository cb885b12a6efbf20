package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbros/daraja-gobackend/internal/config"
	"github.com/tbros/daraja-gobackend/internal/models"
	"github.com/tbros/daraja-gobackend/internal/services"
)

// stubStore satisfies services.EntryStore with no stored entries, so
// every callback lookup is a correlation miss.
type stubStore struct {
	saves int
}

func (s *stubStore) Save(context.Context, *models.Entry) error { s.saves++; return nil }
func (s *stubStore) FindByBillRefNumber(context.Context, string) (*models.Entry, error) {
	return nil, nil
}
func (s *stubStore) FindByConversationID(context.Context, string, string) (*models.Entry, error) {
	return nil, nil
}
func (s *stubStore) FindByTransactionID(context.Context, string) (*models.Entry, error) {
	return nil, nil
}

func newTestHandler(store services.EntryStore) *MpesaHandler {
	return NewMpesaHandler(services.NewDarajaService(&config.Mpesa{}, store))
}

func post(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mobile-money/callback", bytes.NewBufferString(body))
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestValidationCallbackMissStillAcknowledged(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	recorder := post(h.Validation, `{"TransID":"LKXXXX1234","BillRefNumber":"UNKNOWN","TransAmount":"100"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"success"}`, recorder.Body.String())
	assert.Equal(t, 0, store.saves)
}

func TestB2CResultCallbackMissStillAcknowledged(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	recorder := post(h.B2CResult, `{"Result":{"ResultCode":0,"ConversationID":"NO_SUCH","OriginatorConversationID":"NO_SUCH","TransactionID":"LKXXXX1"}}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"success"}`, recorder.Body.String())
	assert.Equal(t, 0, store.saves)
}

func TestB2CResultCallbackMalformedBodyStillAcknowledged(t *testing.T) {
	h := newTestHandler(&stubStore{})

	recorder := post(h.B2CResult, `this is not json`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"success"}`, recorder.Body.String())
}

func TestQueueTimeoutAcknowledged(t *testing.T) {
	h := newTestHandler(&stubStore{})

	recorder := post(h.QueueTimeout, `{"anything":"goes"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"success"}`, recorder.Body.String())
}

func TestStkResultAcknowledged(t *testing.T) {
	h := newTestHandler(&stubStore{})

	recorder := post(h.StkResult, `{"Body":{"stkCallback":{"ResultCode":0}}}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"success"}`, recorder.Body.String())
}

func TestSimulateC2BRejectsInvalidAmount(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	for _, amount := range []string{"", "abc", "-5", "0"} {
		recorder := post(h.SimulateC2B, `{"Amount":"`+amount+`","Msisdn":"254708374149","BillRefNumber":"INV-001"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "amount %q", amount)
	}
	assert.Equal(t, 0, store.saves)
}

func TestPerformB2CRejectsMissingPartyB(t *testing.T) {
	h := newTestHandler(&stubStore{})

	recorder := post(h.PerformB2C, `{"CommandID":"BusinessPayment","Amount":"100"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestTransactionStatusRejectsMissingTransactionID(t *testing.T) {
	h := newTestHandler(&stubStore{})

	recorder := post(h.TransactionStatus, `{}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
