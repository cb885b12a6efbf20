package services

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tbros/daraja-gobackend/internal/config"
	"github.com/tbros/daraja-gobackend/internal/models"
)

// Gateway command identifiers.
const (
	customerPayBillOnline  = "CustomerPayBillOnline"
	transactionStatusQuery = "TransactionStatusQuery"
	accountBalanceCommand  = "AccountBalance"
	shortCodeIdentifier    = "4"
	transactionStatusValue = "Transaction Status"
)

// DarajaService drives every outbound exchange with the gateway and
// records the transactions it initiates.
type DarajaService struct {
	cfg    *config.Mpesa
	client *http.Client
	store  EntryStore
}

// NewDarajaService builds a service around a shared read-only HTTP
// client; nothing mutates it after construction.
func NewDarajaService(cfg *config.Mpesa, store EntryStore) *DarajaService {
	return &DarajaService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		store:  store,
	}
}

// RegisterURL registers the validation and confirmation callback URLs
// with the gateway.
func (s *DarajaService) RegisterURL(ctx context.Context) (*models.RegisterURLResponse, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	request := &models.RegisterURLRequest{
		ShortCode:       s.cfg.ShortCode,
		ResponseType:    s.cfg.ResponseType,
		ConfirmationURL: s.cfg.ConfirmationURL,
		ValidationURL:   s.cfg.ValidationURL,
	}

	var response models.RegisterURLResponse
	if err := s.call(ctx, http.MethodPost, s.cfg.RegisterURLEndpoint, request, token.AccessToken, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SimulateC2B submits a simulated customer-to-business collection and,
// on success, persists a new C2B entry keyed by the conversation ids the
// gateway assigned.
func (s *DarajaService) SimulateC2B(ctx context.Context, request *models.SimulateTransactionRequest) (*models.SimulateTransactionResponse, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	request.ShortCode = s.cfg.ShortCode
	request.CommandID = customerPayBillOnline

	var response models.SimulateTransactionResponse
	if err := s.call(ctx, http.MethodPost, s.cfg.SimulateEndpoint, request, token.AccessToken, &response); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		TransactionType:          models.TransactionTypeC2B,
		BillRefNumber:            request.BillRefNumber,
		Amount:                   request.Amount,
		Msisdn:                   request.Msisdn,
		OriginatorConversationID: response.OriginatorConversationID,
		ConversationID:           response.ConversationID,
		EntryDate:                time.Now(),
	}
	if err := s.store.Save(ctx, entry); err != nil {
		log.Printf("Failed to persist C2B entry for BillRefNumber %s: %v", request.BillRefNumber, err)
		return nil, err
	}

	return &response, nil
}

// PerformB2C submits a business-to-customer disbursement and, on success,
// persists a new B2C entry.
func (s *DarajaService) PerformB2C(ctx context.Context, internal *models.InternalB2CTransactionRequest) (*models.CommonSyncResponse, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	credential, err := s.securityCredential()
	if err != nil {
		return nil, err
	}

	request := &models.B2CTransactionRequest{
		InitiatorName:      s.cfg.B2CInitiatorName,
		SecurityCredential: credential,
		CommandID:          internal.CommandID,
		Amount:             internal.Amount,
		PartyA:             s.cfg.ShortCode,
		PartyB:             internal.PartyB,
		Remarks:            internal.Remarks,
		QueueTimeOutURL:    s.cfg.B2CQueueTimeoutURL,
		ResultURL:          s.cfg.B2CResultURL,
		Occassion:          internal.Occassion,
	}

	var response models.CommonSyncResponse
	if err := s.call(ctx, http.MethodPost, s.cfg.B2CEndpoint, request, token.AccessToken, &response); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		TransactionType:          models.TransactionTypeB2C,
		Amount:                   internal.Amount,
		Msisdn:                   internal.PartyB,
		OriginatorConversationID: response.OriginatorConversationID,
		ConversationID:           response.ConversationID,
		EntryDate:                time.Now(),
	}
	if err := s.store.Save(ctx, entry); err != nil {
		log.Printf("Failed to persist B2C entry for ConversationID %s: %v", response.ConversationID, err)
		return nil, err
	}

	return &response, nil
}

// CheckAccountBalance queries the merchant account balance. Read-only:
// the asynchronous result lands on the B2C result URL.
func (s *DarajaService) CheckAccountBalance(ctx context.Context) (*models.CommonSyncResponse, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	credential, err := s.securityCredential()
	if err != nil {
		return nil, err
	}

	request := &models.CheckAccountBalanceRequest{
		Initiator:          s.cfg.B2CInitiatorName,
		SecurityCredential: credential,
		CommandID:          accountBalanceCommand,
		PartyA:             s.cfg.ShortCode,
		IdentifierType:     shortCodeIdentifier,
		Remarks:            "Check Account Balance.",
		QueueTimeOutURL:    s.cfg.B2CQueueTimeoutURL,
		ResultURL:          s.cfg.B2CResultURL,
	}

	var response models.CommonSyncResponse
	if err := s.call(ctx, http.MethodPost, s.cfg.BalanceEndpoint, request, token.AccessToken, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// TransactionStatus queries the outcome of a previously submitted
// transaction by its gateway transaction id.
func (s *DarajaService) TransactionStatus(ctx context.Context, internal *models.InternalTransactionStatusRequest) (*models.TransactionStatusSyncResponse, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	credential, err := s.securityCredential()
	if err != nil {
		return nil, err
	}

	request := &models.TransactionStatusRequest{
		Initiator:          s.cfg.B2CInitiatorName,
		SecurityCredential: credential,
		CommandID:          transactionStatusQuery,
		TransactionID:      internal.TransactionID,
		PartyA:             s.cfg.ShortCode,
		IdentifierType:     shortCodeIdentifier,
		ResultURL:          s.cfg.B2CResultURL,
		QueueTimeOutURL:    s.cfg.B2CQueueTimeoutURL,
		Remarks:            transactionStatusValue,
		Occasion:           transactionStatusValue,
	}

	var response models.TransactionStatusSyncResponse
	if err := s.call(ctx, http.MethodPost, s.cfg.StatusEndpoint, request, token.AccessToken, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// StkPush initiates a push payment on the customer's device. The
// timestamp is generated here, before the request is sent, because the
// password is a function of that exact value.
func (s *DarajaService) StkPush(ctx context.Context, internal *models.InternalStkPushRequest) (*models.StkPushSyncResponse, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := transactionTimestamp(time.Now())
	request := &models.ExternalStkPushRequest{
		BusinessShortCode: s.cfg.StkShortCode,
		Password:          stkPushPassword(s.cfg.StkShortCode, s.cfg.StkPassKey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   customerPayBillOnline,
		Amount:            internal.Amount,
		PartyA:            internal.PhoneNumber,
		PartyB:            s.cfg.StkShortCode,
		PhoneNumber:       internal.PhoneNumber,
		CallBackURL:       s.cfg.StkCallbackURL,
		AccountReference:  transactionUniqueNumber(),
		TransactionDesc:   internal.PhoneNumber + " Transaction",
	}

	var response models.StkPushSyncResponse
	if err := s.call(ctx, http.MethodPost, s.cfg.StkEndpoint, request, token.AccessToken, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// LNMQuery checks the status of a push payment by its checkout request
// id, using the same timestamp password scheme as the initiation.
func (s *DarajaService) LNMQuery(ctx context.Context, internal *models.InternalLNMRequest) (*models.LNMQueryResponse, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := transactionTimestamp(time.Now())
	request := &models.ExternalLNMQueryRequest{
		BusinessShortCode: s.cfg.StkShortCode,
		Password:          stkPushPassword(s.cfg.StkShortCode, s.cfg.StkPassKey, timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: internal.CheckoutRequestID,
	}

	var response models.LNMQueryResponse
	if err := s.call(ctx, http.MethodPost, s.cfg.LNMQueryEndpoint, request, token.AccessToken, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// FindTransaction looks up a stored entry by its gateway transaction id.
// Returns nil when no entry has been reconciled under that id.
func (s *DarajaService) FindTransaction(ctx context.Context, transactionID string) (*models.Entry, error) {
	return s.store.FindByTransactionID(ctx, transactionID)
}

// transactionUniqueNumber generates the short account reference attached
// to push-payment requests.
func transactionUniqueNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return id[:12]
}
