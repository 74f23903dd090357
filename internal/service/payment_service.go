package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/adapter/campay"
	"github.com/immodirect7-wq/immodirect/internal/adapter/nats"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/platform/metrics"
	"github.com/immodirect7-wq/immodirect/internal/repository"
)

const (
	natsSubjectPaymentSucceeded = "payment.succeeded"
	natsSubjectPaymentFailed    = "payment.failed"
	natsSubjectListingPaid      = "listing.paid"

	// PassValidity is the window a successful pass purchase grants. The
	// expiry is reset to now+PassValidity on every purchase; passes do
	// not stack.
	PassValidity = 30 * 24 * time.Hour
)

// PaymentGateway is the outbound mobile-money boundary. Implemented by the
// campay adapter; mocked in tests.
type PaymentGateway interface {
	RequestCollection(ctx context.Context, request campay.CollectionRequest) (*campay.CollectionResponse, error)
	CheckTransactionStatus(ctx context.Context, reference string) (*campay.TransactionStatus, error)
}

type InitiatePaymentParams struct {
	Amount      int64
	Phone       string
	Description string
	ListingID   string
	Reason      entity.PaymentReason
}

type InitiatePaymentResult struct {
	Reference string
	USSDCode  string
}

// ConfirmPaymentResult reports what a confirmation call did. Applied is
// false for the idempotent no-op on an already-terminal transaction and for
// the loser of a concurrent confirmation race.
type ConfirmPaymentResult struct {
	Reference string
	Status    entity.TransactionStatus
	Applied   bool
}

type PaymentService interface {
	Initiate(ctx context.Context, identity entity.Identity, params InitiatePaymentParams) (*InitiatePaymentResult, error)
	// Confirm processes an inbound gateway notification for the given
	// ledger reference. The notification payload itself is never trusted:
	// the authoritative status is re-queried from the gateway, and a
	// verification failure rejects the whole notification.
	Confirm(ctx context.Context, reference string) (*ConfirmPaymentResult, error)
	ListTransactions(ctx context.Context, identity entity.Identity, params repository.ListTransactionsParams) (*repository.ListTransactionsResult, error)
}

type paymentService struct {
	transactionRepo repository.TransactionRepository
	listingRepo     repository.ListingRepository
	userRepo        repository.UserRepository
	pricing         PricingService
	gateway         PaymentGateway
	msgPublisher    nats.MessagePublisher
	metrics         *metrics.Metrics
	log             logger.Logger
}

func NewPaymentService(
	transactionRepo repository.TransactionRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	pricing PricingService,
	gateway PaymentGateway,
	msgPublisher nats.MessagePublisher,
	m *metrics.Metrics,
	log logger.Logger,
) PaymentService {
	return &paymentService{
		transactionRepo: transactionRepo,
		listingRepo:     listingRepo,
		userRepo:        userRepo,
		pricing:         pricing,
		gateway:         gateway,
		msgPublisher:    msgPublisher,
		metrics:         m,
		log:             log,
	}
}

func (s *paymentService) Initiate(ctx context.Context, identity entity.Identity, params InitiatePaymentParams) (*InitiatePaymentResult, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthorized
	}
	if !params.Reason.Valid() {
		return nil, fmt.Errorf("%w: unknown payment reason %q", ErrInvalidInput, params.Reason)
	}
	if params.Phone == "" {
		return nil, fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user %s: %w", identity.UserID, err)
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}

	expectedAmount, listingID, err := s.resolveExpectedAmount(ctx, identity, params)
	if err != nil {
		return nil, err
	}

	// Bit-exact equality against the price configured right now. A price
	// change mid-flow never invalidates transactions already PENDING.
	if params.Amount != expectedAmount {
		s.log.Warnf("Payment initiation rejected for user %s: amount %d does not match expected %d for reason %s",
			identity.UserID, params.Amount, expectedAmount, params.Reason)
		s.metrics.PaymentsInitiated.WithLabelValues(string(params.Reason), "invalid_amount").Inc()
		return nil, ErrInvalidAmount
	}

	txn, err := entity.NewTransaction(identity.UserID, listingID, campay.Provider, params.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// The ledger row must exist before the gateway is asked to charge, so
	// every attempted collection is traceable.
	if _, err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	description := params.Description
	if description == "" {
		description = "Paiement ImmoDirect"
	}

	start := time.Now()
	collection, err := s.gateway.RequestCollection(ctx, campay.CollectionRequest{
		Amount:            txn.Amount,
		From:              params.Phone,
		Description:       description,
		ExternalReference: txn.Reference,
	})
	s.metrics.GatewayCallSeconds.WithLabelValues("collect").Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Errorf("Gateway collection request failed for reference %s: %v", txn.Reference, err)
		if markErr := s.transactionRepo.MarkStatusIfPending(ctx, txn.Reference, entity.TransactionStatusFailed); markErr != nil {
			s.log.Errorf("Failed to mark transaction %s FAILED after gateway error: %v", txn.Reference, markErr)
		}
		s.metrics.PaymentsInitiated.WithLabelValues(string(params.Reason), "gateway_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	s.log.Infof("Payment initiated: reference=%s user=%s reason=%s amount=%d", txn.Reference, identity.UserID, params.Reason, txn.Amount)
	s.metrics.PaymentsInitiated.WithLabelValues(string(params.Reason), "ok").Inc()

	return &InitiatePaymentResult{
		Reference: txn.Reference,
		USSDCode:  collection.USSDCode,
	}, nil
}

func (s *paymentService) resolveExpectedAmount(ctx context.Context, identity entity.Identity, params InitiatePaymentParams) (int64, string, error) {
	pricing := s.pricing.Get(ctx)

	switch params.Reason {
	case entity.ReasonListingFee:
		if params.ListingID == "" {
			return 0, "", fmt.Errorf("%w: listing ID is required for a listing fee", ErrInvalidInput)
		}
		listing, err := s.listingRepo.GetByID(ctx, params.ListingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return 0, "", ErrNotFound
			}
			return 0, "", fmt.Errorf("failed to load listing %s: %w", params.ListingID, err)
		}
		if listing.OwnerID != identity.UserID {
			return 0, "", ErrForbidden
		}
		return pricing.ListingPrice, params.ListingID, nil

	case entity.ReasonPass:
		// A pass is account-wide; it is never tied to one listing.
		return pricing.PassPrice, "", nil

	case entity.ReasonSingleUnlock:
		if params.ListingID == "" {
			return 0, "", fmt.Errorf("%w: listing ID is required for a single unlock", ErrInvalidInput)
		}
		if _, err := s.listingRepo.GetByID(ctx, params.ListingID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return 0, "", ErrNotFound
			}
			return 0, "", fmt.Errorf("failed to load listing %s: %w", params.ListingID, err)
		}
		return entity.UnlockPrice, params.ListingID, nil

	default:
		return 0, "", fmt.Errorf("%w: unknown payment reason %q", ErrInvalidInput, params.Reason)
	}
}

func (s *paymentService) Confirm(ctx context.Context, reference string) (*ConfirmPaymentResult, error) {
	txn, err := s.transactionRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.WebhookRejections.WithLabelValues("unknown_reference").Inc()
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load transaction %s: %w", reference, err)
	}

	// Retried or duplicated notifications for a settled transaction are
	// acknowledged without touching anything.
	if txn.Status.IsTerminal() {
		s.log.Infof("Ignoring notification for already processed transaction %s (status=%s)", reference, txn.Status)
		return &ConfirmPaymentResult{Reference: reference, Status: txn.Status, Applied: false}, nil
	}

	start := time.Now()
	verified, err := s.gateway.CheckTransactionStatus(ctx, reference)
	s.metrics.GatewayCallSeconds.WithLabelValues("status").Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Errorf("Gateway status verification failed for reference %s: %v", reference, err)
		s.metrics.WebhookRejections.WithLabelValues("verification_unavailable").Inc()
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	switch {
	case verified.Successful():
		return s.applySuccess(ctx, txn)
	case verified.Failed():
		return s.applyFailure(ctx, txn)
	default:
		// The gateway still reports the collection as in flight; whatever
		// triggered this notification is ahead of the authoritative state.
		// Reject so the provider retries once the gateway has settled.
		s.log.Warnf("Verified status for reference %s is %q, rejecting notification for retry", reference, verified.Status)
		s.metrics.WebhookRejections.WithLabelValues("not_settled").Inc()
		return nil, fmt.Errorf("%w: gateway reports status %q", ErrGatewayUnavailable, verified.Status)
	}
}

func (s *paymentService) applySuccess(ctx context.Context, txn *entity.Transaction) (*ConfirmPaymentResult, error) {
	// The conditional transition is the serialization point: of any number
	// of concurrent confirmations for this reference, exactly one sees the
	// row still PENDING and applies the business effect.
	err := s.transactionRepo.MarkStatusIfPending(ctx, txn.Reference, entity.TransactionStatusSuccess)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			s.log.Infof("Transaction %s settled concurrently, skipping effect application", txn.Reference)
			return &ConfirmPaymentResult{Reference: txn.Reference, Status: entity.TransactionStatusSuccess, Applied: false}, nil
		}
		return nil, fmt.Errorf("failed to mark transaction %s SUCCESS: %w", txn.Reference, err)
	}

	s.metrics.PaymentsConfirmed.WithLabelValues(string(entity.TransactionStatusSuccess)).Inc()

	if txn.ListingID != "" {
		switch err := s.listingRepo.MarkPaid(ctx, txn.ListingID); {
		case err == nil:
			s.publish(ctx, natsSubjectListingPaid, map[string]string{
				"listing_id": txn.ListingID,
				"reference":  txn.Reference,
			})
		case errors.Is(err, repository.ErrStaleState):
			// Listing was already PAID (e.g. a single unlock on an active
			// listing). Nothing changed, so nothing to announce.
		default:
			s.log.Errorf("Failed to mark listing %s PAID for transaction %s: %v", txn.ListingID, txn.Reference, err)
		}
	}

	if txn.ListingID == "" {
		s.applyAccountEffect(ctx, txn)
	}

	s.publish(ctx, natsSubjectPaymentSucceeded, map[string]interface{}{
		"reference":  txn.Reference,
		"user_id":    txn.UserID,
		"listing_id": txn.ListingID,
		"amount":     txn.Amount,
	})

	s.log.Infof("Payment confirmed: reference=%s user=%s amount=%d", txn.Reference, txn.UserID, txn.Amount)
	return &ConfirmPaymentResult{Reference: txn.Reference, Status: entity.TransactionStatusSuccess, Applied: true}, nil
}

// applyAccountEffect dispatches the account-wide effect of a successful
// payment that was not (only) a listing fee. Amounts at or above the pass
// tier grant a fresh 30-day pass; the single-unlock tier needs no extra
// write, the SUCCESS ledger row itself is the grant.
func (s *paymentService) applyAccountEffect(ctx context.Context, txn *entity.Transaction) {
	pricing := s.pricing.Get(ctx)
	if txn.Amount < pricing.PassPrice {
		// Single-unlock tier: nothing to write.
		return
	}

	expiry := time.Now().UTC().Add(PassValidity)
	if err := s.userRepo.GrantPass(ctx, txn.UserID, expiry); err != nil {
		s.log.Errorf("Failed to grant pass to user %s for transaction %s: %v", txn.UserID, txn.Reference, err)
		return
	}
	s.log.Infof("Visit pass granted to user %s until %s (transaction %s)", txn.UserID, expiry.Format(time.RFC3339), txn.Reference)
}

func (s *paymentService) applyFailure(ctx context.Context, txn *entity.Transaction) (*ConfirmPaymentResult, error) {
	err := s.transactionRepo.MarkStatusIfPending(ctx, txn.Reference, entity.TransactionStatusFailed)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return &ConfirmPaymentResult{Reference: txn.Reference, Status: entity.TransactionStatusFailed, Applied: false}, nil
		}
		return nil, fmt.Errorf("failed to mark transaction %s FAILED: %w", txn.Reference, err)
	}

	s.metrics.PaymentsConfirmed.WithLabelValues(string(entity.TransactionStatusFailed)).Inc()
	s.publish(ctx, natsSubjectPaymentFailed, map[string]string{
		"reference": txn.Reference,
		"user_id":   txn.UserID,
	})

	s.log.Infof("Payment failed: reference=%s user=%s", txn.Reference, txn.UserID)
	return &ConfirmPaymentResult{Reference: txn.Reference, Status: entity.TransactionStatusFailed, Applied: true}, nil
}

func (s *paymentService) ListTransactions(ctx context.Context, identity entity.Identity, params repository.ListTransactionsParams) (*repository.ListTransactionsResult, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthorized
	}
	if !identity.IsAdmin() {
		// Non-admins only ever see their own ledger rows.
		params.UserID = identity.UserID
	}

	result, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return result, nil
}

func (s *paymentService) publish(ctx context.Context, subject string, message interface{}) {
	if s.msgPublisher == nil {
		return
	}
	if err := s.msgPublisher.Publish(ctx, subject, message); err != nil {
		s.log.Warnf("Failed to publish %s event: %v", subject, err)
	}
}
