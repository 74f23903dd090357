package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/adapter/campay"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/platform/metrics"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// stubPricing serves a fixed pricing configuration so payment tests do not
// need setting-store expectations.
type stubPricing struct {
	pricing entity.Pricing
}

func (s *stubPricing) Get(ctx context.Context) entity.Pricing {
	return s.pricing
}

func (s *stubPricing) Set(ctx context.Context, identity entity.Identity, update PricingUpdate) (entity.Pricing, error) {
	panic("Set not implemented in stub")
}

type paymentFixture struct {
	transactionRepo *MockTransactionRepository
	listingRepo     *MockListingRepository
	userRepo        *MockUserRepository
	gateway         *MockPaymentGateway
	publisher       *MockMessagePublisher
	svc             PaymentService
}

func newPaymentFixture(pricing entity.Pricing) *paymentFixture {
	f := &paymentFixture{
		transactionRepo: new(MockTransactionRepository),
		listingRepo:     new(MockListingRepository),
		userRepo:        new(MockUserRepository),
		gateway:         new(MockPaymentGateway),
		publisher:       new(MockMessagePublisher),
	}
	f.svc = NewPaymentService(
		f.transactionRepo,
		f.listingRepo,
		f.userRepo,
		&stubPricing{pricing: pricing},
		f.gateway,
		f.publisher,
		metrics.New(prometheus.NewRegistry()),
		logger.NewNop(),
	)
	return f
}

func activeUser(id string) *entity.User {
	return &entity.User{ID: id, Email: id + "@example.com", Role: entity.RoleOwner}
}

func TestPaymentService_Initiate_ListingFee_Success(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	identity := entity.Identity{UserID: "owner-1", Role: entity.RoleOwner}

	f.userRepo.On("GetByID", mock.Anything, "owner-1").Return(activeUser("owner-1"), nil).Once()
	f.listingRepo.On("GetByID", mock.Anything, "listing-1").
		Return(&entity.Listing{ID: "listing-1", OwnerID: "owner-1", Status: entity.ListingStatusPending}, nil).Once()

	var createdReference string
	f.transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
		createdReference = txn.Reference
		return txn.UserID == "owner-1" &&
			txn.ListingID == "listing-1" &&
			txn.Amount == entity.DefaultListingPrice &&
			txn.Status == entity.TransactionStatusPending
	})).Return("txn-id", nil).Once()

	f.gateway.On("RequestCollection", mock.Anything, mock.MatchedBy(func(req campay.CollectionRequest) bool {
		return req.Amount == entity.DefaultListingPrice && req.From == "+237670000001" && req.ExternalReference == createdReference
	})).Return(&campay.CollectionResponse{Reference: "gw-ref", USSDCode: "*126#"}, nil).Once()

	result, err := f.svc.Initiate(context.Background(), identity, InitiatePaymentParams{
		Amount:    entity.DefaultListingPrice,
		Phone:     "+237670000001",
		ListingID: "listing-1",
		Reason:    entity.ReasonListingFee,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, createdReference, result.Reference)
	assert.Equal(t, "*126#", result.USSDCode)
	f.transactionRepo.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestPaymentService_Initiate_InvalidAmount_NoLedgerRow(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	identity := entity.Identity{UserID: "owner-1", Role: entity.RoleOwner}

	f.userRepo.On("GetByID", mock.Anything, "owner-1").Return(activeUser("owner-1"), nil).Once()
	f.listingRepo.On("GetByID", mock.Anything, "listing-1").
		Return(&entity.Listing{ID: "listing-1", OwnerID: "owner-1"}, nil).Once()

	result, err := f.svc.Initiate(context.Background(), identity, InitiatePaymentParams{
		Amount:    entity.DefaultListingPrice - 1,
		Phone:     "+237670000001",
		ListingID: "listing-1",
		Reason:    entity.ReasonListingFee,
	})

	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Nil(t, result)
	f.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.gateway.AssertNotCalled(t, "RequestCollection", mock.Anything, mock.Anything)
}

func TestPaymentService_Initiate_AmountChecksCurrentPrice(t *testing.T) {
	pricing := entity.DefaultPricing()
	pricing.ListingPrice = 7500
	f := newPaymentFixture(pricing)
	identity := entity.Identity{UserID: "owner-1", Role: entity.RoleOwner}

	f.userRepo.On("GetByID", mock.Anything, "owner-1").Return(activeUser("owner-1"), nil).Once()
	f.listingRepo.On("GetByID", mock.Anything, "listing-1").
		Return(&entity.Listing{ID: "listing-1", OwnerID: "owner-1"}, nil).Once()

	_, err := f.svc.Initiate(context.Background(), identity, InitiatePaymentParams{
		Amount:    entity.DefaultListingPrice,
		Phone:     "+237670000001",
		ListingID: "listing-1",
		Reason:    entity.ReasonListingFee,
	})

	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPaymentService_Initiate_BannedUser(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	identity := entity.Identity{UserID: "banned-1", Role: entity.RoleOwner}

	banned := activeUser("banned-1")
	banned.IsBanned = true
	f.userRepo.On("GetByID", mock.Anything, "banned-1").Return(banned, nil).Once()

	_, err := f.svc.Initiate(context.Background(), identity, InitiatePaymentParams{
		Amount:    entity.DefaultListingPrice,
		Phone:     "+237670000001",
		ListingID: "listing-1",
		Reason:    entity.ReasonListingFee,
	})

	assert.ErrorIs(t, err, ErrUserBanned)
	f.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_Initiate_ListingFee_NotOwner(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	identity := entity.Identity{UserID: "intruder", Role: entity.RoleOwner}

	f.userRepo.On("GetByID", mock.Anything, "intruder").Return(activeUser("intruder"), nil).Once()
	f.listingRepo.On("GetByID", mock.Anything, "listing-1").
		Return(&entity.Listing{ID: "listing-1", OwnerID: "owner-1"}, nil).Once()

	_, err := f.svc.Initiate(context.Background(), identity, InitiatePaymentParams{
		Amount:    entity.DefaultListingPrice,
		Phone:     "+237670000001",
		ListingID: "listing-1",
		Reason:    entity.ReasonListingFee,
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPaymentService_Initiate_GatewayDown_MarksFailed(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	identity := entity.Identity{UserID: "seeker-1", Role: entity.RoleSeeker}

	f.userRepo.On("GetByID", mock.Anything, "seeker-1").Return(activeUser("seeker-1"), nil).Once()
	f.transactionRepo.On("Create", mock.Anything, mock.Anything).Return("txn-id", nil).Once()
	f.gateway.On("RequestCollection", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()
	f.transactionRepo.On("MarkStatusIfPending", mock.Anything, mock.AnythingOfType("string"), entity.TransactionStatusFailed).
		Return(nil).Once()

	_, err := f.svc.Initiate(context.Background(), identity, InitiatePaymentParams{
		Amount: entity.DefaultPassPrice,
		Phone:  "+237670000002",
		Reason: entity.ReasonPass,
	})

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	f.transactionRepo.AssertExpectations(t)
}

func TestPaymentService_Initiate_SingleUnlock_FixedPrice(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	identity := entity.Identity{UserID: "seeker-1", Role: entity.RoleSeeker}

	f.userRepo.On("GetByID", mock.Anything, "seeker-1").Return(activeUser("seeker-1"), nil)
	f.listingRepo.On("GetByID", mock.Anything, "listing-9").
		Return(&entity.Listing{ID: "listing-9", OwnerID: "owner-1", Status: entity.ListingStatusPaid}, nil)
	f.transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
		return txn.Amount == entity.UnlockPrice && txn.ListingID == "listing-9"
	})).Return("txn-id", nil).Once()
	f.gateway.On("RequestCollection", mock.Anything, mock.Anything).
		Return(&campay.CollectionResponse{Reference: "gw-ref"}, nil).Once()

	result, err := f.svc.Initiate(context.Background(), identity, InitiatePaymentParams{
		Amount:    entity.UnlockPrice,
		Phone:     "+237670000002",
		ListingID: "listing-9",
		Reason:    entity.ReasonSingleUnlock,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Reference)

	// The unlock tier is fixed; any other amount is rejected.
	_, err = f.svc.Initiate(context.Background(), identity, InitiatePaymentParams{
		Amount:    entity.UnlockPrice + 100,
		Phone:     "+237670000002",
		ListingID: "listing-9",
		Reason:    entity.ReasonSingleUnlock,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPaymentService_Confirm_UnknownReference(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-missing").
		Return(nil, repository.ErrNotFound).Once()

	_, err := f.svc.Confirm(context.Background(), "REF-missing")

	assert.ErrorIs(t, err, ErrNotFound)
	f.gateway.AssertNotCalled(t, "CheckTransactionStatus", mock.Anything, mock.Anything)
}

func TestPaymentService_Confirm_AlreadyTerminal_NoOp(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-done").
		Return(&entity.Transaction{Reference: "REF-done", Status: entity.TransactionStatusSuccess, UserID: "u1"}, nil).Once()

	result, err := f.svc.Confirm(context.Background(), "REF-done")

	assert.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, entity.TransactionStatusSuccess, result.Status)
	f.gateway.AssertNotCalled(t, "CheckTransactionStatus", mock.Anything, mock.Anything)
	f.transactionRepo.AssertNotCalled(t, "MarkStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
	f.userRepo.AssertNotCalled(t, "GrantPass", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Confirm_VerificationUnavailable(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-1").
		Return(&entity.Transaction{Reference: "REF-1", Status: entity.TransactionStatusPending, UserID: "u1"}, nil).Once()
	f.gateway.On("CheckTransactionStatus", mock.Anything, "REF-1").
		Return(nil, errors.New("timeout")).Once()

	_, err := f.svc.Confirm(context.Background(), "REF-1")

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	// The row stays PENDING so a retried notification can still settle it.
	f.transactionRepo.AssertNotCalled(t, "MarkStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Confirm_VerifiedStillPending_Rejected(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-1").
		Return(&entity.Transaction{Reference: "REF-1", Status: entity.TransactionStatusPending, UserID: "u1"}, nil).Once()
	f.gateway.On("CheckTransactionStatus", mock.Anything, "REF-1").
		Return(&campay.TransactionStatus{Reference: "REF-1", Status: "PENDING"}, nil).Once()

	_, err := f.svc.Confirm(context.Background(), "REF-1")

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	f.transactionRepo.AssertNotCalled(t, "MarkStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Confirm_ListingFee_Success(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	txn := &entity.Transaction{
		Reference: "REF-1",
		Status:    entity.TransactionStatusPending,
		UserID:    "owner-1",
		ListingID: "listing-1",
		Amount:    entity.DefaultListingPrice,
	}

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-1").Return(txn, nil).Once()
	f.gateway.On("CheckTransactionStatus", mock.Anything, "REF-1").
		Return(&campay.TransactionStatus{Reference: "REF-1", Status: "SUCCESSFUL"}, nil).Once()
	f.transactionRepo.On("MarkStatusIfPending", mock.Anything, "REF-1", entity.TransactionStatusSuccess).Return(nil).Once()
	f.listingRepo.On("MarkPaid", mock.Anything, "listing-1").Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, "listing.paid", mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, "payment.succeeded", mock.Anything).Return(nil).Once()

	result, err := f.svc.Confirm(context.Background(), "REF-1")

	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, entity.TransactionStatusSuccess, result.Status)
	// A listing fee never touches the account pass.
	f.userRepo.AssertNotCalled(t, "GrantPass", mock.Anything, mock.Anything, mock.Anything)
	f.listingRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestPaymentService_Confirm_RaceLoser_NoEffects(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	txn := &entity.Transaction{
		Reference: "REF-1",
		Status:    entity.TransactionStatusPending,
		UserID:    "owner-1",
		ListingID: "listing-1",
		Amount:    entity.DefaultListingPrice,
	}

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-1").Return(txn, nil).Once()
	f.gateway.On("CheckTransactionStatus", mock.Anything, "REF-1").
		Return(&campay.TransactionStatus{Reference: "REF-1", Status: "SUCCESSFUL"}, nil).Once()
	f.transactionRepo.On("MarkStatusIfPending", mock.Anything, "REF-1", entity.TransactionStatusSuccess).
		Return(repository.ErrStaleState).Once()

	result, err := f.svc.Confirm(context.Background(), "REF-1")

	assert.NoError(t, err)
	assert.False(t, result.Applied)
	f.listingRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	f.userRepo.AssertNotCalled(t, "GrantPass", mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Confirm_PassPurchase_GrantsThirtyDays(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	txn := &entity.Transaction{
		Reference: "REF-pass",
		Status:    entity.TransactionStatusPending,
		UserID:    "seeker-1",
		Amount:    entity.DefaultPassPrice,
	}

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-pass").Return(txn, nil).Once()
	f.gateway.On("CheckTransactionStatus", mock.Anything, "REF-pass").
		Return(&campay.TransactionStatus{Reference: "REF-pass", Status: "SUCCESSFUL"}, nil).Once()
	f.transactionRepo.On("MarkStatusIfPending", mock.Anything, "REF-pass", entity.TransactionStatusSuccess).Return(nil).Once()
	f.userRepo.On("GrantPass", mock.Anything, "seeker-1", mock.MatchedBy(func(expiry time.Time) bool {
		expected := time.Now().UTC().Add(PassValidity)
		diff := expiry.Sub(expected)
		return diff > -time.Minute && diff < time.Minute
	})).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, "payment.succeeded", mock.Anything).Return(nil).Once()

	result, err := f.svc.Confirm(context.Background(), "REF-pass")

	assert.NoError(t, err)
	assert.True(t, result.Applied)
	f.userRepo.AssertExpectations(t)
	f.listingRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
}

func TestPaymentService_Confirm_SingleUnlock_ListingAlreadyPaid(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	txn := &entity.Transaction{
		Reference: "REF-unlock",
		Status:    entity.TransactionStatusPending,
		UserID:    "seeker-1",
		ListingID: "listing-9",
		Amount:    entity.UnlockPrice,
	}

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-unlock").Return(txn, nil).Once()
	f.gateway.On("CheckTransactionStatus", mock.Anything, "REF-unlock").
		Return(&campay.TransactionStatus{Reference: "REF-unlock", Status: "SUCCESSFUL"}, nil).Once()
	f.transactionRepo.On("MarkStatusIfPending", mock.Anything, "REF-unlock", entity.TransactionStatusSuccess).Return(nil).Once()
	// The unlocked listing is already PAID; the conditional update reports
	// stale state and the confirmation still settles.
	f.listingRepo.On("MarkPaid", mock.Anything, "listing-9").Return(repository.ErrStaleState).Once()
	f.publisher.On("Publish", mock.Anything, "payment.succeeded", mock.Anything).Return(nil).Once()

	result, err := f.svc.Confirm(context.Background(), "REF-unlock")

	assert.NoError(t, err)
	assert.True(t, result.Applied)
	f.userRepo.AssertNotCalled(t, "GrantPass", mock.Anything, mock.Anything, mock.Anything)
	// No activation happened, so nothing is announced on listing.paid.
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, "listing.paid", mock.Anything)
}

func TestPaymentService_Confirm_Failed(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	txn := &entity.Transaction{
		Reference: "REF-1",
		Status:    entity.TransactionStatusPending,
		UserID:    "u1",
		ListingID: "listing-1",
		Amount:    entity.DefaultListingPrice,
	}

	f.transactionRepo.On("GetByReference", mock.Anything, "REF-1").Return(txn, nil).Once()
	f.gateway.On("CheckTransactionStatus", mock.Anything, "REF-1").
		Return(&campay.TransactionStatus{Reference: "REF-1", Status: "FAILED"}, nil).Once()
	f.transactionRepo.On("MarkStatusIfPending", mock.Anything, "REF-1", entity.TransactionStatusFailed).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, "payment.failed", mock.Anything).Return(nil).Once()

	result, err := f.svc.Confirm(context.Background(), "REF-1")

	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, entity.TransactionStatusFailed, result.Status)
	f.listingRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	f.userRepo.AssertNotCalled(t, "GrantPass", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_ListTransactions_NonAdminScopedToOwn(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	identity := entity.Identity{UserID: "seeker-1", Role: entity.RoleSeeker}

	f.transactionRepo.On("List", mock.Anything, mock.MatchedBy(func(params repository.ListTransactionsParams) bool {
		return params.UserID == "seeker-1"
	})).Return(&repository.ListTransactionsResult{}, nil).Once()

	_, err := f.svc.ListTransactions(context.Background(), identity, repository.ListTransactionsParams{
		UserID: "someone-else",
	})

	assert.NoError(t, err)
	f.transactionRepo.AssertExpectations(t)
}

func TestPaymentService_ListTransactions_AdminSeesAll(t *testing.T) {
	f := newPaymentFixture(entity.DefaultPricing())
	identity := entity.Identity{UserID: "admin-1", Role: entity.RoleAdmin}

	f.transactionRepo.On("List", mock.Anything, mock.MatchedBy(func(params repository.ListTransactionsParams) bool {
		return params.UserID == "someone-else"
	})).Return(&repository.ListTransactionsResult{}, nil).Once()

	_, err := f.svc.ListTransactions(context.Background(), identity, repository.ListTransactionsParams{
		UserID: "someone-else",
	})

	assert.NoError(t, err)
	f.transactionRepo.AssertExpectations(t)
}
