package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hoaworks/hoa_ledger_app/internal/apperrors"
	"github.com/hoaworks/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaworks/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaworks/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaworks/hoa_ledger_app/internal/core/services"
	"github.com/hoaworks/hoa_ledger_app/internal/dto"
)

// --- Mock JournalEntryRepository ---
type MockJournalEntryRepository struct {
	mock.Mock
}

// Ensure MockJournalEntryRepository implements portsrepo.JournalEntryRepositoryWithTx
var _ portsrepo.JournalEntryRepositoryWithTx = (*MockJournalEntryRepository)(nil)

// WithTx emulates a transaction by running fn against the mock itself.
func (m *MockJournalEntryRepository) WithTx(ctx context.Context, fn func(txRepo portsrepo.JournalEntryRepositoryFacade) error) error {
	return fn(m)
}

func (m *MockJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalEntryRepository) ListEntriesByAssociation(ctx context.Context, associationID string, filter portsrepo.ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, associationID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalEntryRepository) CountEntriesByNumberPrefix(ctx context.Context, associationID string, prefix string) (int64, error) {
	args := m.Called(ctx, associationID, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, postedAt time.Time) error {
	args := m.Called(ctx, entryID, postedAt)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) MarkEntryReversed(ctx context.Context, entryID string, reversingEntryID string, reason string, reversedAt time.Time) error {
	args := m.Called(ctx, entryID, reversingEntryID, reason, reversedAt)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockJournalEntryRepository
	service       portssvc.LedgerSvcFacade
	associationID string
	numberPrefix  string
	cashAccount   string
	incomeAccount string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJournalEntryRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)

	suite.associationID = uuid.NewString()
	suite.numberPrefix = fmt.Sprintf("JE-%d-", time.Now().UTC().Year())
	suite.cashAccount = uuid.NewString()
	suite.incomeAccount = uuid.NewString()
}

func (suite *LedgerServiceTestSuite) balancedRequest(amount decimal.Decimal) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Monthly assessment billing",
		Lines: []dto.CreateEntryLineRequest{
			{GLAccountID: suite.cashAccount, DebitAmount: amount},
			{GLAccountID: suite.incomeAccount, CreditAmount: amount},
		},
	}
}

func (suite *LedgerServiceTestSuite) postedEntry(amount decimal.Decimal) *domain.JournalEntry {
	now := time.Now().UTC()
	return &domain.JournalEntry{
		EntryID:       uuid.NewString(),
		AssociationID: suite.associationID,
		EntryNumber:   suite.numberPrefix + "0001",
		EntryDate:     now,
		Description:   "Posted entry",
		SourceType:    domain.SourceManual,
		TotalAmount:   amount,
		Status:        domain.Posted,
		PostedAt:      &now,
		AuditFields:   domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
}

func (suite *LedgerServiceTestSuite) balancedLines(entryID string, amount decimal.Decimal) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, LineNumber: 1, GLAccountID: suite.cashAccount, DebitAmount: amount, CreditAmount: decimal.Zero},
		{LineID: uuid.NewString(), EntryID: entryID, LineNumber: 2, GLAccountID: suite.incomeAccount, DebitAmount: decimal.Zero, CreditAmount: amount},
	}
}

// --- CreateEntry ---

func (suite *LedgerServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(250))

	suite.mockRepo.On("CountEntriesByNumberPrefix", ctx, suite.associationID, suite.numberPrefix).Return(int64(4), nil).Once()

	var saved domain.JournalEntry
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.JournalEntry)
	}).Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(suite.numberPrefix+"0005", created.EntryNumber)
	suite.Equal(domain.Draft, created.Status)
	suite.Equal(domain.SourceManual, created.SourceType)
	suite.True(created.TotalAmount.Equal(decimal.NewFromInt(250)))
	suite.Require().Len(created.Lines, 2)
	suite.Equal(1, created.Lines[0].LineNumber)
	suite.Equal(2, created.Lines[1].LineNumber)
	suite.Equal(created.EntryID, saved.EntryID)
	suite.Equal(created.EntryNumber, saved.EntryNumber)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_TooFewLines() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Lonely line",
		Lines: []dto.CreateEntryLineRequest{
			{GLAccountID: suite.cashAccount, DebitAmount: decimal.NewFromInt(100)},
		},
	}

	created, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTooFewLines)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

// A single line carrying both sides trips the line-count rule first.
func (suite *LedgerServiceTestSuite) TestCreateEntry_SingleBothSidedLine() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Self balancing line",
		Lines: []dto.CreateEntryLineRequest{
			{GLAccountID: suite.cashAccount, DebitAmount: decimal.NewFromInt(50), CreditAmount: decimal.NewFromInt(50)},
		},
	}

	_, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTooFewLines)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Out of balance",
		Lines: []dto.CreateEntryLineRequest{
			{GLAccountID: suite.cashAccount, DebitAmount: decimal.NewFromInt(100)},
			{GLAccountID: suite.incomeAccount, CreditAmount: decimal.NewFromInt(90)},
		},
	}

	created, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnbalanced)
	suite.Contains(err.Error(), "total debits 100")
	suite.Contains(err.Error(), "total credits 90")
	suite.Nil(created)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

// A sub-cent difference is accepted to absorb upstream float rounding.
func (suite *LedgerServiceTestSuite) TestCreateEntry_WithinTolerance() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Rounded amounts",
		Lines: []dto.CreateEntryLineRequest{
			{GLAccountID: suite.cashAccount, DebitAmount: decimal.RequireFromString("100.00")},
			{GLAccountID: suite.incomeAccount, CreditAmount: decimal.RequireFromString("100.005")},
		},
	}

	suite.mockRepo.On("CountEntriesByNumberPrefix", ctx, suite.associationID, suite.numberPrefix).Return(int64(0), nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().NoError(err)
	suite.Equal(suite.numberPrefix+"0001", created.EntryNumber)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_LineWithBothSides() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Both sides on one line",
		Lines: []dto.CreateEntryLineRequest{
			{GLAccountID: suite.cashAccount, DebitAmount: decimal.NewFromInt(50), CreditAmount: decimal.NewFromInt(50)},
			{GLAccountID: suite.incomeAccount, DebitAmount: decimal.NewFromInt(50), CreditAmount: decimal.NewFromInt(50)},
		},
	}

	_, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrLineBothSides)
	suite.Contains(err.Error(), "(line 1)")
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_LineWithNoSide() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Empty middle line",
		Lines: []dto.CreateEntryLineRequest{
			{GLAccountID: suite.cashAccount, DebitAmount: decimal.NewFromInt(75)},
			{GLAccountID: uuid.NewString()},
			{GLAccountID: suite.incomeAccount, CreditAmount: decimal.NewFromInt(75)},
		},
	}

	_, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrLineNoSide)
	suite.Contains(err.Error(), "(line 2)")
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_NegativeAmount() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Negative debit",
		Lines: []dto.CreateEntryLineRequest{
			{GLAccountID: suite.cashAccount, DebitAmount: decimal.NewFromInt(-100)},
			{GLAccountID: suite.incomeAccount, CreditAmount: decimal.NewFromInt(-100)},
		},
	}

	_, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNegativeAmount)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_NumberCollisionRetries() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(10))

	// A concurrent creator claims JE-<year>-0005 first; the second transaction
	// recounts and lands on 0006.
	suite.mockRepo.On("CountEntriesByNumberPrefix", ctx, suite.associationID, suite.numberPrefix).Return(int64(4), nil).Once()
	suite.mockRepo.On("CountEntriesByNumberPrefix", ctx, suite.associationID, suite.numberPrefix).Return(int64(5), nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(apperrors.ErrDuplicate).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().NoError(err)
	suite.Equal(suite.numberPrefix+"0006", created.EntryNumber)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_NumberCollisionExhausted() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(10))

	suite.mockRepo.On("CountEntriesByNumberPrefix", ctx, suite.associationID, suite.numberPrefix).Return(int64(1), nil).Times(3)
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(apperrors.ErrDuplicate).Times(3)

	created, err := suite.service.CreateEntry(ctx, suite.associationID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(created)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- GetEntry ---

func (suite *LedgerServiceTestSuite) TestGetEntry_Success() {
	ctx := context.Background()
	entry := suite.postedEntry(decimal.NewFromInt(100))
	lines := suite.balancedLines(entry.EntryID, decimal.NewFromInt(100))

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	found, err := suite.service.GetEntry(ctx, suite.associationID, entry.EntryID)

	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, found.EntryID)
	suite.Len(found.Lines, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

// An entry belonging to another association is reported as not found rather
// than forbidden.
func (suite *LedgerServiceTestSuite) TestGetEntry_WrongAssociation() {
	ctx := context.Background()
	entry := suite.postedEntry(decimal.NewFromInt(100))
	entry.AssociationID = uuid.NewString()

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	found, err := suite.service.GetEntry(ctx, suite.associationID, entry.EntryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(found)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

// --- ListEntries ---

func (suite *LedgerServiceTestSuite) TestListEntries_InvalidStatus() {
	ctx := context.Background()
	badStatus := "pending"

	resp, err := suite.service.ListEntries(ctx, suite.associationID, dto.ListEntriesParams{Status: &badStatus})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListEntriesByAssociation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListEntries_IncludeLines() {
	ctx := context.Background()
	first := suite.postedEntry(decimal.NewFromInt(100))
	second := suite.postedEntry(decimal.NewFromInt(200))
	second.EntryNumber = suite.numberPrefix + "0002"
	entries := []domain.JournalEntry{*first, *second}
	linesMap := map[string][]domain.JournalEntryLine{
		first.EntryID:  suite.balancedLines(first.EntryID, decimal.NewFromInt(100)),
		second.EntryID: suite.balancedLines(second.EntryID, decimal.NewFromInt(200)),
	}

	suite.mockRepo.On("ListEntriesByAssociation", ctx, suite.associationID, portsrepo.ListEntriesFilter{}, 0, (*string)(nil)).Return(entries, nil, nil).Once()
	suite.mockRepo.On("FindLinesByEntryIDs", ctx, []string{first.EntryID, second.EntryID}).Return(linesMap, nil).Once()

	resp, err := suite.service.ListEntries(ctx, suite.associationID, dto.ListEntriesParams{IncludeLines: true})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 2)
	suite.Len(resp.Entries[0].Lines, 2)
	suite.Len(resp.Entries[1].Lines, 2)
	suite.Nil(resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- PostEntry ---

func (suite *LedgerServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry := suite.postedEntry(decimal.NewFromInt(100))
	entry.Status = domain.Draft
	entry.PostedAt = nil
	lines := suite.balancedLines(entry.EntryID, decimal.NewFromInt(100))

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockRepo.On("MarkEntryPosted", ctx, entry.EntryID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.PostEntry(ctx, suite.associationID, entry.EntryID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.postedEntry(decimal.NewFromInt(100))

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.PostEntry(ctx, suite.associationID, entry.EntryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.PostEntry(ctx, suite.associationID, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ReverseEntry ---

func (suite *LedgerServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	original := suite.postedEntry(decimal.NewFromInt(500))
	lines := suite.balancedLines(original.EntryID, decimal.NewFromInt(500))
	reason := "posted to wrong account"

	suite.mockRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, original.EntryID).Return(lines, nil).Once()
	suite.mockRepo.On("CountEntriesByNumberPrefix", ctx, suite.associationID, suite.numberPrefix).Return(int64(1), nil).Once()

	var saved domain.JournalEntry
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.JournalEntry)
	}).Return(nil).Once()
	suite.mockRepo.On("MarkEntryPosted", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockRepo.On("MarkEntryReversed", ctx, original.EntryID, mock.AnythingOfType("string"), reason, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.associationID, original.EntryID, reason)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal(domain.Posted, reversing.Status)
	suite.Equal(domain.SourceAdjustment, reversing.SourceType)
	suite.Equal(suite.numberPrefix+"0002", reversing.EntryNumber)
	suite.Equal(original.EntryNumber, reversing.ReferenceNumber)
	suite.Equal(fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason), reversing.Description)
	suite.Require().NotNil(reversing.OriginalEntryID)
	suite.Equal(original.EntryID, *reversing.OriginalEntryID)
	suite.Require().NotNil(reversing.PostedAt)
	suite.True(reversing.UpdatedAt.Equal(*reversing.PostedAt))

	// Every line flips sides, amounts intact.
	suite.Require().Len(saved.Lines, 2)
	suite.True(saved.Lines[0].CreditAmount.Equal(lines[0].DebitAmount))
	suite.True(saved.Lines[0].DebitAmount.IsZero())
	suite.Equal(lines[0].GLAccountID, saved.Lines[0].GLAccountID)
	suite.True(saved.Lines[1].DebitAmount.Equal(lines[1].CreditAmount))
	suite.True(saved.Lines[1].CreditAmount.IsZero())

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	entry := suite.postedEntry(decimal.NewFromInt(100))
	entry.Status = domain.Draft
	entry.PostedAt = nil

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.associationID, entry.EntryID, "wrong amounts")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(reversing)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	entry := suite.postedEntry(decimal.NewFromInt(100))
	entry.Status = domain.Reversed

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.associationID, entry.EntryID, "duplicate reversal")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(reversing)
}

// --- DeleteEntry ---

func (suite *LedgerServiceTestSuite) TestDeleteEntry_Success() {
	ctx := context.Background()
	entry := suite.postedEntry(decimal.NewFromInt(100))
	entry.Status = domain.Draft
	entry.PostedAt = nil

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("DeleteEntry", ctx, entry.EntryID).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.associationID, entry.EntryID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_PostedRejected() {
	ctx := context.Background()
	entry := suite.postedEntry(decimal.NewFromInt(100))

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.associationID, entry.EntryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
