// Package storetest holds a conformance suite run against every
// ledger.Store implementation.
package storetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/models"
)

// StoreSuite exercises a ledger.Store. NewStore must return an empty
// store; Cleanup, if set, runs after each test.
type StoreSuite struct {
	suite.Suite
	NewStore func() (ledger.Store, func())

	store   ledger.Store
	cleanup func()
	ctx     context.Context
	user    *models.User
	now     time.Time
}

func (s *StoreSuite) SetupTest() {
	s.store, s.cleanup = s.NewStore()
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.user = s.createUser("subject-1")
}

func (s *StoreSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *StoreSuite) createUser(subject string) *models.User {
	u := &models.User{ExternalID: subject, Email: subject + "@example.com", Name: subject, CreatedAt: s.now, UpdatedAt: s.now}
	s.Require().NoError(s.store.CreateUser(s.ctx, u))
	s.Require().NotZero(u.ID)
	return u
}

func strp(v string) *string   { return &v }
func f64p(v float64) *float64 { return &v }
func boolp(v bool) *bool      { return &v }
func i64p(v int64) *int64     { return &v }

func (s *StoreSuite) expense(date string, amount float64) *models.Expense {
	return &models.Expense{
		UserID:     s.user.ID,
		Date:       date,
		Amount:     amount,
		CategoryID: "EXP001",
		Vendor:     "JR東日本",
		Status:     models.ExpenseDraft,
		CreatedAt:  s.now,
		UpdatedAt:  s.now,
	}
}

func (s *StoreSuite) TestUsers() {
	got, err := s.store.UserByExternalID(s.ctx, "subject-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(s.user.ID, got.ID)
	s.Equal("subject-1@example.com", got.Email)
	s.True(s.now.Equal(got.CreatedAt))

	got.Email = "new@example.com"
	got.UpdatedAt = s.now.Add(time.Hour)
	s.Require().NoError(s.store.UpdateUser(s.ctx, got))

	again, err := s.store.UserByExternalID(s.ctx, "subject-1")
	s.Require().NoError(err)
	s.Equal("new@example.com", again.Email)

	missing, err := s.store.UserByExternalID(s.ctx, "nobody")
	s.NoError(err)
	s.Nil(missing)

	dup := &models.User{ExternalID: "subject-1", CreatedAt: s.now, UpdatedAt: s.now}
	s.Error(s.store.CreateUser(s.ctx, dup), "external id is unique")
}

func (s *StoreSuite) TestExpenseRoundTrip() {
	e := s.expense("2024-03-10", 11000)
	e.Description = strp("新幹線")
	e.PaymentMethodID = strp("PM002")
	e.TaxRate = f64p(10)
	e.TaxAmount = f64p(1000)
	e.TaxExcludedAmount = f64p(10000)
	e.IsDeductible = boolp(false)
	s.Require().NoError(s.store.InsertExpense(s.ctx, e))
	s.Require().NotZero(e.ID)

	got, err := s.store.Expense(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("2024-03-10", got.Date)
	s.Equal(11000.0, got.Amount)
	s.Equal("新幹線", *got.Description)
	s.Nil(got.Purpose)
	s.Nil(got.ReceiptID)
	s.Equal(10.0, *got.TaxRate)
	s.Equal(1000.0, *got.TaxAmount)
	s.Require().NotNil(got.IsDeductible)
	s.False(*got.IsDeductible)
	s.Equal(models.ExpenseDraft, got.Status)

	got.Amount = 22000
	got.Description = nil
	got.Status = models.ExpenseSubmitted
	got.UpdatedAt = s.now.Add(time.Minute)
	s.Require().NoError(s.store.UpdateExpense(s.ctx, got))

	again, err := s.store.Expense(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(22000.0, again.Amount)
	s.Nil(again.Description)
	s.Equal(models.ExpenseSubmitted, again.Status)
	s.True(s.now.Add(time.Minute).Equal(again.UpdatedAt))

	s.Require().NoError(s.store.DeleteExpense(s.ctx, e.ID))
	gone, err := s.store.Expense(s.ctx, e.ID)
	s.NoError(err)
	s.Nil(gone)
}

func (s *StoreSuite) TestExpensesByUser() {
	other := s.createUser("subject-2")
	for _, d := range []string{"2024-03-05", "2024-01-20", "2024-02-29", "2023-12-31"} {
		s.Require().NoError(s.store.InsertExpense(s.ctx, s.expense(d, 100)))
	}
	foreign := s.expense("2024-02-01", 5)
	foreign.UserID = other.ID
	s.Require().NoError(s.store.InsertExpense(s.ctx, foreign))

	all, err := s.store.ExpensesByUser(s.ctx, s.user.ID, "", "")
	s.Require().NoError(err)
	s.Equal([]string{"2024-03-05", "2024-01-20", "2024-02-29", "2023-12-31"}, dates(all), "insertion order")

	bounded, err := s.store.ExpensesByUser(s.ctx, s.user.ID, "2024-01-01", "2024-02-29")
	s.Require().NoError(err)
	s.Equal([]string{"2024-01-20", "2024-02-29"}, dates(bounded))

	from, err := s.store.ExpensesByUser(s.ctx, s.user.ID, "2024-02-01", "")
	s.Require().NoError(err)
	s.Equal([]string{"2024-03-05", "2024-02-29"}, dates(from))

	none, err := s.store.ExpensesByUser(s.ctx, 9999, "", "")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func dates(es []models.Expense) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Date
	}
	return out
}

func (s *StoreSuite) TestIncomeRoundTrip() {
	in := &models.Income{
		UserID:            s.user.ID,
		Date:              "2024-03-15",
		Amount:            100000,
		CategoryID:        "INC001",
		Client:            "Acme株式会社",
		ProjectName:       strp("LP制作"),
		Withholding:       boolp(true),
		WithholdingRate:   f64p(10.21),
		WithholdingAmount: f64p(10210),
		InvoiceIssued:     boolp(true),
		Status:            models.IncomeConfirmed,
		CreatedAt:         s.now,
		UpdatedAt:         s.now,
	}
	s.Require().NoError(s.store.InsertIncome(s.ctx, in))
	s.Require().NotZero(in.ID)

	got, err := s.store.Income(s.ctx, in.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Acme株式会社", got.Client)
	s.Equal("LP制作", *got.ProjectName)
	s.True(*got.Withholding)
	s.Equal(10210.0, *got.WithholdingAmount)
	s.Nil(got.ReceivedDate)
	s.Nil(got.TaxRate)

	got.ReceivedDate = strp("2024-04-30")
	got.Status = models.IncomeReceived
	got.WithholdingAmount = nil
	s.Require().NoError(s.store.UpdateIncome(s.ctx, got))

	again, err := s.store.Income(s.ctx, in.ID)
	s.Require().NoError(err)
	s.Equal("2024-04-30", *again.ReceivedDate)
	s.Equal(models.IncomeReceived, again.Status)
	s.Nil(again.WithholdingAmount)

	list, err := s.store.IncomesByUser(s.ctx, s.user.ID, "2024-03-01", "2024-03-31")
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.store.DeleteIncome(s.ctx, in.ID))
	gone, err := s.store.Income(s.ctx, in.ID)
	s.NoError(err)
	s.Nil(gone)
}

func (s *StoreSuite) TestReceipts() {
	r := &models.Receipt{
		UserID:     s.user.ID,
		StorageID:  "0b6f3c2e-receipt",
		FileName:   "receipt.jpg",
		MimeType:   "image/jpeg",
		Size:       2048,
		UploadedAt: s.now,
	}
	s.Require().NoError(s.store.InsertReceipt(s.ctx, r))
	s.Require().NotZero(r.ID)

	e := s.expense("2024-03-01", 500)
	e.ReceiptID = i64p(r.ID)
	s.Require().NoError(s.store.InsertExpense(s.ctx, e))
	s.Require().NoError(s.store.SetReceiptExpense(s.ctx, r.ID, i64p(e.ID)))

	got, err := s.store.Receipt(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.ExpenseID)
	s.Equal(e.ID, *got.ExpenseID)
	s.Equal(int64(2048), got.Size)

	s.Require().NoError(s.store.SetReceiptExpense(s.ctx, r.ID, nil))
	got, err = s.store.Receipt(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Nil(got.ExpenseID)

	missing, err := s.store.Receipt(s.ctx, r.ID+100)
	s.NoError(err)
	s.Nil(missing)
}

func (s *StoreSuite) TestCatalog() {
	cats, err := s.store.ExpenseCategories(s.ctx)
	s.Require().NoError(err)
	s.Empty(cats)

	s.Require().NoError(s.store.InsertExpenseCategories(s.ctx, []models.ExpenseCategory{
		{CategoryID: "EXP999", Name: "その他", TaxDeductible: true, SortOrder: 99},
		{CategoryID: "EXP001", Name: "交通費", Description: "電車、バス、タクシー等", TaxDeductible: true, SortOrder: 1},
	}))
	cats, err = s.store.ExpenseCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cats, 2)
	s.Equal("EXP001", cats[0].CategoryID)
	s.Equal("電車、バス、タクシー等", cats[0].Description)

	s.Require().NoError(s.store.InsertIncomeCategories(s.ctx, []models.IncomeCategory{
		{CategoryID: "INC008", Name: "広告収入", Withholding: false, SortOrder: 8},
		{CategoryID: "INC001", Name: "業務委託料", Withholding: true, SortOrder: 1},
	}))
	incs, err := s.store.IncomeCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(incs, 2)
	s.True(incs[0].Withholding)
	s.False(incs[1].Withholding)

	s.Require().NoError(s.store.InsertPaymentMethods(s.ctx, []models.PaymentMethod{
		{MethodID: "PM002", Name: "クレジットカード", Type: models.MethodExpense, SortOrder: 2},
		{MethodID: "PM001", Name: "現金", Type: models.MethodBoth, SortOrder: 1},
	}))
	methods, err := s.store.PaymentMethods(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(methods, 2)
	s.Equal("PM001", methods[0].MethodID)

	s.Error(s.store.InsertPaymentMethods(s.ctx, []models.PaymentMethod{
		{MethodID: "PM003", Name: "電子マネー", Type: models.MethodExpense, SortOrder: 3},
		{MethodID: "PM001", Name: "dup", Type: models.MethodBoth, SortOrder: 1},
	}))
	methods, err = s.store.PaymentMethods(s.ctx)
	s.Require().NoError(err)
	s.Len(methods, 2, "failed batch is rolled back")
}
