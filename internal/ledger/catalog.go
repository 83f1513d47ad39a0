package ledger

import (
	"context"

	"freelance-ledger/internal/logging"
	"freelance-ledger/internal/models"
)

var expenseCategorySeed = []models.ExpenseCategory{
	{CategoryID: "EXP001", Name: "交通費", Description: "電車、バス、タクシー等", TaxDeductible: true, SortOrder: 1},
	{CategoryID: "EXP002", Name: "会議費", Description: "打ち合わせ、接待等", TaxDeductible: true, SortOrder: 2},
	{CategoryID: "EXP003", Name: "消耗品費", Description: "事務用品、備品等", TaxDeductible: true, SortOrder: 3},
	{CategoryID: "EXP004", Name: "通信費", Description: "電話、インターネット等", TaxDeductible: true, SortOrder: 4},
	{CategoryID: "EXP005", Name: "図書研究費", Description: "書籍、資料等", TaxDeductible: true, SortOrder: 5},
	{CategoryID: "EXP006", Name: "外注費", Description: "業務委託、外部サービス等", TaxDeductible: true, SortOrder: 6},
	{CategoryID: "EXP007", Name: "広告宣伝費", Description: "広告、PR活動等", TaxDeductible: true, SortOrder: 7},
	{CategoryID: "EXP999", Name: "その他", Description: "上記に該当しない経費", TaxDeductible: true, SortOrder: 99},
}

var incomeCategorySeed = []models.IncomeCategory{
	{CategoryID: "INC001", Name: "業務委託料", Description: "クライアントからの業務委託報酬", Withholding: true, SortOrder: 1},
	{CategoryID: "INC002", Name: "コンサルティング料", Description: "コンサルティング業務の報酬", Withholding: true, SortOrder: 2},
	{CategoryID: "INC003", Name: "開発報酬", Description: "システム開発・プログラミングの報酬", Withholding: true, SortOrder: 3},
	{CategoryID: "INC004", Name: "デザイン料", Description: "デザイン制作の報酬", Withholding: true, SortOrder: 4},
	{CategoryID: "INC005", Name: "執筆料", Description: "記事執筆・ライティングの報酬", Withholding: true, SortOrder: 5},
	{CategoryID: "INC006", Name: "講演料", Description: "セミナー・講演の報酬", Withholding: true, SortOrder: 6},
	{CategoryID: "INC007", Name: "印税", Description: "出版物の印税収入", Withholding: true, SortOrder: 7},
	{CategoryID: "INC008", Name: "広告収入", Description: "ブログ・YouTube等の広告収入", Withholding: false, SortOrder: 8},
	{CategoryID: "INC009", Name: "アフィリエイト収入", Description: "アフィリエイト報酬", Withholding: false, SortOrder: 9},
	{CategoryID: "INC010", Name: "商品販売", Description: "物品販売による収入", Withholding: false, SortOrder: 10},
	{CategoryID: "INC011", Name: "サブスクリプション", Description: "月額課金サービスの収入", Withholding: false, SortOrder: 11},
	{CategoryID: "INC012", Name: "ロイヤリティ", Description: "知的財産権のロイヤリティ収入", Withholding: true, SortOrder: 12},
	{CategoryID: "INC013", Name: "助成金・補助金", Description: "公的機関からの助成金・補助金", Withholding: false, SortOrder: 13},
	{CategoryID: "INC999", Name: "その他収入", Description: "上記以外の収入", Withholding: false, SortOrder: 99},
}

var paymentMethodSeed = []models.PaymentMethod{
	{MethodID: "PM001", Name: "現金", Type: models.MethodBoth, SortOrder: 1},
	{MethodID: "PM002", Name: "クレジットカード", Type: models.MethodExpense, SortOrder: 2},
	{MethodID: "PM003", Name: "電子マネー", Type: models.MethodExpense, SortOrder: 3},
	{MethodID: "PM004", Name: "銀行振込", Type: models.MethodBoth, SortOrder: 4},
	{MethodID: "PM005", Name: "デビットカード", Type: models.MethodExpense, SortOrder: 5},
	{MethodID: "PM006", Name: "口座引落", Type: models.MethodExpense, SortOrder: 6},
	{MethodID: "PM007", Name: "PayPay", Type: models.MethodExpense, SortOrder: 7},
	{MethodID: "PM008", Name: "その他", Type: models.MethodBoth, SortOrder: 99},
}

// InitializeExpenseCategories seeds the expense categories unless any
// exist. It reports whether rows were written.
func (s *Service) InitializeExpenseCategories(ctx context.Context) (bool, error) {
	existing, err := s.store.ExpenseCategories(ctx)
	if err != nil {
		return false, opErr("seed", entityCatalog, 0, err)
	}
	return s.seed(len(existing), "expense_categories", func() error {
		return s.store.InsertExpenseCategories(ctx, expenseCategorySeed)
	})
}

// InitializeIncomeCategories seeds the income categories unless any exist.
func (s *Service) InitializeIncomeCategories(ctx context.Context) (bool, error) {
	existing, err := s.store.IncomeCategories(ctx)
	if err != nil {
		return false, opErr("seed", entityCatalog, 0, err)
	}
	return s.seed(len(existing), "income_categories", func() error {
		return s.store.InsertIncomeCategories(ctx, incomeCategorySeed)
	})
}

// InitializePaymentMethods seeds the payment methods unless any exist.
func (s *Service) InitializePaymentMethods(ctx context.Context) (bool, error) {
	existing, err := s.store.PaymentMethods(ctx)
	if err != nil {
		return false, opErr("seed", entityCatalog, 0, err)
	}
	return s.seed(len(existing), "payment_methods", func() error {
		return s.store.InsertPaymentMethods(ctx, paymentMethodSeed)
	})
}

// InitializeCatalog runs all three seeds.
func (s *Service) InitializeCatalog(ctx context.Context) error {
	for _, run := range []func(context.Context) (bool, error){
		s.InitializeExpenseCategories,
		s.InitializeIncomeCategories,
		s.InitializePaymentMethods,
	} {
		if _, err := run(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) seed(existing int, table string, insert func() error) (bool, error) {
	if existing > 0 {
		s.log.Debug("catalog already initialized", logging.F(logging.FieldEntity, table), logging.F(logging.FieldCount, existing))
		return false, nil
	}
	if err := insert(); err != nil {
		return false, opErr("seed", table, 0, err)
	}
	s.log.Info("catalog initialized", logging.F(logging.FieldEntity, table))
	return true, nil
}

// ExpenseCategories lists the expense categories in display order.
func (s *Service) ExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	return s.store.ExpenseCategories(ctx)
}

// ExpenseCategory looks up one expense category, nil when unknown.
func (s *Service) ExpenseCategory(ctx context.Context, id string) (*models.ExpenseCategory, error) {
	all, err := s.store.ExpenseCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].CategoryID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// IncomeCategories lists the income categories in display order.
func (s *Service) IncomeCategories(ctx context.Context) ([]models.IncomeCategory, error) {
	return s.store.IncomeCategories(ctx)
}

// PaymentMethods lists payment methods usable for typ (expense or income);
// methods of type both are always included. An empty typ lists all.
func (s *Service) PaymentMethods(ctx context.Context, typ string) ([]models.PaymentMethod, error) {
	all, err := s.store.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		return all, nil
	}
	out := make([]models.PaymentMethod, 0, len(all))
	for _, m := range all {
		if m.AppliesTo(typ) {
			out = append(out, m)
		}
	}
	return out, nil
}

// PaymentMethod looks up one payment method, nil when unknown.
func (s *Service) PaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error) {
	all, err := s.store.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].MethodID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}
