package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// SeedStore is the part of the database the seeder writes through.
type SeedStore interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	ListCategories(ctx context.Context, userID int, categoryType models.TransactionType) ([]models.Category, error)
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	CreateBudget(ctx context.Context, budget *models.Budget) error
	CreateInvestment(ctx context.Context, investment *models.Investment) error
	CreateTodo(ctx context.Context, todo *models.Todo) error
}

// SeedOptions sets how many rows of each kind are generated per user.
type SeedOptions struct {
	Users        int
	Transactions int
	Budgets      int
	Investments  int
	Todos        int
	// Password is given to every generated user so they can log in.
	Password string
}

// SeedResult counts what was inserted.
type SeedResult struct {
	Users        []models.User
	Transactions int
	Budgets      int
	Investments  int
	Todos        int
}

// Seeder fills the database with fake but valid data. Every row goes through
// the same validation as an API request.
type Seeder struct {
	store SeedStore
	fake  *gofakeit.Faker
	today models.Date
}

// NewSeeder uses seed for the faker; 0 picks a random seed.
func NewSeeder(store SeedStore, seed int64) *Seeder {
	return &Seeder{store: store, fake: gofakeit.New(seed), today: models.Today()}
}

func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	res := &SeedResult{}
	for i := 0; i < opts.Users; i++ {
		user, err := s.GenerateUser(ctx, opts.Password)
		if err != nil {
			return res, err
		}
		res.Users = append(res.Users, *user)

		n, err := s.GenerateTransactions(ctx, user.ID, opts.Transactions)
		res.Transactions += n
		if err != nil {
			return res, err
		}
		n, err = s.GenerateBudgets(ctx, user.ID, opts.Budgets)
		res.Budgets += n
		if err != nil {
			return res, err
		}
		n, err = s.GenerateInvestments(ctx, user.ID, opts.Investments)
		res.Investments += n
		if err != nil {
			return res, err
		}
		n, err = s.GenerateTodos(ctx, user.ID, opts.Todos)
		res.Todos += n
		if err != nil {
			return res, err
		}
	}
	log.Printf("Сгенерировано: пользователей %d, транзакций %d, бюджетов %d, инвестиций %d, задач %d",
		len(res.Users), res.Transactions, res.Budgets, res.Investments, res.Todos)
	return res, nil
}

func (s *Seeder) GenerateUser(ctx context.Context, password string) (*models.User, error) {
	if password == "" {
		password = s.fake.Password(true, true, true, false, false, 12)
	}
	req := models.RegisterRequest{
		Name:     s.fake.Name(),
		Email:    fmt.Sprintf("%s.%d@%s", s.fake.Username(), s.fake.Number(1000, 999999), s.fake.DomainName()),
		Password: password,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("сгенерирован некорректный пользователь: %w", err)
	}
	user, err := s.store.RegisterUser(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ошибка при добавлении пользователя: %w", err)
	}
	return user, nil
}

// GenerateTransactions adds n single transactions over the last 90 days. Most
// are expenses; categories are picked from those visible to the user.
func (s *Seeder) GenerateTransactions(ctx context.Context, userID, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	categories, err := s.store.ListCategories(ctx, userID, "")
	if err != nil {
		return 0, err
	}
	byType := map[models.TransactionType][]models.Category{}
	for _, c := range categories {
		byType[c.Type] = append(byType[c.Type], c)
	}

	for i := 0; i < n; i++ {
		txType := models.TransactionExpense
		amount := s.price(1, 300)
		if s.fake.Number(1, 5) == 1 {
			txType = models.TransactionIncome
			amount = s.price(500, 5000)
		}
		in := models.TransactionInput{
			Amount:      &amount,
			Date:        s.pastDate(90),
			Description: ptr(s.fake.Sentence(4)),
			Type:        &txType,
		}
		if options := byType[txType]; len(options) > 0 {
			in.CategoryID = &options[s.fake.Number(0, len(options)-1)].ID
		}
		if err := in.ValidateCreate(); err != nil {
			return i, fmt.Errorf("сгенерирована некорректная транзакция: %w", err)
		}
		tx := in.NewTransactions(userID, "")[0]
		if err := s.store.CreateTransaction(ctx, &tx); err != nil {
			return i, fmt.Errorf("ошибка при добавлении транзакции: %w", err)
		}
	}
	return n, nil
}

// GenerateBudgets adds n monthly budgets ending in consecutive months back
// from the current one.
func (s *Seeder) GenerateBudgets(ctx context.Context, userID, n int) (int, error) {
	for i := 0; i < n; i++ {
		start := models.NewDate(s.today.Year(), s.today.Month()-time.Month(i), 1)
		end := models.NewDate(start.Year(), start.Month()+1, 0)
		in := models.BudgetInput{
			Name:      ptr(start.Format("January 2006")),
			Amount:    ptr(s.price(200, 3000)),
			StartDate: &start,
			EndDate:   &end,
		}
		if err := in.ValidateCreate(); err != nil {
			return i, fmt.Errorf("сгенерирован некорректный бюджет: %w", err)
		}
		budget := in.NewBudget(userID)
		if err := s.store.CreateBudget(ctx, &budget); err != nil {
			return i, fmt.Errorf("ошибка при добавлении бюджета: %w", err)
		}
	}
	return n, nil
}

var investmentTypes = []models.InvestmentType{
	models.InvestmentStock, models.InvestmentBond, models.InvestmentFund,
	models.InvestmentCrypto, models.InvestmentRealEstate, models.InvestmentOther,
}

func (s *Seeder) GenerateInvestments(ctx context.Context, userID, n int) (int, error) {
	for i := 0; i < n; i++ {
		purchase := s.price(10, 500)
		// current price within -30%..+50% of the purchase price
		change := decimal.NewFromInt(int64(s.fake.Number(70, 150))).Div(decimal.NewFromInt(100))
		current := purchase.Mul(change).Round(2)
		in := models.InvestmentInput{
			Name:          ptr(s.fake.Company()),
			Type:          &investmentTypes[s.fake.Number(0, len(investmentTypes)-1)],
			Quantity:      ptr(decimal.NewFromInt(int64(s.fake.Number(1, 100)))),
			PurchasePrice: &purchase,
			CurrentPrice:  &current,
			PurchaseDate:  s.pastDate(730),
		}
		if err := in.ValidateCreate(); err != nil {
			return i, fmt.Errorf("сгенерирована некорректная инвестиция: %w", err)
		}
		investment := in.NewInvestment(userID)
		if err := s.store.CreateInvestment(ctx, &investment); err != nil {
			return i, fmt.Errorf("ошибка при добавлении инвестиции: %w", err)
		}
	}
	return n, nil
}

var priorities = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}

func (s *Seeder) GenerateTodos(ctx context.Context, userID, n int) (int, error) {
	for i := 0; i < n; i++ {
		due := models.Date{Time: s.today.AddDate(0, 0, s.fake.Number(-10, 30))}
		in := models.TodoInput{
			Title:     ptr(s.fake.HipsterSentence(4)),
			Completed: ptr(s.fake.Bool()),
			DueDate:   &due,
			Priority:  &priorities[s.fake.Number(0, len(priorities)-1)],
		}
		if err := in.ValidateCreate(); err != nil {
			return i, fmt.Errorf("сгенерирована некорректная задача: %w", err)
		}
		todo := in.NewTodo(userID)
		if err := s.store.CreateTodo(ctx, &todo); err != nil {
			return i, fmt.Errorf("ошибка при добавлении задачи: %w", err)
		}
	}
	return n, nil
}

// price returns a random amount in [min, max] with two decimal places.
func (s *Seeder) price(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(s.fake.Price(min, max)).Round(2)
}

func (s *Seeder) pastDate(days int) *models.Date {
	d := models.Date{Time: s.today.AddDate(0, 0, -s.fake.Number(0, days))}
	return &d
}

func ptr[T any](v T) *T { return &v }
