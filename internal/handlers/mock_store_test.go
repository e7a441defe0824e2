package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// MockStore is an in-memory Store with the same ownership rules as the
// PostgreSQL one: rows of other users are reported as not found.
type MockStore struct {
	mu sync.Mutex

	users        map[int]*models.User
	passwords    map[int]string
	sessions     map[string]*models.Session
	transactions map[int]*models.Transaction
	categories   map[int]*models.Category
	budgets      map[int]*models.Budget
	investments  map[int]*models.Investment
	todos        map[int]*models.Todo
	prefs        map[int]*models.UserPreferences
	nextID       int

	pingErr error
}

func NewMockStore() *MockStore {
	return &MockStore{
		users:        map[int]*models.User{},
		passwords:    map[int]string{},
		sessions:     map[string]*models.Session{},
		transactions: map[int]*models.Transaction{},
		categories:   map[int]*models.Category{},
		budgets:      map[int]*models.Budget{},
		investments:  map[int]*models.Investment{},
		todos:        map[int]*models.Todo{},
		prefs:        map[int]*models.UserPreferences{},
	}
}

func (m *MockStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *MockStore) Ping(context.Context) error { return m.pingErr }

func (m *MockStore) RegisterUser(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := models.NormalizeEmail(req.Email)
	for _, u := range m.users {
		if u.Email == email {
			return nil, database.ErrConflict
		}
	}
	u := &models.User{ID: m.id(), Name: req.Name, Email: email, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.users[u.ID] = u
	m.passwords[u.ID] = req.Password
	cp := *u
	return &cp, nil
}

func (m *MockStore) AuthenticateUser(_ context.Context, email, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email && m.passwords[u.ID] == password {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrInvalidCredentials
}

func (m *MockStore) ListUsers(_ context.Context, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return []models.User{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockStore) SetUserAdmin(_ context.Context, id int, isAdmin bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	u.IsAdmin = isAdmin
	cp := *u
	return &cp, nil
}

func (m *MockStore) CreateSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.CreatedAt = time.Now()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *MockStore) GetActiveSession(_ context.Context, id string) (*models.Session, *models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || !s.Active(time.Now()) {
		return nil, nil, database.ErrNotFound
	}
	u, ok := m.users[s.UserID]
	if !ok {
		return nil, nil, database.ErrNotFound
	}
	sc, uc := *s, *u
	return &sc, &uc, nil
}

func (m *MockStore) RevokeSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok && s.RevokedAt == nil {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func (m *MockStore) RevokeUserSessions(_ context.Context, userID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	now := time.Now()
	for _, s := range m.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (m *MockStore) CreateTransaction(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	cp := *t
	m.transactions[t.ID] = &cp
	return nil
}

func (m *MockStore) CreateTransactionSeries(_ context.Context, series []models.Transaction) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Transaction, len(series))
	for i, t := range series {
		t.ID = m.id()
		cp := t
		m.transactions[t.ID] = &cp
		out[i] = t
	}
	return out, nil
}

func (m *MockStore) GetTransaction(_ context.Context, userID, id int) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return nil, database.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockStore) ListTransactions(_ context.Context, userID int, f models.TransactionFilter) ([]models.Transaction, int, error) {
	if err := f.Normalize(); err != nil {
		return nil, 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.transactions {
		switch {
		case t.UserID != userID,
			f.Type != "" && t.Type != f.Type,
			f.CategoryID > 0 && (t.CategoryID == nil || *t.CategoryID != f.CategoryID),
			f.From != nil && t.Date.Before(*f.From),
			f.To != nil && t.Date.After(*f.To),
			f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount),
			f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount),
			f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)),
			f.SeriesID != "" && (t.SeriesID == nil || *t.SeriesID != f.SeriesID):
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date) == (f.Sort == "asc")
		}
		return (out[i].ID < out[j].ID) == (f.Sort == "asc")
	})
	total := len(out)
	if f.Offset >= len(out) {
		return []models.Transaction{}, total, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *MockStore) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.transactions[t.ID]
	if !ok || cur.UserID != t.UserID {
		return database.ErrNotFound
	}
	cp := *t
	m.transactions[t.ID] = &cp
	return nil
}

func (m *MockStore) DeleteTransaction(_ context.Context, userID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return database.ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MockStore) DeleteTransactionSeries(_ context.Context, userID int, seriesID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.transactions {
		if t.UserID == userID && t.SeriesID != nil && *t.SeriesID == seriesID {
			delete(m.transactions, id)
			n++
		}
	}
	if n == 0 {
		return 0, database.ErrNotFound
	}
	return n, nil
}

func (m *MockStore) BatchDeleteTransactions(_ context.Context, userID int, ids []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return batchDelete(m.transactions, ids, func(t *models.Transaction) bool { return t.UserID == userID }), nil
}

func batchDelete[T any](rows map[int]*T, ids []int, owned func(*T) bool) int64 {
	var n int64
	for _, id := range ids {
		if r, ok := rows[id]; ok && owned(r) {
			delete(rows, id)
			n++
		}
	}
	return n
}

func (m *MockStore) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func visible(c *models.Category, userID int) bool {
	return c.UserID == nil || *c.UserID == userID
}

func sameOwner(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *MockStore) GetCategory(_ context.Context, userID, id int) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok || !visible(c, userID) {
		return nil, database.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockStore) ListCategories(_ context.Context, userID int, t models.TransactionType) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Category{}
	for _, c := range m.categories {
		if visible(c, userID) && (t == "" || c.Type == t) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) CategoryInUse(_ context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.CategoryID != nil && *t.CategoryID == id {
			return true, nil
		}
	}
	for _, b := range m.budgets {
		if b.CategoryID != nil && *b.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockStore) UpdateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.categories[c.ID]
	if !ok || !sameOwner(cur.UserID, c.UserID) {
		return database.ErrNotFound
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *MockStore) DeleteCategory(_ context.Context, owner *int, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.categories[id]
	if !ok || !sameOwner(cur.UserID, owner) {
		return database.ErrNotFound
	}
	delete(m.categories, id)
	for _, t := range m.transactions {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
		}
	}
	return nil
}

func (m *MockStore) BatchDeleteCategories(_ context.Context, userID int, ids []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return batchDelete(m.categories, ids, func(c *models.Category) bool { return c.UserID != nil && *c.UserID == userID }), nil
}

// spent mirrors the LEFT JOIN in the SQL store.
func (m *MockStore) spent(b *models.Budget) decimal.Decimal {
	total := decimal.Zero
	for _, t := range m.transactions {
		if t.UserID != b.UserID || t.Type != models.TransactionExpense ||
			t.Date.Before(b.StartDate) || t.Date.After(b.EndDate) {
			continue
		}
		if b.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *b.CategoryID) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

func (m *MockStore) budgetView(b *models.Budget) *models.Budget {
	cp := *b
	cp.Spent = m.spent(b)
	cp.Remaining = cp.Amount.Sub(cp.Spent)
	return &cp
}

func (m *MockStore) CreateBudget(_ context.Context, b *models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.id()
	cp := *b
	m.budgets[b.ID] = &cp
	*b = *m.budgetView(&cp)
	return nil
}

func (m *MockStore) GetBudget(_ context.Context, userID, id int) (*models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return nil, database.ErrNotFound
	}
	return m.budgetView(b), nil
}

func (m *MockStore) ListBudgets(_ context.Context, userID int, activeOn *models.Date) ([]models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Budget{}
	for _, b := range m.budgets {
		if b.UserID != userID {
			continue
		}
		if activeOn != nil && (activeOn.Before(b.StartDate) || activeOn.After(b.EndDate)) {
			continue
		}
		out = append(out, *m.budgetView(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) UpdateBudget(_ context.Context, b *models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.budgets[b.ID]
	if !ok || cur.UserID != b.UserID {
		return database.ErrNotFound
	}
	cp := *b
	m.budgets[b.ID] = &cp
	*b = *m.budgetView(&cp)
	return nil
}

func (m *MockStore) DeleteBudget(_ context.Context, userID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return database.ErrNotFound
	}
	delete(m.budgets, id)
	return nil
}

func (m *MockStore) BatchDeleteBudgets(_ context.Context, userID int, ids []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return batchDelete(m.budgets, ids, func(b *models.Budget) bool { return b.UserID == userID }), nil
}

func (m *MockStore) CreateInvestment(_ context.Context, i *models.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i.ID = m.id()
	cp := *i
	m.investments[i.ID] = &cp
	return nil
}

func (m *MockStore) GetInvestment(_ context.Context, userID, id int) (*models.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.investments[id]
	if !ok || i.UserID != userID {
		return nil, database.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (m *MockStore) ListInvestments(_ context.Context, userID int, t models.InvestmentType) ([]models.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Investment{}
	for _, i := range m.investments {
		if i.UserID == userID && (t == "" || i.Type == t) {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (m *MockStore) UpdateInvestment(_ context.Context, i *models.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.investments[i.ID]
	if !ok || cur.UserID != i.UserID {
		return database.ErrNotFound
	}
	cp := *i
	m.investments[i.ID] = &cp
	return nil
}

func (m *MockStore) DeleteInvestment(_ context.Context, userID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.investments[id]
	if !ok || i.UserID != userID {
		return database.ErrNotFound
	}
	delete(m.investments, id)
	return nil
}

func (m *MockStore) BatchDeleteInvestments(_ context.Context, userID int, ids []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return batchDelete(m.investments, ids, func(i *models.Investment) bool { return i.UserID == userID }), nil
}

func (m *MockStore) CreateTodo(_ context.Context, t *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	cp := *t
	m.todos[t.ID] = &cp
	return nil
}

func (m *MockStore) GetTodo(_ context.Context, userID, id int) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok || t.UserID != userID {
		return nil, database.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockStore) ListTodos(_ context.Context, userID int, completed *bool) ([]models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Todo{}
	for _, t := range m.todos {
		if t.UserID == userID && (completed == nil || t.Completed == *completed) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) UpdateTodo(_ context.Context, t *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.todos[t.ID]
	if !ok || cur.UserID != t.UserID {
		return database.ErrNotFound
	}
	cp := *t
	m.todos[t.ID] = &cp
	return nil
}

func (m *MockStore) DeleteTodo(_ context.Context, userID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok || t.UserID != userID {
		return database.ErrNotFound
	}
	delete(m.todos, id)
	return nil
}

func (m *MockStore) BatchDeleteTodos(_ context.Context, userID int, ids []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return batchDelete(m.todos, ids, func(t *models.Todo) bool { return t.UserID == userID }), nil
}

func (m *MockStore) GetPreferences(_ context.Context, userID int) (*models.UserPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.prefs[userID]; ok {
		cp := *p
		cp.Settings = make(map[string]any, len(p.Settings))
		for k, v := range p.Settings {
			cp.Settings[k] = v
		}
		return &cp, nil
	}
	d := models.DefaultPreferences(userID)
	return &d, nil
}

func (m *MockStore) UpsertPreferences(_ context.Context, p *models.UserPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.UpdatedAt = time.Now()
	cp := *p
	m.prefs[p.UserID] = &cp
	return nil
}

func (m *MockStore) Summary(_ context.Context, userID int, from, to models.Date) (*models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.Summary{From: from, To: to}
	for _, t := range m.transactions {
		if t.UserID != userID || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		s.Count++
		if t.Type == models.TransactionIncome {
			s.Income = s.Income.Add(t.Amount)
		} else {
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Finish()
	return s, nil
}

func (m *MockStore) CategoryBreakdown(_ context.Context, userID int, txType models.TransactionType, from, to models.Date) ([]models.CategoryTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID := map[int]*models.CategoryTotal{}
	for _, t := range m.transactions {
		if t.UserID != userID || t.Type != txType || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		key := 0
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		ct, ok := byID[key]
		if !ok {
			ct = &models.CategoryTotal{Category: "Uncategorized", Color: models.DefaultCategoryColor}
			if c, found := m.categories[key]; found {
				id := c.ID
				ct.CategoryID, ct.Category, ct.Color = &id, c.Name, c.Color
			}
			byID[key] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}
	out := []models.CategoryTotal{}
	for _, ct := range byID {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}

func (m *MockStore) MonthlyTotals(_ context.Context, userID int, months int, now time.Time) ([]models.MonthlyTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := models.NewDate(now.Year(), now.Month()-time.Month(months-1), 1)
	data := map[string]models.MonthlyTotal{}
	for _, t := range m.transactions {
		if t.UserID != userID || t.Date.Before(start) {
			continue
		}
		key := t.Date.Format("2006-01")
		mt := data[key]
		mt.Month = key
		if t.Type == models.TransactionIncome {
			mt.Income = mt.Income.Add(t.Amount)
		} else {
			mt.Expense = mt.Expense.Add(t.Amount)
		}
		data[key] = mt
	}
	return database.FillMonths(start, months, data), nil
}

func (m *MockStore) AdminStats(context.Context) (*models.AdminStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.AdminStats{
		TotalUsers:   len(m.users),
		Transactions: len(m.transactions),
		Budgets:      len(m.budgets),
		Investments:  len(m.investments),
		Todos:        len(m.todos),
	}
	for _, u := range m.users {
		if u.IsAdmin {
			s.AdminUsers++
		}
	}
	for _, sess := range m.sessions {
		if sess.Active(time.Now()) {
			s.ActiveSessions++
		}
	}
	s.RegularUsers = s.TotalUsers - s.AdminUsers
	return s, nil
}

var _ Store = (*MockStore)(nil)
