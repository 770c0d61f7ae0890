package ledger

import (
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestEngine() *Engine {
	return NewEngine(WithIDGenerator(sequentialIDs("id-")))
}

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func fields(t *testing.T, date, description, category string, typ entity.TransactionType, amount int64, businessID string) TransactionFields {
	t.Helper()
	return TransactionFields{
		Date:        mustDate(t, date),
		Description: description,
		Category:    category,
		Type:        typ,
		Amount:      decimal.NewFromInt(amount),
		BusinessID:  businessID,
	}
}

func assertKind(t *testing.T, err error, kind domainerror.LedgerErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !domainerror.IsLedgerErrorKind(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

func assertTotals(t *testing.T, got Totals, income, expense, balance int64) {
	t.Helper()
	if !got.Income.Equal(decimal.NewFromInt(income)) {
		t.Errorf("expected income %d, got %s", income, got.Income)
	}
	if !got.Expense.Equal(decimal.NewFromInt(expense)) {
		t.Errorf("expected expense %d, got %s", expense, got.Expense)
	}
	if !got.Balance.Equal(decimal.NewFromInt(balance)) {
		t.Errorf("expected balance %d, got %s", balance, got.Balance)
	}
}

func TestEngine_ShopScenario(t *testing.T) {
	e := NewEngine(WithIDGenerator(sequentialIDs("b")))

	shop, err := e.AddBusiness("Shop", entity.BusinessColorGreen)
	if err != nil {
		t.Fatalf("add business: %v", err)
	}
	if shop.ID != "b1" {
		t.Fatalf("expected id b1, got %s", shop.ID)
	}

	if _, err := e.AddTransaction(fields(t, "2024-01-01", "Sale", "Retail", entity.TransactionTypeIncome, 100, shop.ID)); err != nil {
		t.Fatalf("add sale: %v", err)
	}
	if _, err := e.AddTransaction(fields(t, "2024-01-02", "Rent", "Office", entity.TransactionTypeExpense, 40, shop.ID)); err != nil {
		t.Fatalf("add rent: %v", err)
	}

	assertTotals(t, CalculateTotals(e.VisibleTransactions()), 100, 40, 60)

	if err := e.SetSelection(Selection(shop.ID)); err != nil {
		t.Fatalf("select: %v", err)
	}
	assertTotals(t, CalculateTotals(e.VisibleTransactions()), 100, 40, 60)

	if err := e.DeleteBusiness(shop.ID); err != nil {
		t.Fatalf("delete business: %v", err)
	}
	if n := len(e.Transactions()); n != 0 {
		t.Errorf("expected no transactions after cascade, got %d", n)
	}
	if e.Selection() != SelectAll {
		t.Errorf("expected selection reset to all, got %s", e.Selection())
	}
	assertTotals(t, CalculateTotals(e.VisibleTransactions()), 0, 0, 0)
}

func TestEngine_AddBusiness(t *testing.T) {
	t.Run("defaults color to blue", func(t *testing.T) {
		e := newTestEngine()
		b, err := e.AddBusiness("Cafe", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Color != entity.BusinessColorBlue {
			t.Errorf("expected blue, got %s", b.Color)
		}
	})

	t.Run("trims name", func(t *testing.T) {
		e := newTestEngine()
		b, err := e.AddBusiness("  Cafe ", entity.BusinessColorTeal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Name != "Cafe" {
			t.Errorf("expected trimmed name, got %q", b.Name)
		}
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		e := newTestEngine()
		for _, name := range []string{"A", "B", "C"} {
			if _, err := e.AddBusiness(name, entity.BusinessColorRed); err != nil {
				t.Fatalf("add %s: %v", name, err)
			}
		}
		got := e.Businesses()
		for i, name := range []string{"A", "B", "C"} {
			if got[i].Name != name {
				t.Errorf("position %d: expected %s, got %s", i, name, got[i].Name)
			}
		}
	})

	tests := []struct {
		name  string
		input string
		color entity.BusinessColor
		code  domainerror.LedgerErrorCode
	}{
		{"empty name", "", entity.BusinessColorBlue, domainerror.ErrCodeEmptyBusinessName},
		{"blank name", "   ", entity.BusinessColorBlue, domainerror.ErrCodeEmptyBusinessName},
		{"unknown color", "Shop", entity.BusinessColor("gold"), domainerror.ErrCodeInvalidBusinessColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			_, err := e.AddBusiness(tt.input, tt.color)
			assertKind(t, err, domainerror.LedgerErrorKindValidation)

			var ledgerErr *domainerror.LedgerError
			if errors.As(err, &ledgerErr) && ledgerErr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, ledgerErr.Code)
			}
			if len(e.Businesses()) != 0 {
				t.Error("expected no business to be added")
			}
		})
	}
}

func TestEngine_EditBusiness(t *testing.T) {
	e := newTestEngine()
	a, _ := e.AddBusiness("A", entity.BusinessColorBlue)
	b, _ := e.AddBusiness("B", entity.BusinessColorBlue)

	updated, err := e.EditBusiness(a.ID, "Alpha", entity.BusinessColorPink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != a.ID || updated.Name != "Alpha" || updated.Color != entity.BusinessColorPink {
		t.Errorf("unexpected business %+v", updated)
	}
	if got := e.Businesses(); got[0].ID != a.ID || got[1].ID != b.ID {
		t.Error("expected edit to keep display order")
	}

	_, err = e.EditBusiness("missing", "X", entity.BusinessColorBlue)
	assertKind(t, err, domainerror.LedgerErrorKindNotFound)

	_, err = e.EditBusiness(a.ID, "", entity.BusinessColorBlue)
	assertKind(t, err, domainerror.LedgerErrorKindValidation)
	if got, _ := e.Business(a.ID); got.Name != "Alpha" {
		t.Errorf("expected failed edit to leave name untouched, got %s", got.Name)
	}
}

func TestEngine_DeleteBusinessFrameProperty(t *testing.T) {
	e := newTestEngine()
	a, _ := e.AddBusiness("A", entity.BusinessColorBlue)
	b, _ := e.AddBusiness("B", entity.BusinessColorGreen)
	c, _ := e.AddBusiness("C", entity.BusinessColorTeal)

	var keep []entity.Transaction
	for i, id := range []string{a.ID, b.ID, c.ID, b.ID, a.ID} {
		tx, err := e.AddTransaction(fields(t, "2024-02-01", fmt.Sprintf("t%d", i), "Misc", entity.TransactionTypeExpense, int64(i+1), id))
		if err != nil {
			t.Fatalf("add transaction: %v", err)
		}
		if id != b.ID {
			keep = append(keep, tx)
		}
	}
	if err := e.SetSelection(Selection(a.ID)); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := e.DeleteBusiness(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	businesses := e.Businesses()
	if len(businesses) != 2 || businesses[0] != a || businesses[1] != c {
		t.Errorf("unexpected businesses after delete: %+v", businesses)
	}
	got := e.Transactions()
	if len(got) != len(keep) {
		t.Fatalf("expected %d transactions, got %d", len(keep), len(got))
	}
	for i := range keep {
		if got[i] != keep[i] {
			t.Errorf("transaction %d changed: expected %+v, got %+v", i, keep[i], got[i])
		}
	}
	if e.Selection() != Selection(a.ID) {
		t.Errorf("expected selection to stay on %s, got %s", a.ID, e.Selection())
	}

	assertKind(t, e.DeleteBusiness(b.ID), domainerror.LedgerErrorKindNotFound)
}

func TestEngine_AddTransactionValidation(t *testing.T) {
	e := newTestEngine()
	shop, _ := e.AddBusiness("Shop", entity.BusinessColorGreen)

	valid := fields(t, "2024-01-01", "Sale", "Retail", entity.TransactionTypeIncome, 100, shop.ID)

	tests := []struct {
		name   string
		mutate func(f *TransactionFields)
		kind   domainerror.LedgerErrorKind
	}{
		{"empty description", func(f *TransactionFields) { f.Description = " " }, domainerror.LedgerErrorKindValidation},
		{"empty category", func(f *TransactionFields) { f.Category = "" }, domainerror.LedgerErrorKindValidation},
		{"negative amount", func(f *TransactionFields) { f.Amount = decimal.NewFromInt(-1) }, domainerror.LedgerErrorKindValidation},
		{"too many decimals", func(f *TransactionFields) { f.Amount = decimal.RequireFromString("1.005") }, domainerror.LedgerErrorKindValidation},
		{"invalid type", func(f *TransactionFields) { f.Type = "transfer" }, domainerror.LedgerErrorKindValidation},
		{"invalid date", func(f *TransactionFields) { f.Date = civil.Date{Year: 2024, Month: 2, Day: 30} }, domainerror.LedgerErrorKindValidation},
		{"zero date", func(f *TransactionFields) { f.Date = civil.Date{} }, domainerror.LedgerErrorKindValidation},
		{"unknown business", func(f *TransactionFields) { f.BusinessID = "nope" }, domainerror.LedgerErrorKindReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			_, err := e.AddTransaction(f)
			assertKind(t, err, tt.kind)
			if len(e.Transactions()) != 0 {
				t.Error("expected state to be unchanged")
			}
		})
	}

	t.Run("zero amount is allowed", func(t *testing.T) {
		f := valid
		f.Amount = decimal.Zero
		if _, err := e.AddTransaction(f); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestEngine_AddedTransactionsAreVisible(t *testing.T) {
	e := newTestEngine()
	a, _ := e.AddBusiness("A", entity.BusinessColorBlue)
	b, _ := e.AddBusiness("B", entity.BusinessColorBlue)

	added := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		owner := a.ID
		if i%3 == 0 {
			owner = b.ID
		}
		tx, err := e.AddTransaction(fields(t, "2024-05-01", "x", "y", entity.TransactionTypeIncome, int64(i), owner))
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		added[tx.ID] = struct{}{}
		if i%5 == 4 {
			if err := e.DeleteTransaction(tx.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			delete(added, tx.ID)
		}
	}

	visible := e.VisibleTransactions()
	if len(visible) != len(added) {
		t.Fatalf("expected %d visible, got %d", len(added), len(visible))
	}
	for _, tx := range visible {
		if _, ok := added[tx.ID]; !ok {
			t.Errorf("unexpected transaction %s", tx.ID)
		}
	}
}

func TestEngine_EditTransactionReassignsBusiness(t *testing.T) {
	e := newTestEngine()
	b1, _ := e.AddBusiness("One", entity.BusinessColorBlue)
	b2, _ := e.AddBusiness("Two", entity.BusinessColorRed)

	tx, err := e.AddTransaction(fields(t, "2024-01-01", "Sale", "Retail", entity.TransactionTypeIncome, 100, b1.ID))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	f := fields(t, "2024-01-03", "Sale", "Retail", entity.TransactionTypeIncome, 100, b2.ID)
	updated, err := e.EditTransaction(tx.ID, f)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.ID != tx.ID {
		t.Errorf("expected id to be kept, got %s", updated.ID)
	}

	stats := e.PerBusinessStats()
	if stats[0].Count != 0 || !stats[0].Income.IsZero() {
		t.Errorf("expected %s to be empty, got %+v", b1.Name, stats[0])
	}
	if stats[1].Count != 1 || !stats[1].Income.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected %s to hold the transaction, got %+v", b2.Name, stats[1])
	}

	_, err = e.EditTransaction(tx.ID, fields(t, "2024-01-03", "Sale", "Retail", entity.TransactionTypeIncome, 100, "missing"))
	assertKind(t, err, domainerror.LedgerErrorKindReference)

	_, err = e.EditTransaction("missing", f)
	assertKind(t, err, domainerror.LedgerErrorKindNotFound)
}

func TestEngine_SetSelection(t *testing.T) {
	e := newTestEngine()
	a, _ := e.AddBusiness("A", entity.BusinessColorBlue)
	b, _ := e.AddBusiness("B", entity.BusinessColorBlue)
	_, _ = e.AddTransaction(fields(t, "2024-01-01", "x", "y", entity.TransactionTypeIncome, 1, a.ID))
	_, _ = e.AddTransaction(fields(t, "2024-01-01", "x", "y", entity.TransactionTypeIncome, 2, b.ID))

	if err := e.SetSelection(Selection(b.ID)); err != nil {
		t.Fatalf("select: %v", err)
	}
	visible := e.VisibleTransactions()
	if len(visible) != 1 || visible[0].BusinessID != b.ID {
		t.Errorf("expected only %s transactions, got %+v", b.ID, visible)
	}

	assertKind(t, e.SetSelection("missing"), domainerror.LedgerErrorKindNotFound)
	if e.Selection() != Selection(b.ID) {
		t.Error("expected failed selection to keep previous value")
	}

	if err := e.SetSelection(SelectAll); err != nil {
		t.Fatalf("select all: %v", err)
	}
	if len(e.VisibleTransactions()) != 2 {
		t.Error("expected all transactions to be visible")
	}
}

func TestEngine_SnapshotRestore(t *testing.T) {
	e := newTestEngine()
	a, _ := e.AddBusiness("A", entity.BusinessColorBlue)
	_, _ = e.AddTransaction(fields(t, "2024-01-01", "x", "y", entity.TransactionTypeIncome, 1, a.ID))
	_ = e.SetSelection(Selection(a.ID))

	snap := e.Snapshot()
	if err := e.DeleteBusiness(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	e.Restore(snap)

	if len(e.Businesses()) != 1 || len(e.Transactions()) != 1 {
		t.Errorf("expected state to be restored, got %d businesses and %d transactions", len(e.Businesses()), len(e.Transactions()))
	}
	if e.Selection() != Selection(a.ID) {
		t.Errorf("expected selection %s, got %s", a.ID, e.Selection())
	}
}

func TestEngine_Load(t *testing.T) {
	biz := []entity.Business{{ID: "b1", Name: "One", Color: entity.BusinessColorBlue}}
	txs := []entity.Transaction{{
		ID: "t1", Date: civil.Date{Year: 2024, Month: 1, Day: 1}, Description: "x", Category: "y",
		Type: entity.TransactionTypeIncome, Amount: decimal.NewFromInt(5), BusinessID: "b1",
	}}

	t.Run("replaces state", func(t *testing.T) {
		e := newTestEngine()
		if err := e.Load(biz, txs); err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(e.Businesses()) != 1 || len(e.Transactions()) != 1 {
			t.Error("expected loaded state")
		}
	})

	t.Run("rejects orphaned transactions", func(t *testing.T) {
		e := newTestEngine()
		orphan := append([]entity.Transaction(nil), txs...)
		orphan[0].BusinessID = "b2"
		assertKind(t, e.Load(biz, orphan), domainerror.LedgerErrorKindReference)
		if len(e.Businesses()) != 0 {
			t.Error("expected state to be unchanged")
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		e := newTestEngine()
		err := e.Load(append(biz, biz[0]), nil)
		if !errors.Is(err, domainerror.ErrDuplicateID) {
			t.Errorf("expected duplicate id error, got %v", err)
		}
	})

	t.Run("resets stale selection", func(t *testing.T) {
		e := newTestEngine()
		_ = e.Load(biz, nil)
		_ = e.SetSelection("b1")
		if err := e.Load(nil, nil); err != nil {
			t.Fatalf("load: %v", err)
		}
		if e.Selection() != SelectAll {
			t.Errorf("expected selection reset, got %s", e.Selection())
		}
	})

	t.Run("replace transactions keeps businesses", func(t *testing.T) {
		e := newTestEngine()
		_ = e.Load(biz, txs)
		if err := e.ReplaceTransactions(nil); err != nil {
			t.Fatalf("replace: %v", err)
		}
		if len(e.Businesses()) != 1 || len(e.Transactions()) != 0 {
			t.Error("expected only transactions to be replaced")
		}
	})

	t.Run("replace transactions keeps the held order", func(t *testing.T) {
		e := newTestEngine()
		tx := func(id, description string) entity.Transaction {
			return entity.Transaction{
				ID: id, Date: civil.Date{Year: 2024, Month: 1, Day: 1}, Description: description, Category: "y",
				Type: entity.TransactionTypeIncome, Amount: decimal.NewFromInt(5), BusinessID: "b1",
			}
		}
		_ = e.Load(biz, []entity.Transaction{tx("t1", "first"), tx("t2", "second"), tx("t3", "third")})

		fetched := []entity.Transaction{tx("t4", "new"), tx("t3", "third"), tx("t1", "first edited")}
		if err := e.ReplaceTransactions(fetched); err != nil {
			t.Fatalf("replace: %v", err)
		}

		got := e.Transactions()
		expected := []string{"t1", "t3", "t4"}
		if len(got) != len(expected) {
			t.Fatalf("expected %d transactions, got %d", len(expected), len(got))
		}
		for i, id := range expected {
			if got[i].ID != id {
				t.Errorf("expected %s at %d, got %s", id, i, got[i].ID)
			}
		}
		if got[0].Description != "first edited" {
			t.Errorf("expected fetched values to win, got %q", got[0].Description)
		}

		sorted := SortedByDateDescending(got)
		if sorted[0].ID != "t1" || sorted[1].ID != "t3" {
			t.Errorf("expected equal dates to keep held order, got %s %s", sorted[0].ID, sorted[1].ID)
		}
	})
}
