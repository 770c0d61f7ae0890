// Package ledger holds the in-memory state of one user's businesses and
// transactions and computes the balances shown to that user.
//
// An Engine performs no I/O and is not safe for concurrent use; callers
// serialise access to it.
package ledger

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

// Selection is either SelectAll or the id of a present business.
type Selection string

// SelectAll selects every business.
const SelectAll Selection = "all"

// IsAll reports whether every business is selected.
func (s Selection) IsAll() bool {
	return s == SelectAll
}

// TransactionFields holds the mutable fields of a transaction.
type TransactionFields struct {
	Date        civil.Date
	Description string
	Category    string
	Type        entity.TransactionType
	Amount      decimal.Decimal
	BusinessID  string
}

// Engine is the ledger state container for a single session.
type Engine struct {
	businesses   []entity.Business
	transactions []entity.Transaction
	selection    Selection
	newID        func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an empty engine with the selection set to all businesses.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		selection: SelectAll,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	return e.selection
}

// Businesses returns a copy of the businesses in display order.
func (e *Engine) Businesses() []entity.Business {
	out := make([]entity.Business, len(e.businesses))
	copy(out, e.businesses)
	return out
}

// Transactions returns a copy of all transactions in storage order.
func (e *Engine) Transactions() []entity.Transaction {
	out := make([]entity.Transaction, len(e.transactions))
	copy(out, e.transactions)
	return out
}

// Business looks up a business by id.
func (e *Engine) Business(id string) (entity.Business, bool) {
	if i := e.businessIndex(id); i >= 0 {
		return e.businesses[i], true
	}
	return entity.Business{}, false
}

// Transaction looks up a transaction by id.
func (e *Engine) Transaction(id string) (entity.Transaction, bool) {
	if i := e.transactionIndex(id); i >= 0 {
		return e.transactions[i], true
	}
	return entity.Transaction{}, false
}

// AddBusiness appends a new business. An empty color falls back to the default color.
func (e *Engine) AddBusiness(name string, color entity.BusinessColor) (entity.Business, error) {
	if color == "" {
		color = entity.DefaultBusinessColor
	}
	name, err := validateBusiness(name, color)
	if err != nil {
		return entity.Business{}, err
	}

	b := entity.Business{ID: e.newID(), Name: name, Color: color}
	e.businesses = append(e.businesses, b)
	return b, nil
}

// EditBusiness replaces the name and color of an existing business in place.
func (e *Engine) EditBusiness(id, name string, color entity.BusinessColor) (entity.Business, error) {
	i := e.businessIndex(id)
	if i < 0 {
		return entity.Business{}, businessNotFound(id)
	}
	name, err := validateBusiness(name, color)
	if err != nil {
		return entity.Business{}, err
	}

	e.businesses[i].Name = name
	e.businesses[i].Color = color
	return e.businesses[i], nil
}

// DeleteBusiness removes a business together with every transaction that references it.
// If the business was selected the selection falls back to all businesses.
func (e *Engine) DeleteBusiness(id string) error {
	i := e.businessIndex(id)
	if i < 0 {
		return businessNotFound(id)
	}

	e.businesses = append(e.businesses[:i:i], e.businesses[i+1:]...)

	kept := make([]entity.Transaction, 0, len(e.transactions))
	for _, t := range e.transactions {
		if t.BusinessID != id {
			kept = append(kept, t)
		}
	}
	e.transactions = kept

	if e.selection == Selection(id) {
		e.selection = SelectAll
	}
	return nil
}

// AddTransaction appends a new transaction.
func (e *Engine) AddTransaction(fields TransactionFields) (entity.Transaction, error) {
	fields, err := e.validateTransaction(fields)
	if err != nil {
		return entity.Transaction{}, err
	}

	t := newTransaction(e.newID(), fields)
	e.transactions = append(e.transactions, t)
	return t, nil
}

// EditTransaction replaces every mutable field of an existing transaction,
// including the business it belongs to.
func (e *Engine) EditTransaction(id string, fields TransactionFields) (entity.Transaction, error) {
	i := e.transactionIndex(id)
	if i < 0 {
		return entity.Transaction{}, transactionNotFound(id)
	}
	fields, err := e.validateTransaction(fields)
	if err != nil {
		return entity.Transaction{}, err
	}

	e.transactions[i] = newTransaction(id, fields)
	return e.transactions[i], nil
}

// DeleteTransaction removes a transaction.
func (e *Engine) DeleteTransaction(id string) error {
	i := e.transactionIndex(id)
	if i < 0 {
		return transactionNotFound(id)
	}
	e.transactions = append(e.transactions[:i:i], e.transactions[i+1:]...)
	return nil
}

// SetSelection selects all businesses or a single present business.
func (e *Engine) SetSelection(s Selection) error {
	if !s.IsAll() && e.businessIndex(string(s)) < 0 {
		return businessNotFound(string(s))
	}
	e.selection = s
	return nil
}

// Load replaces the whole state with authoritative data. Nothing changes if the data
// is inconsistent. A selection that no longer references a business falls back to all.
func (e *Engine) Load(businesses []entity.Business, transactions []entity.Transaction) error {
	ids := make(map[string]struct{}, len(businesses))
	for _, b := range businesses {
		if _, dup := ids[b.ID]; dup || b.ID == "" {
			return domainerror.NewLedgerError(domainerror.ErrCodeDuplicateID, "duplicate or empty business id "+b.ID, domainerror.ErrDuplicateID)
		}
		if _, err := validateBusiness(b.Name, b.Color); err != nil {
			return err
		}
		ids[b.ID] = struct{}{}
	}
	if err := checkTransactions(transactions, ids); err != nil {
		return err
	}

	e.businesses = append([]entity.Business(nil), businesses...)
	e.transactions = append([]entity.Transaction(nil), transactions...)
	if !e.selection.IsAll() {
		if _, ok := ids[string(e.selection)]; !ok {
			e.selection = SelectAll
		}
	}
	return nil
}

// ReplaceTransactions swaps in a freshly fetched transaction set, keeping businesses and selection.
// Transactions the engine already holds keep their current relative order. Unknown ones are
// appended in the order given.
func (e *Engine) ReplaceTransactions(transactions []entity.Transaction) error {
	ids := make(map[string]struct{}, len(e.businesses))
	for _, b := range e.businesses {
		ids[b.ID] = struct{}{}
	}
	if err := checkTransactions(transactions, ids); err != nil {
		return err
	}

	fetched := make(map[string]int, len(transactions))
	for i, t := range transactions {
		fetched[t.ID] = i
	}
	placed := make([]bool, len(transactions))
	merged := make([]entity.Transaction, 0, len(transactions))
	for _, held := range e.transactions {
		if i, ok := fetched[held.ID]; ok {
			merged = append(merged, transactions[i])
			placed[i] = true
		}
	}
	for i, t := range transactions {
		if !placed[i] {
			merged = append(merged, t)
		}
	}
	e.transactions = merged
	return nil
}

// Snapshot captures the current state so that a failed remote write can be reverted.
type Snapshot struct {
	businesses   []entity.Business
	transactions []entity.Transaction
	selection    Selection
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		businesses:   e.Businesses(),
		transactions: e.Transactions(),
		selection:    e.selection,
	}
}

// Restore puts the engine back into a previously captured state.
func (e *Engine) Restore(s Snapshot) {
	e.businesses = append([]entity.Business(nil), s.businesses...)
	e.transactions = append([]entity.Transaction(nil), s.transactions...)
	e.selection = s.selection
}

func (e *Engine) businessIndex(id string) int {
	for i := range e.businesses {
		if e.businesses[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) transactionIndex(id string) int {
	for i := range e.transactions {
		if e.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) validateTransaction(fields TransactionFields) (TransactionFields, error) {
	fields, err := validateTransactionFields(fields)
	if err != nil {
		return fields, err
	}
	if e.businessIndex(fields.BusinessID) < 0 {
		return fields, unknownBusiness(fields.BusinessID)
	}
	return fields, nil
}

func newTransaction(id string, f TransactionFields) entity.Transaction {
	return entity.Transaction{
		ID:          id,
		Date:        f.Date,
		Description: f.Description,
		Category:    f.Category,
		Type:        f.Type,
		Amount:      f.Amount,
		BusinessID:  f.BusinessID,
	}
}

func validateBusiness(name string, color entity.BusinessColor) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domainerror.NewLedgerError(domainerror.ErrCodeEmptyBusinessName, "business name is required", domainerror.ErrEmptyBusinessName)
	}
	if !color.IsValid() {
		return "", domainerror.NewLedgerError(domainerror.ErrCodeInvalidBusinessColor, "color must be one of the palette colors", domainerror.ErrInvalidBusinessColor)
	}
	return name, nil
}

func validateTransactionFields(f TransactionFields) (TransactionFields, error) {
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)

	switch {
	case !f.Date.IsValid():
		return f, domainerror.NewLedgerError(domainerror.ErrCodeInvalidTransactionDate, "date must be a valid calendar date", domainerror.ErrInvalidTransactionDate)
	case f.Description == "":
		return f, domainerror.NewLedgerError(domainerror.ErrCodeEmptyDescription, "description is required", domainerror.ErrEmptyDescription)
	case f.Category == "":
		return f, domainerror.NewLedgerError(domainerror.ErrCodeEmptyCategory, "category is required", domainerror.ErrEmptyCategory)
	case !f.Type.IsValid():
		return f, domainerror.NewLedgerError(domainerror.ErrCodeInvalidTransactionType, "type must be income or expense", domainerror.ErrInvalidTransactionType)
	case f.Amount.IsNegative():
		return f, domainerror.NewLedgerError(domainerror.ErrCodeNegativeAmount, "amount must not be negative", domainerror.ErrNegativeAmount)
	case !f.Amount.Equal(f.Amount.Round(2)):
		return f, domainerror.NewLedgerError(domainerror.ErrCodeAmountPrecision, "amount must have at most two decimal places", domainerror.ErrAmountPrecision)
	}
	return f, nil
}

func checkTransactions(transactions []entity.Transaction, businessIDs map[string]struct{}) error {
	seen := make(map[string]struct{}, len(transactions))
	for _, t := range transactions {
		if _, dup := seen[t.ID]; dup || t.ID == "" {
			return domainerror.NewLedgerError(domainerror.ErrCodeDuplicateID, "duplicate or empty transaction id "+t.ID, domainerror.ErrDuplicateID)
		}
		seen[t.ID] = struct{}{}

		if _, err := validateTransactionFields(fieldsOf(t)); err != nil {
			return err
		}
		if _, ok := businessIDs[t.BusinessID]; !ok {
			return unknownBusiness(t.BusinessID)
		}
	}
	return nil
}

func fieldsOf(t entity.Transaction) TransactionFields {
	return TransactionFields{
		Date:        t.Date,
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
		Amount:      t.Amount,
		BusinessID:  t.BusinessID,
	}
}

func businessNotFound(id string) error {
	return domainerror.NewLedgerError(domainerror.ErrCodeBusinessNotFound, "business "+id+" not found", domainerror.ErrBusinessNotFound)
}

func transactionNotFound(id string) error {
	return domainerror.NewLedgerError(domainerror.ErrCodeTransactionNotFound, "transaction "+id+" not found", domainerror.ErrTransactionNotFound)
}

func unknownBusiness(id string) error {
	return domainerror.NewLedgerError(domainerror.ErrCodeUnknownBusiness, "business "+id+" does not exist", domainerror.ErrUnknownBusiness)
}
