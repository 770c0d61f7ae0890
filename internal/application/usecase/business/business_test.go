package business

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/application/session/sessiontest"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
	"github.com/multibook/backend/internal/domain/ledger"
)

type fixture struct {
	store    *sessiontest.Store
	sessions *session.Manager
	create   *CreateBusinessUseCase
	update   *UpdateBusinessUseCase
	delete   *DeleteBusinessUseCase
	list     *ListBusinessesUseCase
	selectUC *SelectBusinessUseCase
}

func newFixture() *fixture {
	store := sessiontest.NewStore()
	sessions := store.NewManager(session.Config{})
	repo := store.BusinessRepository()
	return &fixture{
		store:    store,
		sessions: sessions,
		create:   NewCreateBusinessUseCase(sessions, repo),
		update:   NewUpdateBusinessUseCase(sessions, repo),
		delete:   NewDeleteBusinessUseCase(sessions, repo),
		list:     NewListBusinessesUseCase(sessions),
		selectUC: NewSelectBusinessUseCase(sessions),
	}
}

func TestCreateBusiness(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	ctx := context.Background()

	first, err := f.create.Execute(ctx, CreateBusinessInput{UserID: userID, Name: "Shop"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Business.Color != entity.BusinessColorBlue {
		t.Errorf("expected default color, got %s", first.Business.Color)
	}
	if _, err := f.create.Execute(ctx, CreateBusinessInput{UserID: userID, Name: "Cafe", Color: entity.BusinessColorTeal}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.store.Businesses(userID)
	if len(stored) != 2 || stored[0].Name != "Shop" || stored[1].Name != "Cafe" {
		t.Errorf("expected businesses persisted in order, got %+v", stored)
	}

	_, err = f.create.Execute(ctx, CreateBusinessInput{UserID: userID, Name: "", Color: entity.BusinessColorTeal})
	if !errors.Is(err, domainerror.ErrEmptyBusinessName) {
		t.Errorf("expected empty name error, got %v", err)
	}
}

func TestCreateBusiness_OrderSurvivesReload(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	ctx := context.Background()

	ids := map[string]string{}
	for _, name := range []string{"A", "B", "C"} {
		out, err := f.create.Execute(ctx, CreateBusinessInput{UserID: userID, Name: name})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids[name] = out.Business.ID
	}
	for _, name := range []string{"A", "B"} {
		if _, err := f.delete.Execute(ctx, DeleteBusinessInput{UserID: userID, BusinessID: ids[name]}); err != nil {
			t.Fatalf("delete %s: %v", name, err)
		}
	}
	if _, err := f.create.Execute(ctx, CreateBusinessInput{UserID: userID, Name: "D"}); err != nil {
		t.Fatalf("create D: %v", err)
	}

	names := func() []string {
		out, err := f.list.Execute(ctx, ListBusinessesInput{UserID: userID})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		var got []string
		for _, b := range out.Businesses {
			got = append(got, b.Name)
		}
		return got
	}

	before := names()
	f.sessions.Evict(userID)
	after := names()

	if len(before) != 2 || before[0] != "C" || before[1] != "D" {
		t.Fatalf("expected [C D] before reload, got %v", before)
	}
	if len(after) != 2 || after[0] != before[0] || after[1] != before[1] {
		t.Errorf("expected %v after reload, got %v", before, after)
	}
}

func TestCreateBusiness_RemoteFailureLeavesLedgerUntouched(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	ctx := context.Background()

	f.store.FailWrites(true)
	_, err := f.create.Execute(ctx, CreateBusinessInput{UserID: userID, Name: "Shop"})
	if !domainerror.IsLedgerErrorKind(err, domainerror.LedgerErrorKindRemotePersistence) {
		t.Fatalf("expected remote persistence error, got %v", err)
	}

	out, err := f.list.Execute(ctx, ListBusinessesInput{UserID: userID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Businesses) != 0 {
		t.Errorf("expected no businesses, got %+v", out.Businesses)
	}
}

func TestUpdateBusiness(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	ctx := context.Background()

	created, _ := f.create.Execute(ctx, CreateBusinessInput{UserID: userID, Name: "Shop", Color: entity.BusinessColorGreen})

	name := "Shop & Co"
	out, err := f.update.Execute(ctx, UpdateBusinessInput{UserID: userID, BusinessID: created.Business.ID, Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Business.Name != name || out.Business.Color != entity.BusinessColorGreen {
		t.Errorf("expected name change only, got %+v", out.Business)
	}
	if stored := f.store.Businesses(userID); stored[0].Name != name {
		t.Errorf("expected stored name %q, got %q", name, stored[0].Name)
	}

	bad := entity.BusinessColor("gold")
	_, err = f.update.Execute(ctx, UpdateBusinessInput{UserID: userID, BusinessID: created.Business.ID, Color: &bad})
	if !domainerror.IsLedgerErrorKind(err, domainerror.LedgerErrorKindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	_, err = f.update.Execute(ctx, UpdateBusinessInput{UserID: userID, BusinessID: "missing", Name: &name})
	if !domainerror.IsLedgerErrorKind(err, domainerror.LedgerErrorKindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestDeleteBusiness_ResetsSelection(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	ctx := context.Background()

	created, _ := f.create.Execute(ctx, CreateBusinessInput{UserID: userID, Name: "Shop"})
	id := created.Business.ID

	sel, err := f.selectUC.Execute(ctx, SelectBusinessInput{UserID: userID, Selection: ledger.Selection(id)})
	if err != nil || sel.Selection != ledger.Selection(id) {
		t.Fatalf("select: %v %+v", err, sel)
	}

	out, err := f.delete.Execute(ctx, DeleteBusinessInput{UserID: userID, BusinessID: id})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if out.Selection != ledger.SelectAll {
		t.Errorf("expected selection reset, got %s", out.Selection)
	}
	if len(f.store.Businesses(userID)) != 0 {
		t.Error("expected business removed from store")
	}

	_, err = f.delete.Execute(ctx, DeleteBusinessInput{UserID: userID, BusinessID: id})
	if !errors.Is(err, domainerror.ErrBusinessNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSelectBusiness_UnknownID(t *testing.T) {
	f := newFixture()
	_, err := f.selectUC.Execute(context.Background(), SelectBusinessInput{UserID: uuid.New(), Selection: "missing"})
	if !errors.Is(err, domainerror.ErrBusinessNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
