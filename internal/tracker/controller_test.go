package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
	"github.com/yogasw/expense-tracker-api/pkg/apiclient"
)

// fakeAPI scripts responses per method and records whether it was called.
type fakeAPI struct {
	list    []entity.Expense
	listErr error

	created   *entity.Expense
	createErr error

	updated   *entity.Expense
	updateErr error

	deleteErr error

	calls int
}

func (f *fakeAPI) ListExpenses(ctx context.Context) ([]entity.Expense, error) {
	f.calls++
	return f.list, f.listErr
}

func (f *fakeAPI) CreateExpense(ctx context.Context, d apiclient.ExpenseDraft) (*entity.Expense, error) {
	f.calls++
	return f.created, f.createErr
}

func (f *fakeAPI) UpdateExpense(ctx context.Context, id string, d apiclient.ExpenseDraft) (*entity.Expense, error) {
	f.calls++
	return f.updated, f.updateErr
}

func (f *fakeAPI) DeleteExpense(ctx context.Context, id string) error {
	f.calls++
	return f.deleteErr
}

func TestControllerLoadSeedsTracker(t *testing.T) {
	api := &fakeAPI{list: []entity.Expense{
		expense("1", "Coffee", "Food", 4.5, time.Now()),
		expense("2", "Bus", "Transport", 2.75, time.Now()),
	}}
	ctl := NewController(api)

	require.NoError(t, ctl.Load(context.Background()))
	assert.Len(t, ctl.T.All(), 2)
}

func TestControllerAddAppliesOnSuccess(t *testing.T) {
	created := expense("9", "Lunch", "Food", 12, time.Now())
	api := &fakeAPI{created: &created}
	ctl := NewController(api)

	e, err := ctl.Add(context.Background(), apiclient.ExpenseDraft{Title: "Lunch", Amount: 12, Category: "Food"})
	require.NoError(t, err)
	assert.Equal(t, "9", e.ID)
	assert.Equal(t, "9", ctl.T.All()[0].ID)
}

func TestControllerFailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("boom"), updateErr: errors.New("boom"), deleteErr: errors.New("boom")}
	ctl := NewController(api)
	seed := expense("1", "Coffee", "Food", 4.5, time.Now())
	ctl.T.SetExpenses([]entity.Expense{seed})

	_, err := ctl.Add(context.Background(), apiclient.ExpenseDraft{Title: "x", Amount: 1, Category: "c"})
	assert.Error(t, err)
	_, err = ctl.Edit(context.Background(), "1", apiclient.ExpenseDraft{Title: "x", Amount: 1, Category: "c"})
	assert.Error(t, err)
	assert.Error(t, ctl.Remove(context.Background(), "1"))

	list := ctl.T.All()
	require.Len(t, list, 1)
	assert.Equal(t, seed, list[0])
}

func TestControllerBusyGuard(t *testing.T) {
	api := &fakeAPI{}
	ctl := NewController(api)
	ctl.busy = true

	assert.ErrorIs(t, ctl.Load(context.Background()), ErrBusy)
	_, err := ctl.Add(context.Background(), apiclient.ExpenseDraft{})
	assert.ErrorIs(t, err, ErrBusy)
	_, err = ctl.Edit(context.Background(), "1", apiclient.ExpenseDraft{})
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, ctl.Remove(context.Background(), "1"), ErrBusy)
	assert.Zero(t, api.calls)

	// the guard clears once the in-flight call settles
	ctl.busy = false
	assert.NoError(t, ctl.Load(context.Background()))
}
