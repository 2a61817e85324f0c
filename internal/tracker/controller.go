package tracker

import (
	"context"
	"errors"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
	"github.com/yogasw/expense-tracker-api/pkg/apiclient"
)

// ErrBusy is returned when a mutation is attempted while another is
// still outstanding; the triggering control stays disabled until the
// in-flight call settles.
var ErrBusy = errors.New("another request is in progress")

// API is the subset of the HTTP client the controller needs; narrowed
// for tests.
type API interface {
	ListExpenses(ctx context.Context) ([]entity.Expense, error)
	CreateExpense(ctx context.Context, d apiclient.ExpenseDraft) (*entity.Expense, error)
	UpdateExpense(ctx context.Context, id string, d apiclient.ExpenseDraft) (*entity.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// Controller drives the tracker against the API: every mutation calls
// the server first and reconciles local state only on success, so the
// visible list never silently diverges. At most one mutation is in
// flight at a time.
type Controller struct {
	api  API
	T    *Tracker
	busy bool
}

func NewController(api API) *Controller {
	return &Controller{api: api, T: New()}
}

func (c *Controller) begin() error {
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) end() { c.busy = false }

// Load fetches the full expense list once and seeds the tracker.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	list, err := c.api.ListExpenses(ctx)
	if err != nil {
		return err
	}
	c.T.SetExpenses(list)
	return nil
}

func (c *Controller) Add(ctx context.Context, d apiclient.ExpenseDraft) (*entity.Expense, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	e, err := c.api.CreateExpense(ctx, d)
	if err != nil {
		return nil, err
	}
	c.T.Apply(Created(e))
	return e, nil
}

func (c *Controller) Edit(ctx context.Context, id string, d apiclient.ExpenseDraft) (*entity.Expense, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	e, err := c.api.UpdateExpense(ctx, id, d)
	if err != nil {
		return nil, err
	}
	c.T.Apply(Updated(e))
	return e, nil
}

func (c *Controller) Remove(ctx context.Context, id string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.api.DeleteExpense(ctx, id); err != nil {
		return err
	}
	c.T.Apply(Deleted(id))
	return nil
}
