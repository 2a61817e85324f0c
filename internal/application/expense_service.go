package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
	"github.com/yogasw/expense-tracker-api/internal/domain/repository"
	"github.com/yogasw/expense-tracker-api/internal/events"
	"github.com/yogasw/expense-tracker-api/internal/search"
	"github.com/yogasw/expense-tracker-api/pkg/helpers"
	"github.com/yogasw/expense-tracker-api/pkg/period"
)

// ValidationError marks input the caller can correct; the API boundary
// maps it to a 400 instead of a generic 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ExpenseInput carries the mutable expense fields for create and update.
// Date and Description are optional and defaulted identically in both.
type ExpenseInput struct {
	Title       string
	Amount      float64
	Category    string
	Date        *time.Time
	Description string
}

// ExpenseService implements the owner-scoped expense operations. Redis,
// the event publisher, the search index, and GCS are all optional; the
// core CRUD path works with just the repository.
type ExpenseService struct {
	Repo      repository.ExpenseRepository
	Redis     *redis.Client
	Events    *events.Publisher
	Index     *search.ExpenseIndex
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	CacheTTL  time.Duration

	// now is swappable in tests that pin the week window.
	now func() time.Time
}

func NewExpenseService(repo repository.ExpenseRepository, rdb *redis.Client, pub *events.Publisher, idx *search.ExpenseIndex, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, cacheTTL time.Duration) *ExpenseService {
	return &ExpenseService{
		Repo:      repo,
		Redis:     rdb,
		Events:    pub,
		Index:     idx,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Logger:    logger,
		CacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

func validateInput(in ExpenseInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Category) == "" {
		return invalid("title, amount, and category are required")
	}
	if in.Amount <= 0 {
		return invalid("amount must be greater than 0")
	}
	return nil
}

func (s *ExpenseService) List(ctx context.Context, ownerID string) ([]entity.Expense, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

func (s *ExpenseService) Get(ctx context.Context, ownerID, id string) (*entity.Expense, error) {
	return s.Repo.GetByID(ctx, ownerID, id)
}

// Create persists a new expense for ownerID. The owner always comes from
// the authenticated caller; any owner supplied in the payload is ignored
// upstream. Date defaults to now, description to the empty string.
func (s *ExpenseService) Create(ctx context.Context, ownerID string, in ExpenseInput) (*entity.Expense, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}
	e := &entity.Expense{
		Title:       in.Title,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        date,
		Description: in.Description,
		OwnerID:     ownerID,
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, events.TypeExpenseCreated, e)
	return e, nil
}

// Update replaces every mutable field (full-replacement semantics) on the
// expense identified by id, provided ownerID owns it.
func (s *ExpenseService) Update(ctx context.Context, ownerID, id string, in ExpenseInput) (*entity.Expense, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	e, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	e.Title = in.Title
	e.Amount = in.Amount
	e.Category = in.Category
	e.Description = in.Description
	if in.Date != nil {
		e.Date = *in.Date
	} else {
		e.Date = s.now()
	}

	if err := s.Repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, events.TypeExpenseUpdated, e)
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, ownerID, id string) error {
	e, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.afterMutation(ctx, events.TypeExpenseDeleted, e)
	return nil
}

// Stats computes aggregate statistics over the caller's expenses.
// period is one of all, month (with month=YYYY-MM), week (current
// Sun-Sat week at the server clock). category filters by exact match.
func (s *ExpenseService) Stats(ctx context.Context, ownerID, periodName, month, category string) (*repository.Summary, error) {
	if periodName == "" {
		periodName = "all"
	}

	f := repository.SummaryFilter{Category: category}
	switch periodName {
	case "all":
	case "month":
		if month == "" {
			return nil, invalid("month is required when period is month")
		}
		from, to, err := period.MonthRange(month, time.Local)
		if err != nil {
			return nil, invalid("invalid month format, expected YYYY-MM")
		}
		f.From, f.To = &from, &to
	case "week":
		from, to := period.WeekRange(s.now())
		f.From, f.To = &from, &to
	default:
		return nil, invalid("period must be one of: all, month, week")
	}

	key, ok := s.statsCacheKey(ctx, ownerID, periodName, month, category)
	if ok {
		var cached repository.Summary
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	sum, err := s.Repo.Summarize(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, sum, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("stats cache write failed")
		}
	}
	return sum, nil
}

// Search runs a free-text query against the Elasticsearch mirror.
func (s *ExpenseService) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	return s.Index.Search(ctx, ownerID, q, size)
}

// UploadReceipt stores a receipt image in GCS and records its URL on the
// owned expense. Returns repository.ErrNotFound for non-owned ids.
func (s *ExpenseService) UploadReceipt(ctx context.Context, ownerID, id string, r io.Reader, filename, contentType string) (*entity.Expense, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("receipt storage not configured")
	}
	e, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("receipts", ownerID, e.ID+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}

	e.ReceiptURL = url
	if err := s.Repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, events.TypeExpenseUpdated, e)
	return e, nil
}

// afterMutation fans the change out to redis (stats cache invalidation),
// rabbitmq, and elasticsearch. None of these may fail the request.
func (s *ExpenseService) afterMutation(ctx context.Context, eventType string, e *entity.Expense) {
	if s.Redis != nil {
		if err := s.Redis.Incr(ctx, statsVersionKey(e.OwnerID)).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("owner_id", e.OwnerID).Warn("stats version bump failed")
		}
	}
	if err := s.Events.Publish(ctx, eventType, e); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event", eventType).Warn("event publish failed")
	}
	var err error
	if eventType == events.TypeExpenseDeleted {
		err = s.Index.Delete(ctx, e.ID)
	} else {
		err = s.Index.Index(ctx, e)
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("expense_id", e.ID).Warn("search index update failed")
	}
}

func statsVersionKey(ownerID string) string {
	return "stats:ver:" + ownerID
}

// statsCacheKey derives a versioned cache key so mutations invalidate all
// cached summaries for the owner at once.
func (s *ExpenseService) statsCacheKey(ctx context.Context, ownerID, periodName, month, category string) (string, bool) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return "", false
	}
	ver, err := s.Redis.Get(ctx, statsVersionKey(ownerID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return "", false
		}
		ver = "0"
	}
	return fmt.Sprintf("stats:%s:%s:%s:%s:%s", ownerID, ver, periodName, month, category), true
}
