package discount

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

type fakeDiscountRepo struct {
	discounts map[uuid.UUID]*model.Discount
	assigned  map[uuid.UUID]uuid.UUID
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{
		discounts: make(map[uuid.UUID]*model.Discount),
		assigned:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeDiscountRepo) Create(_ context.Context, d *model.Discount) error {
	d.ID = uuid.New()
	r.discounts[d.ID] = d
	return nil
}

func (r *fakeDiscountRepo) Get(_ context.Context, id uuid.UUID) (*model.Discount, error) {
	return r.discounts[id], nil
}

func (r *fakeDiscountRepo) Update(_ context.Context, d *model.Discount) error  { return nil }
func (r *fakeDiscountRepo) List(_ context.Context) ([]*model.Discount, error) { return nil, nil }
func (r *fakeDiscountRepo) ListActive(_ context.Context) ([]*model.Discount, error) {
	return nil, nil
}
func (r *fakeDiscountRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	return nil
}

func (r *fakeDiscountRepo) AssignToClient(_ context.Context, clientID, discountID uuid.UUID) error {
	r.assigned[clientID] = discountID
	return nil
}

func (r *fakeDiscountRepo) GetActiveForClient(_ context.Context, clientID uuid.UUID, at time.Time) (*model.Discount, error) {
	discountID, ok := r.assigned[clientID]
	if !ok {
		return nil, nil
	}
	d := r.discounts[discountID]
	if !d.Active || at.Before(d.StartDate) || at.After(d.EndDate) {
		return nil, nil
	}
	return d, nil
}

func TestPreview(t *testing.T) {
	repo := newFakeDiscountRepo()
	svc := NewService(repo, nil, logger.NewLogger(nil))

	now := time.Date(2026, time.September, 14, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	clientID := uuid.New()
	discount := &model.Discount{
		Type:      model.DiscountTypePercentage,
		Value:     20,
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
		Active:    true,
	}
	require.NoError(t, repo.Create(context.Background(), discount))
	require.NoError(t, repo.AssignToClient(context.Background(), clientID, discount.ID))

	price, err := svc.Preview(context.Background(), clientID, 50)
	require.NoError(t, err)
	assert.Equal(t, 40.0, price)

	// Without an assigned discount the quote is the list price.
	price, err = svc.Preview(context.Background(), uuid.New(), 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, price)
}

func TestPreview_ExpiredDiscountIgnored(t *testing.T) {
	repo := newFakeDiscountRepo()
	svc := NewService(repo, nil, logger.NewLogger(nil))

	now := time.Date(2026, time.September, 14, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	clientID := uuid.New()
	discount := &model.Discount{
		Type:      model.DiscountTypeFixed,
		Value:     15,
		StartDate: now.AddDate(0, -2, 0),
		EndDate:   now.AddDate(0, -1, 0),
		Active:    true,
	}
	require.NoError(t, repo.Create(context.Background(), discount))
	require.NoError(t, repo.AssignToClient(context.Background(), clientID, discount.ID))

	price, err := svc.Preview(context.Background(), clientID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, price)
}
