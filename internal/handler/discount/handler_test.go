package discount

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	discountservice "github.com/Bigidan/beauty-salon-ms/internal/service/discount"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

type stubDiscountRepo struct {
	active map[uuid.UUID]*model.Discount
}

func (r *stubDiscountRepo) Create(_ context.Context, d *model.Discount) error { return nil }
func (r *stubDiscountRepo) Get(_ context.Context, id uuid.UUID) (*model.Discount, error) {
	return nil, nil
}
func (r *stubDiscountRepo) Update(_ context.Context, d *model.Discount) error  { return nil }
func (r *stubDiscountRepo) List(_ context.Context) ([]*model.Discount, error) { return nil, nil }
func (r *stubDiscountRepo) ListActive(_ context.Context) ([]*model.Discount, error) {
	return nil, nil
}
func (r *stubDiscountRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	return nil
}
func (r *stubDiscountRepo) AssignToClient(_ context.Context, clientID, discountID uuid.UUID) error {
	return nil
}

func (r *stubDiscountRepo) GetActiveForClient(_ context.Context, clientID uuid.UUID, at time.Time) (*model.Discount, error) {
	return r.active[clientID], nil
}

func setupRouter(t *testing.T, repo *stubDiscountRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := discountservice.NewService(repo, nil, logger.NewLogger(nil))
	h := NewHandler(svc)

	engine := gin.New()
	engine.GET("/clients/:id/price", h.PreviewPrice)
	return engine
}

func TestPreviewPriceEndpoint(t *testing.T) {
	clientID := uuid.New()
	repo := &stubDiscountRepo{active: map[uuid.UUID]*model.Discount{
		clientID: {Type: model.DiscountTypePercentage, Value: 20, Active: true},
	}}
	engine := setupRouter(t, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/clients/%s/price?price=50", clientID), nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Price float64 `json:"price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 40.0, resp.Data.Price)
}

func TestPreviewPriceEndpoint_InvalidPrice(t *testing.T) {
	engine := setupRouter(t, &stubDiscountRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/clients/%s/price?price=abc", uuid.New()), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
