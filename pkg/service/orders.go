package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/nyksales/pkg/models"
	"github.com/example/nyksales/pkg/repository"
)

// orderNumberRetries bounds how often creation retries with a fresh
// order number after a unique-constraint collision.
const orderNumberRetries = 3

// EventPublisher is satisfied by events.Publisher. Nil disables
// publishing.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, action, orderID string, payload interface{}) error
}

// OrderService orchestrates order creation, status transitions,
// deletion, listing and dashboard statistics. Creation validates stock
// through the inventory ledger and commits order, line items and stock
// decrements as one transaction.
type OrderService struct {
	db        *gorm.DB
	logger    *zap.Logger
	ledger    InventoryLedger
	cache     *repository.Cache
	audit     *repository.AuditStore
	events    EventPublisher
	strict    bool
	genNumber func(time.Time) string
}

func NewOrderService(db *gorm.DB, logger *zap.Logger, cache *repository.Cache, audit *repository.AuditStore, events EventPublisher, strictTransitions bool) *OrderService {
	return &OrderService{
		db:        db,
		logger:    logger,
		cache:     cache,
		audit:     audit,
		events:    events,
		strict:    strictTransitions,
		genNumber: GenerateOrderNumber,
	}
}

type CreateOrderRequest struct {
	ShopID string            `json:"shopId" binding:"required"`
	Items  []CreateOrderItem `json:"items"`
	Notes  string            `json:"notes"`
}

type CreateOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateOrderRequest struct {
	Status *models.OrderStatus `json:"status"`
	Notes  *string             `json:"notes"`
}

type OrderQuery struct {
	Page          int
	Limit         int
	Status        models.OrderStatus
	ShopID        string
	SalespersonID string
	StartDate     *time.Time
	EndDate       *time.Time
}

type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	ShopID          string              `json:"shopId"`
	ShopName        string              `json:"shopName"`
	SalespersonID   string              `json:"salespersonId"`
	SalespersonName string              `json:"salespersonName"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Status          models.OrderStatus  `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	ApprovedBy      string              `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time          `json:"approvedAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// Create builds and commits a new order for the given salesperson.
// Every item is validated against the inventory ledger; the order, its
// line items and all stock decrements commit atomically or not at all.
// A duplicate order number aborts the transaction and creation retries
// with a fresh one.
func (s *OrderService) Create(ctx context.Context, salespersonID string, req *CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ValidationError("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, ValidationError("item quantity must be at least 1")
		}
	}

	var orderID string
	for attempt := 0; ; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var salesperson models.User
			if err := tx.Where("id = ? AND is_active = ?", salespersonID, true).First(&salesperson).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NotFoundError("Salesperson")
				}
				return err
			}

			var shop models.Shop
			if err := tx.Where("id = ?", req.ShopID).First(&shop).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NotFoundError("Shop")
				}
				return err
			}

			total := decimal.Zero
			items := make([]models.OrderItem, 0, len(req.Items))
			for _, item := range req.Items {
				product, err := s.ledger.CheckAvailability(tx, item.ProductID, item.Quantity)
				if err != nil {
					return err
				}

				subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
				total = total.Add(subtotal)
				items = append(items, models.OrderItem{
					ID:        uuid.NewString(),
					ProductID: product.ID,
					Quantity:  item.Quantity,
					Price:     product.Price,
					Subtotal:  subtotal,
				})
			}

			order := models.Order{
				ID:            uuid.NewString(),
				OrderNumber:   s.genNumber(time.Now()),
				ShopID:        shop.ID,
				SalespersonID: salesperson.ID,
				Items:         items,
				TotalAmount:   total,
				Status:        models.OrderStatusPending,
				Notes:         req.Notes,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			for _, item := range req.Items {
				if err := s.ledger.Decrement(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}

			orderID = order.ID
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < orderNumberRetries {
			s.logger.Warn("Order number collision, regenerating",
				zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	created, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "created", created.ID, created)
	return created, nil
}

// UpdateStatus applies a status change and/or notes edit. Moving into
// approved records the acting user and an approval timestamp; moving
// away later keeps both as historical record.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, req *UpdateOrderRequest, actingUserID string) (*OrderResponse, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Order")
		}
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Status != nil {
		newStatus := *req.Status
		if !newStatus.Valid() {
			return nil, ValidationError("invalid order status: %s", newStatus)
		}
		if s.strict && order.Status.Terminal() && newStatus != order.Status {
			return nil, ValidationError("order in status %s cannot change status", order.Status)
		}

		updates["status"] = newStatus
		if newStatus == models.OrderStatusApproved && actingUserID != "" {
			updates["approved_by_id"] = actingUserID
			updates["approved_at"] = time.Now()
		}
	}

	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	updated, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "status_changed", updated.ID, updated)
	return updated, nil
}

// Remove deletes a pending order together with its line items. Stock
// decremented at creation is not restored.
func (s *OrderService) Remove(ctx context.Context, orderID string) error {
	var order models.Order
	if err := s.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("Order")
		}
		return err
	}

	if order.Status != models.OrderStatusPending {
		return ValidationError("Only pending orders can be deleted")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		return err
	}

	s.afterWrite(ctx, "deleted", orderID, map[string]string{"id": orderID, "orderNumber": order.OrderNumber})
	return nil
}

// Get returns a fully populated order with denormalized shop,
// salesperson and product names.
func (s *OrderService) Get(ctx context.Context, orderID string) (*OrderResponse, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Shop").
		Preload("Salesperson").
		Preload("ApprovedBy").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Order")
		}
		return nil, err
	}

	return formatOrder(&order), nil
}

// List returns orders newest first, filtered and paginated.
func (s *OrderService) List(ctx context.Context, query *OrderQuery) (*Page, error) {
	page, limit := normalizePaging(query.Page, query.Limit)

	q := s.db.WithContext(ctx).Model(&models.Order{})
	if query.Status != "" {
		if !query.Status.Valid() {
			return nil, ValidationError("invalid order status: %s", query.Status)
		}
		q = q.Where("status = ?", query.Status)
	}
	if query.ShopID != "" {
		q = q.Where("shop_id = ?", query.ShopID)
	}
	if query.SalespersonID != "" {
		q = q.Where("salesperson_id = ?", query.SalespersonID)
	}
	if query.StartDate != nil {
		q = q.Where("created_at >= ?", *query.StartDate)
	}
	if query.EndDate != nil {
		q = q.Where("created_at <= ?", *query.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	err := q.
		Preload("Items.Product").
		Preload("Shop").
		Preload("Salesperson").
		Preload("ApprovedBy").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	data := make([]*OrderResponse, len(orders))
	for i := range orders {
		data[i] = formatOrder(&orders[i])
	}

	return NewPage(data, total, page, limit), nil
}

type Stats struct {
	TotalOrders       int64           `json:"totalOrders"`
	PendingOrders     int64           `json:"pendingOrders"`
	ApprovedOrders    int64           `json:"approvedOrders"`
	CompletedOrders   int64           `json:"completedOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalProducts     int64           `json:"totalProducts"`
	TotalShops        int64           `json:"totalShops"`
	TotalSalespersons int64           `json:"totalSalespersons"`
}

// GetStats aggregates dashboard counters. Revenue sums totals of
// approved and completed orders only. The snapshot is cached briefly
// and invalidated on every order write.
func (s *OrderService) GetStats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		var cached Stats
		if hit, err := s.cache.GetStats(ctx, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	stats := &Stats{TotalRevenue: decimal.Zero}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		status models.OrderStatus
		dest   *int64
	}{
		{models.OrderStatusPending, &stats.PendingOrders},
		{models.OrderStatusApproved, &stats.ApprovedOrders},
		{models.OrderStatusCompleted, &stats.CompletedOrders},
	}
	for _, sc := range statusCounts {
		if err := db.Model(&models.Order{}).Where("status = ?", sc.status).Count(sc.dest).Error; err != nil {
			return nil, err
		}
	}

	var totals []decimal.Decimal
	err := db.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderStatusApproved, models.OrderStatusCompleted}).
		Pluck("total_amount", &totals).Error
	if err != nil {
		return nil, err
	}
	for _, t := range totals {
		stats.TotalRevenue = stats.TotalRevenue.Add(t)
	}

	if err := db.Model(&models.Product{}).Where("is_active = ?", true).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Shop{}).Where("is_active = ?", true).Count(&stats.TotalShops).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleSalesperson, true).
		Count(&stats.TotalSalespersons).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheStats(ctx, stats); err != nil {
			s.logger.Warn("Failed to cache stats", zap.Error(err))
		}
	}

	return stats, nil
}

// afterWrite handles the read-side bookkeeping once an order mutation
// committed: cache invalidation, audit trail, event publishing.
func (s *OrderService) afterWrite(ctx context.Context, action, orderID string, payload interface{}) {
	if s.cache != nil {
		if err := s.cache.InvalidateStats(ctx); err != nil {
			s.logger.Warn("Failed to invalidate stats cache", zap.Error(err))
		}
	}

	if s.audit != nil {
		go func() {
			err := s.audit.CreateAuditLog(context.Background(), &repository.AuditLog{
				Action:   "order_" + action,
				EntityID: orderID,
				Data:     map[string]interface{}{"order": payload},
			})
			if err != nil {
				s.logger.Warn("Failed to write audit log",
					zap.String("action", action),
					zap.String("order_id", orderID),
					zap.Error(err))
			}
		}()
	}

	if s.events != nil {
		if err := s.events.PublishOrderEvent(ctx, action, orderID, payload); err != nil {
			s.logger.Warn("Failed to publish order event",
				zap.String("action", action),
				zap.String("order_id", orderID),
				zap.Error(err))
		}
	}
}

func formatOrder(order *models.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Unit:        item.Product.Unit,
			Subtotal:    item.Subtotal,
		}
	}

	resp := &OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		ShopID:          order.ShopID,
		ShopName:        order.Shop.Name,
		SalespersonID:   order.SalespersonID,
		SalespersonName: order.Salesperson.Name,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		Notes:           order.Notes,
		ApprovedAt:      order.ApprovedAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if order.ApprovedBy != nil {
		resp.ApprovedBy = order.ApprovedBy.Name
	}
	return resp
}
