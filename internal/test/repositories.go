package test

import (
	"context"
	"time"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[string]*model.User
	Err   error

	ProfileUpdates  []model.User
	PasswordUpdates []struct {
		ID   string
		Hash string
	}
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[string]*model.User),
	}
}

// Create registers user unless the email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	if _, exists := s.Users[user.Email]; exists {
		return domainErrors.ErrAlreadyExists
	}
	stored := *user
	s.Users[user.Email] = &stored
	s.ByID[user.ID] = &stored
	return nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateProfile records the update and mutates the stored user.
func (s *UserRepositoryStub) UpdateProfile(ctx context.Context, user *model.User) error {
	if s.Err != nil {
		return s.Err
	}
	s.ProfileUpdates = append(s.ProfileUpdates, *user)
	if stored, ok := s.ByID[user.ID]; ok {
		*stored = *user
		return nil
	}
	return domainErrors.ErrNotFound
}

// UpdatePassword records the new hash for the user.
func (s *UserRepositoryStub) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if s.Err != nil {
		return s.Err
	}
	s.PasswordUpdates = append(s.PasswordUpdates, struct {
		ID   string
		Hash string
	}{id, passwordHash})
	if stored, ok := s.ByID[id]; ok {
		stored.PasswordHash = passwordHash
		return nil
	}
	return domainErrors.ErrNotFound
}

// List returns stored users ignoring pagination.
func (s *UserRepositoryStub) List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	users := make([]model.User, 0, len(s.ByID))
	for _, u := range s.ByID {
		users = append(users, *u)
	}
	return users, len(users), nil
}

// ProductRepositoryStub stores products in-memory for tests.
type ProductRepositoryStub struct {
	Products map[string]*model.Product
	Err      error

	ListFn  func(context.Context, model.ProductFilter) ([]model.Product, int, error)
	Reviews []model.Review
	Deleted []string
}

// NewProductRepositoryStub constructs stub repository with initialized map.
func NewProductRepositoryStub() *ProductRepositoryStub {
	return &ProductRepositoryStub{Products: make(map[string]*model.Product)}
}

// Create stores product by identifier.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Products == nil {
		s.Products = make(map[string]*model.Product)
	}
	stored := *product
	s.Products[product.ID] = &stored
	return nil
}

// GetByID fetches product or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Products[id]; ok {
		return p, nil
	}
	return nil, &domainErrors.NotFoundError{Resource: "product", ID: id}
}

// List returns stored products or delegates to override.
func (s *ProductRepositoryStub) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	if s.Err != nil {
		return nil, 0, s.Err
	}
	products := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		products = append(products, *p)
	}
	return products, len(products), nil
}

// Update replaces a stored product.
func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) error {
	if s.Err != nil {
		return s.Err
	}
	if stored, ok := s.Products[product.ID]; ok {
		*stored = *product
		return nil
	}
	return &domainErrors.NotFoundError{Resource: "product", ID: product.ID}
}

// Delete removes a stored product and records the identifier.
func (s *ProductRepositoryStub) Delete(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Products[id]; !ok {
		return &domainErrors.NotFoundError{Resource: "product", ID: id}
	}
	delete(s.Products, id)
	s.Deleted = append(s.Deleted, id)
	return nil
}

// AddReview records the review and bumps the product aggregates.
func (s *ProductRepositoryStub) AddReview(ctx context.Context, review *model.Review) error {
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.Products[review.ProductID]
	if !ok {
		return &domainErrors.NotFoundError{Resource: "product", ID: review.ProductID}
	}
	s.Reviews = append(s.Reviews, *review)
	p.AvgRating = (p.AvgRating*float64(p.ReviewCount) + float64(review.Rating)) / float64(p.ReviewCount+1)
	p.ReviewCount++
	return nil
}

// OrderUpdateCall captures a status transition request.
type OrderUpdateCall struct {
	OrderID string
	From    model.OrderStatus
	To      model.OrderStatus
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, *model.Order, []model.RequestedItem) error
	GetByIDFn      func(context.Context, string) (*model.Order, error)
	GetDetailFn    func(context.Context, string) (*model.OrderDetail, error)
	ListFn         func(context.Context, model.OrderFilter) ([]model.Order, int, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus, model.OrderStatus) error

	Created     []model.Order
	Orders      []model.Order
	UpdateCalls []OrderUpdateCall
	Events      []model.OrderEvent
	Published   []int64
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, items []model.RequestedItem) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, items)
	}
	for _, it := range items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: 10,
			Subtotal:  10 * float64(it.Quantity),
		})
		order.TotalPrice += 10 * float64(it.Quantity)
	}
	order.CreatedAt = time.Now()
	s.Created = append(s.Created, *order)
	return nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, &domainErrors.NotFoundError{Resource: "order", ID: id}
}

// GetDetail returns the stored order wrapped in a detail view.
func (s *OrderRepositoryStub) GetDetail(ctx context.Context, id string) (*model.OrderDetail, error) {
	if s.GetDetailFn != nil {
		return s.GetDetailFn(ctx, id)
	}
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &model.OrderDetail{Order: *order}
	for _, item := range order.Items {
		detail.ItemDetails = append(detail.ItemDetails, model.OrderItemDetail{OrderItem: item})
	}
	return detail, nil
}

// List returns configured orders.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return s.Orders, len(s.Orders), nil
}

// UpdateStatus records the transition and applies it to stored orders.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{OrderID: id, From: from, To: to})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, from, to)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			s.Orders[i].Status = to
			return nil
		}
	}
	return &domainErrors.NotFoundError{Resource: "order", ID: id}
}

// UnpublishedEvents returns configured events.
func (s *OrderRepositoryStub) UnpublishedEvents(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	if len(s.Events) <= limit {
		return s.Events, nil
	}
	return s.Events[:limit], nil
}

// MarkEventPublished records the event identifier.
func (s *OrderRepositoryStub) MarkEventPublished(ctx context.Context, id int64) error {
	s.Published = append(s.Published, id)
	return nil
}

// CartRepositoryStub keeps cart entries per user in-memory.
type CartRepositoryStub struct {
	Carts map[string]map[string]int
	Err   error

	Cleared []string
}

// NewCartRepositoryStub constructs stub repository with initialized map.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Carts: make(map[string]map[string]int)}
}

func (s *CartRepositoryStub) cart(userID string) map[string]int {
	if s.Carts == nil {
		s.Carts = make(map[string]map[string]int)
	}
	if s.Carts[userID] == nil {
		s.Carts[userID] = make(map[string]int)
	}
	return s.Carts[userID]
}

// Items returns a copy of the stored cart entries.
func (s *CartRepositoryStub) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	cart := s.cart(userID)
	items := make([]model.CartItem, 0, len(cart))
	for id, qty := range cart {
		items = append(items, model.CartItem{ProductID: id, Quantity: qty})
	}
	return items, nil
}

// Add increments the stored quantity.
func (s *CartRepositoryStub) Add(ctx context.Context, userID, productID string, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	s.cart(userID)[productID] += quantity
	return nil
}

// SetQuantity overwrites the stored quantity.
func (s *CartRepositoryStub) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	if quantity <= 0 {
		delete(s.cart(userID), productID)
		return nil
	}
	s.cart(userID)[productID] = quantity
	return nil
}

// Remove deletes the entry.
func (s *CartRepositoryStub) Remove(ctx context.Context, userID, productID string) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.cart(userID), productID)
	return nil
}

// Clear drops the whole cart and records the user.
func (s *CartRepositoryStub) Clear(ctx context.Context, userID string) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.Carts, userID)
	s.Cleared = append(s.Cleared, userID)
	return nil
}

// StatsRepositoryStub returns configured dashboard numbers.
type StatsRepositoryStub struct {
	Stats *model.DashboardStats
	Err   error
}

// Dashboard returns the configured stats.
func (s *StatsRepositoryStub) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Stats != nil {
		return s.Stats, nil
	}
	return &model.DashboardStats{}, nil
}

var (
	_ repository.UserRepository    = (*UserRepositoryStub)(nil)
	_ repository.ProductRepository = (*ProductRepositoryStub)(nil)
	_ repository.OrderRepository   = (*OrderRepositoryStub)(nil)
	_ repository.CartRepository    = (*CartRepositoryStub)(nil)
	_ repository.StatsRepository   = (*StatsRepositoryStub)(nil)
)
