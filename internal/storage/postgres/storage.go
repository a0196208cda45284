package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage relies on. Declared as an
// interface so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type statsRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Stats() repository.StatsRepository {
	return &statsRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            street TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL DEFAULT '',
            country TEXT NOT NULL DEFAULT '',
            postal_code TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT 'customer',
            profile_image TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id UUID PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            description TEXT NOT NULL,
            price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
            category TEXT NOT NULL,
            images TEXT[] NOT NULL DEFAULT '{}',
            stock INT NOT NULL CHECK (stock >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS reviews (
            id UUID PRIMARY KEY,
            product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id),
            rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id),
            user_name TEXT NOT NULL,
            user_email TEXT NOT NULL,
            ship_name TEXT NOT NULL,
            ship_email TEXT NOT NULL,
            ship_phone TEXT NOT NULL,
            ship_address TEXT NOT NULL,
            ship_city TEXT NOT NULL,
            ship_postal_code TEXT NOT NULL,
            ship_country TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            card_number TEXT,
            card_expiry TEXT,
            status TEXT NOT NULL DEFAULT 'Pending',
            total_price DOUBLE PRECISION NOT NULL CHECK (total_price >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id UUID NOT NULL,
            name TEXT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL,
            quantity INT NOT NULL CHECK (quantity >= 1),
            subtotal DOUBLE PRECISION NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_events (
            id BIGSERIAL PRIMARY KEY,
            order_id UUID NOT NULL,
            subject TEXT NOT NULL,
            payload JSONB NOT NULL,
            published BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_events_unpublished ON order_events(id) WHERE NOT published`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	const query = `INSERT INTO users (id, name, email, password_hash, phone, street, city, state, country, postal_code, role, profile_image)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone,
		u.Address.Street, u.Address.City, u.Address.State, u.Address.Country, u.Address.PostalCode,
		u.Role, u.ProfileImage,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

const userColumns = `id, name, email, password_hash, phone, street, city, state, country, postal_code, role, profile_image, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone,
		&u.Address.Street, &u.Address.City, &u.Address.State, &u.Address.Country, &u.Address.PostalCode,
		&u.Role, &u.ProfileImage, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	const query = `UPDATE users
                   SET name=$2, phone=$3, street=$4, city=$5, state=$6, country=$7, postal_code=$8, profile_image=$9
                   WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query,
		u.ID, u.Name, u.Phone,
		u.Address.Street, u.Address.City, u.Address.State, u.Address.Country, u.Address.PostalCode,
		u.ProfileImage,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &domainErrors.NotFoundError{Resource: "user", ID: u.ID}
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE users SET password_hash=$2 WHERE id=$1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &domainErrors.NotFoundError{Resource: "user", ID: id}
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, "%"+filter.Email+"%")
		conditions = append(conditions, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone,
			&u.Address.Street, &u.Address.City, &u.Address.State, &u.Address.Country, &u.Address.PostalCode,
			&u.Role, &u.ProfileImage, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	const query = `INSERT INTO products (id, name, description, price, category, images, stock)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Images, p.Stock,
	).Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

const productColumns = `p.id, p.name, p.description, p.price, p.category, p.images, p.stock, p.created_at,
       COALESCE(r.avg_rating, 0), COALESCE(r.review_count, 0)`

const productReviewJoin = ` FROM products p
       LEFT JOIN (SELECT product_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count FROM reviews GROUP BY product_id) r
       ON r.product_id = p.id`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Images, &p.Stock, &p.CreatedAt,
		&p.AvgRating, &p.ReviewCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + productReviewJoin + ` WHERE p.id=$1`
	product, err := scanProduct(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, &domainErrors.NotFoundError{Resource: "product", ID: id}
		}
		return nil, err
	}
	return product, nil
}

// productSortColumns whitelists sortable fields for catalog listings.
var productSortColumns = map[string]string{
	"name":     "p.name",
	"price":    "p.price",
	"stock":    "p.stock",
	"category": "p.category",
	"rating":   "COALESCE(r.avg_rating, 0)",
	"created":  "p.created_at",
}

func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", n, n))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "p.price DESC"
	if filter.Sort != "" {
		field := filter.Sort
		direction := "ASC"
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			direction = "DESC"
		}
		if col, ok := productSortColumns[field]; ok {
			orderBy = col + " " + direction
		}
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, productReviewJoin, where, orderBy, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Images, &p.Stock, &p.CreatedAt,
			&p.AvgRating, &p.ReviewCount); err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	const query = `UPDATE products SET name=$2, description=$3, price=$4, category=$5, images=$6, stock=$7 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Category, p.Images, p.Stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &domainErrors.NotFoundError{Resource: "product", ID: p.ID}
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &domainErrors.NotFoundError{Resource: "product", ID: id}
	}
	return nil
}

func (r *productRepository) AddReview(ctx context.Context, review *model.Review) error {
	const query = `INSERT INTO reviews (id, product_id, user_id, rating, comment)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		review.ID, review.ProductID, review.UserID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return &domainErrors.NotFoundError{Resource: "product", ID: review.ProductID}
		}
		return err
	}
	return nil
}

// --- OrderRepository implementation ---

type orderCreatedPayload struct {
	OrderID    string  `json:"order_id"`
	UserID     string  `json:"user_id"`
	TotalPrice float64 `json:"total_price"`
	CreatedAt  string  `json:"created_at"`
}

type statusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Create places the order in one transaction. Stock is taken with a
// conditional decrement per item, so a concurrent order for the same product
// can never over-sell: whichever transaction misses the condition aborts and
// rolls back every decrement it already made.
func (r *orderRepository) Create(ctx context.Context, order *model.Order, items []model.RequestedItem) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const decrement = `UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2 RETURNING name, price`

		order.Items = order.Items[:0]
		order.TotalPrice = 0
		for _, item := range items {
			var (
				name  string
				price float64
			)
			err := tx.QueryRow(ctx, decrement, item.ProductID, item.Quantity).Scan(&name, &price)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return r.classifyStockFailure(ctx, tx, item)
				}
				return err
			}

			subtotal := price * float64(item.Quantity)
			order.TotalPrice += subtotal
			order.Items = append(order.Items, model.OrderItem{
				ProductID: item.ProductID,
				Name:      name,
				UnitPrice: price,
				Quantity:  item.Quantity,
				Subtotal:  subtotal,
			})
		}

		var cardNumber, cardExpiry *string
		if order.PaymentDetails != nil {
			cardNumber = &order.PaymentDetails.CardNumber
			cardExpiry = &order.PaymentDetails.ExpiryDate
		}

		const insertOrder = `INSERT INTO orders (id, user_id, user_name, user_email,
                        ship_name, ship_email, ship_phone, ship_address, ship_city, ship_postal_code, ship_country,
                        payment_method, card_number, card_expiry, status, total_price)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
                   RETURNING created_at`
		addr := order.ShippingAddress
		err := tx.QueryRow(ctx, insertOrder,
			order.ID, order.UserID, order.UserName, order.UserEmail,
			addr.Name, addr.Email, addr.Phone, addr.Address, addr.City, addr.PostalCode, addr.Country,
			order.PaymentMethod, cardNumber, cardExpiry, order.Status, order.TotalPrice,
		).Scan(&order.CreatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, subtotal)
                            VALUES ($1, $2, $3, $4, $5, $6)`
		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem,
				order.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.Subtotal); err != nil {
				return err
			}
		}

		payload, err := json.Marshal(orderCreatedPayload{
			OrderID:    order.ID,
			UserID:     order.UserID,
			TotalPrice: order.TotalPrice,
			CreatedAt:  order.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		return r.insertEventTx(ctx, tx, order.ID, model.EventOrderCreated, payload)
	})
}

// classifyStockFailure turns a missed conditional decrement into the precise
// domain error: unknown product or insufficient stock.
func (r *orderRepository) classifyStockFailure(ctx context.Context, tx pgx.Tx, item model.RequestedItem) error {
	var (
		name  string
		stock int
	)
	err := tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id=$1`, item.ProductID).Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domainErrors.NotFoundError{Resource: "product", ID: item.ProductID}
		}
		return err
	}
	return &domainErrors.InsufficientStockError{Product: name, Available: stock}
}

func (r *orderRepository) insertEventTx(ctx context.Context, tx pgx.Tx, orderID, subject string, payload []byte) error {
	const query = `INSERT INTO order_events (order_id, subject, payload) VALUES ($1, $2, $3)`
	_, err := tx.Exec(ctx, query, orderID, subject, payload)
	return err
}

const orderColumns = `id, user_id, user_name, user_email,
       ship_name, ship_email, ship_phone, ship_address, ship_city, ship_postal_code, ship_country,
       payment_method, card_number, card_expiry, status, total_price, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o          model.Order
		cardNumber *string
		cardExpiry *string
	)
	addr := &o.ShippingAddress
	err := row.Scan(&o.ID, &o.UserID, &o.UserName, &o.UserEmail,
		&addr.Name, &addr.Email, &addr.Phone, &addr.Address, &addr.City, &addr.PostalCode, &addr.Country,
		&o.PaymentMethod, &cardNumber, &cardExpiry, &o.Status, &o.TotalPrice, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if cardNumber != nil || cardExpiry != nil {
		details := model.PaymentDetails{}
		if cardNumber != nil {
			details.CardNumber = *cardNumber
		}
		if cardExpiry != nil {
			details.ExpiryDate = *cardExpiry
		}
		o.PaymentDetails = &details
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, &domainErrors.NotFoundError{Resource: "order", ID: id}
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	const query = `SELECT product_id, name, unit_price, quantity, subtotal FROM order_items WHERE order_id=$1`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetDetail resolves line items against the live catalog for display. Stored
// snapshot prices stay authoritative; current product data may drift.
func (r *orderRepository) GetDetail(ctx context.Context, id string) (*model.OrderDetail, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	const query = `SELECT i.product_id, i.name, i.unit_price, i.quantity, i.subtotal,
                          p.id, p.name, p.description, p.price, p.category, p.images, p.stock
                   FROM order_items i
                   LEFT JOIN products p ON p.id = i.product_id
                   WHERE i.order_id=$1`
	rows, err := r.storage.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &model.OrderDetail{Order: *order}
	for rows.Next() {
		var (
			item        model.OrderItemDetail
			productID   *string
			name        *string
			description *string
			price       *float64
			category    *string
			images      []string
			stock       *int
		)
		if err := rows.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.Subtotal,
			&productID, &name, &description, &price, &category, &images, &stock); err != nil {
			return nil, err
		}
		if productID != nil {
			item.Product = &model.Product{
				ID:          *productID,
				Name:        *name,
				Description: *description,
				Price:       *price,
				Category:    *category,
				Images:      images,
				Stock:       *stock,
			}
		}
		detail.ItemDetails = append(detail.ItemDetails, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range result {
		items, err := r.itemsFor(ctx, result[i].ID)
		if err != nil {
			return nil, 0, err
		}
		result[i].Items = items
	}
	return result, total, nil
}

// UpdateStatus moves the order from one status to another with a conditional
// update, so a concurrent transition cannot be silently overwritten.
// Cancellation does not restock: inventory adjustments remain an explicit
// administrative action.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1 AND status=$3`, id, to, from)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var current model.OrderStatus
			err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&current)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return &domainErrors.NotFoundError{Resource: "order", ID: id}
				}
				return err
			}
			return &domainErrors.InvalidTransitionError{From: current, To: to}
		}

		payload, err := json.Marshal(statusChangedPayload{OrderID: id, From: string(from), To: string(to)})
		if err != nil {
			return err
		}
		return r.insertEventTx(ctx, tx, id, model.EventOrderStatusChanged, payload)
	})
}

// UnpublishedEvents locks a batch of undelivered outbox rows for the
// dispatcher. SKIP LOCKED keeps concurrent dispatchers from double-delivery.
func (r *orderRepository) UnpublishedEvents(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	const query = `SELECT id, order_id, subject, payload, published, created_at
                   FROM order_events
                   WHERE NOT published
                   ORDER BY id
                   LIMIT $1
                   FOR UPDATE SKIP LOCKED`

	var events []model.OrderEvent
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e model.OrderEvent
			if err := rows.Scan(&e.ID, &e.OrderID, &e.Subject, &e.Payload, &e.Published, &e.CreatedAt); err != nil {
				return err
			}
			events = append(events, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *orderRepository) MarkEventPublished(ctx context.Context, eventID int64) error {
	_, err := r.storage.pool.Exec(ctx, `UPDATE order_events SET published=TRUE WHERE id=$1`, eventID)
	return err
}

// --- StatsRepository implementation ---

func (r *statsRepository) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{OrdersByStatus: make(map[model.OrderStatus]int)}
	pool := r.storage.pool

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts); err != nil {
		return nil, err
	}
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders); err != nil {
		return nil, err
	}
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role='customer'`).Scan(&stats.TotalCustomers); err != nil {
		return nil, err
	}
	if err := pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM orders`).Scan(&stats.TotalRevenue); err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status model.OrderStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recentRows, err := pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer recentRows.Close()
	for recentRows.Next() {
		order, err := scanOrder(recentRows)
		if err != nil {
			return nil, err
		}
		stats.RecentOrders = append(stats.RecentOrders, *order)
	}
	if err := recentRows.Err(); err != nil {
		return nil, err
	}

	lowRows, err := pool.Query(ctx, `SELECT `+productColumns+productReviewJoin+` WHERE p.stock < 10 ORDER BY p.stock LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer lowRows.Close()
	for lowRows.Next() {
		product, err := scanProduct(lowRows)
		if err != nil {
			return nil, err
		}
		stats.LowStock = append(stats.LowStock, *product)
	}
	if err := lowRows.Err(); err != nil {
		return nil, err
	}

	topRows, err := pool.Query(ctx, `SELECT `+productColumns+productReviewJoin+` ORDER BY COALESCE(r.avg_rating, 0) DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()
	for topRows.Next() {
		product, err := scanProduct(topRows)
		if err != nil {
			return nil, err
		}
		stats.TopRated = append(stats.TopRated, *product)
	}
	if err := topRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
