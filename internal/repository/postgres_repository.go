package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

const orderColumns = `o.id, o.placed_at, o.status, o.subtotal, o.tax, o.total,
	o.preparation_minutes, o.estimated_pickup_at, o.actual_pickup_at, o.notes,
	o.customer_id, c.email, c.first_name, c.last_name`

const orderFrom = `FROM orders o LEFT JOIN customers c ON c.id = o.customer_id`

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "kitchen_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateOrder writes the order and all of its lines in one transaction and
// fills in the assigned id and the linked customer.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var customerID sql.NullInt64
	if order.CustomerID != nil {
		customerID = sql.NullInt64{Int64: *order.CustomerID, Valid: true}
	}

	query := `INSERT INTO orders (placed_at, status, subtotal, tax, total, preparation_minutes,
	              estimated_pickup_at, actual_pickup_at, notes, customer_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		order.PlacedAt,
		order.Status,
		order.Subtotal,
		order.Tax,
		order.Total,
		order.PreparationTimeMinutes,
		order.EstimatedPickupAt,
		order.ActualPickupAt,
		order.Notes,
		customerID,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO order_lines (order_id, position, item_name, unit_price, quantity, image_ref)
	                                     VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("prepare order line insert: %w", err)
	}
	defer stmt.Close()

	for i, line := range order.Lines {
		if _, err := stmt.ExecContext(ctx, order.ID, i, line.ItemName, line.UnitPrice, line.Quantity, line.ImageRef); err != nil {
			return fmt.Errorf("insert order line %d: %w", i, err)
		}
	}

	if order.CustomerID != nil {
		customer, err := getCustomer(ctx, tx, *order.CustomerID)
		if err != nil {
			return err
		}
		order.Customer = customer
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` `+orderFrom+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	if err := loadLines(ctx, r.db, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) ListOrders(ctx context.Context, filter OrderFilter) ([]*domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where = append(where, fmt.Sprintf("o.customer_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("o.placed_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("o.placed_at < $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` ` + orderFrom
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY o.placed_at DESC, o.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := loadLines(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus locks the order row, lets mutate validate and change it,
// then persists status and pickup time together with an audit row.
// Concurrent callers on the same order are serialized by the row lock.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id int64, mutate StatusMutation) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` `+orderFrom+` WHERE o.id = $1 FOR UPDATE OF o`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}
	if err := loadLines(ctx, tx, []*domain.Order{order}); err != nil {
		return nil, err
	}

	previous := order.Status
	if err := mutate(order); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, actual_pickup_at = $2, updated_at = NOW() WHERE id = $3`,
		order.Status, order.ActualPickupAt, order.ID)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_status_log (order_id, from_status, to_status) VALUES ($1, $2, $3)`,
		order.ID, previous, order.Status)
	if err != nil {
		return nil, fmt.Errorf("insert status log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status update: %w", err)
	}
	return order, nil
}

func (r *Repository) UpsertCustomer(ctx context.Context, customer *domain.Customer) error {
	query := `INSERT INTO customers (email, first_name, last_name) VALUES ($1, $2, $3)
	          ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name
	          RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, customer.Email, customer.FirstName, customer.LastName).Scan(&customer.ID); err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

func (r *Repository) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return getCustomer(ctx, r.db, id)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*domain.Order, error) {
	var (
		order      domain.Order
		actual     sql.NullTime
		customerID sql.NullInt64
		email      sql.NullString
		firstName  sql.NullString
		lastName   sql.NullString
	)
	err := row.Scan(
		&order.ID,
		&order.PlacedAt,
		&order.Status,
		&order.Subtotal,
		&order.Tax,
		&order.Total,
		&order.PreparationTimeMinutes,
		&order.EstimatedPickupAt,
		&actual,
		&order.Notes,
		&customerID,
		&email,
		&firstName,
		&lastName,
	)
	if err != nil {
		return nil, err
	}

	if actual.Valid {
		t := actual.Time
		order.ActualPickupAt = &t
	}
	if customerID.Valid {
		id := customerID.Int64
		order.CustomerID = &id
		order.Customer = &domain.Customer{
			ID:        id,
			Email:     email.String,
			FirstName: firstName.String,
			LastName:  lastName.String,
		}
	}
	return &order, nil
}

func loadLines(ctx context.Context, q querier, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Lines = make([]domain.OrderLine, 0)
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT order_id, item_name, unit_price, quantity, image_ref
		 FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, position`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			line    domain.OrderLine
		)
		if err := rows.Scan(&orderID, &line.ItemName, &line.UnitPrice, &line.Quantity, &line.ImageRef); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func getCustomer(ctx context.Context, q querier, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := q.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return &c, nil
}
