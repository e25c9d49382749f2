// Package postgres реализует хранилище маркетплейс-бота в PostgreSQL.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"github.com/drnine9/marketplace-web/internal/model"
	"github.com/drnine9/marketplace-web/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store предоставляет доступ к данным в PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New создаёт хранилище и инициализирует схему БД через миграции.
func New(dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}

	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// GetOrCreateUser возвращает пользователя по Telegram-идентификатору, создавая
// его при первом обращении.
func (s *Store) GetOrCreateUser(ctx context.Context, telegramID int64) (*model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (telegram_id, points) VALUES ($1, 0)
		 RETURNING telegram_id, points, created_at`,
		telegramID,
	).Scan(&u.TelegramID, &u.Points, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil, fmt.Errorf("create user: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`SELECT telegram_id, points, created_at FROM users WHERE telegram_id = $1`,
		telegramID,
	).Scan(&u.TelegramID, &u.Points, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

func insertInvoice(ctx context.Context, tx pgx.Tx, inv model.Invoice) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO invoices (id, user_id, type, amount, payer_name, payer_phone, receipt, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID, inv.UserID, string(inv.Type), inv.Amount.String(),
		inv.PayerName, inv.PayerPhone, inv.Receipt, string(inv.Status), inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateDriverApplication атомарно сохраняет заявку курьера вместе со счётом
// регистрационного сбора.
func (s *Store) CreateDriverApplication(ctx context.Context, app model.DriverApplication, inv model.Invoice) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Счёт вставляется первым: заявка ссылается на него внешним ключом.
	if err := insertInvoice(ctx, tx, inv); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO driver_applications
		   (app_id, user_id, invoice_id, name, age, phone, area_id, username, location,
		    id_front, id_back, license, bike, payer_name, payer_phone, payment_receipt, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		app.AppID, app.UserID, app.InvoiceID, app.Name, app.Age, app.Phone, app.AreaID,
		app.Username, app.Location, app.IDFront, app.IDBack, app.License, app.Bike,
		app.PayerName, app.PayerPhone, app.PaymentReceipt, string(app.Status), app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert driver application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// CreateProduct атомарно сохраняет товар вместе со счётом сбора за публикацию.
func (s *Store) CreateProduct(ctx context.Context, product model.Product, inv model.Invoice) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertInvoice(ctx, tx, inv); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO products (sku, invoice_id, title, description, price, owner_id, photo, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		product.SKU, product.InvoiceID, product.Title, product.Desc,
		product.Price.String(), product.OwnerID, product.Photo, product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// CreateInvoice сохраняет одиночный счёт (пополнение кошелька, запрос вывода).
func (s *Store) CreateInvoice(ctx context.Context, inv model.Invoice) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertInvoice(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var (
		inv    model.Invoice
		typ    string
		amount string
		status string
	)
	if err := row.Scan(&inv.ID, &inv.UserID, &typ, &amount,
		&inv.PayerName, &inv.PayerPhone, &inv.Receipt, &status, &inv.CreatedAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}

	inv.Type = model.InvoiceType(typ)
	inv.Amount = parsed
	inv.Status = model.InvoiceStatus(status)
	return &inv, nil
}

// ListInvoices возвращает все счета в порядке создания.
func (s *Store) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, type, amount::text, payer_name, payer_phone, receipt, status, created_at
		 FROM invoices
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("select invoices: %w", err)
	}
	defer rows.Close()

	invoices := []model.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}

	return invoices, nil
}

// GetInvoice возвращает счёт по идентификатору.
func (s *Store) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, type, amount::text, payer_name, payer_phone, receipt, status, created_at
		 FROM invoices
		 WHERE id = $1`,
		id,
	)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return inv, nil
}

// UpdateInvoiceStatus переводит счёт в указанный статус.
func (s *Store) UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus, strict bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx,
		`SELECT status FROM invoices WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrInvoiceNotFound
		}
		return fmt.Errorf("select invoice status: %w", err)
	}

	prev := model.InvoiceStatus(current)
	if strict && prev.Terminal() && prev != status {
		return storage.ErrInvoiceFinalized
	}

	if _, err := tx.Exec(ctx,
		`UPDATE invoices SET status = $1 WHERE id = $2`,
		string(status), id,
	); err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
