package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/products-api/internal/config"
	"github.com/Lixing-Zhang/products-api/internal/models"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const (
	selectColumns = ColumnID + ", " + ColumnName + ", " + ColumnDescription + ", " +
		ColumnQuantity + ", " + ColumnPrice + ", " + ColumnCategory

	cqlSelectAll  = `SELECT ` + selectColumns + ` FROM ` + TableName
	cqlSelectByID = `SELECT ` + selectColumns + ` FROM ` + TableName + ` WHERE ` + ColumnID + ` = ?`
	cqlExists     = `SELECT ` + ColumnID + ` FROM ` + TableName + ` WHERE ` + ColumnID + ` = ?`
	cqlInsert     = `INSERT INTO ` + TableName + ` (` + selectColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	cqlDelete     = `DELETE FROM ` + TableName + ` WHERE ` + ColumnID + ` = ?`
	cqlPing       = `SELECT release_version FROM system.local`
)

// NewCassandraSession builds a session for the configured cluster. The
// session is safe for concurrent use and should be shared by the process.
func NewCassandraSession(cfg config.CassandraConfig, logger *slog.Logger) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.ContactPoints...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Timeout = time.Duration(cfg.Timeout) * time.Second
	cluster.ConnectTimeout = time.Duration(cfg.Timeout) * time.Second

	consistency, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
	if err != nil {
		return nil, fmt.Errorf("invalid consistency %q: %w", cfg.Consistency, err)
	}
	cluster.Consistency = consistency

	if cfg.LocalDataCenter != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(cfg.LocalDataCenter),
		)
	}

	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	cluster.QueryObserver = &queryLogger{
		logger:        logger,
		slowThreshold: time.Duration(cfg.SlowQueryMillis) * time.Millisecond,
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cassandra: %w", err)
	}
	return session, nil
}

// CassandraProductRepository implements ProductRepository on a gocql session.
type CassandraProductRepository struct {
	session *gocql.Session
}

func NewCassandraProductRepository(session *gocql.Session) *CassandraProductRepository {
	return &CassandraProductRepository{
		session: session,
	}
}

func (r *CassandraProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	iter := r.session.Query(cqlSelectAll).WithContext(ctx).Iter()
	return scanProducts(iter)
}

func (r *CassandraProductRepository) GetByID(ctx context.Context, id uuid.UUID) ([]models.Product, error) {
	iter := r.session.Query(cqlSelectByID, gocql.UUID(id)).WithContext(ctx).Iter()
	return scanProducts(iter)
}

func (r *CassandraProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	iter := r.session.Query(cqlExists, gocql.UUID(id)).WithContext(ctx).Iter()

	var found gocql.UUID
	exists := iter.Scan(&found)
	if err := iter.Close(); err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

func (r *CassandraProductRepository) Insert(ctx context.Context, product models.Product) (WriteAck, error) {
	q := r.session.Query(
		cqlInsert,
		gocql.UUID(product.ID),
		product.Name,
		product.Description,
		product.Quantity,
		product.Price,
		product.Category,
	).WithContext(ctx)

	ack, err := write(q)
	if err != nil {
		return ack, fmt.Errorf("failed to insert product: %w", err)
	}
	return ack, nil
}

func (r *CassandraProductRepository) Update(ctx context.Context, id uuid.UUID, set []Assignment) (WriteAck, error) {
	stmt, params, err := BuildUpdate(gocql.UUID(id), set)
	if err != nil {
		return WriteAck{}, err
	}

	ack, err := write(r.session.Query(stmt, params...).WithContext(ctx))
	if err != nil {
		return ack, fmt.Errorf("failed to update product: %w", err)
	}
	return ack, nil
}

func (r *CassandraProductRepository) Delete(ctx context.Context, id uuid.UUID) (WriteAck, error) {
	ack, err := write(r.session.Query(cqlDelete, gocql.UUID(id)).WithContext(ctx))
	if err != nil {
		return ack, fmt.Errorf("failed to delete product: %w", err)
	}
	return ack, nil
}

func (r *CassandraProductRepository) Ping(ctx context.Context) error {
	return r.session.Query(cqlPing).WithContext(ctx).Exec()
}

// write executes a statement that returns no rows and reports the host that
// served it.
func write(q *gocql.Query) (WriteAck, error) {
	iter := q.Iter()
	host := iter.Host()
	if err := iter.Close(); err != nil {
		return WriteAck{}, err
	}

	if host == nil {
		return WriteAck{}, nil
	}
	return WriteAck{Host: host.ConnectAddress().String()}, nil
}

func scanProducts(iter *gocql.Iter) ([]models.Product, error) {
	products := make([]models.Product, 0, iter.NumRows())

	var (
		id      gocql.UUID
		product models.Product
	)
	for iter.Scan(&id, &product.Name, &product.Description, &product.Quantity, &product.Price, &product.Category) {
		product.ID = uuid.UUID(id)
		products = append(products, product)
		product = models.Product{}
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

// queryLogger logs every statement at debug level and slow or failed ones at
// warn.
type queryLogger struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

func (l *queryLogger) ObserveQuery(ctx context.Context, q gocql.ObservedQuery) {
	elapsed := q.End.Sub(q.Start)
	attrs := []any{
		"statement", q.Statement,
		"rows", q.Rows,
		"duration_ms", elapsed.Milliseconds(),
	}
	if q.Host != nil {
		attrs = append(attrs, "host", q.Host.ConnectAddress().String())
	}

	switch {
	case q.Err != nil:
		l.logger.WarnContext(ctx, "cql query failed", append(attrs, "error", q.Err)...)
	case l.slowThreshold > 0 && elapsed >= l.slowThreshold:
		l.logger.WarnContext(ctx, "slow cql query", attrs...)
	default:
		l.logger.DebugContext(ctx, "cql query", attrs...)
	}
}
