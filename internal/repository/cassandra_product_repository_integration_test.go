package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/products-api/internal/config"
	"github.com/Lixing-Zhang/products-api/pkg/logger"
	"github.com/google/uuid"
)

// TestCassandraProductRepository runs against a live cluster. Set
// CASSANDRA_TEST_HOSTS and CASSANDRA_TEST_KEYSPACE to a keyspace that has the
// products table migrated.
func TestCassandraProductRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cassandra test in short mode")
	}

	hosts := os.Getenv("CASSANDRA_TEST_HOSTS")
	keyspace := os.Getenv("CASSANDRA_TEST_KEYSPACE")
	if hosts == "" || keyspace == "" {
		t.Skip("skipping test: CASSANDRA_TEST_HOSTS and CASSANDRA_TEST_KEYSPACE not set")
	}

	session, err := NewCassandraSession(config.CassandraConfig{
		ContactPoints: strings.Split(hosts, ","),
		Keyspace:      keyspace,
		Consistency:   "ONE",
		Timeout:       10,
	}, logger.Discard())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer session.Close()

	repo := NewCassandraProductRepository(session)
	ctx := context.Background()

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	p := newProduct("Integration")
	ack, err := repo.Insert(ctx, p)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !ack.Served() {
		t.Error("expected insert to report a host")
	}
	defer repo.Delete(ctx, p.ID)

	rows, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(rows) != 1 || rows[0] != p {
		t.Fatalf("expected %+v, got %+v", p, rows)
	}

	if _, err := repo.Update(ctx, p.ID, []Assignment{
		{Column: ColumnPrice, Value: 42},
		{Column: ColumnCategory, Value: nil},
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rows, _ = repo.GetByID(ctx, p.ID)
	if rows[0].Price != 42 || rows[0].Category != "" || rows[0].Name != p.Name {
		t.Errorf("unexpected row after update: %+v", rows[0])
	}

	if _, err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	exists, err := repo.Exists(ctx, p.ID)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Error("expected product to be gone")
	}

	if exists, _ := repo.Exists(ctx, uuid.New()); exists {
		t.Error("random id reported as existing")
	}
}
