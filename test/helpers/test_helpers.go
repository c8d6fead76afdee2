package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/repository"
	"github.com/nimasrn/bizledger/pkg/pg"
	"github.com/nimasrn/bizledger/pkg/redis"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the ledger tables.
func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&repository.UserEntity{},
		&repository.TransactionEntity{},
		&repository.DebtorEntity{},
	)
	require.NoError(t, err)

	return pg.Wrap(db)
}

// SetupTestRedis starts miniredis and an adapter that is closed with the test.
func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	adapter, err := redis.New("test", "", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	return mr, adapter
}

func CreateTestUser(t *testing.T, db *pg.DB, email, password string) *repository.UserEntity {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &repository.UserEntity{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.Write(context.Background()).Create(user).Error)
	return user
}

func CreateTestTransaction(t *testing.T, db *pg.DB, owner uuid.UUID, txnType, category string, amount string, at time.Time) *repository.TransactionEntity {
	var cat *string
	if category != "" {
		cat = &category
	}
	txn := &repository.TransactionEntity{
		Type:            txnType,
		Category:        cat,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: at.UTC(),
		EntryDate:       at.UTC(),
		OwnerID:         owner,
	}
	require.NoError(t, db.Write(context.Background()).Create(txn).Error)
	return txn
}

func CreateTestDebtor(t *testing.T, db *pg.DB, owner uuid.UUID, clientName, amount string, due time.Time, status string) *repository.DebtorEntity {
	d := &repository.DebtorEntity{
		ClientName:      clientName,
		Amount:          decimal.RequireFromString(amount),
		DueDate:         due.UTC(),
		TransactionDate: due.AddDate(0, 0, -30).UTC(),
		Status:          status,
		EntryDate:       due.AddDate(0, 0, -30).UTC(),
		OwnerID:         owner,
	}
	require.NoError(t, db.Write(context.Background()).Create(d).Error)
	return d
}

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func Ptr[T any](v T) *T {
	return &v
}
