package database

import (
	"testing"

	"go-inventory-ledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpenInMemory_Migrates(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	for _, table := range []interface{}{&model.User{}, &model.Category{}, &model.Product{}, &model.Transaction{}, &model.TransactionItem{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasColumn(&model.Product{}, "deleted_at"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, parseLogLevel("INFO"))
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}
