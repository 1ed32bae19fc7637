package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestIsDuplicateKey(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&Volunteer{Email: "a@example.org", FirstName: "A"}).Error)
	dup := db.Create(&Volunteer{Email: "a@example.org", FirstName: "B"}).Error
	require.Error(t, dup)
	assert.True(t, IsDuplicateKey(dup))

	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(errors.New(`duplicate key value violates unique constraint "volunteers_email_key"`)))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
}
