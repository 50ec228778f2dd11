package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id TEXT PRIMARY KEY NOT NULL, price INTEGER, removed_at DATETIME)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	colMap := make(map[string]ColumnInfo)
	for _, col := range columns {
		colMap[col.Field] = col
	}

	assert.Equal(t, "text", colMap["id"].Type)
	assert.Equal(t, "NO", colMap["id"].Null)
	assert.Equal(t, "integer", colMap["price"].Type)
	assert.Equal(t, "datetime", colMap["removed_at"].Type)
	assert.Equal(t, "YES", colMap["removed_at"].Null)

	// PRAGMA table_info returns no rows for a missing table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "VARCHAR(191)", "NO", "PRI", nil, "").
		AddRow("removed_at", "DATETIME(3)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `items`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "items")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "varchar(191)", columns[0].Type)
	assert.Equal(t, "datetime(3)", columns[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasView(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE t (id INTEGER)").Error)
	require.NoError(t, db.Exec("CREATE VIEW v AS SELECT id FROM t").Error)

	ok, err := HasView(db, "v")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasView(db, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
