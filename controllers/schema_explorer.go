package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"fusevip/logger"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type ColumnInfo struct {
	ColumnName    string  `json:"column_name"`
	DataType      string  `json:"data_type"`
	IsNullable    string  `json:"is_nullable"`
	ColumnDefault *string `json:"column_default"`
}

type ForeignKeyInfo struct {
	ConstraintName string `json:"constraint_name"`
	ColumnName     string `json:"column_name"`
	ForeignTable   string `json:"foreign_table"`
	ForeignColumn  string `json:"foreign_column"`
	UpdateRule     string `json:"update_rule"`
	DeleteRule     string `json:"delete_rule"`
}

type TableInfo struct {
	Name        string           `json:"name"`
	Columns     []ColumnInfo     `json:"columns"`
	ForeignKeys []ForeignKeyInfo `json:"foreignKeys"`
}

const (
	pgTablesSQL = `SELECT table_name FROM information_schema.tables
WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
ORDER BY table_name`

	pgColumnsSQL = `SELECT column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema = 'public' AND table_name = ?
ORDER BY ordinal_position`

	pgForeignKeysSQL = `SELECT tc.constraint_name, kcu.column_name,
       ccu.table_name AS foreign_table, ccu.column_name AS foreign_column,
       rc.update_rule, rc.delete_rule
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
JOIN information_schema.referential_constraints rc
  ON rc.constraint_name = tc.constraint_name AND rc.constraint_schema = tc.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = 'public' AND tc.table_name = ?
ORDER BY kcu.ordinal_position`

	sqliteTablesSQL = `SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

	sqliteColumnsSQL = `SELECT name, type, "notnull", dflt_value FROM pragma_table_info(?) ORDER BY cid`

	sqliteForeignKeysSQL = `SELECT id, "from", "table", "to", on_update, on_delete FROM pragma_foreign_key_list(?) ORDER BY id, seq`
)

// ExploreSchema describes every table of the public schema. Tables whose
// columns cannot be read are skipped; missing foreign keys only leave the
// list empty.
func ExploreSchema(db *gorm.DB) ([]TableInfo, error) {
	dialect := strings.ToLower(db.Dialect().GetName())
	sqlite := strings.Contains(dialect, "sqlite")

	tablesSQL := pgTablesSQL
	if sqlite {
		tablesSQL = sqliteTablesSQL
	}

	names, err := queryStrings(db, tablesSQL)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	log := logger.Get()
	tables := []TableInfo{}
	for _, name := range names {
		var (
			columns []ColumnInfo
			fks     []ForeignKeyInfo
			err     error
		)
		if sqlite {
			columns, err = sqliteColumns(db, name)
		} else {
			columns, err = pgColumns(db, name)
		}
		if err != nil {
			log.Error("schema explorer: columns", "table", name, "error", err)
			continue
		}

		if sqlite {
			fks, err = sqliteForeignKeys(db, name)
		} else {
			fks, err = pgForeignKeys(db, name)
		}
		if err != nil {
			log.Warn("schema explorer: foreign keys", "table", name, "error", err)
			fks = nil
		}
		if fks == nil {
			fks = []ForeignKeyInfo{}
		}

		tables = append(tables, TableInfo{Name: name, Columns: columns, ForeignKeys: fks})
	}
	return tables, nil
}

func queryStrings(db *gorm.DB, sql string) ([]string, error) {
	rows, err := db.Raw(sql).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func pgColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	rows, err := db.Raw(pgColumnsSQL, table).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ColumnInfo{}
	for rows.Next() {
		var col ColumnInfo
		if err := rows.Scan(&col.ColumnName, &col.DataType, &col.IsNullable, &col.ColumnDefault); err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

func pgForeignKeys(db *gorm.DB, table string) ([]ForeignKeyInfo, error) {
	rows, err := db.Raw(pgForeignKeysSQL, table).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ForeignKeyInfo{}
	for rows.Next() {
		var fk ForeignKeyInfo
		if err := rows.Scan(&fk.ConstraintName, &fk.ColumnName, &fk.ForeignTable, &fk.ForeignColumn, &fk.UpdateRule, &fk.DeleteRule); err != nil {
			return nil, err
		}
		out = append(out, fk)
	}
	return out, rows.Err()
}

func sqliteColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	rows, err := db.Raw(sqliteColumnsSQL, table).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ColumnInfo{}
	for rows.Next() {
		var (
			col     ColumnInfo
			notNull int
		)
		if err := rows.Scan(&col.ColumnName, &col.DataType, &notNull, &col.ColumnDefault); err != nil {
			return nil, err
		}
		col.IsNullable = "YES"
		if notNull == 1 {
			col.IsNullable = "NO"
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

func sqliteForeignKeys(db *gorm.DB, table string) ([]ForeignKeyInfo, error) {
	rows, err := db.Raw(sqliteForeignKeysSQL, table).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ForeignKeyInfo{}
	for rows.Next() {
		var (
			id  int
			fk  ForeignKeyInfo
			ref *string
		)
		if err := rows.Scan(&id, &fk.ColumnName, &fk.ForeignTable, &ref, &fk.UpdateRule, &fk.DeleteRule); err != nil {
			return nil, err
		}
		if ref != nil {
			fk.ForeignColumn = *ref
		}
		fk.ConstraintName = fmt.Sprintf("%s_fk_%d", table, id)
		out = append(out, fk)
	}
	return out, rows.Err()
}

// GET /api/schema-explorer
func GetSchema(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	tables, err := ExploreSchema(db)
	if err != nil {
		logger.Get().Error("schema explorer", "error", err)
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"tables": tables})
}
