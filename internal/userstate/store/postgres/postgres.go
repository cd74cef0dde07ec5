// Package postgres stores user state in a PostgreSQL table through gorm.
// Predicates are built as gorm clause expressions so every bound is a
// parameter and every column is quoted.
package postgres

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/lib/pq"
	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/windowquery"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// userRow mirrors the user_stats table.
type userRow struct {
	Email                 string        `gorm:"primaryKey;type:text"`
	Name                  string        `gorm:"type:text;not null;default:''"`
	Gender                string        `gorm:"type:text;not null;default:''"`
	CreatedAt             time.Time     `gorm:"autoCreateTime:false;index"`
	LastVisitedAt         time.Time     `gorm:"index"`
	LastWatchedAt         time.Time     `gorm:"index"`
	LastEmailNotification time.Time
	LastInAppNotification time.Time
	LastSmsNotification   time.Time
	RecentWatched         pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'"`
	ViewedButNotStarted   pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'"`
	StartedButNotFinished pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'"`
	Finished              pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'"`
}

func toRow(u userstate.User) userRow {
	return userRow{
		Email:                 u.Email,
		Name:                  u.Name,
		Gender:                u.Gender,
		CreatedAt:             u.CreatedAt,
		LastVisitedAt:         u.LastVisitedAt,
		LastWatchedAt:         u.LastWatchedAt,
		LastEmailNotification: u.LastEmailNotification,
		LastInAppNotification: u.LastInAppNotification,
		LastSmsNotification:   u.LastSmsNotification,
		RecentWatched:         widen(u.RecentWatched),
		ViewedButNotStarted:   widen(u.ViewedButNotStarted),
		StartedButNotFinished: widen(u.StartedButNotFinished),
		Finished:              widen(u.Finished),
	}
}

func (r userRow) user() userstate.User {
	return userstate.User{
		Email:                 r.Email,
		Name:                  r.Name,
		Gender:                r.Gender,
		CreatedAt:             r.CreatedAt,
		LastVisitedAt:         r.LastVisitedAt,
		LastWatchedAt:         r.LastWatchedAt,
		LastEmailNotification: r.LastEmailNotification,
		LastInAppNotification: r.LastInAppNotification,
		LastSmsNotification:   r.LastSmsNotification,
		RecentWatched:         narrow(r.RecentWatched),
		ViewedButNotStarted:   narrow(r.ViewedButNotStarted),
		StartedButNotFinished: narrow(r.StartedButNotFinished),
		Finished:              narrow(r.Finished),
	}
}

func widen(ids []uint32) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func narrow(ids pq.Int64Array) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

type Store struct {
	db    *gorm.DB
	table string
}

// New opens dsn and, when cfg.AutoMigrate is set, creates the table.
func New(ctx context.Context, cfg userstate.PostgresConfig) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	s := NewWithDB(db, cfg.Table)
	if cfg.AutoMigrate {
		if err := s.db.WithContext(ctx).Table(s.table).AutoMigrate(&userRow{}); err != nil {
			return nil, fmt.Errorf("failed to migrate %s: %w", s.table, err)
		}
	}
	return s, nil
}

// NewWithDB wraps an existing connection.
func NewWithDB(db *gorm.DB, table string) *Store {
	return &Store{db: db, table: table}
}

// whereExprs renders f. Time bounds are inclusive; an id set requires the
// array column to contain every id.
func whereExprs(f windowquery.Filter) []clause.Expression {
	var exprs []clause.Expression
	for _, field := range f.TimeFields() {
		r, _ := f.Range(field)
		col := clause.Column{Name: field}
		if r.Since != nil {
			exprs = append(exprs, clause.Gte{Column: col, Value: *r.Since})
		}
		if r.Until != nil {
			exprs = append(exprs, clause.Lte{Column: col, Value: *r.Until})
		}
	}
	for _, field := range f.IDFields() {
		ids, _ := f.IDSet(field)
		exprs = append(exprs, clause.Expr{
			SQL:  "? @> ?",
			Vars: []any{clause.Column{Name: field}, widen(ids)},
		})
	}
	return exprs
}

func (s *Store) scoped(ctx context.Context, f windowquery.Filter) *gorm.DB {
	tx := s.db.WithContext(ctx).Table(s.table)
	if exprs := whereExprs(f); len(exprs) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}
	return tx.Order("email")
}

// Query streams rows ordered by email. The rows are closed when the returned
// sequence finishes, so callers must range over it.
func (s *Store) Query(ctx context.Context, f windowquery.Filter) (iter.Seq2[userstate.User, error], error) {
	rows, err := s.scoped(ctx, f).Model(&userRow{}).Rows()
	if err != nil {
		return nil, err
	}
	return func(yield func(userstate.User, error) bool) {
		defer rows.Close()
		for rows.Next() {
			var r userRow
			if err := s.db.ScanRows(rows, &r); err != nil {
				yield(userstate.User{}, err)
				return
			}
			if !yield(r.user(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(userstate.User{}, err)
		}
	}, nil
}

// Insert upserts users by email.
func (s *Store) Insert(ctx context.Context, users ...userstate.User) error {
	if len(users) == 0 {
		return nil
	}
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, toRow(u))
	}
	return s.db.WithContext(ctx).Table(s.table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, UpdateAll: true}).
		CreateInBatches(rows, 500).Error
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
