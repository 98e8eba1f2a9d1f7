package operator

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is a prepared mutation. It performs no work until executed
// inside a transaction by Execute or BatchRecords.
type Record func(tx *gorm.DB) error

// Upsert prepares an insert-or-update of a single model row. Conflicts
// on the primary key update every remaining column.
func Upsert(model any) Record {
	return func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
	}
}

// Delete prepares a delete of the given model row by primary key.
func Delete(model any) Record {
	return func(tx *gorm.DB) error {
		return tx.Delete(model).Error
	}
}

// Operator is the write facade over one server's local store. Feature
// stores prepare Records against it; commits always run as a single
// transaction, so a batch either lands whole or not at all.
type Operator struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates an operator over the given database handle.
func New(db *gorm.DB, logger *zap.Logger) *Operator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Operator{db: db, logger: logger}
}

// DB returns the underlying database handle for read queries.
func (o *Operator) DB() *gorm.DB {
	return o.db
}

// Execute applies prepared records immediately in one transaction. It is
// the non-staged write path for single-category upserts.
func (o *Operator) Execute(ctx context.Context, records []Record) error {
	return o.commit(ctx, records)
}

// BatchRecords commits a flattened list of prepared records from
// possibly-different categories atomically. An empty list is a no-op.
func (o *Operator) BatchRecords(ctx context.Context, records []Record) error {
	return o.commit(ctx, records)
}

func (o *Operator) commit(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	err := o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if err := record(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		o.logger.Error("Batch commit failed", zap.Int("records", len(records)), zap.Error(err))
		return err
	}
	o.logger.Debug("Batch committed", zap.Int("records", len(records)))
	return nil
}
