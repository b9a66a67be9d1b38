package repositories

import (
	"context"
	"time"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SlotUserKey     = "user"
	SlotLanguageKey = "language"
)

// Data stores small values grouped by namespace. A namespace is usually a
// client session id.
type Data struct {
	db *gorm.DB
}

func NewDataRepository(db *gorm.DB) *Data {
	return &Data{db: db}
}

func (repo *Data) Save(ctx context.Context, namespace, key string, value []byte) error {
	entry := models.SlotEntry{Namespace: namespace, Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Load returns nil without error when nothing is stored under the key.
func (repo *Data) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	var entry models.SlotEntry
	err := repo.db.WithContext(ctx).First(&entry, "namespace = ? AND slot_key = ?", namespace, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry.Value, nil
}

func (repo *Data) Remove(ctx context.Context, namespace, key string) error {
	return repo.db.WithContext(ctx).
		Delete(&models.SlotEntry{}, "namespace = ? AND slot_key = ?", namespace, key).Error
}

// Slot binds the repository to one namespace.
func (repo *Data) Slot(namespace string) *Slot {
	return &Slot{data: repo, namespace: namespace}
}

type Slot struct {
	data      *Data
	namespace string
}

func (s *Slot) Save(ctx context.Context, key string, value []byte) error {
	return s.data.Save(ctx, s.namespace, key, value)
}

func (s *Slot) Load(ctx context.Context, key string) ([]byte, error) {
	return s.data.Load(ctx, s.namespace, key)
}

func (s *Slot) Remove(ctx context.Context, key string) error {
	return s.data.Remove(ctx, s.namespace, key)
}
