package repository

import (
	"order_board/internal/models"

	"gorm.io/gorm"
)

type PositionUpdate struct {
	ID       uint
	Status   string
	Position int
}

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetAll() ([]models.Order, error)
	GetByStatus(status string) ([]models.Order, error)
	GetByStatuses(statuses []string) ([]models.Order, error)
	Update(order *models.Order) error
	Delete(id uint) error
	CountByStatus(status string) (int64, error)
	UpdatePositions(updates []PositionUpdate) error
	SaveWithPositions(order *models.Order, updates []PositionUpdate) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Order("status, position").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("status = ?", status).Order("position").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByStatuses(statuses []string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("status IN ?", statuses).Order("status, position").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}

func (r *orderRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// UpdatePositions applies a reorder batch as a unit, so persisted positions
// never show a transient duplicate or gap even if the caller retries.
func (r *orderRepository) UpdatePositions(updates []PositionUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return applyPositions(tx, updates)
	})
}

// SaveWithPositions commits a status change together with the position
// re-densification of the affected columns in one transaction.
func (r *orderRepository) SaveWithPositions(order *models.Order, updates []PositionUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		return applyPositions(tx, updates)
	})
}

func applyPositions(tx *gorm.DB, updates []PositionUpdate) error {
	for _, u := range updates {
		err := tx.Model(&models.Order{}).
			Where("id = ?", u.ID).
			Updates(map[string]interface{}{"status": u.Status, "position": u.Position}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
