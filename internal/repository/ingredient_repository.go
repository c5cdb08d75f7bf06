package repository

import (
	"order_board/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	Create(ingredient *models.Ingredient) error
	GetByID(id uint) (*models.Ingredient, error)
	GetAll() ([]models.Ingredient, error)
	Update(ingredient *models.Ingredient) error
	ApplyMovement(movement *models.StockMovement) error
	GetMovements(ingredientID uint) ([]models.StockMovement, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ingredient *models.Ingredient) error {
	return r.db.Create(ingredient).Error
}

func (r *ingredientRepository) GetByID(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.First(&ingredient, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetAll() ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.Order("name").Find(&ingredients).Error
	return ingredients, err
}

// Update persists metadata changes only. The on-hand quantity is owned by the
// movement ledger; use ApplyMovement for quantity changes.
func (r *ingredientRepository) Update(ingredient *models.Ingredient) error {
	return r.db.Model(ingredient).
		Select("name", "unit", "package_size", "package_unit", "package_cost").
		Updates(ingredient).Error
}

// ApplyMovement appends a ledger record and folds its signed delta into the
// on-hand quantity in one transaction. Concurrent movements on the same
// ingredient compose by addition; there is no read-modify-write from the
// application side.
func (r *ingredientRepository) ApplyMovement(movement *models.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.NewString()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(movement).Error; err != nil {
			return err
		}
		result := tx.Model(&models.Ingredient{}).
			Where("id = ?", movement.IngredientID).
			Update("quantity", gorm.Expr("quantity + ?", movement.Delta()))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrIngredientNotFound
		}
		return nil
	})
}

func (r *ingredientRepository) GetMovements(ingredientID uint) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := r.db.Where("ingredient_id = ?", ingredientID).Order("created_at desc").Find(&movements).Error
	return movements, err
}
