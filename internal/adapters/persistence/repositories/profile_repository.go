package repositories

import (
	"context"

	"gorm.io/gorm"

	"lendease/internal/adapters/persistence/models"
)

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new borrower-profile repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client profile
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return storeErr(r.db.WithContext(ctx).Create(client).Error)
}

// GetByUserID gets the client profile owned by a user
func (r *clientRepository) GetByUserID(ctx context.Context, userID uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&client).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return &client, nil
}

// Update updates a client profile
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return storeErr(r.db.WithContext(ctx).Save(client).Error)
}

// companyRepository implements CompanyRepository interface
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company-profile repository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// Create creates a new company profile
func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return storeErr(r.db.WithContext(ctx).Create(company).Error)
}

// GetByUserID gets the company profile owned by a user
func (r *companyRepository) GetByUserID(ctx context.Context, userID uint) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&company).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return &company, nil
}

// Update updates a company profile
func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	return storeErr(r.db.WithContext(ctx).Save(company).Error)
}

// ExistsByName checks if a company name is taken
func (r *companyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).Where("company_name = ?", name).Count(&count).Error
	return count > 0, storeErr(err)
}

// ExistsBySECNumber checks if a SEC registration number is taken
func (r *companyRepository) ExistsBySECNumber(ctx context.Context, secNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).Where("sec_registration_number = ?", secNo).Count(&count).Error
	return count > 0, storeErr(err)
}

// ExistsByTIN checks if a tax identification number is taken
func (r *companyRepository) ExistsByTIN(ctx context.Context, tin string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).Where("tax_identification_number = ?", tin).Count(&count).Error
	return count > 0, storeErr(err)
}
