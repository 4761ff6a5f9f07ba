package models

import (
	"time"

	"gorm.io/gorm"

	"lendease/internal/core/domain"
)

// User represents the users table, the identity root. It owns at most one
// profile row (clients or companies), chosen by Kind.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Username   string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	FirstName  string         `gorm:"size:100" json:"first_name"`
	LastName   string         `gorm:"size:100" json:"last_name"`
	Kind       domain.Kind    `gorm:"size:20;not null" json:"kind"`
	Role       domain.Role    `gorm:"size:20;not null;default:'borrower'" json:"role"`
	IsVerified bool           `gorm:"default:false" json:"is_verified"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the display name for the user.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// UserResponse DTO
type UserResponse struct {
	ID         uint        `json:"id"`
	Email      string      `json:"email"`
	Username   string      `json:"username"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	FullName   string      `json:"full_name"`
	Kind       domain.Kind `json:"kind"`
	Role       domain.Role `json:"role"`
	IsVerified bool        `json:"is_verified"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Kind:       u.Kind,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

// Client represents the clients table, the borrower profile. The unique
// user_id index enforces at most one profile row per user; the FK cascades
// with its owner.
type Client struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	MiddleName    *string    `gorm:"size:100" json:"middle_name"`
	Gender        string     `gorm:"size:10;not null" json:"gender"`
	MaritalStatus *string    `gorm:"size:20" json:"marital_status"`
	DateOfBirth   *time.Time `gorm:"type:date" json:"date_of_birth"`
	PhoneNumber   *string    `gorm:"size:20" json:"phone_number"`

	CurrentStreet     string `gorm:"size:200;not null" json:"current_street"`
	CurrentBarangay   string `gorm:"size:100;not null" json:"current_barangay"`
	CurrentCity       string `gorm:"size:100;not null" json:"current_city"`
	CurrentRegion     string `gorm:"size:20;not null" json:"current_region"`
	PermanentStreet   string `gorm:"size:200;not null" json:"permanent_street"`
	PermanentBarangay string `gorm:"size:100;not null" json:"permanent_barangay"`
	PermanentCity     string `gorm:"size:100;not null" json:"permanent_city"`
	PermanentRegion   string `gorm:"size:20;not null" json:"permanent_region"`

	EmploymentStatus string   `gorm:"size:20;not null" json:"employment_status"`
	EmployerName     *string  `gorm:"size:200" json:"employer_name"`
	JobTitle         *string  `gorm:"size:100" json:"job_title"`
	MonthlyIncome    *float64 `gorm:"type:decimal(15,2)" json:"monthly_income"`
	SourceOfIncome   *string  `gorm:"type:text" json:"source_of_income"`

	BankName          string `gorm:"size:100;not null" json:"bank_name"`
	BankAccountNumber string `gorm:"size:50;not null" json:"bank_account_number"`
	BankAccountName   string `gorm:"size:200;not null" json:"bank_account_name"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}

// Company represents the companies table, the lending-company profile.
// Company name, SEC registration number and TIN are independent business
// identifiers, each globally unique.
type Company struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	CompanyName string `gorm:"uniqueIndex;size:255;not null" json:"company_name"`

	BusinessStreet   string `gorm:"size:200;not null" json:"business_street"`
	BusinessBarangay string `gorm:"size:100;not null" json:"business_barangay"`
	BusinessCity     string `gorm:"size:100;not null" json:"business_city"`
	BusinessRegion   string `gorm:"size:20;not null" json:"business_region"`

	ContactPersonName  string `gorm:"size:200;not null" json:"contact_person_name"`
	ContactPersonEmail string `gorm:"size:100;not null" json:"contact_person_email"`
	ContactPersonPhone string `gorm:"size:20;not null" json:"contact_person_phone"`
	CompanyPhone       string `gorm:"size:20;not null" json:"company_phone"`

	SECRegistrationNumber   string `gorm:"column:sec_registration_number;uniqueIndex;size:100;not null" json:"sec_registration_number"`
	TaxIdentificationNumber string `gorm:"uniqueIndex;size:100;not null" json:"tax_identification_number"`
	BusinessType            string `gorm:"size:100;not null" json:"business_type"`
	LicenseNumber           string `gorm:"size:100;not null" json:"license_number"`

	LoanProducts        []string `gorm:"serializer:json;not null" json:"loan_products"`
	MinimumInterestRate float64  `gorm:"type:decimal(5,2);not null" json:"minimum_interest_rate"`
	MaximumInterestRate float64  `gorm:"type:decimal(5,2);not null" json:"maximum_interest_rate"`
	ProcessingFee       float64  `gorm:"type:decimal(15,2);not null" json:"processing_fee"`
	LatePaymentFee      float64  `gorm:"type:decimal(15,2);not null" json:"late_payment_fee"`
	LendingPolicy       string   `gorm:"type:text;not null" json:"lending_policy"`

	MinimumLoanAmount     *float64 `gorm:"type:decimal(15,2)" json:"minimum_loan_amount"`
	MaximumLoanAmount     *float64 `gorm:"type:decimal(15,2)" json:"maximum_loan_amount"`
	LoanTermMinimumMonths *int     `json:"loan_term_minimum_months"`
	LoanTermMaximumMonths *int     `json:"loan_term_maximum_months"`

	BankName          string  `gorm:"size:100;not null" json:"bank_name"`
	BankBranch        *string `gorm:"size:100" json:"bank_branch"`
	BankAccountNumber string  `gorm:"size:50;not null" json:"bank_account_number"`
	BankAccountName   string  `gorm:"size:200;not null" json:"bank_account_name"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

// Profile is the kind-discriminated profile union. Exactly one of Client
// and Company is non-nil, matching Kind.
type Profile struct {
	Kind    domain.Kind `json:"kind"`
	Client  *Client     `json:"client,omitempty"`
	Company *Company    `json:"company,omitempty"`
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Company{},
	)
}
