package validation

import (
	"context"
	"strings"
	"time"

	"lendease/internal/adapters/persistence/models"
	"lendease/internal/core/domain"
)

// BorrowerPayload is the raw borrower registration payload.
type BorrowerPayload struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`

	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	MiddleName    string `json:"middle_name"`
	Gender        string `json:"gender" validate:"required,oneof=male female other"`
	MaritalStatus string `json:"marital_status" validate:"omitempty,oneof=single married widowed separated divorced"`
	DateOfBirth   string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber   string `json:"phone_number"`

	CurrentStreet     string `json:"current_street" validate:"required"`
	CurrentBarangay   string `json:"current_barangay" validate:"required"`
	CurrentCity       string `json:"current_city" validate:"required"`
	CurrentRegion     string `json:"current_region" validate:"required,oneof=ncr car region1 region2 region3 region4a region4b region5 region6 region7 region8 region9 region10 region11 region12 region13 barmm"`
	PermanentStreet   string `json:"permanent_street" validate:"required"`
	PermanentBarangay string `json:"permanent_barangay" validate:"required"`
	PermanentCity     string `json:"permanent_city" validate:"required"`
	PermanentRegion   string `json:"permanent_region" validate:"required,oneof=ncr car region1 region2 region3 region4a region4b region5 region6 region7 region8 region9 region10 region11 region12 region13 barmm"`

	EmploymentStatus string   `json:"employment_status" validate:"required,oneof=employed self_employed unemployed student retired"`
	EmployerName     string   `json:"employer_name"`
	JobTitle         string   `json:"job_title"`
	MonthlyIncome    *float64 `json:"monthly_income" validate:"omitempty,gt=0"`
	SourceOfIncome   string   `json:"source_of_income"`

	BankName          string `json:"bank_name" validate:"required"`
	BankAccountNumber string `json:"bank_account_number" validate:"required"`
	BankAccountName   string `json:"bank_account_name" validate:"required"`
}

// BorrowerRecord is the normalized output of borrower validation. The user
// carries no password hash yet; provisioning sets it.
type BorrowerRecord struct {
	User   *models.User
	Client *models.Client
}

// ValidateBorrower checks a borrower payload. It returns either a normalized
// record or a FieldErrors report carrying every violated rule; a non-report
// error means the store lookup itself failed.
func (e *Engine) ValidateBorrower(ctx context.Context, p *BorrowerPayload) (*BorrowerRecord, error) {
	var errs FieldErrors
	if err := e.validate.Struct(p); err != nil {
		errs = tagErrors(err)
	}

	client := &models.Client{
		MiddleName:        optional(p.MiddleName),
		Gender:            p.Gender,
		MaritalStatus:     optional(p.MaritalStatus),
		PhoneNumber:       optional(p.PhoneNumber),
		CurrentStreet:     strings.TrimSpace(p.CurrentStreet),
		CurrentBarangay:   strings.TrimSpace(p.CurrentBarangay),
		CurrentCity:       strings.TrimSpace(p.CurrentCity),
		CurrentRegion:     p.CurrentRegion,
		PermanentStreet:   strings.TrimSpace(p.PermanentStreet),
		PermanentBarangay: strings.TrimSpace(p.PermanentBarangay),
		PermanentCity:     strings.TrimSpace(p.PermanentCity),
		PermanentRegion:   p.PermanentRegion,
		EmploymentStatus:  p.EmploymentStatus,
		EmployerName:      optional(p.EmployerName),
		JobTitle:          optional(p.JobTitle),
		MonthlyIncome:     p.MonthlyIncome,
		SourceOfIncome:    optional(p.SourceOfIncome),
		BankName:          strings.TrimSpace(p.BankName),
		BankAccountNumber: strings.TrimSpace(p.BankAccountNumber),
		BankAccountName:   strings.TrimSpace(p.BankAccountName),
	}
	errs = append(errs, CheckClientRecord(client)...)

	if p.Password != "" && p.PasswordConfirm != "" && p.Password != p.PasswordConfirm {
		errs.add(NonFieldErrors, "Passwords don't match.")
	}

	email := NormalizeEmail(p.Email)
	username := strings.TrimSpace(p.Username)
	if err := e.checkIdentityUnique(ctx, email, username, &errs); err != nil {
		return nil, err
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if p.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", p.DateOfBirth)
		if err == nil {
			client.DateOfBirth = &dob
		}
	}
	NormalizeClientEmployment(client)

	user := &models.User{
		Email:     email,
		Username:  username,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Kind:      domain.KindBorrower,
		Role:      domain.DefaultRole(domain.KindBorrower),
		IsActive:  true,
	}

	return &BorrowerRecord{User: user, Client: client}, nil
}
