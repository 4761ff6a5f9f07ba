package validation

import (
	"context"
	"strings"

	"lendease/internal/adapters/persistence/models"
	"lendease/internal/core/domain"
)

// CompanyPayload is the raw lending-company registration payload. Every
// business, legal and financial field is required; only the bank branch and
// the loan-amount/term bounds may be omitted.
type CompanyPayload struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`

	CompanyName string `json:"company_name" validate:"required"`

	BusinessStreet   string `json:"business_street" validate:"required"`
	BusinessBarangay string `json:"business_barangay" validate:"required"`
	BusinessCity     string `json:"business_city" validate:"required"`
	BusinessRegion   string `json:"business_region" validate:"required,oneof=ncr car region1 region2 region3 region4a region4b region5 region6 region7 region8 region9 region10 region11 region12 region13 barmm"`

	ContactPersonName  string `json:"contact_person_name" validate:"required"`
	ContactPersonEmail string `json:"contact_person_email" validate:"required,email"`
	ContactPersonPhone string `json:"contact_person_phone" validate:"required"`
	CompanyPhone       string `json:"company_phone" validate:"required"`

	SECRegistrationNumber   string `json:"sec_registration_number" validate:"required"`
	TaxIdentificationNumber string `json:"tax_identification_number" validate:"required"`
	BusinessType            string `json:"business_type" validate:"required"`
	LicenseNumber           string `json:"license_number" validate:"required"`

	LoanProducts        []string `json:"loan_products" validate:"required,min=1,dive,oneof=personal_loan salary_loan business_loan emergency_loan educational_loan home_loan vehicle_loan microfinance_loan"`
	MinimumInterestRate *float64 `json:"minimum_interest_rate" validate:"required,gte=0"`
	MaximumInterestRate *float64 `json:"maximum_interest_rate" validate:"required,gt=0"`
	ProcessingFee       *float64 `json:"processing_fee" validate:"required,gte=0"`
	LatePaymentFee      *float64 `json:"late_payment_fee" validate:"required,gte=0"`
	LendingPolicy       string   `json:"lending_policy" validate:"required"`

	MinimumLoanAmount     *float64 `json:"minimum_loan_amount" validate:"omitempty,gt=0"`
	MaximumLoanAmount     *float64 `json:"maximum_loan_amount" validate:"omitempty,gt=0"`
	LoanTermMinimumMonths *int     `json:"loan_term_minimum_months" validate:"omitempty,gt=0"`
	LoanTermMaximumMonths *int     `json:"loan_term_maximum_months" validate:"omitempty,gt=0"`

	BankName          string `json:"bank_name" validate:"required"`
	BankBranch        string `json:"bank_branch"`
	BankAccountNumber string `json:"bank_account_number" validate:"required"`
	BankAccountName   string `json:"bank_account_name" validate:"required"`
}

// CompanyRecord is the normalized output of company validation.
type CompanyRecord struct {
	User    *models.User
	Company *models.Company
}

// ValidateCompany checks a lending-company payload, reporting every violated
// rule in one report. Uniqueness spans four independent business identifiers:
// email/username on the user, plus company name, SEC number and TIN.
func (e *Engine) ValidateCompany(ctx context.Context, p *CompanyPayload) (*CompanyRecord, error) {
	var errs FieldErrors
	if err := e.validate.Struct(p); err != nil {
		errs = tagErrors(err)
	}

	// Each pairwise bound is checked as soon as both of its own ends are
	// present; a missing interest rate must not suppress the loan-amount
	// or loan-term comparisons.
	if p.MinimumInterestRate != nil && p.MaximumInterestRate != nil &&
		*p.MinimumInterestRate >= *p.MaximumInterestRate {
		errs.add("maximum_interest_rate", "Must be greater than the minimum interest rate.")
	}
	errs = append(errs, checkLoanBounds(&models.Company{
		MinimumLoanAmount:     p.MinimumLoanAmount,
		MaximumLoanAmount:     p.MaximumLoanAmount,
		LoanTermMinimumMonths: p.LoanTermMinimumMonths,
		LoanTermMaximumMonths: p.LoanTermMaximumMonths,
	})...)

	if p.Password != "" && p.PasswordConfirm != "" && p.Password != p.PasswordConfirm {
		errs.add(NonFieldErrors, "Passwords don't match.")
	}

	email := NormalizeEmail(p.Email)
	username := strings.TrimSpace(p.Username)
	if err := e.checkIdentityUnique(ctx, email, username, &errs); err != nil {
		return nil, err
	}

	companyName := strings.TrimSpace(p.CompanyName)
	if !errs.Has("company_name") {
		taken, err := e.companies.ExistsByName(ctx, companyName)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.add("company_name", "A company with this name already exists.")
		}
	}
	secNo := strings.TrimSpace(p.SECRegistrationNumber)
	if !errs.Has("sec_registration_number") {
		taken, err := e.companies.ExistsBySECNumber(ctx, secNo)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.add("sec_registration_number", "A company with this SEC registration number already exists.")
		}
	}
	tin := strings.TrimSpace(p.TaxIdentificationNumber)
	if !errs.Has("tax_identification_number") {
		taken, err := e.companies.ExistsByTIN(ctx, tin)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.add("tax_identification_number", "A company with this tax identification number already exists.")
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	user := &models.User{
		Email:     email,
		Username:  username,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Kind:      domain.KindLendingCompany,
		Role:      domain.DefaultRole(domain.KindLendingCompany),
		IsActive:  true,
	}

	company := &models.Company{
		CompanyName:             companyName,
		BusinessStreet:          strings.TrimSpace(p.BusinessStreet),
		BusinessBarangay:        strings.TrimSpace(p.BusinessBarangay),
		BusinessCity:            strings.TrimSpace(p.BusinessCity),
		BusinessRegion:          p.BusinessRegion,
		ContactPersonName:       strings.TrimSpace(p.ContactPersonName),
		ContactPersonEmail:      NormalizeEmail(p.ContactPersonEmail),
		ContactPersonPhone:      strings.TrimSpace(p.ContactPersonPhone),
		CompanyPhone:            strings.TrimSpace(p.CompanyPhone),
		SECRegistrationNumber:   secNo,
		TaxIdentificationNumber: tin,
		BusinessType:            strings.TrimSpace(p.BusinessType),
		LicenseNumber:           strings.TrimSpace(p.LicenseNumber),
		LoanProducts:            p.LoanProducts,
		MinimumInterestRate:     *p.MinimumInterestRate,
		MaximumInterestRate:     *p.MaximumInterestRate,
		ProcessingFee:           *p.ProcessingFee,
		LatePaymentFee:          *p.LatePaymentFee,
		LendingPolicy:           strings.TrimSpace(p.LendingPolicy),
		MinimumLoanAmount:       p.MinimumLoanAmount,
		MaximumLoanAmount:       p.MaximumLoanAmount,
		LoanTermMinimumMonths:   p.LoanTermMinimumMonths,
		LoanTermMaximumMonths:   p.LoanTermMaximumMonths,
		BankName:                strings.TrimSpace(p.BankName),
		BankBranch:              optional(p.BankBranch),
		BankAccountNumber:       strings.TrimSpace(p.BankAccountNumber),
		BankAccountName:         strings.TrimSpace(p.BankAccountName),
	}

	return &CompanyRecord{User: user, Company: company}, nil
}
