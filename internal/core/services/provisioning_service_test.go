package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendease/internal/core/domain"
	"lendease/internal/core/validation"
	"lendease/internal/pkg/jwt"
)

func newTestProvisioning(t *testing.T) (*ProvisioningService, *memStore) {
	t.Helper()
	store := newMemStore()
	repos := store.repos()
	engine := validation.NewEngine(repos.Users, repos.Companies)
	auth := newTestAuthService(t, store)
	return NewProvisioningService(engine, &memTxManager{store: store}, auth), store
}

func validBorrowerPayload() *validation.BorrowerPayload {
	income := 45000.0
	return &validation.BorrowerPayload{
		Email:             "juan@example.com",
		Username:          "juandc",
		Password:          "sup3rsecret",
		PasswordConfirm:   "sup3rsecret",
		FirstName:         "Juan",
		LastName:          "Dela Cruz",
		Gender:            "male",
		MaritalStatus:     "single",
		DateOfBirth:       "1994-05-17",
		PhoneNumber:       "+639171234567",
		CurrentStreet:     "123 Mabini St",
		CurrentBarangay:   "Poblacion",
		CurrentCity:       "Makati",
		CurrentRegion:     "ncr",
		PermanentStreet:   "123 Mabini St",
		PermanentBarangay: "Poblacion",
		PermanentCity:     "Makati",
		PermanentRegion:   "ncr",
		EmploymentStatus:  "employed",
		EmployerName:      "Acme Corp",
		JobTitle:          "Analyst",
		MonthlyIncome:     &income,
		SourceOfIncome:    "salary", // dropped by normalization for employed
		BankName:          "BDO",
		BankAccountNumber: "001234567890",
		BankAccountName:   "Juan Dela Cruz",
	}
}

func validCompanyPayload() *validation.CompanyPayload {
	minRate, maxRate := 2.5, 8.0
	fee := 500.0
	return &validation.CompanyPayload{
		Email:                   "ops@fastcash.ph",
		Username:                "fastcash",
		Password:                "sup3rsecret",
		PasswordConfirm:         "sup3rsecret",
		FirstName:               "Maria",
		LastName:                "Santos",
		CompanyName:             "FastCash Lending Corp",
		BusinessStreet:          "88 Ayala Ave",
		BusinessBarangay:        "Bel-Air",
		BusinessCity:            "Makati",
		BusinessRegion:          "ncr",
		ContactPersonName:       "Maria Santos",
		ContactPersonEmail:      "maria@fastcash.ph",
		ContactPersonPhone:      "+639181234567",
		CompanyPhone:            "+63281234567",
		SECRegistrationNumber:   "CS201912345",
		TaxIdentificationNumber: "123-456-789-000",
		BusinessType:            "lending_company",
		LicenseNumber:           "LC-2019-001",
		LoanProducts:            []string{"personal_loan", "salary_loan"},
		MinimumInterestRate:     &minRate,
		MaximumInterestRate:     &maxRate,
		ProcessingFee:           &fee,
		LatePaymentFee:          &fee,
		LendingPolicy:           "Standard lending policy.",
		BankName:                "BPI",
		BankAccountNumber:       "009876543210",
		BankAccountName:         "FastCash Lending Corp",
	}
}

func TestRegisterBorrower_Success(t *testing.T) {
	svc, store := newTestProvisioning(t)

	result, err := svc.RegisterBorrower(context.Background(), validBorrowerPayload())
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, domain.KindBorrower, result.User.Kind)
	assert.Equal(t, domain.RoleBorrower, result.User.Role)
	assert.True(t, result.User.IsActive)

	user, ok := store.users[result.User.ID]
	require.True(t, ok, "user row should exist")
	assert.NotEqual(t, "sup3rsecret", user.Password, "password must be stored hashed")

	client, ok := store.clients[result.User.ID]
	require.True(t, ok, "client profile row should exist")
	assert.Equal(t, user.ID, client.UserID)
	assert.Nil(t, client.SourceOfIncome, "employed profile should drop source_of_income")
	require.NotNil(t, client.MonthlyIncome)
	assert.Equal(t, 45000.0, *client.MonthlyIncome)
	require.NotNil(t, client.DateOfBirth)
	assert.Equal(t, "1994-05-17", client.DateOfBirth.Format("2006-01-02"))
}

func TestRegisterBorrower_ReportsEveryViolation(t *testing.T) {
	svc, store := newTestProvisioning(t)

	p := validBorrowerPayload()
	p.JobTitle = ""             // employed without a job title
	p.CurrentRegion = "region0" // not a region
	p.PasswordConfirm = "different"

	_, err := svc.RegisterBorrower(context.Background(), p)
	require.Error(t, err)

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("job_title"))
	assert.True(t, errs.Has("current_region"))
	assert.True(t, errs.Has(validation.NonFieldErrors))

	assert.Empty(t, store.users, "no user row may be written on validation failure")
	assert.Empty(t, store.clients)
}

func TestRegisterBorrower_DuplicateIdentity(t *testing.T) {
	svc, store := newTestProvisioning(t)

	_, err := svc.RegisterBorrower(context.Background(), validBorrowerPayload())
	require.NoError(t, err)

	p := validBorrowerPayload()
	p.Email = "JUAN@example.com" // same identity after normalization
	_, err = svc.RegisterBorrower(context.Background(), p)

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("username"))
	assert.Len(t, store.users, 1)
}

func TestRegisterCompany_Success(t *testing.T) {
	svc, store := newTestProvisioning(t)

	result, err := svc.RegisterCompany(context.Background(), validCompanyPayload())
	require.NoError(t, err)

	assert.Equal(t, domain.KindLendingCompany, result.User.Kind)
	assert.Equal(t, domain.RoleAdmin, result.User.Role, "company registrant becomes its admin")

	company, ok := store.companies[result.User.ID]
	require.True(t, ok, "company profile row should exist")
	assert.Equal(t, "CS201912345", company.SECRegistrationNumber)
	assert.Equal(t, []string{"personal_loan", "salary_loan"}, company.LoanProducts)

	claims, err := jwt.ValidateAccessToken(result.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, string(domain.KindLendingCompany), claims.Kind)
	assert.Equal(t, string(domain.RoleAdmin), claims.Role)
}

func TestRegisterCompany_InterestBounds(t *testing.T) {
	svc, _ := newTestProvisioning(t)

	p := validCompanyPayload()
	equal := 5.0
	p.MinimumInterestRate = &equal
	p.MaximumInterestRate = &equal

	_, err := svc.RegisterCompany(context.Background(), p)

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("maximum_interest_rate"))
}

func TestRegisterCompany_ConcurrentDuplicateSEC(t *testing.T) {
	svc, store := newTestProvisioning(t)

	const contenders = 4
	results := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := validCompanyPayload()
			// Unique identities, shared SEC registration number.
			p.Email = fmt.Sprintf("ops%d@fastcash.ph", i)
			p.Username = fmt.Sprintf("fastcash%d", i)
			p.CompanyName = fmt.Sprintf("FastCash Lending Corp %d", i)
			p.TaxIdentificationNumber = fmt.Sprintf("123-456-789-%03d", i)
			_, results[i] = svc.RegisterCompany(context.Background(), p)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		var errs validation.FieldErrors
		require.ErrorAs(t, err, &errs, "losers must get a field-error report, got %v", err)
	}
	assert.Equal(t, 1, winners, "exactly one registration may win the SEC number")

	assert.Len(t, store.users, 1, "no orphan user rows after lost races")
	assert.Len(t, store.companies, 1)
}
