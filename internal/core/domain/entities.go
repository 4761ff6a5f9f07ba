package domain

// Kind discriminates the two account kinds. Fixed at creation; it decides
// which profile variant the user owns.
type Kind string

const (
	KindBorrower       Kind = "borrower"
	KindLendingCompany Kind = "lending_company"
)

// Valid reports whether the kind is a known account kind.
func (k Kind) Valid() bool {
	return k == KindBorrower || k == KindLendingCompany
}

// Role represents the authorization level, independent of kind.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleBorrower Role = "borrower"
)

// DefaultRole returns the role a kind gets at creation: borrowers start as
// borrower, the registering user of a lending company as its admin.
func DefaultRole(kind Kind) Role {
	if kind == KindLendingCompany {
		return RoleAdmin
	}
	return RoleBorrower
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
