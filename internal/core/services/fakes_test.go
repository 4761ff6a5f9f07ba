package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"lendease/internal/adapters/persistence/models"
	"lendease/internal/adapters/persistence/repositories"
)

// memStore is an in-memory stand-in for the identity store. It enforces the
// same unique indexes the real schema declares, returning
// gorm.ErrDuplicatedKey on conflicts so the services exercise the identical
// error paths.
type memStore struct {
	mu sync.Mutex

	users     map[uint]*models.User
	emails    map[string]uint
	usernames map[string]uint

	clients       map[uint]*models.Client // keyed by user id
	companies     map[uint]*models.Company
	companyNames  map[string]uint
	companySECs   map[string]uint
	companyTINs   map[string]uint
	nextUserID    uint
	nextProfileID uint
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uint]*models.User{},
		emails:       map[string]uint{},
		usernames:    map[string]uint{},
		clients:      map[uint]*models.Client{},
		companies:    map[uint]*models.Company{},
		companyNames: map[string]uint{},
		companySECs:  map[string]uint{},
		companyTINs:  map[string]uint{},
	}
}

type storeSnapshot struct {
	users         map[uint]*models.User
	emails        map[string]uint
	usernames     map[string]uint
	clients       map[uint]*models.Client
	companies     map[uint]*models.Company
	companyNames  map[string]uint
	companySECs   map[string]uint
	companyTINs   map[string]uint
	nextUserID    uint
	nextProfileID uint
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *memStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storeSnapshot{
		users:         copyMap(s.users),
		emails:        copyMap(s.emails),
		usernames:     copyMap(s.usernames),
		clients:       copyMap(s.clients),
		companies:     copyMap(s.companies),
		companyNames:  copyMap(s.companyNames),
		companySECs:   copyMap(s.companySECs),
		companyTINs:   copyMap(s.companyTINs),
		nextUserID:    s.nextUserID,
		nextProfileID: s.nextProfileID,
	}
}

func (s *memStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.emails = snap.emails
	s.usernames = snap.usernames
	s.clients = snap.clients
	s.companies = snap.companies
	s.companyNames = snap.companyNames
	s.companySECs = snap.companySECs
	s.companyTINs = snap.companyTINs
	s.nextUserID = snap.nextUserID
	s.nextProfileID = snap.nextProfileID
}

func (s *memStore) repos() repositories.Repositories {
	return repositories.Repositories{
		Users:     &memUserRepo{store: s},
		Clients:   &memClientRepo{store: s},
		Companies: &memCompanyRepo{store: s},
	}
}

// memUserRepo implements repositories.UserRepository over memStore.
type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[user.Email]; taken {
		return gorm.ErrDuplicatedKey
	}
	if _, taken := s.usernames[user.Username]; taken {
		return gorm.ErrDuplicatedKey
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	cp := *user
	s.users[user.ID] = &cp
	s.emails[user.Email] = user.ID
	s.usernames[user.Username] = user.ID
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emails[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if user.Email != old.Email {
		if _, taken := s.emails[user.Email]; taken {
			return gorm.ErrDuplicatedKey
		}
		delete(s.emails, old.Email)
		s.emails[user.Email] = user.ID
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.emails, user.Email)
	delete(s.usernames, user.Username)
	delete(s.users, id)
	delete(s.clients, id)
	if company, ok := s.companies[id]; ok {
		delete(s.companyNames, company.CompanyName)
		delete(s.companySECs, company.SECRegistrationNumber)
		delete(s.companyTINs, company.TaxIdentificationNumber)
		delete(s.companies, id)
	}
	return nil
}

func (r *memUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if offset >= len(ids) {
		return []*models.User{}, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]*models.User, 0, end-offset)
	for _, id := range ids[offset:end] {
		cp := *s.users[id]
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.emails[email]
	return ok, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.usernames[username]
	return ok, nil
}

// memClientRepo implements repositories.ClientRepository over memStore.
type memClientRepo struct {
	store *memStore
}

func (r *memClientRepo) Create(ctx context.Context, client *models.Client) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.clients[client.UserID]; taken {
		return gorm.ErrDuplicatedKey
	}
	s.nextProfileID++
	client.ID = s.nextProfileID
	cp := *client
	s.clients[client.UserID] = &cp
	return nil
}

func (r *memClientRepo) GetByUserID(ctx context.Context, userID uint) (*models.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *client
	return &cp, nil
}

func (r *memClientRepo) Update(ctx context.Context, client *models.Client) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *client
	s.clients[client.UserID] = &cp
	return nil
}

// memCompanyRepo implements repositories.CompanyRepository over memStore.
type memCompanyRepo struct {
	store *memStore
}

func (r *memCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.companies[company.UserID]; taken {
		return gorm.ErrDuplicatedKey
	}
	if _, taken := s.companyNames[company.CompanyName]; taken {
		return gorm.ErrDuplicatedKey
	}
	if _, taken := s.companySECs[company.SECRegistrationNumber]; taken {
		return gorm.ErrDuplicatedKey
	}
	if _, taken := s.companyTINs[company.TaxIdentificationNumber]; taken {
		return gorm.ErrDuplicatedKey
	}
	s.nextProfileID++
	company.ID = s.nextProfileID
	cp := *company
	s.companies[company.UserID] = &cp
	s.companyNames[company.CompanyName] = company.UserID
	s.companySECs[company.SECRegistrationNumber] = company.UserID
	s.companyTINs[company.TaxIdentificationNumber] = company.UserID
	return nil
}

func (r *memCompanyRepo) GetByUserID(ctx context.Context, userID uint) (*models.Company, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	company, ok := s.companies[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *company
	return &cp, nil
}

func (r *memCompanyRepo) Update(ctx context.Context, company *models.Company) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[company.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *company
	s.companies[company.UserID] = &cp
	return nil
}

func (r *memCompanyRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.companyNames[name]
	return ok, nil
}

func (r *memCompanyRepo) ExistsBySECNumber(ctx context.Context, secNo string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.companySECs[secNo]
	return ok, nil
}

func (r *memCompanyRepo) ExistsByTIN(ctx context.Context, tin string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.companyTINs[tin]
	return ok, nil
}

// memTxManager serializes transactions against the store and restores a
// snapshot on failure, mirroring the commit/rollback contract.
type memTxManager struct {
	store *memStore
	txMu  sync.Mutex
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repositories.Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	snap := m.store.snapshot()
	if err := fn(m.store.repos()); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}
