// Package memory contains an in-memory implementation of the persistence
// layer. It backs local development and the service-level tests, and
// mirrors the transactional semantics of the Firestore implementation:
// Execute runs against a snapshot-rollback store under one lock, so the
// read-check-write sequences of the use cases stay atomic.
package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store is the shared in-memory dataset behind every repository handed
// out by this package.
type Store struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	orders   map[string]*entity.Order
	counters map[string]int64
	stores   map[string]*entity.Store

	watcherSeq int64
	watchers   map[int64]*watchRegistration
}

type watchRegistration struct {
	franchiseID string
	fn          func([]*entity.Order)
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*entity.User),
		orders:   make(map[string]*entity.Order),
		counters: make(map[string]int64),
		stores:   make(map[string]*entity.Store),
		watchers: make(map[int64]*watchRegistration),
	}
}

type snapshot struct {
	users    map[string]*entity.User
	orders   map[string]*entity.Order
	counters map[string]int64
	stores   map[string]*entity.Store
}

func (s *Store) takeSnapshot() *snapshot {
	snap := &snapshot{
		users:    make(map[string]*entity.User, len(s.users)),
		orders:   make(map[string]*entity.Order, len(s.orders)),
		counters: make(map[string]int64, len(s.counters)),
		stores:   make(map[string]*entity.Store, len(s.stores)),
	}
	for id, u := range s.users {
		snap.users[id] = cloneUser(u)
	}
	for id, o := range s.orders {
		snap.orders[id] = cloneOrder(o)
	}
	for name, v := range s.counters {
		snap.counters[name] = v
	}
	for slug, st := range s.stores {
		snap.stores[slug] = cloneStore(st)
	}

	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.users = snap.users
	s.orders = snap.orders
	s.counters = snap.counters
	s.stores = snap.stores
}

// notifyWatchers delivers the refreshed order list to every registered
// watcher. Must be called without holding the lock.
func (s *Store) notifyWatchers() {
	s.mu.Lock()
	type delivery struct {
		fn     func([]*entity.Order)
		orders []*entity.Order
	}
	deliveries := make([]delivery, 0, len(s.watchers))
	for _, reg := range s.watchers {
		deliveries = append(deliveries, delivery{
			fn:     reg.fn,
			orders: s.franchiseOrdersLocked(reg.franchiseID),
		})
	}
	s.mu.Unlock()

	for _, d := range deliveries {
		d.fn(d.orders)
	}
}

func (s *Store) franchiseOrdersLocked(franchiseID string) []*entity.Order {
	var orders []*entity.Order
	for _, o := range s.orders {
		if o.FranchiseID == franchiseID {
			orders = append(orders, cloneOrder(o))
		}
	}

	return orders
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		cp.LastLoginAt = &t
	}
	if u.LastActiveAt != nil {
		t := *u.LastActiveAt
		cp.LastActiveAt = &t
	}

	return &cp
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = make([]entity.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	if o.Payment != nil {
		p := *o.Payment
		cp.Payment = &p
	}

	return &cp
}

func cloneStore(st *entity.Store) *entity.Store {
	cp := *st

	return &cp
}

// --- transaction manager ---

type transactionManager struct {
	store *Store
}

// NewTransactionManager returns a TransactionManager over the store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) Users() repository.UserRepository {
	return &userRepository{store: f.store, inTx: true}
}

func (f *repositoryFactory) Orders() repository.OrderRepository {
	return &orderRepository{store: f.store, inTx: true}
}

func (f *repositoryFactory) Counters() repository.CounterRepository {
	return &counterRepository{store: f.store, inTx: true}
}

func (f *repositoryFactory) Stores() repository.StoreRepository {
	return &storeRepository{store: f.store, inTx: true}
}

// Execute runs fn while holding the store lock, restoring the pre-call
// snapshot if fn fails. Repositories from the factory skip their own
// locking because Execute already holds it.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	snap := tm.store.takeSnapshot()

	err := fn(&repositoryFactory{store: tm.store})
	if err != nil {
		tm.store.restore(snap)
		tm.store.mu.Unlock()

		return err
	}
	tm.store.mu.Unlock()

	tm.store.notifyWatchers()

	return nil
}

// --- user repository ---

type userRepository struct {
	store *Store
	inTx  bool
}

// NewUserRepository returns a UserRepository over the store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (repo *userRepository) lock() func() {
	if repo.inTx {
		return func() {}
	}
	repo.store.mu.Lock()

	return repo.store.mu.Unlock
}

func (repo *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	defer repo.lock()()

	u, ok := repo.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(u), nil
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer repo.lock()()

	for _, u := range repo.store.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}

	return nil, nil
}

func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	defer repo.lock()()

	for _, u := range repo.store.users {
		if u.Username != "" && u.Username == username {
			return cloneUser(u), nil
		}
	}

	return nil, nil
}

func (repo *userRepository) HighestIDSuffix(ctx context.Context, prefix string) (int64, error) {
	defer repo.lock()()

	var highest int64
	for id := range repo.store.users {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		suffix, err := strconv.ParseInt(id[len(prefix):], 10, 64)
		if err != nil {
			continue
		}
		if suffix > highest {
			highest = suffix
		}
	}

	return highest, nil
}

func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	defer repo.lock()()

	if _, exists := repo.store.users[user.ID]; exists {
		return errors.Errorf("user %s already exists", user.ID)
	}
	repo.store.users[user.ID] = cloneUser(user)

	return nil
}

func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	defer repo.lock()()

	if _, exists := repo.store.users[user.ID]; !exists {
		return repository.ErrUserNotFound
	}
	repo.store.users[user.ID] = cloneUser(user)

	return nil
}

func (repo *userRepository) Delete(ctx context.Context, id string) error {
	defer repo.lock()()

	if _, exists := repo.store.users[id]; !exists {
		return repository.ErrUserNotFound
	}
	delete(repo.store.users, id)

	return nil
}

// --- order repository ---

type orderRepository struct {
	store *Store
	inTx  bool
}

// NewOrderRepository returns an OrderRepository over the store.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{store: store}
}

func (repo *orderRepository) lock() func() {
	if repo.inTx {
		return func() {}
	}
	repo.store.mu.Lock()

	return repo.store.mu.Unlock
}

func (repo *orderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	defer repo.lock()()

	o, ok := repo.store.orders[id]
	if !ok {
		return nil, nil
	}

	return cloneOrder(o), nil
}

func (repo *orderRepository) FindByCodeAndOwner(ctx context.Context, orderCode, ownerID string) ([]*entity.Order, error) {
	defer repo.lock()()

	var orders []*entity.Order
	for _, o := range repo.store.orders {
		if o.OrderCode == orderCode && o.OwnerID == ownerID {
			orders = append(orders, cloneOrder(o))
		}
	}

	return orders, nil
}

func (repo *orderRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.Order, error) {
	defer repo.lock()()

	var orders []*entity.Order
	for _, o := range repo.store.orders {
		if o.OwnerID == ownerID {
			orders = append(orders, cloneOrder(o))
		}
	}

	return orders, nil
}

func (repo *orderRepository) FindByFranchise(ctx context.Context, franchiseID string) ([]*entity.Order, error) {
	defer repo.lock()()

	return repo.store.franchiseOrdersLocked(franchiseID), nil
}

func (repo *orderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	defer repo.lock()()

	var orders []*entity.Order
	for _, o := range repo.store.orders {
		orders = append(orders, cloneOrder(o))
	}

	return orders, nil
}

func (repo *orderRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	defer repo.lock()()

	count := 0
	for _, o := range repo.store.orders {
		if o.OwnerID == ownerID {
			count++
		}
	}

	return count, nil
}

func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	unlock := repo.lock()

	order.ID = uuid.NewString()
	repo.store.orders[order.ID] = cloneOrder(order)

	unlock()
	if !repo.inTx {
		repo.store.notifyWatchers()
	}

	return nil
}

func (repo *orderRepository) UpdateStatus(ctx context.Context, id string, orderStatus entity.OrderStatus, payment *entity.PaymentDetails) error {
	unlock := repo.lock()

	o, ok := repo.store.orders[id]
	if !ok {
		unlock()

		return repository.ErrOrderNotFound
	}
	o.Status = orderStatus
	o.FollowUp = false
	o.UpdatedAt = time.Now()
	if payment != nil {
		p := *payment
		o.Payment = &p
	}

	unlock()
	if !repo.inTx {
		repo.store.notifyWatchers()
	}

	return nil
}

func (repo *orderRepository) UpdateFollowUp(ctx context.Context, id string, followUp bool) error {
	unlock := repo.lock()

	o, ok := repo.store.orders[id]
	if !ok {
		unlock()

		return repository.ErrOrderNotFound
	}
	o.FollowUp = followUp
	o.UpdatedAt = time.Now()

	unlock()
	if !repo.inTx {
		repo.store.notifyWatchers()
	}

	return nil
}

// --- counter repository ---

type counterRepository struct {
	store *Store
	inTx  bool
}

// NewCounterRepository returns a CounterRepository over the store.
func NewCounterRepository(store *Store) repository.CounterRepository {
	return &counterRepository{store: store}
}

func (repo *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	if !repo.inTx {
		repo.store.mu.Lock()
		defer repo.store.mu.Unlock()
	}

	repo.store.counters[name]++

	return repo.store.counters[name], nil
}

// --- store repository ---

type storeRepository struct {
	store *Store
	inTx  bool
}

// NewStoreRepository returns a StoreRepository over the store.
func NewStoreRepository(store *Store) repository.StoreRepository {
	return &storeRepository{store: store}
}

func (repo *storeRepository) lock() func() {
	if repo.inTx {
		return func() {}
	}
	repo.store.mu.Lock()

	return repo.store.mu.Unlock
}

func (repo *storeRepository) FindBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	defer repo.lock()()

	st, ok := repo.store.stores[slug]
	if !ok {
		return nil, nil
	}

	return cloneStore(st), nil
}

func (repo *storeRepository) FindByFranchise(ctx context.Context, franchiseID string) (*entity.Store, error) {
	defer repo.lock()()

	for _, st := range repo.store.stores {
		if st.FranchiseID == franchiseID {
			return cloneStore(st), nil
		}
	}

	return nil, nil
}

func (repo *storeRepository) Put(ctx context.Context, store *entity.Store) error {
	defer repo.lock()()

	repo.store.stores[store.Slug] = cloneStore(store)

	return nil
}

// --- order watcher ---

type orderWatcher struct {
	store *Store
}

// NewOrderWatcher returns an OrderWatcher over the store.
func NewOrderWatcher(store *Store) repository.OrderWatcher {
	return &orderWatcher{store: store}
}

// WatchByFranchise registers fn and delivers the current order list
// immediately, then again after every committed change.
func (w *orderWatcher) WatchByFranchise(ctx context.Context, franchiseID string, fn func([]*entity.Order)) (func(), error) {
	w.store.mu.Lock()
	w.store.watcherSeq++
	id := w.store.watcherSeq
	w.store.watchers[id] = &watchRegistration{franchiseID: franchiseID, fn: fn}
	initial := w.store.franchiseOrdersLocked(franchiseID)
	w.store.mu.Unlock()

	fn(initial)

	stop := func() {
		w.store.mu.Lock()
		delete(w.store.watchers, id)
		w.store.mu.Unlock()
	}

	go func() {
		<-ctx.Done()
		stop()
	}()

	return stop, nil
}
