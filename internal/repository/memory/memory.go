// Package memory is an in-process store with the same contracts as the
// MongoDB repositories. It backs STORE_DRIVER=memory for local runs and the
// service and handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/repository/mongodb"
)

// Store holds every collection behind one mutex.
type Store struct {
	mu         sync.Mutex
	users      map[primitive.ObjectID]models.User
	products   map[primitive.ObjectID]models.Product
	suppliers  map[primitive.ObjectID]models.Supplier
	orders     map[primitive.ObjectID]models.SalesOrder
	debitNotes map[primitive.ObjectID]models.DebitNote
	summaries  map[string]models.DailySummary
	sequences  map[string]int64

	// FailOrderInsert makes the next sales order insert fail once.
	FailOrderInsert error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:      map[primitive.ObjectID]models.User{},
		products:   map[primitive.ObjectID]models.Product{},
		suppliers:  map[primitive.ObjectID]models.Supplier{},
		orders:     map[primitive.ObjectID]models.SalesOrder{},
		debitNotes: map[primitive.ObjectID]models.DebitNote{},
		summaries:  map[string]models.DailySummary{},
		sequences:  map[string]int64{},
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, mongodb.ErrNotFound
	}
	return oid, nil
}

func newID(id primitive.ObjectID) primitive.ObjectID {
	if id.IsZero() {
		return primitive.NewObjectID()
	}
	return id
}

// Users returns the user repository view.
func (s *Store) Users() *Users { return &Users{s: s} }

// Products returns the product repository view.
func (s *Store) Products() *Products { return &Products{s: s} }

// Suppliers returns the supplier repository view.
func (s *Store) Suppliers() *Suppliers { return &Suppliers{s: s} }

// Orders returns the sales order repository view.
func (s *Store) Orders() *Orders { return &Orders{s: s} }

// DebitNotes returns the debit note repository view.
func (s *Store) DebitNotes() *DebitNotes { return &DebitNotes{s: s} }

// Summaries returns the daily summary repository view.
func (s *Store) Summaries() *Summaries { return &Summaries{s: s} }

// Sequences returns the counter repository view.
func (s *Store) Sequences() *Sequences { return &Sequences{s: s} }

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("insert user: %w", mongodb.ErrDuplicate)
		}
	}
	user.ID = newID(user.ID)
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) FindByID(_ context.Context, id string) (models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.User{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[oid]
	if !ok {
		return models.User{}, mongodb.ErrNotFound
	}
	return u, nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, mongodb.ErrNotFound
}

func (r *Users) List(context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Users) Update(_ context.Context, user models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return mongodb.ErrNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return mongodb.ErrDuplicate
		}
	}
	r.s.users[user.ID] = user
	return nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	return deleteFrom(r.s, r.s.users, id)
}

type Products struct{ s *Store }

func (r *Products) Create(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	product.ID = newID(product.ID)
	r.s.products[product.ID] = *product
	return nil
}

func (r *Products) FindByID(_ context.Context, id string) (models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[oid]
	if !ok {
		return models.Product{}, mongodb.ErrNotFound
	}
	return p, nil
}

func (r *Products) List(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	out := []models.Product{}
	for _, p := range r.s.products {
		switch {
		case filter.Category != "" && p.Category != filter.Category:
			continue
		case filter.Brand != "" && p.Brand != filter.Brand:
			continue
		case search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.ModelNumber), search):
			continue
		case !filter.CreatedSince.IsZero() && p.CreatedAt.Before(filter.CreatedSince):
			continue
		case filter.MaxQuantity != nil && p.Quantity > *filter.MaxQuantity:
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Products) Update(_ context.Context, product models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return mongodb.ErrNotFound
	}
	r.s.products[product.ID] = product
	return nil
}

func (r *Products) Delete(_ context.Context, id string) error {
	return deleteFrom(r.s, r.s.products, id)
}

func (r *Products) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.Quantity < qty {
		return mongodb.ErrInsufficientStock
	}
	p.Quantity -= qty
	r.s.products[id] = p
	return nil
}

func (r *Products) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return mongodb.ErrNotFound
	}
	p.Quantity += qty
	r.s.products[id] = p
	return nil
}

type Suppliers struct{ s *Store }

func (r *Suppliers) Create(_ context.Context, supplier *models.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sup := range r.s.suppliers {
		if sup.SupplierID == supplier.SupplierID {
			return mongodb.ErrDuplicate
		}
	}
	supplier.ID = newID(supplier.ID)
	r.s.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *Suppliers) FindByID(_ context.Context, id string) (models.Supplier, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Supplier{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.suppliers[oid]
	if !ok {
		return models.Supplier{}, mongodb.ErrNotFound
	}
	return sup, nil
}

func (r *Suppliers) List(_ context.Context, status models.SupplierStatus) ([]models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Supplier{}
	for _, sup := range r.s.suppliers {
		if status != "" && sup.Status != status {
			continue
		}
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Suppliers) Update(_ context.Context, supplier models.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[supplier.ID]; !ok {
		return mongodb.ErrNotFound
	}
	r.s.suppliers[supplier.ID] = supplier
	return nil
}

func (r *Suppliers) Delete(_ context.Context, id string) error {
	return deleteFrom(r.s, r.s.suppliers, id)
}

type Orders struct{ s *Store }

func (r *Orders) Create(_ context.Context, order *models.SalesOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailOrderInsert; err != nil {
		r.s.FailOrderInsert = nil
		return err
	}
	for _, o := range r.s.orders {
		if o.OrderNumber == order.OrderNumber {
			return mongodb.ErrDuplicate
		}
	}
	order.ID = newID(order.ID)
	r.s.orders[order.ID] = *order
	return nil
}

func (r *Orders) FindByID(_ context.Context, id string) (models.SalesOrder, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.SalesOrder{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[oid]
	if !ok {
		return models.SalesOrder{}, mongodb.ErrNotFound
	}
	return o, nil
}

func (r *Orders) List(_ context.Context, filter models.OrderFilter) ([]models.SalesOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.SalesOrder{}
	for _, o := range r.s.orders {
		switch {
		case filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus:
			continue
		case filter.OrderStatus != "" && o.OrderStatus != filter.OrderStatus:
			continue
		case !filter.From.IsZero() && o.CreatedAt.Before(filter.From):
			continue
		case !filter.To.IsZero() && !o.CreatedAt.Before(filter.To):
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Orders) Update(_ context.Context, order models.SalesOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; !ok {
		return mongodb.ErrNotFound
	}
	r.s.orders[order.ID] = order
	return nil
}

// Count returns the number of stored sales orders.
func (r *Orders) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.orders)
}

type DebitNotes struct{ s *Store }

func (r *DebitNotes) Create(_ context.Context, note *models.DebitNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.debitNotes {
		if n.Number == note.Number {
			return mongodb.ErrDuplicate
		}
	}
	note.ID = newID(note.ID)
	r.s.debitNotes[note.ID] = *note
	return nil
}

func (r *DebitNotes) FindByID(_ context.Context, id string) (models.DebitNote, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.DebitNote{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.debitNotes[oid]
	if !ok {
		return models.DebitNote{}, mongodb.ErrNotFound
	}
	return n, nil
}

func (r *DebitNotes) List(_ context.Context, status models.DebitNoteStatus) ([]models.DebitNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.DebitNote{}
	for _, n := range r.s.debitNotes {
		if status != "" && n.Status != status {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *DebitNotes) Update(_ context.Context, note models.DebitNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.debitNotes[note.ID]; !ok {
		return mongodb.ErrNotFound
	}
	r.s.debitNotes[note.ID] = note
	return nil
}

func (r *DebitNotes) Delete(_ context.Context, id string) error {
	return deleteFrom(r.s, r.s.debitNotes, id)
}

type Summaries struct{ s *Store }

func (r *Summaries) SaveDailySummary(_ context.Context, summary models.DailySummary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.summaries[summary.Date] = summary
	return nil
}

func (r *Summaries) FindByDate(_ context.Context, date string) (models.DailySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	summary, ok := r.s.summaries[date]
	if !ok {
		return models.DailySummary{}, mongodb.ErrNotFound
	}
	return summary, nil
}

type Sequences struct{ s *Store }

func (r *Sequences) Next(_ context.Context, name string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sequences[name]++
	return r.s.sequences[name], nil
}

func deleteFrom[T any](s *Store, coll map[primitive.ObjectID]T, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := coll[oid]; !ok {
		return mongodb.ErrNotFound
	}
	delete(coll, oid)
	return nil
}
