// Package tenanttest provides an in-memory tenant.Store for use case and service tests.
package tenanttest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/booking"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/catalog"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/hours"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/override"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

// ErrLockInReadOnly mirrors PostgreSQL rejecting SELECT ... FOR UPDATE
// inside a read-only transaction (SQLSTATE 25006).
var ErrLockInReadOnly = errors.New("tenanttest: row lock requested in a read-only transaction")

// Memory backs every repository of a tenant.Store with maps.
// Set the *Err fields to make the next calls fail.
type Memory struct {
	mu sync.Mutex

	Bookings  map[int64]*domain.Booking
	Hours     []*domain.BusinessHours
	Overrides map[int64]*domain.AvailabilityOverride
	Settings  map[string]string
	Services  map[int64]*domain.Service
	Staff     map[int64]bool
	StaffSvcs map[int64][]int64

	// TakenReferences are reported as existing by ReferenceExists.
	TakenReferences map[string]bool
	// DuplicateOnCreate makes that many Create calls fail with ErrDuplicateReference.
	DuplicateOnCreate int

	ListErr   error
	CreateErr error
	UpdateErr error

	LockedKeys []string
	// LockedLists counts List calls that asked for row locks.
	LockedLists int
	TxCalls     int
	nextID     int64
}

// New returns an empty store.
func New() *Memory {
	return &Memory{
		Bookings:        make(map[int64]*domain.Booking),
		Overrides:       make(map[int64]*domain.AvailabilityOverride),
		Settings:        make(map[string]string),
		Services:        make(map[int64]*domain.Service),
		Staff:           make(map[int64]bool),
		StaffSvcs:       make(map[int64][]int64),
		TakenReferences: make(map[string]bool),
	}
}

// Store wraps m into a tenant.Store.
func (m *Memory) Store() *tenant.Store {
	return &tenant.Store{
		Name:      "memory",
		Bookings:  bookingRepo{m},
		Hours:     hoursRepo{m},
		Overrides: overrideRepo{m},
		Settings:  settingsRepo{m},
		Catalog:   catalogRepo{m},
		Tx:        txManager{m},
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

// AddBooking stores b as-is and returns its id.
func (m *Memory) AddBooking(b *domain.Booking) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == 0 {
		b.ID = m.id()
	}
	m.Bookings[b.ID] = b
	return b.ID
}

// AddHours stores a weekly row.
func (m *Memory) AddHours(h *domain.BusinessHours) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = m.id()
	m.Hours = append(m.Hours, h)
}

// AddOverride stores an override and returns its id.
func (m *Memory) AddOverride(o *domain.AvailabilityOverride) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = m.id()
	m.Overrides[o.ID] = o
	return o.ID
}

func sameScope(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func clone(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

type bookingRepo struct{ m *Memory }

func (r bookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.CreateErr != nil {
		return nil, r.m.CreateErr
	}
	if r.m.DuplicateOnCreate > 0 {
		r.m.DuplicateOnCreate--
		return nil, booking.ErrDuplicateReference
	}
	b.ID = r.m.id()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.m.Bookings[b.ID] = clone(b)
	return b, nil
}

func (r bookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.Bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return clone(b), nil
}

func (r bookingRepo) List(ctx context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.ListErr != nil {
		return nil, r.m.ListErr
	}
	if f.ForUpdate {
		if isReadOnly(ctx) {
			return nil, ErrLockInReadOnly
		}
		r.m.LockedLists++
	}

	out := make([]*domain.Booking, 0)
	for _, b := range r.m.Bookings {
		if matches(b, f) {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		return out[i].StartTime.IsBefore(out[j].StartTime)
	})
	return out, nil
}

func (r bookingRepo) Count(ctx context.Context, f domain.BookingFilter) (int, error) {
	f.ForUpdate = false
	list, err := r.List(ctx, f)
	return len(list), err
}

func (r bookingRepo) Update(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.UpdateErr != nil {
		return nil, r.m.UpdateErr
	}
	if _, ok := r.m.Bookings[b.ID]; !ok {
		return nil, booking.ErrBookingNotFound
	}
	b.UpdatedAt = time.Now()
	r.m.Bookings[b.ID] = clone(b)
	return b, nil
}

func (r bookingRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.Bookings[id]; !ok {
		return booking.ErrBookingNotFound
	}
	delete(r.m.Bookings, id)
	return nil
}

func (r bookingRepo) ReferenceExists(_ context.Context, reference string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.TakenReferences[reference] {
		return true, nil
	}
	for _, b := range r.m.Bookings {
		if b.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r bookingRepo) LockScope(_ context.Context, key string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.LockedKeys = append(r.m.LockedKeys, key)
	return nil
}

func matches(b *domain.Booking, f domain.BookingFilter) bool {
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	for _, s := range f.ExcludeStatuses {
		if b.Status == s {
			return false
		}
	}
	if f.ServiceID != nil && b.ServiceID != *f.ServiceID {
		return false
	}
	if f.StaffID != nil && (b.StaffID == nil || *b.StaffID != *f.StaffID) {
		return false
	}
	if f.ResourceID != nil && (b.ResourceID == nil || *b.ResourceID != *f.ResourceID) {
		return false
	}
	if f.ExcludeID != nil && b.ID == *f.ExcludeID {
		return false
	}
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		if b.BookingDate.Before(*f.StartDate) || b.BookingDate.After(*f.EndDate) {
			return false
		}
	case f.Date != nil:
		if !sameDay(b.BookingDate, *f.Date) {
			return false
		}
	}
	if f.Upcoming {
		if b.BookingDate.Before(f.Today) {
			return false
		}
		for _, s := range domain.ClosedStatuses {
			if b.Status == s {
				return false
			}
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hay := strings.ToLower(b.CustomerName + " " + b.CustomerEmail + " " + b.Reference)
		if b.CustomerPhone != nil {
			hay += " " + strings.ToLower(*b.CustomerPhone)
		}
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

type hoursRepo struct{ m *Memory }

func (r hoursRepo) GetForDay(_ context.Context, day int, staffID *int64) (*domain.BusinessHours, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, h := range r.m.Hours {
		if h.DayOfWeek == day && sameScope(h.StaffID, staffID) {
			c := *h
			return &c, nil
		}
	}
	return nil, hours.ErrHoursNotFound
}

func (r hoursRepo) ListByScope(_ context.Context, staffID *int64) ([]*domain.BusinessHours, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.BusinessHours, 0)
	for _, h := range r.m.Hours {
		if sameScope(h.StaffID, staffID) {
			c := *h
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (r hoursRepo) Upsert(_ context.Context, h *domain.BusinessHours) (*domain.BusinessHours, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, existing := range r.m.Hours {
		if existing.DayOfWeek == h.DayOfWeek && sameScope(existing.StaffID, h.StaffID) {
			h.ID = existing.ID
			c := *h
			r.m.Hours[i] = &c
			return h, nil
		}
	}
	h.ID = r.m.id()
	c := *h
	r.m.Hours = append(r.m.Hours, &c)
	return h, nil
}

func (r hoursRepo) DeleteByStaff(_ context.Context, staffID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	kept := r.m.Hours[:0]
	for _, h := range r.m.Hours {
		if h.StaffID == nil || *h.StaffID != staffID {
			kept = append(kept, h)
		}
	}
	r.m.Hours = kept
	return nil
}

type overrideRepo struct{ m *Memory }

func (r overrideRepo) List(_ context.Context, f domain.OverrideFilter) ([]*domain.AvailabilityOverride, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.AvailabilityOverride, 0)
	for _, o := range r.m.Overrides {
		if f.StaffID != nil && (o.StaffID == nil || *o.StaffID != *f.StaffID) {
			continue
		}
		if f.StartDate != nil && o.Date.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && o.Date.After(*f.EndDate) {
			continue
		}
		c := *o
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime.IsBefore(out[j].StartTime)
	})
	return out, nil
}

func (r overrideRepo) Create(_ context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o.ID = r.m.id()
	c := *o
	r.m.Overrides[o.ID] = &c
	return o, nil
}

func (r overrideRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.Overrides[id]; !ok {
		return override.ErrOverrideNotFound
	}
	delete(r.m.Overrides, id)
	return nil
}

func (r overrideRepo) HasFullDayBlock(_ context.Context, date time.Time, staffID *int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, o := range r.m.Overrides {
		if o.Type == domain.OverrideUnavailable && o.IsFullDay() && sameDay(o.Date, date) && sameScope(o.StaffID, staffID) {
			return true, nil
		}
	}
	return false, nil
}

func (r overrideRepo) DeleteByStaff(_ context.Context, staffID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, o := range r.m.Overrides {
		if o.StaffID != nil && *o.StaffID == staffID {
			delete(r.m.Overrides, id)
		}
	}
	return nil
}

type settingsRepo struct{ m *Memory }

func (r settingsRepo) GetAll(context.Context) (map[string]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make(map[string]string, len(r.m.Settings))
	for k, v := range r.m.Settings {
		out[k] = v
	}
	return out, nil
}

func (r settingsRepo) Upsert(_ context.Context, key, value string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.Settings[key] = value
	return nil
}

type catalogRepo struct{ m *Memory }

func (r catalogRepo) GetService(_ context.Context, id int64) (*domain.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.Services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	c := *s
	return &c, nil
}

func (r catalogRepo) DetachStaffServices(_ context.Context, staffID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.StaffSvcs, staffID)
	return nil
}

func (r catalogRepo) DeleteStaff(_ context.Context, staffID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if !r.m.Staff[staffID] {
		return catalog.ErrStaffNotFound
	}
	delete(r.m.Staff, staffID)
	return nil
}

// txManager runs fn inline; the memory store has no rollback.
type txManager struct{ m *Memory }

type readOnlyKey struct{}

func isReadOnly(ctx context.Context) bool {
	ro, _ := ctx.Value(readOnlyKey{}).(bool)
	return ro
}

func (t txManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	t.m.mu.Lock()
	t.m.TxCalls++
	t.m.mu.Unlock()
	return fn(ctx)
}

func (t txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t txManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t txManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(context.WithValue(ctx, readOnlyKey{}, true), fn)
}
