// Package memstore keeps the entity collections in process memory
// behind the same repository interfaces the SQL store implements.
// Core tests run against it so they never need a database.
package memstore

import (
	"context"
	"strings"
	"sync"

	"perpus-admin-api/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	books   map[string]domain.Book
	members map[string]domain.Member
	loans   map[string]domain.Loan
	users   map[string]domain.User

	// insertion order, so lists and tie-breaks are deterministic
	bookOrder   []string
	memberOrder []string
	loanOrder   []string
	userOrder   []string
}

func New() *Store {
	return &Store{
		books:   make(map[string]domain.Book),
		members: make(map[string]domain.Member),
		loans:   make(map[string]domain.Loan),
		users:   make(map[string]domain.User),
	}
}

func (s *Store) Books() domain.BookRepository     { return (*bookRepo)(s) }
func (s *Store) Members() domain.MemberRepository { return (*memberRepo)(s) }
func (s *Store) Loans() domain.LoanRepository     { return (*loanRepo)(s) }
func (s *Store) Users() domain.UserRepository     { return (*userRepo)(s) }

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func page[T any](items []T, p domain.ListParams) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return nil
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && len(items) > p.Limit {
		items = items[:p.Limit]
	}
	return items
}

// ---- books ----

type bookRepo Store

func (r *bookRepo) Create(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID] = *b
	r.bookOrder = append(r.bookOrder, b.ID)
	return nil
}

func (r *bookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.books[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *bookRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *bookRepo) List(_ context.Context, p domain.ListParams) ([]domain.Book, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Book, 0, len(r.bookOrder))
	for _, id := range r.bookOrder {
		b := r.books[id]
		if matches(p.Q, b.Title, b.Author, b.Code) {
			all = append(all, b)
		}
	}
	return page(all, p), int64(len(all)), nil
}

func (r *bookRepo) Update(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return &domain.NotFoundError{Entity: "book", ID: b.ID}
	}
	r.books[b.ID] = *b
	return nil
}

func (r *bookRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	r.bookOrder = remove(r.bookOrder, id)
	return nil
}

// ---- members ----

type memberRepo Store

func (r *memberRepo) Create(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID] = *m
	r.memberOrder = append(r.memberOrder, m.ID)
	return nil
}

func (r *memberRepo) FindByID(_ context.Context, id string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.members[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *memberRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Member, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memberRepo) List(_ context.Context, p domain.ListParams) ([]domain.Member, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Member, 0, len(r.memberOrder))
	for _, id := range r.memberOrder {
		m := r.members[id]
		if matches(p.Q, m.Name, m.ClassName, m.Email) {
			all = append(all, m)
		}
	}
	return page(all, p), int64(len(all)), nil
}

func (r *memberRepo) Update(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID]; !ok {
		return &domain.NotFoundError{Entity: "member", ID: m.ID}
	}
	r.members[m.ID] = *m
	return nil
}

func (r *memberRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, id)
	r.memberOrder = remove(r.memberOrder, id)
	return nil
}

// ---- loans ----

type loanRepo Store

func (r *loanRepo) Create(_ context.Context, l *domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loans[l.ID] = cloneLoan(*l)
	r.loanOrder = append(r.loanOrder, l.ID)
	return nil
}

func (r *loanRepo) FindByID(_ context.Context, id string) (*domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.loans[id]; ok {
		c := cloneLoan(l)
		return &c, nil
	}
	return nil, nil
}

func (r *loanRepo) List(_ context.Context, f domain.LoanFilter) ([]domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Loan, 0, len(r.loanOrder))
	for _, id := range r.loanOrder {
		l := r.loans[id]
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.DueBefore != nil && !l.DueDate.Before(*f.DueBefore) {
			continue
		}
		if f.MemberID != "" {
			ref, ok := l.Borrower.(domain.MemberRef)
			if !ok || ref.MemberID != f.MemberID {
				continue
			}
		}
		out = append(out, cloneLoan(l))
	}
	return out, nil
}

func (r *loanRepo) Update(_ context.Context, l *domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[l.ID]; !ok {
		return &domain.NotFoundError{Entity: "loan", ID: l.ID}
	}
	r.loans[l.ID] = cloneLoan(*l)
	return nil
}

func (r *loanRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loans, id)
	r.loanOrder = remove(r.loanOrder, id)
	return nil
}

func (r *loanRepo) CountActiveByMember(_ context.Context, memberID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, l := range r.loans {
		if l.Status != domain.LoanBorrowed {
			continue
		}
		if ref, ok := l.Borrower.(domain.MemberRef); ok && ref.MemberID == memberID {
			n++
		}
	}
	return n, nil
}

func (r *loanRepo) HasActiveByBook(_ context.Context, bookID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.loans {
		if l.Status != domain.LoanBorrowed {
			continue
		}
		for _, id := range l.BookIDs {
			if id == bookID {
				return true, nil
			}
		}
	}
	return false, nil
}

// ---- users ----

type userRepo Store

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	r.userOrder = append(r.userOrder, u.ID)
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.userOrder {
		if u := r.users[id]; strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(_ context.Context, p domain.ListParams) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.User, 0, len(r.userOrder))
	for _, id := range r.userOrder {
		u := r.users[id]
		if matches(p.Q, u.Name, u.Email) {
			all = append(all, u)
		}
	}
	return page(all, p), int64(len(all)), nil
}

func (r *userRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return &domain.NotFoundError{Entity: "user", ID: u.ID}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func cloneLoan(l domain.Loan) domain.Loan {
	ids := make([]string, len(l.BookIDs))
	copy(ids, l.BookIDs)
	l.BookIDs = ids
	if l.ReturnDate != nil {
		t := *l.ReturnDate
		l.ReturnDate = &t
	}
	return l
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
