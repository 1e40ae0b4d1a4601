package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"mineart/internal/domain"
	"mineart/internal/media"
	"mineart/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories for testing

type mockCategoryRepo struct {
	categories map[primitive.ObjectID]*domain.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[primitive.ObjectID]*domain.Category)}
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	for _, existing := range m.categories {
		if existing.Slug == category.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	clone := *category
	m.categories[category.ID] = &clone
	return nil
}

func (m *mockCategoryRepo) List(ctx context.Context, page, pageSize int) ([]*domain.Category, int64, error) {
	all := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return pageOf(all, page, pageSize), int64(len(m.categories)), nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	clone := *category
	return &clone, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	clone := *category
	m.categories[category.ID] = &clone
	return nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.categories)), nil
}

func (m *mockCategoryRepo) snapshot() map[primitive.ObjectID]*domain.Category {
	snap := make(map[primitive.ObjectID]*domain.Category, len(m.categories))
	for id, c := range m.categories {
		clone := *c
		snap[id] = &clone
	}
	return snap
}

type mockProductRepo struct {
	products map[primitive.ObjectID]*domain.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*domain.Product)}
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *mockProductRepo) List(ctx context.Context, page, pageSize int) ([]*domain.Product, int64, error) {
	all := m.sorted(func(*domain.Product) bool { return true })
	return pageOf(all, page, pageSize), int64(len(all)), nil
}

func (m *mockProductRepo) ListByCategory(ctx context.Context, categoryID primitive.ObjectID, page, pageSize int) ([]*domain.Product, int64, error) {
	all := m.sorted(func(p *domain.Product) bool { return p.CategoryID == categoryID })
	return pageOf(all, page, pageSize), int64(len(all)), nil
}

func (m *mockProductRepo) FindAllByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*domain.Product, error) {
	return m.sorted(func(p *domain.Product) bool { return p.CategoryID == categoryID }), nil
}

func (m *mockProductRepo) DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, p := range m.products {
		if p.CategoryID == categoryID {
			delete(m.products, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

func (m *mockProductRepo) sorted(keep func(*domain.Product) bool) []*domain.Product {
	all := []*domain.Product{}
	for _, p := range m.products {
		if keep(p) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return all
}

func (m *mockProductRepo) snapshot() map[primitive.ObjectID]*domain.Product {
	snap := make(map[primitive.ObjectID]*domain.Product, len(m.products))
	for id, p := range m.products {
		clone := *p
		snap[id] = &clone
	}
	return snap
}

type mockVariantRepo struct {
	variants map[primitive.ObjectID]*domain.Variant
	created  int
}

func newMockVariantRepo() *mockVariantRepo {
	return &mockVariantRepo{variants: make(map[primitive.ObjectID]*domain.Variant)}
}

func (m *mockVariantRepo) Create(ctx context.Context, variant *domain.Variant) error {
	variant.ID = primitive.NewObjectID()
	variant.CreatedAt = time.Now()
	variant.UpdatedAt = variant.CreatedAt
	clone := *variant
	clone.Members = append([]domain.VariantMember(nil), variant.Members...)
	m.variants[variant.ID] = &clone
	m.created++
	return nil
}

func (m *mockVariantRepo) List(ctx context.Context) ([]*domain.Variant, error) {
	all := make([]*domain.Variant, 0, len(m.variants))
	for _, v := range m.variants {
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return all, nil
}

func (m *mockVariantRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Variant, error) {
	variant, ok := m.variants[id]
	if !ok {
		return nil, repository.ErrVariantNotFound
	}
	clone := *variant
	clone.Members = append([]domain.VariantMember(nil), variant.Members...)
	return &clone, nil
}

func (m *mockVariantRepo) AppendMember(ctx context.Context, id primitive.ObjectID, member domain.VariantMember) error {
	variant, ok := m.variants[id]
	if !ok {
		return repository.ErrVariantNotFound
	}
	variant.Members = append(variant.Members, member)
	return nil
}

func (m *mockVariantRepo) PatchPlaceholderMember(ctx context.Context, id, productID primitive.ObjectID) error {
	variant, ok := m.variants[id]
	if !ok {
		return repository.ErrVariantNotFound
	}
	for i := range variant.Members {
		if variant.Members[i].ProductID.IsZero() {
			variant.Members[i].ProductID = productID
			return nil
		}
	}
	return repository.ErrVariantNotFound
}

func (m *mockVariantRepo) SetMembers(ctx context.Context, id primitive.ObjectID, members []domain.VariantMember) error {
	variant, ok := m.variants[id]
	if !ok {
		return repository.ErrVariantNotFound
	}
	variant.Members = append([]domain.VariantMember(nil), members...)
	return nil
}

func (m *mockVariantRepo) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	variant, ok := m.variants[id]
	if !ok {
		return repository.ErrVariantNotFound
	}
	variant.Name = name
	return nil
}

func (m *mockVariantRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.variants[id]; !ok {
		return repository.ErrVariantNotFound
	}
	delete(m.variants, id)
	return nil
}

type mockContactRepo struct {
	contacts []*domain.Contact
}

func newMockContactRepo() *mockContactRepo {
	return &mockContactRepo{}
}

func (m *mockContactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = time.Now()
	clone := *contact
	m.contacts = append(m.contacts, &clone)
	return nil
}

func (m *mockContactRepo) List(ctx context.Context, page, pageSize int) ([]*domain.Contact, int64, error) {
	return pageOf(m.contacts, page, pageSize), int64(len(m.contacts)), nil
}

type mockVisitorRepo struct {
	visitors map[string]*domain.Visitor
}

func newMockVisitorRepo() *mockVisitorRepo {
	return &mockVisitorRepo{visitors: make(map[string]*domain.Visitor)}
}

func (m *mockVisitorRepo) Create(ctx context.Context, visitor *domain.Visitor) error {
	visitor.ID = primitive.NewObjectID()
	clone := *visitor
	m.visitors[visitor.VisitorID] = &clone
	return nil
}

func (m *mockVisitorRepo) FindSeenSince(ctx context.Context, visitorID string, since time.Time) (*domain.Visitor, error) {
	visitor, ok := m.visitors[visitorID]
	if !ok || visitor.LastSeen.Before(since) {
		return nil, repository.ErrVisitorNotFound
	}
	clone := *visitor
	return &clone, nil
}

func (m *mockVisitorRepo) TouchLastSeen(ctx context.Context, visitorID string, seenAt time.Time) error {
	if visitor, ok := m.visitors[visitorID]; ok {
		visitor.LastSeen = seenAt
		return nil
	}
	m.visitors[visitorID] = &domain.Visitor{
		ID:         primitive.NewObjectID(),
		VisitorID:  visitorID,
		FirstVisit: seenAt,
		LastSeen:   seenAt,
	}
	return nil
}

func (m *mockVisitorRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.visitors)), nil
}

func (m *mockVisitorRepo) CountSeenSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	for _, v := range m.visitors {
		if !v.LastSeen.Before(since) {
			count++
		}
	}
	return count, nil
}

// mockMediaStore records destroy calls and can be told to fail on a
// specific asset id.
type mockMediaStore struct {
	uploads   int
	destroyed []string
	failOn    map[string]error
}

func newMockMediaStore() *mockMediaStore {
	return &mockMediaStore{failOn: make(map[string]error)}
}

func (m *mockMediaStore) Upload(ctx context.Context, file io.Reader, folder string) (media.Asset, error) {
	m.uploads++
	id := fmt.Sprintf("%s/img-%d", folder, m.uploads)
	return media.Asset{ID: id, URL: "https://media.test/" + id}, nil
}

func (m *mockMediaStore) Destroy(ctx context.Context, id string) error {
	if err, ok := m.failOn[id]; ok {
		return err
	}
	m.destroyed = append(m.destroyed, id)
	return nil
}

// mockTxRunner snapshots the category and product repos before running the
// callback and restores them when it fails, mimicking a transaction abort.
type mockTxRunner struct {
	categories *mockCategoryRepo
	products   *mockProductRepo
	aborted    bool
}

func (m *mockTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	categorySnap := m.categories.snapshot()
	productSnap := m.products.snapshot()

	if err := fn(ctx); err != nil {
		m.categories.categories = categorySnap
		m.products.products = productSnap
		m.aborted = true
		return fmt.Errorf("transaction aborted: %w", err)
	}

	return nil
}

func pageOf[T any](all []*T, page, pageSize int) []*T {
	start := 0
	if page > 1 {
		start = (page - 1) * pageSize
	}
	if start >= len(all) {
		return []*T{}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
