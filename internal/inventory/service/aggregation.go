package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// GroupProducts folds the PRODUCT batches of a catalog into one group per
// item code and warehouse. Groups come out in order of first appearance.
func GroupProducts(items []domain.InventoryItem) []domain.AggregatedGroup {
	var order []string
	members := make(map[string][]domain.InventoryItem)

	for _, it := range items {
		if !it.IsProduct() {
			continue
		}
		key := it.GroupKey()
		if _, ok := members[key]; !ok {
			order = append(order, key)
		}
		members[key] = append(members[key], it)
	}

	out := make([]domain.AggregatedGroup, 0, len(order))
	for _, key := range order {
		out = append(out, buildGroup(members[key]))
	}
	return out
}

// buildGroup takes its descriptive fields from the first member
func buildGroup(members []domain.InventoryItem) domain.AggregatedGroup {
	g := domain.AggregatedGroup{
		InventoryItem: members[0],
		SubItems:      []domain.InventoryItem{},
		BatchCount:    len(members),
	}
	sum := decimal.Zero
	for _, m := range members {
		sum = sum.Add(decimal.NewFromFloat(m.StockIn))
		if m.StockIn > 0 {
			g.SubItems = append(g.SubItems, m)
		}
	}
	g.StockIn = sum.InexactFloat64()
	return g
}

// GroupIndex keeps the product groups of a catalog up to date without
// regrouping the whole catalog after every commit. Records are never removed
// from the catalog and a batch never changes group, so an upsert either
// patches a member in place or appends it.
//
// Every Upsert and Invalidate bumps the generation. A rebuild only sticks
// when the generation it read the catalog under is still current.
type GroupIndex struct {
	mu      sync.RWMutex
	loaded  bool
	gen     uint64
	order   []string
	members map[string][]domain.InventoryItem
	// item id -> group key
	where map[string]string
}

// NewGroupIndex returns an empty, unloaded index
func NewGroupIndex() *GroupIndex {
	return &GroupIndex{
		members: make(map[string][]domain.InventoryItem),
		where:   make(map[string]string),
	}
}

// Loaded reports whether Rebuild has run
func (x *GroupIndex) Loaded() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.loaded
}

// Generation identifies the index state a catalog snapshot is read against
func (x *GroupIndex) Generation() uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.gen
}

// Rebuild discards the index and regroups items
func (x *GroupIndex) Rebuild(items []domain.InventoryItem) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.rebuildLocked(items)
}

// RebuildAt regroups items read while the index was at generation gen. It
// reports false and leaves the index untouched when a commit or an
// invalidation happened since.
func (x *GroupIndex) RebuildAt(gen uint64, items []domain.InventoryItem) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.gen != gen {
		return false
	}
	x.rebuildLocked(items)
	return true
}

func (x *GroupIndex) rebuildLocked(items []domain.InventoryItem) {
	x.order = nil
	x.members = make(map[string][]domain.InventoryItem)
	x.where = make(map[string]string)
	for _, it := range items {
		x.upsertLocked(it)
	}
	x.loaded = true
}

// Invalidate marks the index stale so the next read rebuilds it
func (x *GroupIndex) Invalidate() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.loaded = false
	x.gen++
}

// Upsert records the current state of one catalog item
func (x *GroupIndex) Upsert(item domain.InventoryItem) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.gen++
	x.upsertLocked(item)
}

// Patch records committed item states. On an unloaded index it only bumps
// the generation, voiding any rebuild whose snapshot predates the commit.
func (x *GroupIndex) Patch(items ...domain.InventoryItem) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.gen++
	if !x.loaded {
		return
	}
	for _, it := range items {
		x.upsertLocked(it)
	}
}

func (x *GroupIndex) upsertLocked(item domain.InventoryItem) {
	if !item.IsProduct() {
		return
	}
	if key, ok := x.where[item.ID]; ok {
		for i := range x.members[key] {
			if x.members[key][i].ID == item.ID {
				x.members[key][i] = item
				return
			}
		}
	}

	key := item.GroupKey()
	if _, ok := x.members[key]; !ok {
		x.order = append(x.order, key)
	}
	x.members[key] = append(x.members[key], item)
	if _, ok := x.where[item.ID]; !ok {
		x.where[item.ID] = key
	}
}

// Groups returns every group in first-appearance order
func (x *GroupIndex) Groups() []domain.AggregatedGroup {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]domain.AggregatedGroup, 0, len(x.order))
	for _, key := range x.order {
		out = append(out, buildGroup(x.members[key]))
	}
	return out
}

// Group returns one group
func (x *GroupIndex) Group(itemCode, factoryCode string) (domain.AggregatedGroup, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	m, ok := x.members[domain.GroupKey(itemCode, factoryCode)]
	if !ok {
		return domain.AggregatedGroup{}, false
	}
	return buildGroup(m), true
}

// GroupFilter narrows ListProductGroups
type GroupFilter struct {
	Factory  string
	ItemCode string
	Query    string
}

// ItemFilter narrows ListItems. An empty Type returns both kinds.
type ItemFilter struct {
	Type     domain.ItemType
	Factory  string
	ItemCode string
	Query    string
}

// ListProductGroups returns the aggregated product view
func (s *InventoryService) ListProductGroups(ctx context.Context, f GroupFilter) ([]domain.AggregatedGroup, error) {
	groups, err := s.productGroups(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.AggregatedGroup, 0, len(groups))
	for _, g := range groups {
		if f.Factory != "" && g.FactoryCode != f.Factory {
			continue
		}
		if f.ItemCode != "" && g.ItemCode != f.ItemCode {
			continue
		}
		if !matchesQuery(g.InventoryItem, f.Query) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// ListItems returns catalog records in insertion order
func (s *InventoryService) ListItems(ctx context.Context, f ItemFilter) ([]domain.InventoryItem, error) {
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.InventoryItem, 0, len(items))
	for _, it := range items {
		if f.Type != "" && it.EffectiveType() != f.Type {
			continue
		}
		if f.Factory != "" && it.FactoryCode != f.Factory {
			continue
		}
		if f.ItemCode != "" && it.ItemCode != f.ItemCode {
			continue
		}
		if !matchesQuery(it, f.Query) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// GetItem returns one catalog record
func (s *InventoryService) GetItem(ctx context.Context, id string) (domain.InventoryItem, error) {
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.InventoryItem{}, errors.NotFound("item")
}

// ItemCodes returns the distinct item codes of one kind (or all), sorted
func (s *InventoryService) ItemCodes(ctx context.Context, typ domain.ItemType) ([]string, error) {
	items, err := s.ListItems(ctx, ItemFilter{Type: typ})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, it := range items {
		if it.ItemCode != "" {
			seen[it.ItemCode] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

// Factories returns every warehouse known to the catalog or the formulas, sorted
func (s *InventoryService) Factories(ctx context.Context) ([]string, error) {
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, it := range items {
		if it.FactoryCode != "" {
			seen[it.FactoryCode] = struct{}{}
		}
	}
	for _, f := range s.formulas.Factories() {
		if f != "" {
			seen[f] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

// productGroups serves the index, building it from the store when unloaded.
// If a commit lands while the catalog is being read, the snapshot is grouped
// for this call only and the index stays unloaded.
func (s *InventoryService) productGroups(ctx context.Context) ([]domain.AggregatedGroup, error) {
	if s.index.Loaded() {
		return s.index.Groups(), nil
	}
	gen := s.index.Generation()
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		return nil, err
	}
	if !s.index.RebuildAt(gen, items) {
		return GroupProducts(items), nil
	}
	return s.index.Groups(), nil
}

// refreshIndex patches the group index once u commits. Hooks run under the
// repository lock, so patches land in commit order.
func (s *InventoryService) refreshIndex(u *repository.UnitOfWork, items ...domain.InventoryItem) {
	u.OnCommit(func() { s.index.Patch(items...) })
}

// InvalidateProductIndex drops the cached product groups. Used after the
// whole catalog was replaced and when another instance committed to the
// shared store.
func (s *InventoryService) InvalidateProductIndex() {
	s.index.Invalidate()
}

func matchesQuery(it domain.InventoryItem, q string) bool {
	q = strings.TrimSpace(strings.ToLower(q))
	if q == "" {
		return true
	}
	for _, field := range []string{it.MaterialName, it.ItemCode, it.ColorName, it.ColorCode, it.FactoryCode} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
