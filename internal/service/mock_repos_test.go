package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
	"github.com/Ta321487/TicketAssitant-sub000/internal/repository"
)

// ── Mock StationRepository ──

type mockStationRepo struct {
	nextID   uint
	stations map[uint]*model.Station
}

func newMockStationRepo() *mockStationRepo {
	return &mockStationRepo{nextID: 1, stations: make(map[uint]*model.Station)}
}

func (m *mockStationRepo) Create(_ context.Context, station *model.Station) error {
	station.ID = m.nextID
	m.nextID++
	station.CreatedAt = time.Now()
	station.UpdatedAt = time.Now()
	m.stations[station.ID] = station
	return nil
}

func (m *mockStationRepo) GetByID(_ context.Context, id uint) (*model.Station, error) {
	if s, ok := m.stations[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStationRepo) GetByName(_ context.Context, name string) (*model.Station, error) {
	for _, s := range m.stations {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStationRepo) List(_ context.Context, filter repository.StationFilter, offset, limit int) ([]model.Station, int64, error) {
	var matched []model.Station
	for _, s := range m.stations {
		if filter.Keyword != "" {
			if filter.PhoneticPrefix {
				if !strings.HasPrefix(s.Phonetic, filter.Keyword) {
					continue
				}
			} else if !strings.Contains(s.Name, filter.Keyword) {
				continue
			}
		}
		if filter.Bureau != "" && s.RailwayBureau != filter.Bureau {
			continue
		}
		if filter.Level != nil && s.StationLevel != *filter.Level {
			continue
		}
		matched = append(matched, *s)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	matched = page(matched, offset, limit)
	return matched, total, nil
}

func (m *mockStationRepo) ListAll(_ context.Context) ([]model.Station, error) {
	var result []model.Station
	for _, s := range m.stations {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockStationRepo) Update(_ context.Context, station *model.Station) error {
	if _, ok := m.stations[station.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	station.UpdatedAt = time.Now()
	m.stations[station.ID] = station
	return nil
}

func (m *mockStationRepo) Delete(_ context.Context, id uint) error {
	delete(m.stations, id)
	return nil
}

// ── Mock TicketRepository ──

type mockTicketRepo struct {
	nextID  uint
	tickets map[uint]*model.Ticket
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{nextID: 1, tickets: make(map[uint]*model.Ticket)}
}

func (m *mockTicketRepo) Create(_ context.Context, ticket *model.Ticket) error {
	ticket.ID = m.nextID
	m.nextID++
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id uint) (*model.Ticket, error) {
	if t, ok := m.tickets[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTicketRepo) List(_ context.Context, filter repository.TicketFilter, offset, limit int) ([]model.Ticket, int64, error) {
	var matched []model.Ticket
	for _, t := range m.tickets {
		if matchTicket(t, filter) {
			matched = append(matched, *t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if filter.SortDesc {
			return matched[i].TravelDate.After(matched[j].TravelDate)
		}
		return matched[i].TravelDate.Before(matched[j].TravelDate)
	})

	total := int64(len(matched))
	matched = page(matched, offset, limit)
	return matched, total, nil
}

func matchTicket(t *model.Ticket, filter repository.TicketFilter) bool {
	conds := []bool{}
	if filter.DepartStation != "" {
		if filter.OnlyUsedDepart {
			conds = append(conds, t.DepartStation == filter.DepartStation)
		} else {
			conds = append(conds, strings.Contains(t.DepartStation, filter.DepartStation))
		}
	}
	if filter.ArriveStation != "" {
		conds = append(conds, strings.Contains(t.ArriveStation, filter.ArriveStation))
	}
	if filter.TrainPrefix != "" {
		conds = append(conds, t.TrainPrefix == filter.TrainPrefix)
	}
	if filter.Year != 0 {
		conds = append(conds, t.TravelDate.Year() == filter.Year)
	}
	if filter.SeatClass != "" {
		conds = append(conds, t.SeatClass == filter.SeatClass)
	}
	if len(conds) == 0 {
		return true
	}
	if filter.CombineOr {
		for _, c := range conds {
			if c {
				return true
			}
		}
		return false
	}
	for _, c := range conds {
		if !c {
			return false
		}
	}
	return true
}

func (m *mockTicketRepo) Update(_ context.Context, ticket *model.Ticket) error {
	if _, ok := m.tickets[ticket.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	ticket.UpdatedAt = time.Now()
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockTicketRepo) Delete(_ context.Context, id uint) error {
	delete(m.tickets, id)
	return nil
}

func (m *mockTicketRepo) BulkDelete(_ context.Context, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := m.tickets[id]; ok {
			delete(m.tickets, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockTicketRepo) DistinctYears(_ context.Context) ([]int, error) {
	seen := make(map[int]struct{})
	for _, t := range m.tickets {
		seen[t.TravelDate.Year()] = struct{}{}
	}
	var years []int
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (m *mockTicketRepo) DistinctTrainPrefixes(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, t := range m.tickets {
		if t.TrainPrefix != "" {
			seen[t.TrainPrefix] = struct{}{}
		}
	}
	var prefixes []string
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes, nil
}

func (m *mockTicketRepo) DistinctDepartStations(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, t := range m.tickets {
		seen[t.DepartStation] = struct{}{}
	}
	var stations []string
	for s := range seen {
		stations = append(stations, s)
	}
	sort.Strings(stations)
	return stations, nil
}

// ── Mock CollectionRepository ──

type mockCollectionRepo struct {
	nextID      uint
	collections map[uint]*model.Collection
	mappings    []model.CollectionTicket
}

func newMockCollectionRepo() *mockCollectionRepo {
	return &mockCollectionRepo{nextID: 1, collections: make(map[uint]*model.Collection)}
}

func (m *mockCollectionRepo) Create(_ context.Context, collection *model.Collection) error {
	collection.ID = m.nextID
	m.nextID++
	collection.CreatedAt = time.Now()
	collection.UpdatedAt = time.Now()
	m.collections[collection.ID] = collection
	return nil
}

func (m *mockCollectionRepo) GetByID(_ context.Context, id uint) (*model.Collection, error) {
	if c, ok := m.collections[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollectionRepo) List(_ context.Context, filter repository.CollectionFilter, offset, limit int) ([]model.Collection, int64, error) {
	var matched []model.Collection
	for _, c := range m.collections {
		if filter.Keyword != "" && !strings.Contains(c.Name, filter.Keyword) {
			continue
		}
		if filter.Importance != nil && c.Importance != *filter.Importance {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SortOrder != matched[j].SortOrder {
			return matched[i].SortOrder < matched[j].SortOrder
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	matched = page(matched, offset, limit)
	return matched, total, nil
}

func (m *mockCollectionRepo) ListNamesLike(_ context.Context, prefix string) ([]string, error) {
	var names []string
	for _, c := range m.collections {
		if strings.HasPrefix(c.Name, prefix) {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

func (m *mockCollectionRepo) Update(_ context.Context, collection *model.Collection) error {
	if _, ok := m.collections[collection.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	collection.UpdatedAt = time.Now()
	m.collections[collection.ID] = collection
	return nil
}

func (m *mockCollectionRepo) UpdateSortOrders(_ context.Context, orders map[uint]int) error {
	for id, order := range orders {
		if c, ok := m.collections[id]; ok {
			c.SortOrder = order
		}
	}
	return nil
}

func (m *mockCollectionRepo) Delete(_ context.Context, id uint) error {
	delete(m.collections, id)
	m.removeMappings(id, nil)
	return nil
}

func (m *mockCollectionRepo) BulkDelete(_ context.Context, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := m.collections[id]; ok {
			delete(m.collections, id)
			m.removeMappings(id, nil)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockCollectionRepo) AddTickets(_ context.Context, collectionID uint, ticketIDs []uint) (int, error) {
	existing := make(map[uint]struct{})
	for _, mapping := range m.mappings {
		if mapping.CollectionID == collectionID {
			existing[mapping.TicketID] = struct{}{}
		}
	}
	added := 0
	for _, id := range ticketIDs {
		if _, ok := existing[id]; ok {
			continue
		}
		m.mappings = append(m.mappings, model.CollectionTicket{
			CollectionID: collectionID,
			TicketID:     id,
			AddedAt:      time.Now(),
		})
		added++
	}
	return added, nil
}

func (m *mockCollectionRepo) RemoveTickets(_ context.Context, collectionID uint, ticketIDs []uint) (int64, error) {
	before := len(m.mappings)
	m.removeMappings(collectionID, ticketIDs)
	return int64(before - len(m.mappings)), nil
}

func (m *mockCollectionRepo) ListTickets(_ context.Context, collectionID uint, offset, limit int) ([]model.Ticket, int64, error) {
	// Mock 层不持有车票本体，返回只带 ID 的占位
	var tickets []model.Ticket
	for _, mapping := range m.mappings {
		if mapping.CollectionID == collectionID {
			tickets = append(tickets, model.Ticket{ID: mapping.TicketID})
		}
	}
	total := int64(len(tickets))
	tickets = page(tickets, offset, limit)
	return tickets, total, nil
}

func (m *mockCollectionRepo) MappedTicketIDs(_ context.Context, collectionID uint, ticketIDs []uint) ([]uint, error) {
	want := make(map[uint]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		want[id] = struct{}{}
	}
	var mapped []uint
	for _, mapping := range m.mappings {
		if mapping.CollectionID != collectionID {
			continue
		}
		if _, ok := want[mapping.TicketID]; ok {
			mapped = append(mapped, mapping.TicketID)
		}
	}
	return mapped, nil
}

func (m *mockCollectionRepo) CountTickets(_ context.Context, collectionID uint) (int64, error) {
	var count int64
	for _, mapping := range m.mappings {
		if mapping.CollectionID == collectionID {
			count++
		}
	}
	return count, nil
}

// removeMappings ticketIDs 为 nil 时移除该收藏夹的全部关联
func (m *mockCollectionRepo) removeMappings(collectionID uint, ticketIDs []uint) {
	want := make(map[uint]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		want[id] = struct{}{}
	}
	var kept []model.CollectionTicket
	for _, mapping := range m.mappings {
		if mapping.CollectionID == collectionID {
			if ticketIDs == nil {
				continue
			}
			if _, ok := want[mapping.TicketID]; ok {
				continue
			}
		}
		kept = append(kept, mapping)
	}
	m.mappings = kept
}

// ── 公共辅助 ──

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func newTestRepository() *repository.Repository {
	return &repository.Repository{
		Station:    newMockStationRepo(),
		Ticket:     newMockTicketRepo(),
		Collection: newMockCollectionRepo(),
	}
}
