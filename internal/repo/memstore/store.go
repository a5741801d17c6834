// Package memstore — хранилище метро в памяти процесса.
//
// Реализует те же контракты, что и Postgres-репозитории пакета repo,
// включая ошибки repo.ErrNotFound / repo.ErrAlreadyExists / repo.ErrReferenced.
// Используется в тестах и при SUBWAY_STORE=memory.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shaiso/subway/internal/domain"
	"github.com/shaiso/subway/internal/repo"
)

// Store — общее состояние всех таблиц. Один мьютекс на всё хранилище,
// чтобы составные операции (линия + section, каскадное удаление) были атомарны.
type Store struct {
	mu       sync.RWMutex
	seq      uint64
	order    map[uuid.UUID]uint64
	stations map[uuid.UUID]domain.Station
	lines    map[uuid.UUID]domain.Line
	sections map[uuid.UUID]domain.Section
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		order:    make(map[uuid.UUID]uint64),
		stations: make(map[uuid.UUID]domain.Station),
		lines:    make(map[uuid.UUID]domain.Line),
		sections: make(map[uuid.UUID]domain.Section),
	}
}

// Stations возвращает представление для станций.
func (s *Store) Stations() *StationStore { return &StationStore{s: s} }

// Lines возвращает представление для линий.
func (s *Store) Lines() *LineStore { return &LineStore{s: s} }

// Sections возвращает представление для sections.
func (s *Store) Sections() *SectionStore { return &SectionStore{s: s} }

// touch запоминает порядок вставки. Вызывается под s.mu.
func (s *Store) touch(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

// StationStore — станции в памяти.
type StationStore struct {
	s *Store
}

// Create создаёт станцию.
func (st *StationStore) Create(_ context.Context, station *domain.Station) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	for _, existing := range st.s.stations {
		if existing.Name == station.Name {
			return repo.ErrAlreadyExists
		}
	}
	st.s.stations[station.ID] = *station
	st.s.touch(station.ID)
	return nil
}

// GetByID возвращает станцию по ID.
func (st *StationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Station, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	station, ok := st.s.stations[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &station, nil
}

// GetByName возвращает станцию по имени.
func (st *StationStore) GetByName(_ context.Context, name string) (*domain.Station, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	for _, station := range st.s.stations {
		if station.Name == name {
			return &station, nil
		}
	}
	return nil, repo.ErrNotFound
}

// List возвращает станции в порядке создания.
func (st *StationStore) List(_ context.Context) ([]domain.Station, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	out := make([]domain.Station, 0, len(st.s.stations))
	for _, station := range st.s.stations {
		out = append(out, station)
	}
	sort.Slice(out, func(i, j int) bool {
		return st.s.order[out[i].ID] < st.s.order[out[j].ID]
	})
	return out, nil
}

// GetMany возвращает найденные станции из ids.
func (st *StationStore) GetMany(_ context.Context, ids []uuid.UUID) ([]domain.Station, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	out := make([]domain.Station, 0, len(ids))
	for _, id := range ids {
		if station, ok := st.s.stations[id]; ok {
			out = append(out, station)
		}
	}
	return out, nil
}

// Update переименовывает станцию.
func (st *StationStore) Update(_ context.Context, station *domain.Station) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	current, ok := st.s.stations[station.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for id, existing := range st.s.stations {
		if id != station.ID && existing.Name == station.Name {
			return repo.ErrAlreadyExists
		}
	}
	current.Name = station.Name
	st.s.stations[station.ID] = current
	return nil
}

// Delete удаляет станцию, если на неё не ссылается ни один section.
func (st *StationStore) Delete(_ context.Context, id uuid.UUID) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if _, ok := st.s.stations[id]; !ok {
		return repo.ErrNotFound
	}
	for _, sec := range st.s.sections {
		if sec.Touches(id) {
			return repo.ErrReferenced
		}
	}
	delete(st.s.stations, id)
	delete(st.s.order, id)
	return nil
}

// LineStore — линии в памяти.
type LineStore struct {
	s *Store
}

// CreateWithSection атомарно создаёт линию и её первый section.
func (ls *LineStore) CreateWithSection(_ context.Context, line *domain.Line, section *domain.Section) error {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	for _, existing := range ls.s.lines {
		if existing.Name == line.Name {
			return repo.ErrAlreadyExists
		}
	}
	if err := ls.s.checkSectionRefs(section); err != nil {
		return err
	}

	ls.s.lines[line.ID] = *line
	ls.s.touch(line.ID)
	ls.s.sections[section.ID] = *section
	ls.s.touch(section.ID)
	return nil
}

// GetByID возвращает линию по ID.
func (ls *LineStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Line, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	line, ok := ls.s.lines[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &line, nil
}

// GetByName возвращает линию по имени.
func (ls *LineStore) GetByName(_ context.Context, name string) (*domain.Line, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	for _, line := range ls.s.lines {
		if line.Name == name {
			return &line, nil
		}
	}
	return nil, repo.ErrNotFound
}

// List возвращает линии в порядке создания.
func (ls *LineStore) List(_ context.Context) ([]domain.Line, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	out := make([]domain.Line, 0, len(ls.s.lines))
	for _, line := range ls.s.lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool {
		return ls.s.order[out[i].ID] < ls.s.order[out[j].ID]
	})
	return out, nil
}

// Update обновляет имя и цвет линии.
func (ls *LineStore) Update(_ context.Context, line *domain.Line) error {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	current, ok := ls.s.lines[line.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for id, existing := range ls.s.lines {
		if id != line.ID && existing.Name == line.Name {
			return repo.ErrAlreadyExists
		}
	}
	current.Name = line.Name
	current.Color = line.Color
	ls.s.lines[line.ID] = current
	return nil
}

// Delete удаляет линию и все её sections.
func (ls *LineStore) Delete(_ context.Context, id uuid.UUID) error {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	if _, ok := ls.s.lines[id]; !ok {
		return repo.ErrNotFound
	}
	for secID, sec := range ls.s.sections {
		if sec.LineID == id {
			delete(ls.s.sections, secID)
			delete(ls.s.order, secID)
		}
	}
	delete(ls.s.lines, id)
	delete(ls.s.order, id)
	return nil
}

// SectionStore — sections в памяти.
type SectionStore struct {
	s *Store
}

// Create добавляет section.
func (ss *SectionStore) Create(_ context.Context, section *domain.Section) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	if _, ok := ss.s.lines[section.LineID]; !ok {
		return repo.ErrNotFound
	}
	if err := ss.s.checkSectionRefs(section); err != nil {
		return err
	}
	ss.s.sections[section.ID] = *section
	ss.s.touch(section.ID)
	return nil
}

// ListByLine возвращает sections линии в порядке вставки.
func (ss *SectionStore) ListByLine(_ context.Context, lineID uuid.UUID) ([]domain.Section, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	out := make([]domain.Section, 0)
	for _, sec := range ss.s.sections {
		if sec.LineID == lineID {
			out = append(out, sec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return ss.s.order[out[i].ID] < ss.s.order[out[j].ID]
	})
	return out, nil
}

// ExistsForStation проверяет, ссылается ли section на станцию.
func (ss *SectionStore) ExistsForStation(_ context.Context, stationID uuid.UUID) (bool, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	for _, sec := range ss.s.sections {
		if sec.Touches(stationID) {
			return true, nil
		}
	}
	return false, nil
}

// Replace атомарно удаляет sections remove и добавляет add.
func (ss *SectionStore) Replace(_ context.Context, lineID uuid.UUID, remove []uuid.UUID, add []domain.Section) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	for _, id := range remove {
		sec, ok := ss.s.sections[id]
		if !ok || sec.LineID != lineID {
			return repo.ErrNotFound
		}
	}
	for i := range add {
		if err := ss.s.checkSectionRefs(&add[i]); err != nil {
			return err
		}
	}

	for _, id := range remove {
		delete(ss.s.sections, id)
		delete(ss.s.order, id)
	}
	for _, sec := range add {
		ss.s.sections[sec.ID] = sec
		ss.s.touch(sec.ID)
	}
	return nil
}

// checkSectionRefs повторяет FOREIGN KEY на станции. Вызывается под s.mu.
func (s *Store) checkSectionRefs(section *domain.Section) error {
	if _, ok := s.stations[section.UpStationID]; !ok {
		return repo.ErrNotFound
	}
	if _, ok := s.stations[section.DownStationID]; !ok {
		return repo.ErrNotFound
	}
	return nil
}
