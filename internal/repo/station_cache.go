package repo

import (
	"context"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"
	"github.com/shaiso/subway/internal/domain"
)

// stationSource — хранилище станций, которое оборачивает кэш.
type stationSource interface {
	Create(ctx context.Context, station *domain.Station) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Station, error)
	GetByName(ctx context.Context, name string) (*domain.Station, error)
	List(ctx context.Context) ([]domain.Station, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Station, error)
	Update(ctx context.Context, station *domain.Station) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CachedStationRepo кэширует станции по ID (LRU с TTL).
//
// Маршрут линии читается чаще, чем меняются станции, поэтому GetByID
// и GetMany сначала смотрят в кэш. Update и Delete сбрасывают запись.
//
// Каждое изменение увеличивает epoch. Значение, прочитанное из inner,
// попадает в кэш только если за время чтения epoch не изменился, иначе
// чтение, начатое до Update, вернуло бы в кэш старую станцию на весь TTL.
type CachedStationRepo struct {
	inner stationSource
	cache gcache.Cache

	mu    sync.Mutex
	epoch uint64
}

// NewCachedStationRepo оборачивает inner LRU-кэшем на size записей.
func NewCachedStationRepo(inner stationSource, size int, ttl time.Duration) *CachedStationRepo {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedStationRepo{
		inner: inner,
		cache: gcache.New(size).LRU().Expiration(ttl).Build(),
	}
}

// Create создаёт станцию и кладёт её в кэш.
func (r *CachedStationRepo) Create(ctx context.Context, station *domain.Station) error {
	if err := r.inner.Create(ctx, station); err != nil {
		return err
	}
	r.put(*station)
	return nil
}

// GetByID возвращает станцию из кэша или из inner.
func (r *CachedStationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Station, error) {
	if s, ok := r.get(id); ok {
		return &s, nil
	}
	epoch := r.currentEpoch()
	station, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.putIfCurrent(epoch, *station)
	return station, nil
}

// GetByName всегда идёт в inner: кэш индексирован только по ID.
func (r *CachedStationRepo) GetByName(ctx context.Context, name string) (*domain.Station, error) {
	return r.inner.GetByName(ctx, name)
}

// List всегда идёт в inner.
func (r *CachedStationRepo) List(ctx context.Context) ([]domain.Station, error) {
	return r.inner.List(ctx)
}

// GetMany догружает из inner только отсутствующие в кэше станции.
func (r *CachedStationRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Station, error) {
	result := make([]domain.Station, 0, len(ids))
	missing := make([]uuid.UUID, 0)

	for _, id := range ids {
		if s, ok := r.get(id); ok {
			result = append(result, s)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	epoch := r.currentEpoch()
	loaded, err := r.inner.GetMany(ctx, missing)
	if err != nil {
		return nil, err
	}
	r.putIfCurrent(epoch, loaded...)
	return append(result, loaded...), nil
}

// Update обновляет станцию и сбрасывает её из кэша.
func (r *CachedStationRepo) Update(ctx context.Context, station *domain.Station) error {
	err := r.inner.Update(ctx, station)
	r.invalidate(station.ID)
	return err
}

// Delete удаляет станцию и сбрасывает её из кэша.
func (r *CachedStationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.inner.Delete(ctx, id)
	r.invalidate(id)
	return err
}

func (r *CachedStationRepo) get(id uuid.UUID) (domain.Station, bool) {
	v, err := r.cache.Get(id)
	if err != nil {
		return domain.Station{}, false
	}
	s, ok := v.(domain.Station)
	return s, ok
}

func (r *CachedStationRepo) put(s domain.Station) {
	_ = r.cache.Set(s.ID, s)
}

func (r *CachedStationRepo) currentEpoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// putIfCurrent кладёт станции в кэш, если с момента epoch не было изменений.
func (r *CachedStationRepo) putIfCurrent(epoch uint64, stations ...domain.Station) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return
	}
	for _, s := range stations {
		r.put(s)
	}
}

func (r *CachedStationRepo) invalidate(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	r.cache.Remove(id)
}
