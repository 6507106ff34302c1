package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/usecase"
)

//go:embed seed.yaml
var seedYAML []byte

type seedProduct struct {
	domain.Product `yaml:",inline"`
	Price          string `yaml:"price"`
}

type seed struct {
	Shops      []domain.Shop              `yaml:"shops"`
	Products   []seedProduct              `yaml:"products"`
	Categories []domain.Category          `yaml:"categories"`
	Features   map[string]domain.Features `yaml:"features"`
}

// Static serves the mock catalog. Data becomes available only after the
// configured load delay; readers block until then.
type Static struct {
	delay time.Duration
	raw   []byte
	now   func() time.Time

	start sync.Once
	ready chan struct{}
	err   error

	mu         sync.RWMutex
	shops      []domain.Shop
	products   []domain.Product
	categories []domain.Category
	features   map[string]domain.Features
}

func NewStatic(delay time.Duration) *Static {
	return newStatic(seedYAML, delay)
}

func newStatic(raw []byte, delay time.Duration) *Static {
	return &Static{
		delay: delay,
		raw:   raw,
		now:   time.Now,
		ready: make(chan struct{}),
	}
}

// Start kicks off the simulated fetch. Safe to call more than once; the
// first read calls it implicitly.
func (s *Static) Start() {
	s.start.Do(func() {
		go func() {
			defer close(s.ready)
			if s.delay > 0 {
				time.Sleep(s.delay)
			}
			s.err = s.load()
		}()
	})
}

func (s *Static) load() error {
	var sd seed
	if err := yaml.Unmarshal(s.raw, &sd); err != nil {
		return fmt.Errorf("parse catalog seed: %w", err)
	}

	products := make([]domain.Product, 0, len(sd.Products))
	for _, sp := range sd.Products {
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return fmt.Errorf("product %s price %q: %w", sp.ID, sp.Price, err)
		}
		p := sp.Product
		p.Price = price
		products = append(products, p)
	}
	if sd.Features == nil {
		sd.Features = make(map[string]domain.Features)
	}

	s.mu.Lock()
	s.shops = sd.Shops
	s.products = products
	s.categories = sd.Categories
	s.features = sd.Features
	s.mu.Unlock()
	return nil
}

func (s *Static) wait(ctx context.Context) error {
	s.Start()
	select {
	case <-s.ready:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Static) Shops(ctx context.Context) ([]domain.Shop, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Shop(nil), s.shops...), nil
}

// Shop returns nil, nil when the id is unknown.
func (s *Static) Shop(ctx context.Context, id string) (*domain.Shop, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.shops {
		if s.shops[i].ID == id {
			shop := s.shops[i]
			return &shop, nil
		}
	}
	return nil, nil
}

func (s *Static) Products(ctx context.Context) ([]domain.Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...), nil
}

// Product returns nil, nil when the id is unknown.
func (s *Static) Product(ctx context.Context, id string) (*domain.Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Static) Categories(ctx context.Context) ([]domain.Category, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...), nil
}

// Features returns the zero value for shops without flags, like the
// storefront does.
func (s *Static) Features(ctx context.Context, shopID string) (domain.Features, error) {
	if err := s.wait(ctx); err != nil {
		return domain.Features{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.features[shopID], nil
}

func (s *Static) UpdateFeatures(ctx context.Context, shopID string, patch domain.FeaturesPatch) (domain.Features, error) {
	if err := s.wait(ctx); err != nil {
		return domain.Features{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasShopLocked(shopID) {
		return domain.Features{}, usecase.ErrShopNotFound
	}
	f := s.features[shopID].Apply(patch)
	s.features[shopID] = f
	return f, nil
}

func (s *Static) CreateShop(ctx context.Context, shop domain.Shop, features domain.Features) (*domain.Shop, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	shop.ID = fmt.Sprintf("shop-%d", now.UnixMilli())
	for s.hasShopLocked(shop.ID) {
		now = now.Add(time.Millisecond)
		shop.ID = fmt.Sprintf("shop-%d", now.UnixMilli())
	}
	shop.CreatedAt = now
	s.shops = append(s.shops, shop)
	s.features[shop.ID] = features
	return &shop, nil
}

func (s *Static) hasShopLocked(id string) bool {
	for i := range s.shops {
		if s.shops[i].ID == id {
			return true
		}
	}
	return false
}

var _ usecase.Catalog = (*Static)(nil)
