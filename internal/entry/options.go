package entry

import (
	"context"
	"sync"

	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

type ServiceLister interface {
	List(ctx context.Context) ([]domain.Service, error)
}

type ProductLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Options are the choices a form offers. A failed fetch leaves its list empty
// and its error set; the other lists are still usable.
type Options struct {
	Services      []domain.Service       `json:"services"`
	ExtraServices []catalog.ExtraService `json:"extraServices"`
	Products      []domain.Product       `json:"products"`

	ServicesErr error `json:"-"`
	ProductsErr error `json:"-"`
}

func (o Options) service(id string) (domain.Service, bool) {
	for _, s := range o.Services {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Service{}, false
}

func (o Options) extra(id string) (catalog.ExtraService, bool) {
	for _, e := range o.ExtraServices {
		if e.ID == id {
			return e, true
		}
	}
	return catalog.ExtraService{}, false
}

func (o Options) product(id string) (domain.Product, bool) {
	for _, p := range o.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// LoadOptions fetches services and products concurrently. Only a cancelled ctx is
// returned as an error; per-list failures are reported on Options.
func LoadOptions(ctx context.Context, services ServiceLister, products ProductLister, extras *catalog.Catalog) (Options, error) {
	var (
		opts Options
		mu   sync.Mutex
		g    errgroup.Group
	)
	g.Go(func() error {
		items, err := services.List(ctx)
		mu.Lock()
		opts.Services, opts.ServicesErr = items, err
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		items, err := products.List(ctx)
		mu.Lock()
		opts.Products, opts.ProductsErr = items, err
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Options{}, err
	}
	if extras != nil {
		opts.ExtraServices = extras.ExtraServices()
	}
	return opts, nil
}
