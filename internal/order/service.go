package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dmstore/backend/internal/logx"
	"github.com/dmstore/backend/internal/pricing"
	"github.com/dmstore/backend/internal/product"
)

// Catalog is the product-lookup side of the workflow. Stock mutation itself
// happens inside the Store transaction.
type Catalog interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]product.Product, error)
}

// Settings yields the active pricing mode; it is resolved once per operation
// and passed down explicitly.
type Settings interface {
	PriceMode(ctx context.Context) (pricing.Mode, error)
}

// Mailer sends order confirmations. Delivery is best-effort and happens only
// after the order has committed.
type Mailer interface {
	OrderPlaced(ctx context.Context, o *Order) error
	OrderUpdated(ctx context.Context, o *Order) error
}

type Service struct {
	store    Store
	catalog  Catalog
	settings Settings
	mailer   Mailer
}

func NewService(store Store, catalog Catalog, settings Settings, mailer Mailer) *Service {
	return &Service{store: store, catalog: catalog, settings: settings, mailer: mailer}
}

type item struct {
	ID       string
	Quantity int
}

// normalizeItems validates the requested items and merges duplicate product
// ids. minQty is 1 for creation and 0 for edits (0 removes a line).
func normalizeItems(in []ItemInput, minQty int) ([]item, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: empty item list", ErrBadRequest)
	}
	seen := map[string]int{}
	out := make([]item, 0, len(in))
	for _, it := range in {
		if it.ID == "" {
			return nil, fmt.Errorf("%w: item without product id", ErrBadRequest)
		}
		if it.Quantity == nil || *it.Quantity < minQty {
			return nil, fmt.Errorf("%w: bad quantity for product %s", ErrBadRequest, it.ID)
		}
		if i, ok := seen[it.ID]; ok {
			out[i].Quantity += *it.Quantity
			continue
		}
		seen[it.ID] = len(out)
		out = append(out, item{ID: it.ID, Quantity: *it.Quantity})
	}
	return out, nil
}

// Create runs the checkout workflow: shape validation, a full stock pre-check
// over every line, one pricing-mode resolution, server-side pricing, then a
// single transaction persisting the order and debiting stock. Notifications
// go out only after the commit and never fail the call.
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	items, err := normalizeItems(req.Items, 1)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	prods, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// All lines must pass before anything is mutated.
	for _, it := range items {
		p, ok := prods[it.ID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", it.ID, product.ErrNotFound)
		}
		if p.Stock < it.Quantity {
			return nil, &InsufficientStockError{ProductID: p.ID, Name: p.Name, Remaining: p.Stock}
		}
	}

	mode, err := s.settings.PriceMode(ctx)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID: uuid.NewString(),
		Customer: Customer{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
		},
		PriceMode: mode,
		PriceKind: PriceKindNormal,
		Status:    StatusNew,
		WeightKg:  decimal.NewFromFloat(req.WeightKg).StringFixed(2),
	}
	o.OrderNumber = Number(o.ID)

	total := decimal.Zero
	for _, it := range items {
		p := prods[it.ID]
		ln, promo := priceLine(&p, it.Quantity, mode)
		if promo {
			o.PriceKind = PriceKindPromo
		}
		total = total.Add(pricing.Amount(ln.LineTotal))
		o.Lines = append(o.Lines, ln)
	}
	o.Total = total.StringFixed(2)

	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}

	s.notify(ctx, o, false)
	return o, nil
}

// Update replaces an order's lines wholesale and reconciles stock by delta.
// Lines are re-priced under the current pricing mode, not the order's
// original one, and the package weight is recomputed from catalog weights.
func (s *Service) Update(ctx context.Context, id string, req *UpdateOrderRequest) (*Order, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := normalizeItems(req.Items, 0)
	if err != nil {
		return nil, err
	}

	prev := make(map[string]int, len(o.Lines))
	for _, ln := range o.Lines {
		prev[ln.ProductID] += ln.Quantity
	}
	want := make(map[string]int, len(items))
	for _, it := range items {
		want[it.ID] = it.Quantity
	}

	// Union of every product either side references, in a stable order:
	// requested items first, then lines being dropped entirely.
	union := make([]string, 0, len(items)+len(prev))
	for _, it := range items {
		union = append(union, it.ID)
	}
	removed := make([]string, 0, len(prev))
	for pid := range prev {
		if _, ok := want[pid]; !ok {
			removed = append(removed, pid)
		}
	}
	sort.Strings(removed)
	union = append(union, removed...)

	// Kept lines need a live product row for the snapshot rebuild; pure
	// removals do not (their product may even have been deleted).
	lookup := make([]string, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			lookup = append(lookup, it.ID)
		}
	}
	prods := map[string]product.Product{}
	if len(lookup) > 0 {
		if prods, err = s.catalog.GetByIDs(ctx, lookup); err != nil {
			return nil, err
		}
	}

	deltas := make([]StockDelta, 0, len(union))
	for _, pid := range union {
		d := want[pid] - prev[pid]
		if want[pid] > 0 {
			p, ok := prods[pid]
			if !ok {
				return nil, fmt.Errorf("product %s: %w", pid, product.ErrNotFound)
			}
			if d > 0 && p.Stock < d {
				return nil, &InsufficientStockError{ProductID: p.ID, Name: p.Name, Remaining: p.Stock}
			}
		}
		if d != 0 {
			deltas = append(deltas, StockDelta{ProductID: pid, Delta: d})
		}
	}
	// Returns are applied before debits so freeing and consuming units of
	// the same product within one edit cannot trip the stock check.
	sort.SliceStable(deltas, func(i, j int) bool { return deltas[i].Delta < deltas[j].Delta })

	mode, err := s.settings.PriceMode(ctx)
	if err != nil {
		return nil, err
	}

	o.Lines = nil
	o.PriceMode = mode
	o.PriceKind = PriceKindNormal
	total := decimal.Zero
	weightGrams := 0
	for _, it := range items {
		if it.Quantity == 0 {
			continue
		}
		p := prods[it.ID]
		ln, promo := priceLine(&p, it.Quantity, mode)
		if promo {
			o.PriceKind = PriceKindPromo
		}
		total = total.Add(pricing.Amount(ln.LineTotal))
		weightGrams += p.WeightGrams * it.Quantity
		o.Lines = append(o.Lines, ln)
	}
	o.Total = total.StringFixed(2)
	o.WeightKg = decimal.NewFromInt(int64(weightGrams)).Div(decimal.NewFromInt(1000)).StringFixed(2)

	if req.Name != "" {
		o.Customer.Name = req.Name
	}
	if req.Phone != "" {
		o.Customer.Phone = req.Phone
	}
	if req.Email != "" {
		o.Customer.Email = req.Email
	}
	if req.Address != "" {
		o.Customer.Address = req.Address
	}

	if err := s.store.Replace(ctx, o, deltas); err != nil {
		return nil, err
	}

	s.notify(ctx, o, true)
	return o, nil
}

// Get looks an order up by its uuid or by its human-facing order number.
func (s *Service) Get(ctx context.Context, idOrNumber string) (*Order, error) {
	if err := uuid.Validate(idOrNumber); err == nil {
		return s.store.GetByID(ctx, idOrNumber)
	}
	return s.store.GetByNumber(ctx, idOrNumber)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.store.List(ctx)
}

func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrBadRequest, status)
	}
	return s.store.UpdateStatus(ctx, id, status)
}

// Delete removes the order and returns its units to catalog stock.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func priceLine(p *product.Product, qty int, mode pricing.Mode) (Line, bool) {
	unit, promo := pricing.UnitPrice(pricing.Amount(p.Price), pricing.Amount(p.DiscountPrice), mode)
	lineTotal := unit.Mul(decimal.NewFromInt(int64(qty)))
	return Line{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  qty,
		UnitPrice: unit.StringFixed(2),
		LineTotal: lineTotal.StringFixed(2),
	}, promo
}

func (s *Service) notify(ctx context.Context, o *Order, update bool) {
	if s.mailer == nil {
		return
	}
	send := s.mailer.OrderPlaced
	if update {
		send = s.mailer.OrderUpdated
	}
	if err := send(ctx, o); err != nil {
		logx.L.Error("order notification failed",
			zap.String("order", o.OrderNumber),
			zap.Error(err))
	}
}
