package variants

import (
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
)

// Phase names the selection-state machine states.
type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhasePartial    Phase = "partial"
	PhaseMatched    Phase = "matched"
	PhaseUnmatched  Phase = "unmatched"
	PhaseOutOfStock Phase = "out_of_stock"
)

// OutOfStockMessage is surfaced only when a complete selection matches a
// variant that is itself flagged unavailable. A truly unmatched combination
// stays silent and just disables add-to-cart.
const OutOfStockMessage = "this combination is currently out of stock"

// Controller drives the selection state machine for one product. All state is
// owned by the instance and mutated only through its methods; every mutation
// recomputes availability and the matched variant in a single pure pass.
type Controller struct {
	product Product
	dims    Dimensions

	sel             Selection
	legacyVariantID int64
	qty             int
}

// NewController seeds the selection from the first actually-available variant,
// falling back to the very first variant when none are available, so the UI
// never starts empty when variants with options exist. The variants[0]
// fallback is documented behavior, not an inference.
func NewController(p Product) *Controller {
	c := &Controller{
		product: p,
		dims:    ExtractDimensions(p.Variants),
		sel:     Selection{},
		qty:     1,
	}

	seed := firstAvailable(p.Variants)
	if seed == nil {
		return c
	}

	if len(c.dims) == 0 {
		// Legacy flat-variant mode: selection is by variant id.
		c.legacyVariantID = seed.ID
		return c
	}
	for _, dim := range c.dims {
		if value, ok := seed.Options[dim.Name]; ok {
			c.sel[dim.Name] = value
		}
	}
	return c
}

// LegacyMode reports whether the product has no derived dimensions and falls
// back to flat variant-by-id selection.
func (c *Controller) LegacyMode() bool {
	return len(c.dims) == 0 && len(c.product.Variants) > 0
}

// Select overwrites the value recorded for one dimension. There is no
// deselect; picks only replace. Every pick resets the displayed quantity to 1.
func (c *Controller) Select(dim, value string) error {
	if !c.dims.Has(dim) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown option dimension")
	}
	if !c.dims.HasValue(dim, value) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown option value")
	}
	c.sel[dim] = value
	c.qty = 1
	return nil
}

// SelectVariantID records a flat variant choice for legacy products.
func (c *Controller) SelectVariantID(id int64) error {
	if !c.LegacyMode() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product uses option selection")
	}
	if c.product.VariantByID(id) == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown variant")
	}
	c.legacyVariantID = id
	c.qty = 1
	return nil
}

// Apply replays a whole selection map, dimension by dimension.
func (c *Controller) Apply(sel Selection) error {
	for _, dim := range c.dims {
		if value, ok := sel[dim.Name]; ok {
			if err := c.Select(dim.Name, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetQuantity clamps the requested quantity into [1, max]; out-of-range values
// are never accepted silently.
func (c *Controller) SetQuantity(qty int) {
	matched, _ := c.resolve()
	c.qty = ClampQuantity(qty, MaxQuantity(c.product, matched))
}

// Selection returns a copy of the current selection.
func (c *Controller) Selection() Selection {
	return c.sel.Clone()
}

// View is the render snapshot: everything the product detail surface needs,
// derived fresh from the variant list and current selection.
type View struct {
	Dimensions       Dimensions   `json:"dimensions"`
	Availability     Availability `json:"availability"`
	Selection        Selection    `json:"selection"`
	Matched          *Variant     `json:"matched_variant,omitempty"`
	Phase            Phase        `json:"phase"`
	Quantity         int          `json:"quantity"`
	MaxQuantity      int          `json:"max_quantity"`
	CanAddToCart     bool         `json:"can_add_to_cart"`
	PriceCents       int          `json:"price_cents"`
	Message          string       `json:"message,omitempty"`
	LegacyMode       bool         `json:"legacy_mode"`
	DuplicateOptions bool         `json:"-"`
}

// View computes the current snapshot.
func (c *Controller) View() View {
	matched, duplicate := c.resolve()
	phase := c.phase(matched)

	price := c.product.BasePriceCents
	if matched != nil && (phase == PhaseMatched || phase == PhaseOutOfStock) {
		price = matched.PriceCents
	}

	// Price/stock display reverts to the base product outside a complete match.
	display := matched
	if phase != PhaseMatched && phase != PhaseOutOfStock {
		display = nil
	}

	view := View{
		Dimensions:       c.dims,
		Availability:     AvailableValues(c.product.Variants, c.dims, c.sel),
		Selection:        c.sel.Clone(),
		Matched:          display,
		Phase:            phase,
		Quantity:         c.qty,
		MaxQuantity:      MaxQuantity(c.product, display),
		CanAddToCart:     CanAddToCart(c.product, matched, c.qty),
		PriceCents:       price,
		LegacyMode:       c.LegacyMode(),
		DuplicateOptions: duplicate,
	}
	if phase == PhaseOutOfStock {
		view.Message = OutOfStockMessage
	}
	return view
}

// resolve finds the active variant for the current state.
func (c *Controller) resolve() (*Variant, bool) {
	if c.LegacyMode() {
		if c.legacyVariantID == 0 {
			return nil, false
		}
		return c.product.VariantByID(c.legacyVariantID), false
	}
	return Match(c.product.Variants, c.dims, c.sel)
}

func (c *Controller) phase(matched *Variant) Phase {
	if c.LegacyMode() {
		if matched == nil {
			return PhaseEmpty
		}
		if !matched.ActuallyAvailable() {
			return PhaseOutOfStock
		}
		return PhaseMatched
	}

	switch {
	case len(c.dims) == 0 || len(c.sel) == 0:
		return PhaseEmpty
	case !c.sel.Complete(c.dims):
		return PhasePartial
	case matched == nil:
		return PhaseUnmatched
	case !matched.ActuallyAvailable():
		return PhaseOutOfStock
	default:
		return PhaseMatched
	}
}

// firstAvailable prefers the first variant not flagged unavailable and falls
// back to the first variant outright.
func firstAvailable(vs []Variant) *Variant {
	for i := range vs {
		if vs[i].ActuallyAvailable() {
			return &vs[i]
		}
	}
	if len(vs) > 0 {
		return &vs[0]
	}
	return nil
}
