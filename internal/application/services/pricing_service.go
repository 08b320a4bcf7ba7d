// Package services provides application-level orchestration services
package services

import (
	"fmt"
	"math"
	"sync"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
	"github.com/drinkmate/drinkmate-go/pkg/config"
)

// PricingService derives promotion state from cart totals: the
// free-shipping progress bar and the free-gift eligibility band. All
// promotion state is computed, never stored with the cart, so a stale
// selection can never outlive the total that justified it.
type PricingService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker

	mu       sync.RWMutex
	options  []cart.FreeGiftProduct
	selected map[string]*cart.FreeGiftProduct // storage key -> chosen gift
}

// NewPricingService creates a new pricing service
func NewPricingService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PricingService {
	return &PricingService{
		logger:      logger,
		perfTracker: perfTracker,
		selected:    make(map[string]*cart.FreeGiftProduct),
	}
}

// SetGiftOptions replaces the catalog of complimentary products offered
// inside the gift band.
func (p *PricingService) SetGiftOptions(options []cart.FreeGiftProduct) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = make([]cart.FreeGiftProduct, len(options))
	copy(p.options, options)
}

// ShippingProgress computes progress toward the free-shipping
// threshold for a cart total. Percentage is clamped to [0,100]; totals
// past the threshold report 100 with zero remaining.
func (p *PricingService) ShippingProgress(total float64) cart.ShippingProgress {
	threshold := config.FreeShippingThreshold

	pct := 0.0
	if threshold > 0 {
		pct = total / threshold * 100
	}
	pct = math.Max(0, math.Min(100, pct))

	remaining := threshold - total
	if remaining < 0 {
		remaining = 0
	}

	return cart.ShippingProgress{
		Threshold:  threshold,
		Total:      total,
		Percentage: pct,
		Remaining:  remaining,
		Reached:    total >= threshold,
	}
}

// GiftState evaluates free-gift eligibility for a storage key at a
// given cart total. The band is half-open: eligible while
// threshold <= total < upperBound. Leaving the band in either
// direction drops any previously chosen gift.
func (p *PricingService) GiftState(key string, total float64) cart.FreeGiftState {
	marker := p.perfTracker.StartOperation("pricing_gift_state")
	defer marker.Complete()

	eligible := total >= config.FreeGiftThreshold && total < config.FreeGiftUpperBound

	p.mu.Lock()
	if !eligible && p.selected[key] != nil {
		delete(p.selected, key)
		p.logger.Pricing().Debug("Gift selection cleared, total left eligibility band", "total", total)
	}
	selected := p.selected[key]
	options := make([]cart.FreeGiftProduct, len(p.options))
	copy(options, p.options)
	p.mu.Unlock()

	marker.SetSuccess(true)
	return cart.FreeGiftState{
		Eligible:     eligible,
		Selected:     selected,
		Options:      options,
		Threshold:    config.FreeGiftThreshold,
		UpperBound:   config.FreeGiftUpperBound,
		CurrentTotal: total,
	}
}

// SelectGift records the chosen complimentary product for a storage
// key. Selection is rejected outside the eligibility band or for a
// product not in the offered options.
func (p *PricingService) SelectGift(key, productID string, total float64) (*cart.FreeGiftState, error) {
	if total < config.FreeGiftThreshold || total >= config.FreeGiftUpperBound {
		return nil, fmt.Errorf("cart total %.2f is outside the gift eligibility band", total)
	}

	p.mu.Lock()
	var chosen *cart.FreeGiftProduct
	for i := range p.options {
		if p.options[i].ID == productID {
			gift := p.options[i]
			chosen = &gift
			break
		}
	}
	if chosen == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("unknown gift product %q", productID)
	}
	p.selected[key] = chosen
	p.mu.Unlock()

	p.logger.Pricing().Info("Free gift selected", "productId", productID)

	state := p.GiftState(key, total)
	return &state, nil
}

// ClearSelection drops any chosen gift for a storage key (cart cleared
// or key evicted).
func (p *PricingService) ClearSelection(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.selected, key)
}
