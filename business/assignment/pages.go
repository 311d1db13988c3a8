package assignment

import (
	"math"

	"splitHub/business/bandit"
	"splitHub/domain"
	"splitHub/pkg/logger"
)

const (
	pageSelectionSalt = "page_selection"
	pageWeightScale   = 10000
)

// SelectPage picks the URL a visitor lands on inside a multi-page variant.
// The choice is recomputed on every call; it stays stable for a visitor as
// long as the page list does not change.
//
// "sequential" resolves exactly like "random". It has always behaved that
// way in production and switching to real rotation would move visitors
// between pages mid-experiment.
func SelectPage(b domain.MultiPageBehavior, visitorID string) string {
	pages := b.ActivePages()
	switch len(pages) {
	case 0:
		return b.FallbackURL
	case 1:
		return pages[0].URL
	}

	key := visitorID + pageSelectionSalt

	switch b.Mode {
	case domain.SelectionRandom, domain.SelectionSequential:
		return pages[bandit.HashMod(key, len(pages))].URL
	case domain.SelectionWeighted:
		return weightedPage(pages, bandit.Hash(key)).URL
	default:
		return pages[0].URL
	}
}

// weightedPage scales h into [0, totalWeight) and walks the pages,
// subtracting weights until the remainder is no longer positive.
func weightedPage(pages []domain.Page, h uint32) domain.Page {
	total := 0.0
	for _, p := range pages {
		total += pageWeight(p)
	}

	remainder := float64(h%pageWeightScale) / pageWeightScale * total
	for _, p := range pages {
		remainder -= pageWeight(p)
		if remainder <= 0 {
			return p
		}
	}
	return pages[len(pages)-1]
}

// pageWeight defaults unset or unusable weights to 1.
func pageWeight(p domain.Page) float64 {
	if p.Weight <= 0 || math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) {
		return 1
	}
	return p.Weight
}

// ResolveURL returns the behavior kind and final URL for a visitor.
// Element overrides and plain variants have no URL.
func ResolveURL(v domain.Variant, visitorID string) (domain.BehaviorKind, string) {
	behavior, err := v.Behavior()
	if err != nil {
		logger.Warn("variant changes undecodable, using redirect url",
			"variant_id", v.ID,
			"error", err,
		)
		if v.RedirectURL != "" {
			return domain.BehaviorRedirect, v.RedirectURL
		}
		return domain.BehaviorNone, ""
	}

	switch b := behavior.(type) {
	case domain.MultiPageBehavior:
		return b.Kind(), SelectPage(b, visitorID)
	case domain.RedirectBehavior:
		return b.Kind(), b.URL
	default:
		return behavior.Kind(), ""
	}
}
