package domain

import (
	"encoding/json"
	"fmt"
)

type SelectionMode string

const (
	SelectionRandom   SelectionMode = "random"
	SelectionWeighted SelectionMode = "weighted"
	// SelectionSequential is documented as rotation but resolves exactly like
	// SelectionRandom. Kept that way so already-running experiments keep
	// serving the same pages.
	SelectionSequential SelectionMode = "sequential"
)

type Page struct {
	URL    string  `json:"url"`
	Weight float64 `json:"weight"`
	Active *bool   `json:"active,omitempty"`
}

// IsActive treats a missing flag as active.
func (p Page) IsActive() bool {
	return p.Active == nil || *p.Active
}

type BehaviorKind string

const (
	BehaviorNone            BehaviorKind = "none"
	BehaviorRedirect        BehaviorKind = "redirect"
	BehaviorMultiPage       BehaviorKind = "multipage"
	BehaviorElementOverride BehaviorKind = "element_override"
)

// VariantBehavior is what the client does once a variant is chosen.
// Exactly one of the concrete types below implements it.
type VariantBehavior interface {
	Kind() BehaviorKind
}

type NoBehavior struct{}

func (NoBehavior) Kind() BehaviorKind { return BehaviorNone }

type RedirectBehavior struct {
	URL string `json:"url"`
}

func (RedirectBehavior) Kind() BehaviorKind { return BehaviorRedirect }

type MultiPageBehavior struct {
	Pages       []Page        `json:"pages"`
	Mode        SelectionMode `json:"selection_mode"`
	FallbackURL string        `json:"fallback_url,omitempty"`
}

func (MultiPageBehavior) Kind() BehaviorKind { return BehaviorMultiPage }

// ActivePages drops pages explicitly flagged inactive, preserving order.
func (b MultiPageBehavior) ActivePages() []Page {
	out := make([]Page, 0, len(b.Pages))
	for _, p := range b.Pages {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out
}

// ElementOverrideBehavior is handed to the client as data. The engine never
// evaluates CSS or JS.
type ElementOverrideBehavior struct {
	CSS string `json:"css,omitempty"`
	JS  string `json:"js,omitempty"`
}

func (ElementOverrideBehavior) Kind() BehaviorKind { return BehaviorElementOverride }

// variantChanges is the stored shape of the variants.changes column.
type variantChanges struct {
	MultiPage     bool          `json:"multipage"`
	Pages         []Page        `json:"pages"`
	SelectionMode SelectionMode `json:"selection_mode"`
	CSS           string        `json:"css"`
	JS            string        `json:"js"`
}

// Behavior decodes the changes blob into a VariantBehavior.
func (v Variant) Behavior() (VariantBehavior, error) {
	var ch variantChanges
	if len(v.Changes) > 0 && string(v.Changes) != "null" {
		if err := json.Unmarshal(v.Changes, &ch); err != nil {
			return NoBehavior{}, fmt.Errorf("decode changes for variant %s: %w", v.ID, err)
		}
	}

	switch {
	case ch.MultiPage:
		return MultiPageBehavior{
			Pages:       ch.Pages,
			Mode:        ch.SelectionMode,
			FallbackURL: v.RedirectURL,
		}, nil
	case v.RedirectURL != "":
		return RedirectBehavior{URL: v.RedirectURL}, nil
	case ch.CSS != "" || ch.JS != "":
		return ElementOverrideBehavior{CSS: ch.CSS, JS: ch.JS}, nil
	default:
		return NoBehavior{}, nil
	}
}
