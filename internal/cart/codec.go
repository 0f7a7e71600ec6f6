package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/extract-cart/internal/domain"
	"golang.org/x/text/currency"
)

// stateVersion is bumped whenever persistedState changes incompatibly.
const stateVersion = 1

type persistedState struct {
	State   persistedCart `json:"state"`
	Version int           `json:"version"`
}

type persistedCart struct {
	Items []persistedItem `json:"items"`
}

type persistedItem struct {
	ID        uuid.UUID        `json:"id"`
	Product   persistedProduct `json:"product"`
	Quantity  int              `json:"quantity"`
	CreatedAt time.Time        `json:"createdAt"`
}

type persistedProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Currency string `json:"currency,omitempty"`
	ImageURL string `json:"imageUrl"`
	Origin   string `json:"origin"`
}

func encodeState(items []domain.CartItem) (string, error) {
	state := persistedState{
		State:   persistedCart{Items: make([]persistedItem, 0, len(items))},
		Version: stateVersion,
	}

	for _, item := range items {
		state.State.Items = append(state.State.Items, mapItemToPersisted(item))
	}

	b, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(b), nil
}

// decodeState rebuilds the items of a persisted cart. Visibility is never
// restored, a decoded cart always starts closed.
func decodeState(value string) (domain.Cart, error) {
	var state persistedState
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if state.Version > stateVersion {
		return domain.Cart{}, fmt.Errorf("state version[%d] is newer than supported[%d]", state.Version, stateVersion)
	}

	items, err := mapPersistedItemsToDomain(state.State.Items)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapPersistedItemsToDomain: %w", err)
	}

	return domain.Cart{Items: items}, nil
}

func mapItemToPersisted(item domain.CartItem) persistedItem {
	var unit string
	if item.Product.Currency != (currency.Unit{}) {
		unit = item.Product.Currency.String()
	}

	return persistedItem{
		ID: item.ID,
		Product: persistedProduct{
			ID:       item.Product.ID,
			Name:     item.Product.Name,
			Price:    item.Product.Price,
			Currency: unit,
			ImageURL: item.Product.ImageURL,
			Origin:   item.Product.Origin,
		},
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
	}
}

func mapPersistedItemToDomain(item persistedItem) (domain.CartItem, error) {
	if item.ID == uuid.Nil {
		return domain.CartItem{}, fmt.Errorf("line id is empty")
	}

	if item.Quantity < 1 {
		return domain.CartItem{}, fmt.Errorf("quantity[%d] of product[%s] is below 1", item.Quantity, item.Product.ID)
	}

	var unit currency.Unit
	if item.Product.Currency != "" {
		parsed, err := currency.ParseISO(item.Product.Currency)
		if err != nil {
			return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", item.Product.Currency, err)
		}
		unit = parsed
	}

	return domain.CartItem{
		ID: item.ID,
		Product: domain.Product{
			ID:       item.Product.ID,
			Name:     item.Product.Name,
			Price:    item.Product.Price,
			Currency: unit,
			ImageURL: item.Product.ImageURL,
			Origin:   item.Product.Origin,
		},
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
	}, nil
}

func mapPersistedItemsToDomain(items []persistedItem) ([]domain.CartItem, error) {
	var result []domain.CartItem
	seen := make(map[string]struct{}, len(items))

	for _, persisted := range items {
		item, err := mapPersistedItemToDomain(persisted)
		if err != nil {
			return nil, fmt.Errorf("mapPersistedItemToDomain: %w", err)
		}

		if _, dup := seen[item.Product.ID]; dup {
			return nil, fmt.Errorf("product[%s] appears in more than one line", item.Product.ID)
		}
		seen[item.Product.ID] = struct{}{}

		result = append(result, item)
	}

	return result, nil
}
