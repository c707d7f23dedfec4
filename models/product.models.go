package models

import (
	"encoding/json"
)

// Product is the canonical product shape used everywhere in the client.
// Backends are duck-typed about the identifier (id, productId, product_id)
// and about the category (a string or an object with a name); decoding
// normalizes both once, here, so no other code has to guess.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       Price    `json:"price"`
	Stock       int      `json:"stock,omitempty"`
	Category    string   `json:"category,omitempty"`
	Images      []string `json:"images,omitempty"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          flexID          `json:"id"`
		ProductID   flexID          `json:"productId"`
		AltID       flexID          `json:"product_id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       Price           `json:"price"`
		Stock       Count           `json:"stock"`
		Category    json.RawMessage `json:"category"`
		Images      []string        `json:"images"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id := raw.ID
	if id == "" {
		id = raw.ProductID
	}
	if id == "" {
		id = raw.AltID
	}

	var category string
	if len(raw.Category) > 0 {
		if err := json.Unmarshal(raw.Category, &category); err != nil {
			var obj struct {
				Name string `json:"name"`
			}
			if json.Unmarshal(raw.Category, &obj) == nil {
				category = obj.Name
			}
		}
	}

	*p = Product{
		ID:          string(id),
		Name:        raw.Name,
		Description: raw.Description,
		Price:       raw.Price,
		Stock:       int(raw.Stock),
		Category:    category,
		Images:      raw.Images,
	}
	return nil
}
