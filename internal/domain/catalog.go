package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageRef points at an asset on the hosted media service. The catalog never
// stores raw file bytes, only the {id,url} pair returned by the host.
type ImageRef struct {
	ID  string `bson:"id" json:"id"`
	URL string `bson:"url" json:"url"`
}

// Category represents a named grouping of products shown on collection pages
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Image       ImageRef           `bson:"image" json:"image"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Product represents a sellable catalog item. A product belongs to exactly
// one category and to at most one variant group.
type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description" json:"description"`
	Images      []ImageRef          `bson:"images" json:"images"`
	CategoryID  primitive.ObjectID  `bson:"category_id" json:"category_id"`
	VariantID   *primitive.ObjectID `bson:"variant_id,omitempty" json:"variant_id,omitempty"`
	ColorCode   string              `bson:"color_code" json:"color_code"`
	ColorName   string              `bson:"color_name" json:"color_name"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// VariantMember is one entry in a variant group: a product reference plus the
// color that distinguishes it from its siblings.
type VariantMember struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	ColorCode string             `bson:"color_code" json:"color_code"`
	ColorName string             `bson:"color_name" json:"color_name"`
}

// Variant is a named group of products sharing a design but differing by
// color. A variant with one or zero members carries no distinguishing
// information and must be deleted (auto-collapse rule).
type Variant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Members   []VariantMember    `bson:"members" json:"members"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CategoryRef is the populated {id,name} projection of a product's category
type CategoryRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// ProductDetail is a product with its category reference and variant
// membership joined in, as served on product detail pages.
type ProductDetail struct {
	Product
	Category CategoryRef `json:"category"`
	Variant  *Variant    `json:"variant,omitempty"`
}
