package item

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is the single persisted record: a name, a description and an optional
// image path such as /uploads/1700000000000.png. An empty Image means no image.
type Item struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HasImage reports whether an image path is recorded.
func (i *Item) HasImage() bool { return i.Image != "" }

// Form is the body of the add and edit forms. Missing fields bind as "".
type Form struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

// CreateInput carries everything needed to create an item.
type CreateInput struct {
	Name        string
	Description string
	Image       string
}

// UpdateInput carries an edit. Name and Description always overwrite the
// stored values; Image replaces the stored path only when non-empty.
// There is no way to clear an image.
type UpdateInput struct {
	Name        string
	Description string
	Image       string
}

// CreateInput builds the create input from the form and the uploaded image path ("" when none).
func (f Form) CreateInput(image string) CreateInput {
	return CreateInput{Name: f.Name, Description: f.Description, Image: image}
}

// UpdateInput builds the update input from the form and the uploaded image path ("" when none).
func (f Form) UpdateInput(image string) UpdateInput {
	return UpdateInput{Name: f.Name, Description: f.Description, Image: image}
}
