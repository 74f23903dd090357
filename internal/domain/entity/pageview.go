package entity

import "time"

// PageView is a single recorded visit to a frontend path.
type PageView struct {
	ID        string    `bson:"_id,omitempty"`
	Path      string    `bson:"path"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewPageView(path string) *PageView {
	return &PageView{
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
}
