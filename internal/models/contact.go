package models

type Contact struct {
	ID        int64   `db:"id" json:"id"`
	Title     string  `db:"title" json:"title"`
	Person    *string `db:"person" json:"person,omitempty"`
	Phone     *string `db:"phone" json:"phone,omitempty"`
	Email     *string `db:"email" json:"email,omitempty"`
	Address   *string `db:"address" json:"address,omitempty"`
	SortOrder int     `db:"sort_order" json:"sort_order"`
}
