package entity

import "time"

type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsDelete  bool      `json:"isDelete"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
