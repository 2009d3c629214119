package domain

import "time"

type Product struct {
	ID           int64
	Code         string
	Name         string
	ImageURL     string
	CategoryName string
	SalePrice    Money
	Stock        int32

	CreatedAt time.Time
}

type Customer struct {
	ID       int64
	FullName string
	Email    string
}
