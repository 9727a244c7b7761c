package entity

type Customer struct {
	ID   int64
	Name string
}
