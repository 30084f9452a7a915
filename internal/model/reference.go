// internal/model/reference.go
package model

type Branch struct {
    ID       string `db:"id" json:"id"`
    Name     string `db:"name" json:"name"`
    Location string `db:"location" json:"location"`
}

type Category struct {
    ID   string `db:"id" json:"id"`
    Name string `db:"name" json:"name"`
}

type EventType struct {
    ID   string `db:"id" json:"id"`
    Name string `db:"name" json:"name"`
}
