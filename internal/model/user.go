// internal/model/user.go
package model

type Role string

const (
    RoleAdmin Role = "Admin"
    RoleStaff Role = "Staff"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleStaff }

type User struct {
    ID           string `db:"id" json:"id"`
    Username     string `db:"username" json:"username"`
    Name         string `db:"name" json:"name"`
    Role         Role   `db:"role" json:"role"`
    PasswordHash string `db:"password_hash" json:"-"`
}
