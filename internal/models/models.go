package models

import (
	"time"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Principal is an authenticated identity. It is implemented only by *User
// and *Vendor; code that behaves differently per role switches on the
// concrete type.
type Principal interface {
	PrincipalID() uuid.UUID
	PrincipalRole() domain.Role
	PrincipalEmail() string
	isPrincipal()
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Name         string    `gorm:"not null"               json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	Phone        string    `gorm:"not null"               json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Vendor struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"   json:"id"`
	Name         string              `gorm:"not null"               json:"name"`
	Email        string              `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string              `gorm:"not null"               json:"-"`
	Phone        string              `gorm:"not null"               json:"phone"`
	ShopName     string              `gorm:"not null"               json:"shopName"`
	BusinessType domain.BusinessType `gorm:"not null"               json:"businessType"`
	Address      string              `gorm:"not null"               json:"address"`
	IsVerified   bool                `gorm:"default:false"          json:"isVerified"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func (u *User) PrincipalID() uuid.UUID     { return u.ID }
func (u *User) PrincipalRole() domain.Role { return domain.RoleUser }
func (u *User) PrincipalEmail() string     { return u.Email }
func (*User) isPrincipal()                 {}

func (v *Vendor) PrincipalID() uuid.UUID     { return v.ID }
func (v *Vendor) PrincipalRole() domain.Role { return domain.RoleVendor }
func (v *Vendor) PrincipalEmail() string     { return v.Email }
func (*Vendor) isPrincipal()                 {}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = domain.NormalizeEmail(u.Email)
	return nil
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (v *Vendor) BeforeSave(tx *gorm.DB) error {
	v.Email = domain.NormalizeEmail(v.Email)
	return nil
}

func (User) TableName() string   { return "users" }
func (Vendor) TableName() string { return "vendors" }

// All lists the models migrated at start-up.
func All() []any {
	return []any{&User{}, &Vendor{}}
}
