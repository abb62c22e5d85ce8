package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleVendor
}

func (r Role) String() string { return string(r) }

// ParseRole accepts an empty string as RoleUser, matching signup requests
// that omit the role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleVendor:
		return RoleVendor, nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
}

// RoleFor maps the isVendor login flag to a role.
func RoleFor(isVendor bool) Role {
	if isVendor {
		return RoleVendor
	}
	return RoleUser
}

type BusinessType string

const (
	BusinessFood     BusinessType = "food"
	BusinessGrocery  BusinessType = "grocery"
	BusinessClothing BusinessType = "clothing"
	BusinessCrafts   BusinessType = "crafts"
	BusinessProduce  BusinessType = "produce"
	BusinessOther    BusinessType = "other"
)

// BusinessTypes lists the accepted values, in validator "oneof" order.
var BusinessTypes = []BusinessType{
	BusinessFood, BusinessGrocery, BusinessClothing, BusinessCrafts, BusinessProduce, BusinessOther,
}

func (b BusinessType) Valid() bool {
	for _, t := range BusinessTypes {
		if b == t {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lowercases an address; emails are compared
// case-insensitively everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
