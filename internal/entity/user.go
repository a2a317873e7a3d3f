package entity

import "github.com/ticketx-lab/backend/pkg/enum"

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleUser       = enum.New(GlobalRole("user"))
)

// GlobalAdminRoles are the roles allowed to run privileged operations
// (currency management, draw trigger, payout trigger).
var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

type User struct {
	Base

	Name          string
	WalletAddress string `gorm:"uniqueIndex"`
	Role          GlobalRole
}
