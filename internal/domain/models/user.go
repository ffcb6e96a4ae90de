// internal/domain/models/user.go
package models

// User is a backend user record. Admins, members and vendors' linked
// member accounts all share this shape; Role tells them apart.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	Tier         string `json:"tier,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	ImgProfile   string `json:"img_profile,omitempty"`
	ImgNRIC      string `json:"img_nric,omitempty"`
	NRIC         string `json:"nric,omitempty"`
	BirthDate    string `json:"birth_date,omitempty"`
	MemberExpire string `json:"member_expire,omitempty"`
	IsPublic     bool   `json:"is_public"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`
	ClubID       int64  `json:"club_id,omitempty"`
	IsVendor     bool   `json:"is_vendor"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// RoleValue returns the parsed role.
func (u User) RoleValue() Role { return ParseRole(u.Role) }

// StatusValue returns the parsed status.
func (u User) StatusValue() Status { return ParseStatus(u.Status) }
