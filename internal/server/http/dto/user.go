package dto

// UpdateProfileRequest carries optional profile edits. Absent fields stay
// unchanged.
type UpdateProfileRequest struct {
	Name         *string         `json:"name"`
	Phone        *string         `json:"phone"`
	Address      *AddressPayload `json:"address"`
	ProfileImage *string         `json:"profileImage"`
}

// ChangePasswordRequest carries a password rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
