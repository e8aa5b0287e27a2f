package utils

// IsModerator reports whether the member carries the configured moderator role.
func IsModerator(memberRoles []string, moderatorRoleID string) bool {
	for _, roleID := range memberRoles {
		if roleID == moderatorRoleID {
			return true
		}
	}
	return false
}
