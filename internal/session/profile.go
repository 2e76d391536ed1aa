package session

// Profile is the normalized identity record seeded into client state.
type Profile struct {
	Role     Role
	UserName string
}

// ProfileFromPayload extracts a normalized Profile from a raw authentication
// response body.
//
// The upstream login response nests user fields under "user"; verify-style
// responses carry them at the top level. Both shapes are accepted.
func ProfileFromPayload(payload map[string]any) Profile {
	fields := payload
	if user, ok := payload["user"].(map[string]any); ok {
		fields = user
	}

	var profile Profile
	if category, ok := fields["role_category"].(string); ok {
		profile.Role = NormalizeRole(category)
	}
	if name, ok := fields["name"].(string); ok {
		profile.UserName = name
	}
	return profile
}

// MergeProfile returns a shallow copy of payload with the normalized role
// attached under "profile". Unrecognized payload fields pass through
// untouched.
func MergeProfile(payload map[string]any, profile Profile) map[string]any {
	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged["profile"] = string(profile.Role)
	return merged
}
