package placeholder

import "strings"

// FilterUsers keeps users whose name, email or username contains term,
// ignoring case. A blank term returns users unchanged.
func FilterUsers(users []User, term string) []User {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return users
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) ||
			strings.Contains(strings.ToLower(u.Username), needle) {
			out = append(out, u)
		}
	}
	return out
}
