package user

import "strings"

// No role column exists: a user's role is derived from the first character of
// their username. The admin prefix is the single character "a" and therefore
// also matches usernames like "alex"; this loose match is intentional.
const (
	RolePrefixStudent = "s"
	RolePrefixTeacher = "t"
	RolePrefixAdmin   = "a"
)

// adminHomePrefix is the prefix the post-login dispatcher tests. It is the
// full literal "admin", NOT the single-character guard prefix above; the two
// checks are deliberately distinct.
const adminHomePrefix = "admin"

// Landing pages, by role.
const (
	StudentHomePath = "/student/home"
	TeacherHomePath = "/teacher/home"
	AdminHomePath   = "/admin/home"
	IndexPath       = "/"
)

// HasRolePrefix reports whether the lowercased username starts with the given
// role prefix.
func HasRolePrefix(username, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(username), prefix)
}

// HomePath picks the post-login redirect target from the username: "s" goes to
// the student portal, "t" to the teacher portal, the literal prefix "admin" to
// the admin portal, anything else to the landing page. Checks run in that
// order.
func HomePath(username string) string {
	uname := strings.ToLower(username)
	switch {
	case strings.HasPrefix(uname, RolePrefixStudent):
		return StudentHomePath
	case strings.HasPrefix(uname, RolePrefixTeacher):
		return TeacherHomePath
	case strings.HasPrefix(uname, adminHomePrefix):
		return AdminHomePath
	}
	return IndexPath
}
