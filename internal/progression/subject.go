package progression

import "strings"

// Subject is a quiz topic offered on the home screen.
type Subject struct {
	Name        string
	Icon        string
	Description string
}

// DefaultSubjects lists the playable subjects in menu order.
var DefaultSubjects = []Subject{
	{Name: "Science", Icon: "🧬", Description: "Explore the wonders of the natural world."},
	{Name: "Math", Icon: "🧮", Description: "Challenge your numerical and logical skills."},
	{Name: "History", Icon: "📜", Description: "Travel back in time and uncover the past."},
	{Name: "General Knowledge", Icon: "🌍", Description: "Test your knowledge on a wide range of topics."},
}

// FindSubject matches a subject by name, ignoring case and surrounding space.
func FindSubject(name string) (Subject, bool) {
	name = strings.TrimSpace(name)
	for _, s := range DefaultSubjects {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Subject{}, false
}

// SubjectNames returns the names of the default subjects.
func SubjectNames() []string {
	names := make([]string, len(DefaultSubjects))
	for i, s := range DefaultSubjects {
		names[i] = s.Name
	}
	return names
}
