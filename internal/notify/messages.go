package notify

import "golang.org/x/text/language"

// Messages is the fixed text of the update notification in one language.
type Messages struct {
	Title string
	Body  string
}

var (
	supported = []language.Tag{language.English, language.German}
	catalog   = []Messages{
		{
			Title: "Browser updates available",
			Body:  "New versions of your installed browsers are available.",
		},
		{
			Title: "Browser-Updates verfügbar",
			Body:  "Für deine installierten Browser sind neue Versionen verfügbar.",
		},
	}
	matcher = language.NewMatcher(supported)
)

// UpdateMessages returns the update notification text closest to lang,
// falling back to English.
func UpdateMessages(lang string) Messages {
	tag, err := language.Parse(lang)
	if err != nil {
		return catalog[0]
	}
	_, idx, _ := matcher.Match(tag)
	return catalog[idx]
}

// UpdateNotification builds the update notification for lang.
func UpdateNotification(lang string) Notification {
	m := UpdateMessages(lang)
	return Notification{Title: m.Title, Message: m.Body}
}
