package models

// Book statuses drive placement on the home page.
const (
	BookStatusSelected    = "selected"
	BookStatusRecommended = "recommended"
	BookStatusSuggested   = "suggested"
)

// Book is a catalog document in the books collection. The catalog is
// maintained externally; this service only reads it.
type Book struct {
	ID                   string   `json:"id" firestore:"-"`
	Title                string   `json:"title" firestore:"title"`
	Author               string   `json:"author" firestore:"author"`
	SubTitle             string   `json:"subTitle,omitempty" firestore:"subTitle,omitempty"`
	ImageLink            string   `json:"imageLink,omitempty" firestore:"imageLink,omitempty"`
	AudioLink            string   `json:"audioLink,omitempty" firestore:"audioLink,omitempty"`
	TotalRating          int      `json:"totalRating" firestore:"totalRating"`
	AverageRating        float64  `json:"averageRating" firestore:"averageRating"`
	KeyIdeas             []string `json:"keyIdeas,omitempty" firestore:"keyIdeas,omitempty"`
	Type                 string   `json:"type,omitempty" firestore:"type,omitempty"` // "audio", "text" or "audio & text"
	Status               string   `json:"status,omitempty" firestore:"status,omitempty"`
	SubscriptionRequired bool     `json:"subscriptionRequired" firestore:"subscriptionRequired"`
	Summary              string   `json:"summary,omitempty" firestore:"summary,omitempty"`
	Tags                 []string `json:"tags,omitempty" firestore:"tags,omitempty"`
	BookDescription      string   `json:"bookDescription,omitempty" firestore:"bookDescription,omitempty"`
	AuthorDescription    string   `json:"authorDescription,omitempty" firestore:"authorDescription,omitempty"`
}
