package entity

const (
	DefaultUserID   = "user-1"
	DefaultUserName = "新人ハンター"
)

// UserProfile is the persisted profile. Level and badges are derived from it
// on read and never stored.
type UserProfile struct {
	ID           string `json:"id" firestore:"id" bson:"id"`
	Name         string `json:"name" firestore:"name" bson:"name"`
	Avatar       string `json:"avatar,omitempty" firestore:"avatar,omitempty" bson:"avatar,omitempty"`
	Points       int    `json:"points" firestore:"points" bson:"points"`
	ReportsCount int    `json:"reportsCount" firestore:"reportsCount" bson:"reportsCount"`
	ReviewsCount int    `json:"reviewsCount" firestore:"reviewsCount" bson:"reviewsCount"`
}

func NewDefaultProfile(userID string) *UserProfile {
	if userID == "" {
		userID = DefaultUserID
	}
	return &UserProfile{
		ID:   userID,
		Name: DefaultUserName,
	}
}

// ProfileUpdate carries the editable profile fields. Nil fields are left as
// they are; counters cannot be set through it.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func (p *UserProfile) Apply(update ProfileUpdate) {
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Avatar != nil {
		p.Avatar = *update.Avatar
	}
}
