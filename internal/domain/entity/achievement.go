package entity

const (
	PointsPerReport = 10
	PointsPerReview = 5
	PointsPerLevel  = 50
)

// Level is a display tier derived from cumulative points.
func Level(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// NextLevelPoints is the point total at which the next level starts.
func NextLevelPoints(points int) int {
	return Level(points) * PointsPerLevel
}

type AchievementCategory string

const (
	AchievementCategoryReporting AchievementCategory = "reporting"
	AchievementCategoryReviewing AchievementCategory = "reviewing"
	AchievementCategoryMilestone AchievementCategory = "milestone"
)

type AchievementRequirement struct {
	Type  string `json:"type"` // reports_count, reviews_count, level
	Value int    `json:"value"`
}

type Achievement struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Icon        string                 `json:"icon"`
	Category    AchievementCategory    `json:"category"`
	Requirement AchievementRequirement `json:"requirement"`
}

type AchievementProgress struct {
	Current   int  `json:"current"`
	Target    int  `json:"target"`
	Completed bool `json:"completed"`
}

type BadgeStatus struct {
	Achievement Achievement         `json:"achievement"`
	Unlocked    bool                `json:"unlocked"`
	Progress    AchievementProgress `json:"progress"`
}

// Badges is the fixed achievement catalogue.
var Badges = []Achievement{
	{
		ID:          "first_report",
		Title:       "First Report",
		Description: "Submit your first sighting",
		Icon:        "camera",
		Category:    AchievementCategoryReporting,
		Requirement: AchievementRequirement{Type: "reports_count", Value: 1},
	},
	{
		ID:          "reviewer",
		Title:       "Reviewer",
		Description: "Review 10 reports",
		Icon:        "check",
		Category:    AchievementCategoryReviewing,
		Requirement: AchievementRequirement{Type: "reviews_count", Value: 10},
	},
	{
		ID:          "expert",
		Title:       "Expert Hunter",
		Description: "Reach level 5",
		Icon:        "star",
		Category:    AchievementCategoryMilestone,
		Requirement: AchievementRequirement{Type: "level", Value: 5},
	},
}

func (a Achievement) ProgressFor(p *UserProfile) AchievementProgress {
	var current int
	switch a.Requirement.Type {
	case "reports_count":
		current = p.ReportsCount
	case "reviews_count":
		current = p.ReviewsCount
	case "level":
		current = Level(p.Points)
	}
	return AchievementProgress{
		Current:   current,
		Target:    a.Requirement.Value,
		Completed: current >= a.Requirement.Value,
	}
}

// ProfileStatus is the read model served to clients.
type ProfileStatus struct {
	Profile         *UserProfile  `json:"profile"`
	Level           int           `json:"level"`
	NextLevelPoints int           `json:"nextLevelPoints"`
	Badges          []BadgeStatus `json:"badges"`
	UnlockedBadges  []string      `json:"unlockedBadges"`
}

func NewProfileStatus(p *UserProfile) *ProfileStatus {
	status := &ProfileStatus{
		Profile:         p,
		Level:           Level(p.Points),
		NextLevelPoints: NextLevelPoints(p.Points),
		Badges:          make([]BadgeStatus, 0, len(Badges)),
		UnlockedBadges:  []string{},
	}
	for _, a := range Badges {
		progress := a.ProgressFor(p)
		status.Badges = append(status.Badges, BadgeStatus{
			Achievement: a,
			Unlocked:    progress.Completed,
			Progress:    progress,
		})
		if progress.Completed {
			status.UnlockedBadges = append(status.UnlockedBadges, a.ID)
		}
	}
	return status
}
